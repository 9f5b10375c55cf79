package client

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/nhle/flowboard/internal/remote"
)

const (
	// UploadTTL is how long an uploaded file stays reachable by its URL.
	UploadTTL = 30 * time.Minute

	uploadScheme     = "blob:flowboard/"
	placeholderImage = "https://via.placeholder.com/512x512.png?text=Mock+Image"
	signedURLBase    = "https://files.flowboard.local/signed"
	defaultSender    = "Flowboard <noreply@flowboard.local>"
	llmPreviewRunes  = 300
)

// ErrInvalidSignedURL is returned when a signed file URL is malformed,
// forged or expired.
var ErrInvalidSignedURL = errors.New("invalid signed url")

// LLMRequest is the input of InvokeLLM.
type LLMRequest struct {
	Prompt             string
	AddContextFromWeb  bool
	ResponseJSONSchema map[string]any
}

// File is an uploaded file held for the session.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadResult is returned by UploadFile and UploadPrivateFile.
type UploadResult struct {
	FileURL string `json:"file_url"`
}

// Email is a message handed to SendEmail.
type Email struct {
	From    string
	To      string
	Subject string
	Body    string
}

// OutboxMessage is a composed email kept in the local outbox.
type OutboxMessage struct {
	ID      string
	To      []string
	Subject string
	Raw     []byte
	SentAt  time.Time
}

// ImageResult is returned by GenerateImage.
type ImageResult struct {
	URL string `json:"url"`
}

// SignedURLResult is returned by CreateFileSignedURL.
type SignedURLResult struct {
	URL string `json:"url"`
}

// Core stands in for the AI, file and email services of the hosted
// backend. Everything it does stays inside the process.
type Core struct {
	c       *Client
	uploads *cache.Cache
	key     []byte

	mu     sync.Mutex
	outbox []OutboxMessage
}

func newCore(c *Client) *Core {
	key := c.signingKey
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			key = []byte(uuid.NewString())
		}
	}
	return &Core{
		c:       c,
		uploads: cache.New(UploadTTL, 10*time.Minute),
		key:     key,
	}
}

// InvokeLLM returns a canned reply that quotes the start of the prompt.
func (core *Core) InvokeLLM(ctx context.Context, req LLMRequest) (string, error) {
	if err := core.c.pause(ctx, llmLatency); err != nil {
		return "", err
	}

	prompt := []rune(req.Prompt)
	if len(prompt) > llmPreviewRunes {
		prompt = prompt[:llmPreviewRunes]
	}
	return "This is a mock response so the app works without an AI service.\n\n" +
		"Summary of your message:\n" +
		string(prompt), nil
}

// UploadFile keeps f for the session and returns a URL that OpenFile
// resolves. A nil file yields an empty URL.
func (core *Core) UploadFile(ctx context.Context, f *File) (UploadResult, error) {
	return core.upload(ctx, f)
}

// UploadPrivateFile behaves like UploadFile.
func (core *Core) UploadPrivateFile(ctx context.Context, f *File) (UploadResult, error) {
	return core.upload(ctx, f)
}

func (core *Core) upload(ctx context.Context, f *File) (UploadResult, error) {
	if err := core.c.pause(ctx, uploadLatency); err != nil {
		return UploadResult{}, err
	}
	if f == nil {
		return UploadResult{}, nil
	}

	fileURL := uploadScheme + uuid.NewString()
	stored := *f
	stored.Data = bytes.Clone(f.Data)
	core.uploads.Set(fileURL, stored, cache.DefaultExpiration)
	return UploadResult{FileURL: fileURL}, nil
}

// OpenFile returns the file behind an upload URL while it is still held.
func (core *Core) OpenFile(fileURL string) (File, bool) {
	v, ok := core.uploads.Get(fileURL)
	if !ok {
		return File{}, false
	}
	f, ok := v.(File)
	return f, ok
}

// SendEmail composes the message and appends it to the local outbox.
func (core *Core) SendEmail(ctx context.Context, e Email) (remote.Envelope, error) {
	if err := core.c.pause(ctx, defaultLatency); err != nil {
		return remote.Envelope{}, err
	}

	msg, err := core.compose(e)
	if err != nil {
		return remote.Envelope{}, err
	}

	core.mu.Lock()
	core.outbox = append(core.outbox, msg)
	core.mu.Unlock()
	return remote.Envelope{Success: true}, nil
}

func (core *Core) compose(e Email) (OutboxMessage, error) {
	from := e.From
	if from == "" {
		from = defaultSender
	}
	fromAddrs, err := mail.ParseAddressList(from)
	if err != nil {
		return OutboxMessage{}, fmt.Errorf("parsing sender %q: %w", from, err)
	}
	toAddrs, err := mail.ParseAddressList(e.To)
	if err != nil {
		return OutboxMessage{}, fmt.Errorf("parsing recipients %q: %w", e.To, err)
	}

	id := uuid.NewString()
	sentAt := core.c.now()

	var h mail.Header
	h.SetDate(sentAt)
	h.SetAddressList("From", fromAddrs)
	h.SetAddressList("To", toAddrs)
	h.SetSubject(e.Subject)
	h.SetMessageID(id + "@flowboard.local")
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return OutboxMessage{}, fmt.Errorf("creating message: %w", err)
	}
	if _, err := io.WriteString(w, e.Body); err != nil {
		return OutboxMessage{}, fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return OutboxMessage{}, fmt.Errorf("closing message: %w", err)
	}

	to := make([]string, 0, len(toAddrs))
	for _, a := range toAddrs {
		to = append(to, a.Address)
	}
	return OutboxMessage{
		ID:      id,
		To:      to,
		Subject: e.Subject,
		Raw:     buf.Bytes(),
		SentAt:  sentAt,
	}, nil
}

// Outbox returns the messages sent so far, oldest first.
func (core *Core) Outbox() []OutboxMessage {
	core.mu.Lock()
	defer core.mu.Unlock()
	out := make([]OutboxMessage, len(core.outbox))
	copy(out, core.outbox)
	return out
}

// GenerateImage returns a placeholder image URL.
func (core *Core) GenerateImage(ctx context.Context, prompt string) (ImageResult, error) {
	if err := core.c.pause(ctx, imageLatency); err != nil {
		return ImageResult{}, err
	}
	return ImageResult{URL: placeholderImage}, nil
}

// ExtractDataFromUploadedFile reports success with an empty data object.
func (core *Core) ExtractDataFromUploadedFile(
	ctx context.Context,
	fileURL string,
	schema map[string]any,
) (remote.Envelope, error) {
	if err := core.c.pause(ctx, extractLatency); err != nil {
		return remote.Envelope{}, err
	}
	return remote.Envelope{Success: true, Data: []byte("{}")}, nil
}

// CreateFileSignedURL returns a URL for fileURL carrying an HS256 token
// that expires after ttl.
func (core *Core) CreateFileSignedURL(
	ctx context.Context,
	fileURL string,
	ttl time.Duration,
) (SignedURLResult, error) {
	if err := core.c.pause(ctx, signedURLLatency); err != nil {
		return SignedURLResult{}, err
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	now := core.c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fileURL,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString(core.key)
	if err != nil {
		return SignedURLResult{}, fmt.Errorf("signing file url: %w", err)
	}

	q := url.Values{}
	q.Set("token", signed)
	return SignedURLResult{URL: signedURLBase + "?" + q.Encode()}, nil
}

// VerifyFileSignedURL checks a URL made by CreateFileSignedURL and returns
// the file URL it grants access to.
func (core *Core) VerifyFileSignedURL(signedURL string) (string, error) {
	u, err := url.Parse(signedURL)
	if err != nil || !strings.HasPrefix(signedURL, signedURLBase) {
		return "", ErrInvalidSignedURL
	}
	raw := u.Query().Get("token")
	if raw == "" {
		return "", ErrInvalidSignedURL
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(raw, claims,
		func(token *jwt.Token) (any, error) {
			return core.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(core.c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignedURL, err)
	}
	return claims.Subject, nil
}
