package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "flowboard"

// DefaultTokenKey is the fixed name the session token is stored under.
const DefaultTokenKey = "token"

// TokenStore persists the bearer token of the current session.
type TokenStore interface {
	// Token returns the stored token, or "" when there is none.
	Token() (string, error)
	SetToken(token string) error
	// ClearToken removes the token. Clearing an absent token is not an error.
	ClearToken() error
}

// Session is a TokenStore backed by a keyring.
type Session struct {
	ring keyring.Keyring
	key  string
}

// Open returns a Session backed by the system keyring. fileDir is used by
// the encrypted-file backend when no OS keychain is available.
func Open(key, fileDir string) (*Session, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt("flowboard-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewSession(ring, key), nil
}

// NewMemorySession returns a Session that lives only in process memory.
func NewMemorySession(key string) *Session {
	return NewSession(keyring.NewArrayKeyring(nil), key)
}

// NewSession wraps an existing keyring.
func NewSession(ring keyring.Keyring, key string) *Session {
	if key == "" {
		key = DefaultTokenKey
	}
	return &Session{ring: ring, key: key}
}

// Token retrieves the session token from the keyring.
func (s *Session) Token() (string, error) {
	item, err := s.ring.Get(s.key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", s.key, err)
	}
	return string(item.Data), nil
}

// SetToken stores the session token in the keyring.
func (s *Session) SetToken(token string) error {
	err := s.ring.Set(keyring.Item{
		Key:         s.key,
		Data:        []byte(token),
		Label:       "Flowboard session",
		Description: "Bearer token for the Flowboard API",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", s.key, err)
	}
	return nil
}

// ClearToken removes the session token from the keyring.
func (s *Session) ClearToken() error {
	err := s.ring.Remove(s.key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", s.key, err)
	}
	return nil
}
