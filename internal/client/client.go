// Package client is the single data-access surface of Flowboard. Each call
// goes to the REST backend when one is configured and falls back to the
// local store when it fails, so callers see one behaviour in both modes.
package client

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/flowboard/internal/credential"
	"github.com/nhle/flowboard/internal/model"
	"github.com/nhle/flowboard/internal/remote"
	"github.com/nhle/flowboard/internal/store"
)

// Base latencies of the simulated local backend, scaled by the latency
// factor.
const (
	defaultLatency    = 200 * time.Millisecond
	logoutLatency     = 50 * time.Millisecond
	transitionLatency = 150 * time.Millisecond
	reportLatency     = 300 * time.Millisecond
	llmLatency        = 400 * time.Millisecond
	uploadLatency     = 200 * time.Millisecond
	imageLatency      = 300 * time.Millisecond
	extractLatency    = 300 * time.Millisecond
	signedURLLatency  = 100 * time.Millisecond
)

// FallbackEvent describes a remote call that failed and was served from the
// local store instead.
type FallbackEvent struct {
	Collection string
	Operation  string
	Err        error
}

// Client is the unified data facade.
type Client struct {
	Auth         *Auth
	Entities     *Entities
	Integrations Integrations
	Functions    *Functions
	Chatbot      *Chatbot

	store      store.Store
	remote     *remote.Client
	session    credential.TokenStore
	logger     logrus.FieldLogger
	onFallback func(FallbackEvent)
	latency    float64
	now        func() time.Time
	signingKey []byte
}

// Integrations groups the external-service stand-ins.
type Integrations struct {
	Core *Core
}

// Option configures a Client.
type Option func(*Client)

// WithRemote routes every call to the REST backend first. Without it the
// client runs in mock mode.
func WithRemote(r *remote.Client) Option {
	return func(c *Client) {
		c.remote = r
	}
}

// WithSession sets the token store cleared on logout in mock mode.
func WithSession(s credential.TokenStore) Option {
	return func(c *Client) {
		c.session = s
	}
}

// WithLogger sets the logger that receives fallback warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// OnFallback registers fn to be called every time a remote failure is
// served from the local store.
func OnFallback(fn func(FallbackEvent)) Option {
	return func(c *Client) {
		c.onFallback = fn
	}
}

// WithLatencyFactor scales the simulated latency of local calls. Zero
// disables it.
func WithLatencyFactor(f float64) Option {
	return func(c *Client) {
		if f >= 0 {
			c.latency = f
		}
	}
}

// WithClock replaces time.Now for timestamps and signed URL expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithSigningKey sets the HMAC key for signed file URLs. A random key is
// generated when none is given.
func WithSigningKey(key []byte) Option {
	return func(c *Client) {
		if len(key) > 0 {
			c.signingKey = key
		}
	}
}

// New creates a facade over the local store s.
func New(s store.Store, opts ...Option) *Client {
	c := &Client{
		store:   s,
		logger:  logrus.StandardLogger(),
		latency: 1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Entities = newEntities(c)
	c.Auth = &Auth{c: c}
	c.Integrations = Integrations{Core: newCore(c)}
	c.Functions = newFunctions(c)
	c.Chatbot = &Chatbot{c: c}
	return c
}

// MockMode reports whether calls skip the remote backend.
func (c *Client) MockMode() bool {
	return c.remote == nil
}

// Store returns the local store backing mock mode and fallbacks.
func (c *Client) Store() store.Store {
	return c.store
}

// Close releases the local store.
func (c *Client) Close() error {
	return c.store.Close()
}

// fellBack records a remote failure that is about to be masked.
func (c *Client) fellBack(collection, operation string, err error) {
	c.logger.WithFields(logrus.Fields{
		"collection": collection,
		"operation":  operation,
		"error":      err,
	}).Warn("api call failed, using local store")

	if c.onFallback != nil {
		c.onFallback(FallbackEvent{
			Collection: collection,
			Operation:  operation,
			Err:        err,
		})
	}
}

// decodeRecord converts a stored record into T. Values that do not fit T
// are dropped with a warning; the stored record keeps them.
func decodeRecord[T any](c *Client, collection string, r model.Record) (*T, error) {
	v, dropped, err := model.DecodeTolerant[T](r)
	if len(dropped) > 0 {
		c.warnDropped(collection, r.ID(), dropped)
	}
	return v, err
}

func decodeRecords[T any](c *Client, collection string, records []model.Record) ([]T, error) {
	out, dropped, err := model.DecodeAllTolerant[T](records)
	for id, fields := range dropped {
		c.warnDropped(collection, id, fields)
	}
	return out, err
}

func (c *Client) warnDropped(collection, id string, fields []string) {
	c.logger.WithFields(logrus.Fields{
		"collection": collection,
		"id":         id,
		"fields":     fields,
	}).Warn("record fields do not fit the entity type, ignoring them")
}

// pause waits for the scaled latency or until ctx is done.
func (c *Client) pause(ctx context.Context, base time.Duration) error {
	d := time.Duration(float64(base) * c.latency)
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// attempt runs remoteCall when a backend is configured and returns its
// result on success. Otherwise, or after a remote failure, it waits the
// simulated latency and runs localCall.
func attempt[T any](
	ctx context.Context,
	c *Client,
	collection, operation string,
	latency time.Duration,
	remoteCall func(r *remote.Client) (T, error),
	localCall func() (T, error),
) (T, error) {
	if c.remote != nil && remoteCall != nil {
		v, err := remoteCall(c.remote)
		if err == nil {
			return v, nil
		}
		c.fellBack(collection, operation, err)
	}

	if err := c.pause(ctx, latency); err != nil {
		var zero T
		return zero, err
	}
	return localCall()
}
