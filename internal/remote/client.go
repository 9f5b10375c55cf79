package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/flowboard/internal/credential"
)

// DefaultLoginRoute is where the client is sent when the session expires.
const DefaultLoginRoute = "/login"

// Navigator moves the user to another route of the application, e.g. the
// login screen after a 401.
type Navigator func(route string)

// Client is a thin HTTP client for the Flowboard REST API. It attaches the
// persisted session token as a Bearer header and normalizes every response
// and error. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    credential.TokenStore
	loginRoute string
	navigate   Navigator
	logger     logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing and session teardown.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNavigator sets the hook invoked with the login route after a 401.
func WithNavigator(n Navigator) Option {
	return func(c *Client) {
		c.navigate = n
	}
}

// WithLoginRoute overrides DefaultLoginRoute.
func WithLoginRoute(route string) Option {
	return func(c *Client) {
		if route != "" {
			c.loginRoute = route
		}
	}
}

// New creates a client for the API rooted at baseURL
// (e.g. http://localhost:8080/api).
func New(baseURL string, session credential.TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		session:    session,
		loginRoute: DefaultLoginRoute,
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.navigate == nil {
		logger := c.logger
		c.navigate = func(route string) {
			logger.WithField("route", route).Warn("session expired, login required")
		}
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one HTTP call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	accept string
}

// response is a successful HTTP exchange.
type response struct {
	status int
	header http.Header
	body   []byte
}

// send performs the call and returns the raw response body.
func (c *Client) send(ctx context.Context, r request) (*response, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var bodyReader io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	accept := r.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			Method:  r.method,
			Path:    r.path,
			Message: err.Error(),
			Err:     err,
		}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     r.method,
			Path:       r.path,
			Message:    "reading response body: " + readErr.Error(),
			Err:        readErr,
		}
	}

	c.logger.WithFields(logrus.Fields{
		"method": r.method,
		"path":   r.path,
		"status": resp.StatusCode,
	}).Debug("api request")

	if resp.StatusCode == http.StatusUnauthorized {
		c.endSession()
		return nil, newStatusError(r.method, r.path, resp.StatusCode, respBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(r.method, r.path, resp.StatusCode, respBody)
	}

	return &response{
		status: resp.StatusCode,
		header: resp.Header,
		body:   respBody,
	}, nil
}

// call performs the request and normalizes the body.
func (c *Client) call(ctx context.Context, r request) (Envelope, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return Envelope{}, err
	}
	return Normalize(resp.body), nil
}

// token reads the persisted session token. A keyring failure is treated
// as an absent token.
func (c *Client) token() string {
	if c.session == nil {
		return ""
	}
	token, err := c.session.Token()
	if err != nil {
		c.logger.WithError(err).Warn("reading session token")
		return ""
	}
	return token
}

// endSession clears the persisted token and sends the user to login.
func (c *Client) endSession() {
	if c.session != nil {
		if err := c.session.ClearToken(); err != nil {
			c.logger.WithError(err).Warn("clearing session token")
		}
	}
	c.navigate(c.loginRoute)
}
