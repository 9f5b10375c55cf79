package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Credentials are the fields the login endpoint expects.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration are the fields the register endpoint expects.
type Registration struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	JobRole  string `json:"job_role,omitempty"`
	Language string `json:"language,omitempty"`
}

// Register creates an account and persists the returned token.
func (c *Client) Register(ctx context.Context, reg Registration) (Envelope, error) {
	return c.authenticate(ctx, "/auth/register", reg)
}

// Login exchanges credentials for a token and persists it.
func (c *Client) Login(ctx context.Context, creds Credentials) (Envelope, error) {
	return c.authenticate(ctx, "/auth/login", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (Envelope, error) {
	resp, err := c.send(ctx, request{method: http.MethodPost, path: path, body: body})
	if err != nil {
		return Envelope{}, err
	}

	if token := extractToken(resp.body); token != "" && c.session != nil {
		if err := c.session.SetToken(token); err != nil {
			return Envelope{}, fmt.Errorf("persisting session token: %w", err)
		}
	}
	return Normalize(resp.body), nil
}

// extractToken finds the bearer token at the top level or inside data.
func extractToken(body []byte) string {
	for _, path := range []string{"token", "data.token", "accessToken", "data.accessToken"} {
		if t := gjson.GetBytes(body, path); t.Type == gjson.String && t.String() != "" {
			return t.String()
		}
	}
	return ""
}

// Logout clears the persisted token. The server is not called.
func (c *Client) Logout(_ context.Context) (Envelope, error) {
	if c.session != nil {
		if err := c.session.ClearToken(); err != nil {
			return Envelope{}, fmt.Errorf("clearing session token: %w", err)
		}
	}
	return Envelope{Success: true}, nil
}

// Me fetches the authenticated user.
func (c *Client) Me(ctx context.Context) (Envelope, error) {
	return c.call(ctx, request{method: http.MethodGet, path: "/auth/me"})
}

// UpdateMe sends a partial update of the authenticated user.
func (c *Client) UpdateMe(ctx context.Context, patch any) (Envelope, error) {
	return c.call(ctx, request{method: http.MethodPut, path: "/auth/me", body: patch})
}
