package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Envelope is the single response shape every remote call is normalized to.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message"`
}

// Normalize turns a raw response body into an Envelope. Bodies that already
// carry a "success" field pass through; anything else becomes the data of a
// successful envelope.
func Normalize(body []byte) Envelope {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return Envelope{Success: true}
	}

	if !gjson.Valid(trimmed) {
		text, _ := json.Marshal(trimmed)
		return Envelope{Success: true, Data: text}
	}

	if success := gjson.Get(trimmed, "success"); success.Exists() && gjson.Parse(trimmed).IsObject() {
		env := Envelope{
			Success: success.Bool(),
			Message: gjson.Get(trimmed, "message").String(),
		}
		if data := gjson.Get(trimmed, "data"); data.Exists() {
			env.Data = json.RawMessage(data.Raw)
		}
		return env
	}

	return Envelope{Success: true, Data: json.RawMessage(trimmed)}
}

// HasData reports whether the envelope carries a non-null payload.
func (e Envelope) HasData() bool {
	d := strings.TrimSpace(string(e.Data))
	return d != "" && d != "null"
}

// Decode unmarshals the envelope data into v. An empty payload leaves v
// untouched.
func (e Envelope) Decode(v any) error {
	if !e.HasData() {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}

// APIError is the normalized form of every failed remote call. Transport
// failures have a zero StatusCode and a non-nil Err.
type APIError struct {
	StatusCode int
	Method     string
	Path       string

	// Message is the server-supplied message, or a description of the failure.
	Message string

	// Payload is the server error body when it was JSON.
	Payload json.RawMessage

	// Err is the underlying transport error, if any.
	Err error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request %s %s failed: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("api error (%d) on %s %s: %s", e.StatusCode, e.Method, e.Path, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err (or any error in its chain) is a 401
// APIError.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// newStatusError builds an APIError from a non-2xx response.
func newStatusError(method, path string, status int, body []byte) *APIError {
	e := &APIError{
		StatusCode: status,
		Method:     method,
		Path:       path,
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && gjson.Valid(trimmed) {
		e.Payload = json.RawMessage(trimmed)
		for _, field := range []string{"message", "error", "data.message"} {
			if msg := gjson.Get(trimmed, field); msg.Exists() && msg.Type == gjson.String {
				e.Message = msg.String()
				break
			}
		}
	}
	if e.Message == "" && trimmed != "" && len(trimmed) <= 200 && e.Payload == nil {
		e.Message = trimmed
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
