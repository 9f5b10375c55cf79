package remote

import (
	"errors"
	"fmt"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantSuccess bool
		wantData    string
		wantMessage string
	}{
		{
			name:        "envelope passes through",
			body:        `{"success":false,"message":"nope","data":{"id":"x"}}`,
			wantSuccess: false,
			wantData:    `{"id":"x"}`,
			wantMessage: "nope",
		},
		{
			name:        "raw object is wrapped",
			body:        `{"id":"t1","title":"Buy milk"}`,
			wantSuccess: true,
			wantData:    `{"id":"t1","title":"Buy milk"}`,
		},
		{
			name:        "raw array is wrapped",
			body:        `[{"id":"a"}]`,
			wantSuccess: true,
			wantData:    `[{"id":"a"}]`,
		},
		{
			name:        "empty body",
			body:        "",
			wantSuccess: true,
		},
		{
			name:        "plain text becomes a JSON string",
			body:        "ok",
			wantSuccess: true,
			wantData:    `"ok"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := Normalize([]byte(tt.body))
			if env.Success != tt.wantSuccess {
				t.Errorf("success = %v, want %v", env.Success, tt.wantSuccess)
			}
			if string(env.Data) != tt.wantData {
				t.Errorf("data = %s, want %s", env.Data, tt.wantData)
			}
			if env.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", env.Message, tt.wantMessage)
			}
		})
	}
}

func TestEnvelopeDecodeNullLeavesTargetUntouched(t *testing.T) {
	env := Normalize([]byte(`{"success":true,"data":null}`))
	if env.HasData() {
		t.Fatalf("expected null data to count as empty")
	}

	target := []string{"keep"}
	if err := env.Decode(&target); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(target) != 1 {
		t.Fatalf("expected target untouched, got %v", target)
	}
}

func TestNewStatusErrorMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"message":"expired"}`, "expired"},
		{`{"error":"boom"}`, "boom"},
		{`{"success":false,"data":{"message":"nested"}}`, "nested"},
		{`gateway down`, "gateway down"},
		{``, "Internal Server Error"},
	}

	for _, tt := range tests {
		e := newStatusError("GET", "/tasks", 500, []byte(tt.body))
		if e.Message != tt.want {
			t.Errorf("body %q: message = %q, want %q", tt.body, e.Message, tt.want)
		}
	}
}

func TestIsUnauthorized(t *testing.T) {
	unauthorized := fmt.Errorf("listing: %w", &APIError{StatusCode: 401})
	if !IsUnauthorized(unauthorized) {
		t.Fatalf("expected wrapped 401 to be detected")
	}
	if IsUnauthorized(&APIError{StatusCode: 403}) {
		t.Fatalf("403 is not unauthorized")
	}
	if IsUnauthorized(errors.New("plain")) {
		t.Fatalf("plain error is not unauthorized")
	}
}
