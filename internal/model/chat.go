package model

import "time"

// ChatMessage is one exchange with the assistant: the user's message and
// the reply it received.
type ChatMessage struct {
	ID          string         `json:"id,omitempty"`
	UserID      string         `json:"user_id"`
	Message     string         `json:"message"`
	Response    string         `json:"response"`
	Context     map[string]any `json:"context,omitempty"`
	CreatedDate *Timestamp     `json:"created_date,omitempty"`
}

func (m *ChatMessage) ApplyDefaults(now time.Time) {
	if m.CreatedDate == nil {
		m.CreatedDate = NewTimestamp(now)
	}
}
