package model

import "time"

// Notification type values.
const (
	NotificationInfo       = "info"
	NotificationAssignment = "assignment"
	NotificationDeadline   = "deadline"
	NotificationComment    = "comment"
	NotificationChallenge  = "challenge"
)

// Notification represents an alert surfaced to a user.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id,omitempty"`

	// UserID is the recipient.
	UserID string `json:"user_id"`

	// Type is one of the Notification* values.
	Type string `json:"type,omitempty"`

	// Title is the short headline.
	Title string `json:"title"`

	// Message is the human-readable notification text.
	Message string `json:"message,omitempty"`

	// Link is an in-app route the notification points at.
	Link string `json:"link,omitempty"`

	// IsRead indicates whether the user has seen this notification.
	IsRead bool `json:"is_read"`

	// CreatedDate is when this notification was generated.
	CreatedDate *Timestamp `json:"created_date,omitempty"`
}

// ApplyDefaults sets the type and creation time of a new notification.
func (n *Notification) ApplyDefaults(now time.Time) {
	if n.Type == "" {
		n.Type = NotificationInfo
	}
	if n.CreatedDate == nil {
		n.CreatedDate = NewTimestamp(now)
	}
}
