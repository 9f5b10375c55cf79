package model

import "time"

// Comment is a discussion entry on a task.
type Comment struct {
	ID          string     `json:"id,omitempty"`
	TaskID      string     `json:"task_id"`
	Content     string     `json:"content"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedDate *Timestamp `json:"created_date,omitempty"`
}

func (c *Comment) ApplyDefaults(now time.Time) {
	if c.CreatedDate == nil {
		c.CreatedDate = NewTimestamp(now)
	}
}
