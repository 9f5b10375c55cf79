package model

import "time"

// TimeEntry records effort spent by a user on a task. A running timer is
// an entry with IsActive set and no EndTime.
type TimeEntry struct {
	ID              string     `json:"id,omitempty"`
	TaskID          string     `json:"task_id"`
	UserID          string     `json:"user_id"`
	Hours           float64    `json:"hours,omitempty"`
	DurationMinutes int        `json:"duration_minutes,omitempty"`
	StartTime       *Timestamp `json:"start_time,omitempty"`
	EndTime         *Timestamp `json:"end_time,omitempty"`
	IsActive        bool       `json:"is_active"`
	Date            string     `json:"date,omitempty"`
	Description     string     `json:"description,omitempty"`
}

// ApplyDefaults stamps the calendar date of a new entry.
func (e *TimeEntry) ApplyDefaults(now time.Time) {
	if e.Date == "" {
		ref := now
		if e.StartTime != nil {
			ref = e.StartTime.Time
		}
		e.Date = ref.UTC().Format("2006-01-02")
	}
}

// Duration returns the recorded effort, preferring the minute count.
func (e TimeEntry) Duration() time.Duration {
	if e.DurationMinutes > 0 {
		return time.Duration(e.DurationMinutes) * time.Minute
	}
	return time.Duration(e.Hours * float64(time.Hour))
}
