package model

import "time"

// Task status values.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusInReview   = "in_review"
	TaskStatusBlocked    = "blocked"
	TaskStatusDone       = "done"
	TaskStatusCancelled  = "cancelled"
)

// Task priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ChecklistItem is a single sub-step inside a task.
type ChecklistItem struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Task is a unit of work, optionally belonging to a project.
type Task struct {
	// ID is the unique identifier, assigned by the store when absent.
	ID string `json:"id,omitempty"`

	// Title is the short human-readable summary.
	Title string `json:"title"`

	// Description is the free-form body.
	Description string `json:"description,omitempty"`

	// Status is one of the TaskStatus* values. Not validated here.
	Status string `json:"status,omitempty"`

	// Priority is one of the Priority* values.
	Priority string `json:"priority,omitempty"`

	// ProjectID references the parent project.
	ProjectID string `json:"project_id,omitempty"`

	// Deadline is when the task is due.
	Deadline *Timestamp `json:"deadline,omitempty"`

	// EstimateHours is the planned effort.
	EstimateHours float64 `json:"estimate_hours,omitempty"`

	// LoggedHours is the effort recorded through time entries.
	LoggedHours float64 `json:"logged_hours,omitempty"`

	// Labels are free-form tags.
	Labels []string `json:"labels"`

	// Checklist holds ordered sub-steps.
	Checklist []ChecklistItem `json:"checklist"`

	// AssigneeID references the assigned user.
	AssigneeID string `json:"assignee_id,omitempty"`

	// CreatedDate is when the task was first stored.
	CreatedDate *Timestamp `json:"created_date,omitempty"`

	// UpdatedDate is when the task was last modified.
	UpdatedDate *Timestamp `json:"updated_date,omitempty"`
}

// ApplyDefaults fills the fields a freshly created task must carry.
func (t *Task) ApplyDefaults(now time.Time) {
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Labels == nil {
		t.Labels = []string{}
	}
	if t.Checklist == nil {
		t.Checklist = []ChecklistItem{}
	}
	if t.CreatedDate == nil {
		t.CreatedDate = NewTimestamp(now)
	}
}

// IsOverdue reports whether the deadline has passed on an unfinished task.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Deadline == nil {
		return false
	}
	if t.Status == TaskStatusDone || t.Status == TaskStatusCancelled {
		return false
	}
	return t.Deadline.Before(now)
}

// ChecklistProgress returns the number of completed and total checklist items.
func (t Task) ChecklistProgress() (done, total int) {
	for _, item := range t.Checklist {
		if item.Done {
			done++
		}
	}
	return done, len(t.Checklist)
}
