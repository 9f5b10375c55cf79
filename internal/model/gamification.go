package model

import "time"

// Challenge difficulty values.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Submission status values.
const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// Achievement is a points award granted to a user.
type Achievement struct {
	ID          string     `json:"id,omitempty"`
	UserID      string     `json:"user_id"`
	Points      int        `json:"points"`
	Reason      string     `json:"reason,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedDate *Timestamp `json:"created_date,omitempty"`
}

func (a *Achievement) ApplyDefaults(now time.Time) {
	if a.CreatedDate == nil {
		a.CreatedDate = NewTimestamp(now)
	}
}

// Challenge is a puzzle or task users answer for points.
type Challenge struct {
	ID            string     `json:"id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Type          string     `json:"type,omitempty"`
	Difficulty    string     `json:"difficulty,omitempty"`
	Points        int        `json:"points"`
	Deadline      *Timestamp `json:"deadline,omitempty"`
	Hints         []string   `json:"hints"`
	CorrectAnswer string     `json:"correct_answer,omitempty"`
	IsActive      bool       `json:"is_active"`
}

func (c *Challenge) ApplyDefaults() {
	if c.Difficulty == "" {
		c.Difficulty = DifficultyMedium
	}
	if c.Hints == nil {
		c.Hints = []string{}
	}
}

// ChallengeSubmission is a user's answer to a challenge awaiting review.
type ChallengeSubmission struct {
	ID             string     `json:"id,omitempty"`
	ChallengeID    string     `json:"challenge_id"`
	UserID         string     `json:"user_id"`
	Answer         string     `json:"answer"`
	SubmissionTime *Timestamp `json:"submission_time,omitempty"`
	Status         string     `json:"status,omitempty"`
	PointsAwarded  int        `json:"points_awarded"`
	ReviewedBy     string     `json:"reviewed_by,omitempty"`
}

func (s *ChallengeSubmission) ApplyDefaults(now time.Time) {
	if s.Status == "" {
		s.Status = SubmissionPending
	}
	if s.SubmissionTime == nil {
		s.SubmissionTime = NewTimestamp(now)
	}
}
