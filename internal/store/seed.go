package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/flowboard/internal/model"
)

// Identifiers of the demo records loaded by Seed.
const (
	DemoUserID    = "u_demo"
	DemoProjectID = "p_demo_1"
	DemoTaskID    = "t_demo_1"
)

// DemoRecords returns the illustrative records a fresh mock store starts
// with: one user, one project and one task due three days after now.
func DemoRecords(now time.Time) map[string]any {
	return map[string]any{
		model.CollectionUsers: model.User{
			ID:                   DemoUserID,
			FullName:             "Demo User",
			Email:                "demo@example.com",
			Language:             "fa",
			Theme:                "light",
			Role:                 model.RoleAdmin,
			TotalPoints:          120,
			Rank:                 "gold",
			JobRole:              "Product Manager",
			NotificationsEnabled: true,
			SoundEnabled:         true,
		},
		model.CollectionProjects: model.Project{
			ID:          DemoProjectID,
			Name:        "Sample project",
			Description: "A sample project for running locally.",
			Color:       model.DefaultProjectColor,
			Status:      model.ProjectStatusActive,
		},
		model.CollectionTasks: model.Task{
			ID:            DemoTaskID,
			Title:         "First sample task",
			Description:   "This task exists to try out the local environment.",
			Status:        model.TaskStatusTodo,
			Priority:      model.PriorityMedium,
			ProjectID:     DemoProjectID,
			Deadline:      model.NewTimestamp(now.Add(3 * 24 * time.Hour)),
			EstimateHours: 4,
			Labels:        []string{"sample"},
			Checklist:     []model.ChecklistItem{},
			AssigneeID:    DemoUserID,
			UpdatedDate:   model.NewTimestamp(now),
		},
	}
}

// Seed loads the demo records into s. Records already present, as in a
// reopened sqlite file, are left untouched.
func Seed(ctx context.Context, s Store, now time.Time) error {
	demo := DemoRecords(now)
	for _, collection := range []string{
		model.CollectionUsers,
		model.CollectionProjects,
		model.CollectionTasks,
	} {
		rec, err := model.ToRecord(demo[collection])
		if err != nil {
			return fmt.Errorf("encoding demo %s: %w", collection, err)
		}

		existing, err := s.Get(ctx, collection, rec.ID())
		if err != nil {
			return fmt.Errorf("checking demo %s: %w", collection, err)
		}
		if existing != nil {
			continue
		}
		if _, err := s.Create(ctx, collection, rec); err != nil {
			return fmt.Errorf("seeding %s: %w", collection, err)
		}
	}
	return nil
}

// Open builds the store selected by driver ("memory" or "sqlite").
func Open(driver, sqlitePath string, opts ...Option) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemoryStore(opts...), nil
	case "sqlite":
		if sqlitePath == "" {
			sqlitePath = MemoryDSN
		}
		return NewSQLiteStore(sqlitePath, opts...)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
