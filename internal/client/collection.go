package client

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nhle/flowboard/internal/model"
	"github.com/nhle/flowboard/internal/remote"
)

// entityNames maps storage keys whose entity name is not the capitalized key.
var entityNames = map[string]string{
	model.CollectionUsers:                "User",
	model.CollectionProjects:             "Project",
	model.CollectionTasks:                "Task",
	model.CollectionComments:             "Comment",
	model.CollectionTimeLogs:             "TimeEntry",
	model.CollectionTimeEntries:          "TimeEntry",
	model.CollectionNotifications:        "Notification",
	model.CollectionAchievements:         "Achievement",
	model.CollectionChallenges:           "Challenge",
	model.CollectionChallengeSubmissions: "ChallengeSubmission",
}

// EntityName returns the logical entity behind a storage key. Keys without
// an explicit mapping have their first letter capitalized.
func EntityName(key string) string {
	if name, ok := entityNames[key]; ok {
		return name
	}
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}

// Collection exposes the CRUD operations of one collection. T is the
// entity type its records decode into.
type Collection[T any] struct {
	c      *Client
	key    string
	entity *remote.Entity[T]
}

func newCollection[T any](c *Client, key string) *Collection[T] {
	col := &Collection[T]{c: c, key: key}
	if c.remote != nil {
		col.entity = remote.NewEntity[T](c.remote, remote.PathFor(EntityName(key)))
	}
	return col
}

// Key returns the storage key, e.g. "timeLogs".
func (col *Collection[T]) Key() string {
	return col.key
}

// List returns every record, sorted by orderBy when it is non-empty.
func (col *Collection[T]) List(ctx context.Context, orderBy string) ([]T, error) {
	return attempt(ctx, col.c, col.key, "list", defaultLatency,
		func(*remote.Client) ([]T, error) {
			return col.entity.List(ctx, orderBy)
		},
		func() ([]T, error) {
			records, err := col.c.store.List(ctx, col.key, orderBy)
			if err != nil {
				return nil, err
			}
			return decodeRecords[T](col.c, col.key, records)
		},
	)
}

// Get returns the record with the given id, or nil.
func (col *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	return attempt(ctx, col.c, col.key, "get", defaultLatency,
		func(*remote.Client) (*T, error) {
			return col.entity.Get(ctx, id)
		},
		func() (*T, error) {
			rec, err := col.c.store.Get(ctx, col.key, id)
			if err != nil {
				return nil, err
			}
			return decodeRecord[T](col.c, col.key, rec)
		},
	)
}

// Create fills construction-time defaults and stores data. An id is
// assigned when data has none.
func (col *Collection[T]) Create(ctx context.Context, data T) (*T, error) {
	model.ApplyDefaults(&data, col.c.now())

	return attempt(ctx, col.c, col.key, "create", defaultLatency,
		func(*remote.Client) (*T, error) {
			return col.entity.Create(ctx, data)
		},
		func() (*T, error) {
			rec, err := model.ToRecord(data)
			if err != nil {
				return nil, err
			}
			stored, err := col.c.store.Create(ctx, col.key, rec)
			if err != nil {
				return nil, err
			}
			return decodeRecord[T](col.c, col.key, stored)
		},
	)
}

// Update shallow-merges patch over the record and returns the result, or
// nil when no record has the id.
func (col *Collection[T]) Update(ctx context.Context, id string, patch model.Patch) (*T, error) {
	return attempt(ctx, col.c, col.key, "update", defaultLatency,
		func(*remote.Client) (*T, error) {
			return col.entity.Update(ctx, id, patch)
		},
		func() (*T, error) {
			rec, err := col.c.store.Update(ctx, col.key, id, patch)
			if err != nil {
				return nil, err
			}
			return decodeRecord[T](col.c, col.key, rec)
		},
	)
}

// Delete removes the record with the given id. Deleting an unknown id
// succeeds.
func (col *Collection[T]) Delete(ctx context.Context, id string) (remote.Envelope, error) {
	return attempt(ctx, col.c, col.key, "delete", defaultLatency,
		func(*remote.Client) (remote.Envelope, error) {
			return col.entity.Delete(ctx, id)
		},
		func() (remote.Envelope, error) {
			if err := col.c.store.Delete(ctx, col.key, id); err != nil {
				return remote.Envelope{}, err
			}
			return remote.Envelope{Success: true}, nil
		},
	)
}

// Filter returns the records equal to every where field, sorted by
// orderBy and then cut to limit when limit > 0.
func (col *Collection[T]) Filter(
	ctx context.Context,
	where model.Where,
	orderBy string,
	limit int,
) ([]T, error) {
	return attempt(ctx, col.c, col.key, "filter", defaultLatency,
		func(*remote.Client) ([]T, error) {
			return col.entity.Filter(ctx, where, orderBy, limit)
		},
		func() ([]T, error) {
			records, err := col.c.store.Filter(ctx, col.key, where, orderBy, limit)
			if err != nil {
				return nil, err
			}
			return decodeRecords[T](col.c, col.key, records)
		},
	)
}

// Entities holds one Collection per storage key.
type Entities struct {
	User                *Collection[model.User]
	Project             *Collection[model.Project]
	Task                *Collection[model.Task]
	Comment             *Collection[model.Comment]
	TimeLog             *Collection[model.TimeEntry]
	TimeEntry           *Collection[model.TimeEntry]
	Notification        *Collection[model.Notification]
	Achievement         *Collection[model.Achievement]
	Challenge           *Collection[model.Challenge]
	ChallengeSubmission *Collection[model.ChallengeSubmission]
}

func newEntities(c *Client) *Entities {
	return &Entities{
		User:                newCollection[model.User](c, model.CollectionUsers),
		Project:             newCollection[model.Project](c, model.CollectionProjects),
		Task:                newCollection[model.Task](c, model.CollectionTasks),
		Comment:             newCollection[model.Comment](c, model.CollectionComments),
		TimeLog:             newCollection[model.TimeEntry](c, model.CollectionTimeLogs),
		TimeEntry:           newCollection[model.TimeEntry](c, model.CollectionTimeEntries),
		Notification:        newCollection[model.Notification](c, model.CollectionNotifications),
		Achievement:         newCollection[model.Achievement](c, model.CollectionAchievements),
		Challenge:           newCollection[model.Challenge](c, model.CollectionChallenges),
		ChallengeSubmission: newCollection[model.ChallengeSubmission](c, model.CollectionChallengeSubmissions),
	}
}

// Lookup returns the storage key for a collection given either its key
// ("timeLogs") or its entity name ("TimeEntry"), case-insensitively.
func Lookup(name string) (string, bool) {
	for _, key := range model.Collections {
		if strings.EqualFold(key, name) {
			return key, true
		}
	}
	for key, entity := range entityNames {
		if strings.EqualFold(entity, name) && key != model.CollectionTimeLogs {
			return key, true
		}
	}
	return "", false
}
