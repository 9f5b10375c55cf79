package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/flowboard/internal/model"
	"github.com/nhle/flowboard/internal/store"
	"github.com/nhle/flowboard/tests/testutil"
)

func eachStore(t *testing.T, fn func(t *testing.T, s store.Store)) {
	t.Helper()
	for name, s := range testutil.Stores(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, s)
		})
	}
}

func ids(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID()
	}
	return out
}

func equalIDs(t *testing.T, got []model.Record, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("expected ids %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, g)
		}
	}
}

func TestCreateOnEmptyCollection(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()

		created, err := s.Create(ctx, model.CollectionTasks, model.Record{"title": "Buy milk"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID() == "" {
			t.Fatalf("expected a generated id")
		}
		if created["title"] != "Buy milk" {
			t.Fatalf("expected title 'Buy milk', got %v", created["title"])
		}
		if len(created) != 2 {
			t.Fatalf("expected only id and title, got %v", created)
		}

		items, err := s.List(ctx, model.CollectionTasks, "")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 record, got %d", len(items))
		}
		if items[0].ID() != created.ID() || items[0]["title"] != "Buy milk" {
			t.Fatalf("expected listed record to equal created one, got %v", items[0])
		}
	})
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		seen := map[string]bool{}

		for i := 0; i < 50; i++ {
			rec, err := s.Create(ctx, model.CollectionComments, model.Record{"content": "x"})
			if err != nil {
				t.Fatalf("create %d: %v", i, err)
			}
			if seen[rec.ID()] {
				t.Fatalf("id %q reused", rec.ID())
			}
			seen[rec.ID()] = true
		}
	})
}

func TestCreateKeepsSuppliedIDAndReplacesDuplicates(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()

		rec, err := s.Create(ctx, model.CollectionProjects, model.Record{"id": "p1", "name": "One"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if rec.ID() != "p1" {
			t.Fatalf("expected supplied id p1, got %q", rec.ID())
		}

		if _, err := s.Create(ctx, model.CollectionProjects, model.Record{"id": "p2", "name": "Two"}); err != nil {
			t.Fatalf("create p2: %v", err)
		}
		again, err := s.Create(ctx, model.CollectionProjects, model.Record{"id": "p1", "name": "Again"})
		if err != nil {
			t.Fatalf("create with existing id: %v", err)
		}
		if again["name"] != "Again" {
			t.Fatalf("unexpected record: %v", again)
		}

		items, err := s.List(ctx, model.CollectionProjects, "")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		equalIDs(t, items, "p1", "p2")

		got, err := s.Get(ctx, model.CollectionProjects, "p1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got["name"] != "Again" {
			t.Fatalf("expected newest record to win, got %v", got)
		}
	})
}

func TestCreatePrependsToCollection(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		for _, id := range []string{"a", "b", "c"} {
			if _, err := s.Create(ctx, model.CollectionTasks, model.Record{"id": id}); err != nil {
				t.Fatalf("create %s: %v", id, err)
			}
		}

		items, err := s.List(ctx, model.CollectionTasks, "")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		equalIDs(t, items, "c", "b", "a")
	})
}

func TestUpdateIsShallowMerge(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		for _, id := range []string{"t1", "t2", "t3"} {
			_, err := s.Create(ctx, model.CollectionTasks, model.Record{
				"id":       id,
				"title":    "Task " + id,
				"status":   "todo",
				"labels":   []any{"a"},
				"priority": "low",
			})
			if err != nil {
				t.Fatalf("create %s: %v", id, err)
			}
		}

		updated, err := s.Update(ctx, model.CollectionTasks, "t2", model.Patch{
			"status":   "done",
			"priority": nil,
			"id":       "hijacked",
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.ID() != "t2" {
			t.Fatalf("expected id to stay t2, got %q", updated.ID())
		}
		if updated["status"] != "done" {
			t.Fatalf("expected status done, got %v", updated["status"])
		}
		if updated["title"] != "Task t2" {
			t.Fatalf("expected title to be preserved, got %v", updated["title"])
		}
		if v, ok := updated["priority"]; !ok || v != nil {
			t.Fatalf("expected priority explicitly null, got %v (present=%v)", v, ok)
		}

		items, err := s.List(ctx, model.CollectionTasks, "")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		equalIDs(t, items, "t3", "t2", "t1")
		if items[1]["status"] != "done" {
			t.Fatalf("expected stored record to be updated, got %v", items[1])
		}
	})
}

func TestUpdateMissingReturnsNil(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		if _, err := s.Create(ctx, model.CollectionTasks, model.Record{"id": "t1", "status": "todo"}); err != nil {
			t.Fatalf("create: %v", err)
		}

		updated, err := s.Update(ctx, model.CollectionTasks, "missing-id", model.Patch{"status": "done"})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated != nil {
			t.Fatalf("expected nil for missing id, got %v", updated)
		}

		items, _ := s.List(ctx, model.CollectionTasks, "")
		if len(items) != 1 || items[0]["status"] != "todo" {
			t.Fatalf("expected collection unchanged, got %v", items)
		}
	})
}

func TestDeleteIsIdempotent(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		for _, id := range []string{"a", "b"} {
			if _, err := s.Create(ctx, model.CollectionNotifications, model.Record{"id": id}); err != nil {
				t.Fatalf("create: %v", err)
			}
		}

		if err := s.Delete(ctx, model.CollectionNotifications, "a"); err != nil {
			t.Fatalf("first delete: %v", err)
		}
		after1, _ := s.List(ctx, model.CollectionNotifications, "")

		if err := s.Delete(ctx, model.CollectionNotifications, "a"); err != nil {
			t.Fatalf("second delete: %v", err)
		}
		after2, _ := s.List(ctx, model.CollectionNotifications, "")

		equalIDs(t, after1, "b")
		equalIDs(t, after2, "b")

		if err := s.Delete(ctx, "unknownCollection", "zzz"); err != nil {
			t.Fatalf("delete in unknown collection: %v", err)
		}
	})
}

func TestDeleteDoesNotCascade(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		s.Create(ctx, model.CollectionTasks, model.Record{"id": "t1"})
		s.Create(ctx, model.CollectionComments, model.Record{"id": "c1", "task_id": "t1"})

		if err := s.Delete(ctx, model.CollectionTasks, "t1"); err != nil {
			t.Fatalf("delete: %v", err)
		}

		comments, _ := s.Filter(ctx, model.CollectionComments, model.Where{"task_id": "t1"}, "", 0)
		equalIDs(t, comments, "c1")
	})
}

func TestListOrderPutsNullsLast(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		s.Create(ctx, model.CollectionTasks, model.Record{"id": "dated", "updated_date": "2024-01-01"})
		s.Create(ctx, model.CollectionTasks, model.Record{"id": "null", "updated_date": nil})
		s.Create(ctx, model.CollectionTasks, model.Record{"id": "missing"})
		s.Create(ctx, model.CollectionTasks, model.Record{"id": "later", "updated_date": "2024-03-01"})

		desc, err := s.List(ctx, model.CollectionTasks, "-updated_date")
		if err != nil {
			t.Fatalf("list desc: %v", err)
		}
		equalIDs(t, desc, "later", "dated", "missing", "null")

		asc, err := s.List(ctx, model.CollectionTasks, "updated_date")
		if err != nil {
			t.Fatalf("list asc: %v", err)
		}
		equalIDs(t, asc, "dated", "later", "missing", "null")
	})
}

func TestFilterIsConjunctiveEquality(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		statuses := []string{"todo", "done", "done", "blocked"}
		for i, st := range statuses {
			_, err := s.Create(ctx, model.CollectionTasks, model.Record{
				"id":         string(rune('a' + i)),
				"status":     st,
				"project_id": map[bool]string{true: "p1", false: "p2"}[i%2 == 0],
			})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
		}

		done, err := s.Filter(ctx, model.CollectionTasks, model.Where{"status": "done"}, "", 0)
		if err != nil {
			t.Fatalf("filter: %v", err)
		}
		equalIDs(t, done, "c", "b")

		both, _ := s.Filter(ctx, model.CollectionTasks, model.Where{"status": "done", "project_id": "p1"}, "", 0)
		equalIDs(t, both, "c")

		all, _ := s.Filter(ctx, model.CollectionTasks, model.Where{}, "", 0)
		equalIDs(t, all, "d", "c", "b", "a")

		none, _ := s.Filter(ctx, model.CollectionTasks, model.Where{"assignee_id": "u1"}, "", 0)
		if len(none) != 0 {
			t.Fatalf("expected missing field never to match, got %v", ids(none))
		}
	})
}

func TestFilterComparesNumbersAndBoolsByValue(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		s.Create(ctx, model.CollectionChallenges, model.Record{"id": "c1", "points": 10, "is_active": true})
		s.Create(ctx, model.CollectionChallenges, model.Record{"id": "c2", "points": 20, "is_active": true})
		s.Create(ctx, model.CollectionChallenges, model.Record{"id": "c3", "points": "10", "is_active": false})

		got, err := s.Filter(ctx, model.CollectionChallenges, model.Where{"points": 10, "is_active": true}, "", 0)
		if err != nil {
			t.Fatalf("filter: %v", err)
		}
		equalIDs(t, got, "c1")
	})
}

func TestFilterLimitAppliesAfterSort(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		for _, r := range []model.Record{
			{"id": "p1", "user_id": "u", "points": 5},
			{"id": "p2", "user_id": "u", "points": 50},
			{"id": "p3", "user_id": "u", "points": 20},
			{"id": "p4", "user_id": "x", "points": 99},
		} {
			if _, err := s.Create(ctx, model.CollectionAchievements, r); err != nil {
				t.Fatalf("create: %v", err)
			}
		}

		top, err := s.Filter(ctx, model.CollectionAchievements, model.Where{"user_id": "u"}, "-points", 2)
		if err != nil {
			t.Fatalf("filter: %v", err)
		}
		equalIDs(t, top, "p2", "p3")
	})
}

func TestGetReturnsNilWhenMissing(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		s.Create(ctx, model.CollectionUsers, model.Record{"id": "u1", "full_name": "Ada"})

		got, err := s.Get(ctx, model.CollectionUsers, "u1")
		if err != nil || got["full_name"] != "Ada" {
			t.Fatalf("expected Ada, got %v (err %v)", got, err)
		}

		missing, err := s.Get(ctx, model.CollectionUsers, "nobody")
		if err != nil || missing != nil {
			t.Fatalf("expected nil record, got %v (err %v)", missing, err)
		}
	})
}

func TestListReturnsCopies(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	s.Create(ctx, model.CollectionProjects, model.Record{"id": "p1", "name": "Original"})

	items, _ := s.List(ctx, model.CollectionProjects, "")
	items[0]["name"] = "Mutated"

	again, _ := s.List(ctx, model.CollectionProjects, "")
	if again[0]["name"] != "Original" {
		t.Fatalf("expected stored record to be isolated from callers, got %v", again[0]["name"])
	}
}

func TestSeedLoadsDemoRecordsOnce(t *testing.T) {
	eachStore(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		for i := 0; i < 2; i++ {
			if err := store.Seed(ctx, s, now); err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
		}

		users, _ := s.List(ctx, model.CollectionUsers, "")
		equalIDs(t, users, store.DemoUserID)

		tasks, _ := s.List(ctx, model.CollectionTasks, "")
		equalIDs(t, tasks, store.DemoTaskID)
		if tasks[0]["deadline"] != "2024-05-04T12:00:00.000Z" {
			t.Fatalf("expected deadline three days out, got %v", tasks[0]["deadline"])
		}

		comments, _ := s.List(ctx, model.CollectionComments, "")
		if len(comments) != 0 {
			t.Fatalf("expected comments to start empty, got %d", len(comments))
		}
	})
}

func TestWithIDGenerator(t *testing.T) {
	s := store.NewMemoryStore(store.WithIDGenerator(testutil.SequentialIDs("rec")))
	ctx := context.Background()

	a, _ := s.Create(ctx, model.CollectionTasks, model.Record{})
	b, _ := s.Create(ctx, model.CollectionTasks, model.Record{"id": ""})
	if a.ID() != "rec-1" || b.ID() != "rec-2" {
		t.Fatalf("expected rec-1 and rec-2, got %q and %q", a.ID(), b.ID())
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	mem, err := store.Open("memory", "")
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := mem.(*store.MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", mem)
	}

	sq, err := store.Open("sqlite", "")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer sq.Close()
	if _, ok := sq.(*store.SQLiteStore); !ok {
		t.Fatalf("expected *SQLiteStore, got %T", sq)
	}

	if _, err := store.Open("postgres", ""); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
