package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRecordMergeKeepsID(t *testing.T) {
	r := Record{"id": "t1", "title": "old", "status": "todo"}

	merged := r.Merge(Patch{"id": "t2", "title": "new", "deadline": nil})

	if merged.ID() != "t1" {
		t.Fatalf("expected id to stay t1, got %q", merged.ID())
	}
	if merged["title"] != "new" || merged["status"] != "todo" {
		t.Fatalf("unexpected merge result: %v", merged)
	}
	if v, ok := merged["deadline"]; !ok || v != nil {
		t.Fatalf("expected explicit null to be stored")
	}
	if r["title"] != "old" {
		t.Fatalf("merge must not modify the receiver")
	}
}

func TestToRecordAndDecode(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	task := Task{Title: "Buy milk", EstimateHours: 2}
	ApplyDefaults(&task, now)

	rec, err := ToRecord(task)
	if err != nil {
		t.Fatalf("to record: %v", err)
	}
	if _, ok := rec["id"]; ok {
		t.Fatalf("empty id should be omitted")
	}
	if rec["estimate_hours"] != 2.0 || rec["status"] != TaskStatusTodo {
		t.Fatalf("unexpected record: %v", rec)
	}
	if rec["created_date"] != "2024-05-01T12:00:00.000Z" {
		t.Fatalf("unexpected created_date %v", rec["created_date"])
	}

	back, err := Decode[Task](rec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Title != "Buy milk" || !back.CreatedDate.Equal(now) {
		t.Fatalf("unexpected task: %+v", back)
	}

	none, err := Decode[Task](nil)
	if err != nil || none != nil {
		t.Fatalf("expected nil for nil record")
	}
}

func TestDecodeAllSkipsNil(t *testing.T) {
	users, err := DecodeAll[User]([]Record{{"id": "a"}, nil, {"id": "b"}})
	if err != nil {
		t.Fatalf("decode all: %v", err)
	}
	if len(users) != 2 || users[1].ID != "b" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestDecodeDropsFieldsThatDoNotFit(t *testing.T) {
	rec := Record{
		"id":           "u1",
		"full_name":    "Sara",
		"total_points": "130",
		"theme":        42.0,
		"extra":        "kept in the record only",
	}

	user, dropped, err := DecodeTolerant[User](rec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.ID != "u1" || user.FullName != "Sara" || user.TotalPoints != 0 || user.Theme != "" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if len(dropped) != 2 || dropped[0] != "theme" || dropped[1] != "total_points" {
		t.Fatalf("dropped = %v, want [theme total_points]", dropped)
	}

	tasks, skipped, err := DecodeAllTolerant[Task]([]Record{
		{"id": "t1", "title": "ok"},
		{"id": "t2", "title": "bad deadline", "deadline": ""},
	})
	if err != nil {
		t.Fatalf("decode all: %v", err)
	}
	if len(tasks) != 2 || tasks[1].Deadline != nil {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	if _, ok := skipped["t1"]; ok || len(skipped["t2"]) != 1 {
		t.Fatalf("unexpected skipped fields: %v", skipped)
	}
}

func TestTimestampParsing(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-01", "2024-01-01T00:00:00.000Z"},
		{"2024-01-01T08:30:00", "2024-01-01T08:30:00.000Z"},
		{"2024-01-01T08:30", "2024-01-01T08:30:00.000Z"},
		{"2024-01-01T08:30:00.123Z", "2024-01-01T08:30:00.123Z"},
		{"2024-01-01T10:30:00+02:00", "2024-01-01T08:30:00.000Z"},
	}

	for _, tt := range tests {
		var ts Timestamp
		if err := json.Unmarshal([]byte(`"`+tt.in+`"`), &ts); err != nil {
			t.Errorf("%s: %v", tt.in, err)
			continue
		}
		if ts.String() != tt.want {
			t.Errorf("%s: got %s, want %s", tt.in, ts, tt.want)
		}
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Errorf("expected garbage to fail")
	}
}

func TestTaskHelpers(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	task := Task{
		Status:   TaskStatusInProgress,
		Deadline: NewTimestamp(now.Add(-time.Hour)),
		Checklist: []ChecklistItem{
			{Title: "a", Done: true},
			{Title: "b"},
		},
	}

	if !task.IsOverdue(now) {
		t.Errorf("expected past deadline to be overdue")
	}
	task.Status = TaskStatusDone
	if task.IsOverdue(now) {
		t.Errorf("done tasks are never overdue")
	}
	if done, total := task.ChecklistProgress(); done != 1 || total != 2 {
		t.Errorf("progress = %d/%d, want 1/2", done, total)
	}
}
