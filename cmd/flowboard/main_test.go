package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nhle/flowboard/internal/model"
)

// writeConfig creates a mock-mode config backed by a sqlite file, so state
// survives between command runs.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`mock:
  use_mock: true
  driver: sqlite
  sqlite_path: %s
  latency_factor: 0
  seed: true
session:
  backend: memory
log:
  level: error
`, filepath.Join(dir, "flowboard.db"))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestTasksListShowsSeededTask(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, cfg, "tasks", "list")
	if err != nil {
		t.Fatalf("tasks list: %v", err)
	}
	if !strings.Contains(out, "First sample task") {
		t.Fatalf("expected seeded task in output:\n%s", out)
	}
}

func TestTasksCreateFilterAndTransition(t *testing.T) {
	cfg := writeConfig(t)

	if _, err := run(t, cfg, "tasks", "create", "--title", "Write docs", "--priority", "high", "--label", "docs"); err != nil {
		t.Fatalf("tasks create: %v", err)
	}

	out, err := run(t, cfg, "tasks", "filter", "priority=high")
	if err != nil {
		t.Fatalf("tasks filter: %v", err)
	}
	if !strings.Contains(out, "Write docs") || strings.Contains(out, "First sample task") {
		t.Fatalf("expected only the new task:\n%s", out)
	}

	if _, err := run(t, cfg, "tasks", "transition", "t_demo_1", "done"); err != nil {
		t.Fatalf("tasks transition: %v", err)
	}
	out, err = run(t, cfg, "tasks", "filter", "status=done")
	if err != nil {
		t.Fatalf("tasks filter: %v", err)
	}
	if !strings.Contains(out, "First sample task") {
		t.Fatalf("expected transitioned task:\n%s", out)
	}
}

func TestTasksUpdateMissingTask(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(t, cfg, "tasks", "update", "missing-id", "status=done")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestTasksUpdateWithLooseValueKeepsListing(t *testing.T) {
	cfg := writeConfig(t)

	if _, err := run(t, cfg, "tasks", "update", "t_demo_1", "deadline=tomorrow"); err != nil {
		t.Fatalf("tasks update: %v", err)
	}
	out, err := run(t, cfg, "tasks", "list")
	if err != nil {
		t.Fatalf("tasks list: %v", err)
	}
	if !strings.Contains(out, "First sample task") {
		t.Fatalf("expected task to stay listed:\n%s", out)
	}
}

func TestMeAndReport(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, cfg, "me")
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if !strings.Contains(out, "demo@example.com") {
		t.Fatalf("expected demo user:\n%s", out)
	}

	out, err = run(t, cfg, "report", "--lang", "en")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, "Mock report for user: u_demo (en)") {
		t.Fatalf("unexpected report:\n%s", out)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if _, err := run(t, path, "config", "init", "--base-url", "http://localhost:8080/api"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := run(t, path, "config", "init"); err == nil {
		t.Fatalf("expected existing file to be protected")
	}

	cfg, err := model.LoadConfig(path)
	if err != nil {
		t.Fatalf("loading written config: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080/api" || cfg.MockMode() {
		t.Fatalf("unexpected config: %+v", cfg.API)
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{
		"status=done",
		"estimate_hours=4",
		"is_active=true",
		"assignee_id=null",
		`labels=["a","b"]`,
		"note=a=b",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]any{
		"status":         "done",
		"estimate_hours": 4.0,
		"is_active":      true,
		"assignee_id":    nil,
		"labels":         []any{"a", "b"},
		"note":           "a=b",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}

	if _, err := parseAssignments([]string{"nokey"}); err == nil {
		t.Fatalf("expected error for missing '='")
	}
}
