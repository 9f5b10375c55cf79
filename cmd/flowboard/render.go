package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/flowboard/internal/model"
	"github.com/nhle/flowboard/internal/theme"
)

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, theme.HeaderStyle.Render(title))
}

func printEmpty(w io.Writer, what string) {
	fmt.Fprintln(w, theme.HelpStyle.Render("No "+what+" found."))
}

func renderTasks(w io.Writer, tasks []model.Task, now time.Time) {
	printHeader(w, fmt.Sprintf("Tasks (%d)", len(tasks)))
	if len(tasks) == 0 {
		printEmpty(w, "tasks")
		return
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		deadline := "-"
		if t.Deadline != nil {
			deadline = t.Deadline.Format("2006-01-02")
			if t.IsOverdue(now) {
				deadline = theme.OverdueStyle.Render(deadline)
			}
		}

		checklist := "-"
		if done, total := t.ChecklistProgress(); total > 0 {
			checklist = fmt.Sprintf("%d/%d", done, total)
		}

		rows = append(rows, []string{
			t.ID,
			t.Title,
			theme.StatusStyle(t.Status).Render(t.Status),
			theme.PriorityStyle(t.Priority).Render(t.Priority),
			deadline,
			checklist,
			strings.Join(t.Labels, ", "),
		})
	}
	fmt.Fprintln(w, theme.Table(
		[]string{"ID", "Title", "Status", "Priority", "Deadline", "Checklist", "Labels"},
		rows,
	))
}

func renderProjects(w io.Writer, projects []model.Project) {
	printHeader(w, fmt.Sprintf("Projects (%d)", len(projects)))
	if len(projects) == 0 {
		printEmpty(w, "projects")
		return
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{p.ID, p.Name, p.Status, p.Color})
	}
	fmt.Fprintln(w, theme.Table([]string{"ID", "Name", "Status", "Color"}, rows))
}

func renderUsers(w io.Writer, users []model.User) {
	printHeader(w, fmt.Sprintf("Users (%d)", len(users)))
	if len(users) == 0 {
		printEmpty(w, "users")
		return
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			u.ID,
			u.FullName,
			u.Email,
			u.Role,
			strconv.Itoa(u.TotalPoints),
			u.Rank,
		})
	}
	fmt.Fprintln(w, theme.Table([]string{"ID", "Name", "Email", "Role", "Points", "Rank"}, rows))
}

func renderUser(w io.Writer, u *model.User) {
	if u == nil {
		printEmpty(w, "current user")
		return
	}
	printHeader(w, u.FullName)
	fmt.Fprintln(w, theme.Table([]string{"Field", "Value"}, [][]string{
		{"ID", u.ID},
		{"Email", u.Email},
		{"Role", u.Role},
		{"Job role", u.JobRole},
		{"Language", u.Language},
		{"Theme", u.Theme},
		{"Points", strconv.Itoa(u.TotalPoints)},
		{"Rank", u.Rank},
	}))
}
