package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/flowboard/internal/model"
)

func newTasksCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and manage tasks",
	}
	cmd.AddCommand(
		newTasksListCmd(c),
		newTasksFilterCmd(c),
		newTasksCreateCmd(c),
		newTasksUpdateCmd(c),
		newTasksDeleteCmd(c),
		newTasksTransitionCmd(c),
	)
	return cmd
}

func newTasksListCmd(c *cli) *cobra.Command {
	var orderBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			tasks, err := app.client.Entities.Task.List(cmd.Context(), orderBy)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}
			renderTasks(cmd.OutOrStdout(), tasks, time.Now())
			return nil
		},
	}
	cmd.Flags().StringVar(&orderBy, "order", "", "field to sort by, prefix with - for descending")
	return cmd
}

func newTasksFilterCmd(c *cli) *cobra.Command {
	var (
		orderBy string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "filter [field=value ...]",
		Short: "List tasks whose fields equal the given values",
		Example: `  flowboard tasks filter status=done
  flowboard tasks filter project_id=p_demo_1 priority=high --order -deadline --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			where, err := parseAssignments(args)
			if err != nil {
				return err
			}
			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			tasks, err := app.client.Entities.Task.Filter(cmd.Context(), model.Where(where), orderBy, limit)
			if err != nil {
				return fmt.Errorf("filtering tasks: %w", err)
			}
			renderTasks(cmd.OutOrStdout(), tasks, time.Now())
			return nil
		},
	}
	cmd.Flags().StringVar(&orderBy, "order", "", "field to sort by, prefix with - for descending")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of tasks, 0 for all")
	return cmd
}

func newTasksCreateCmd(c *cli) *cobra.Command {
	var (
		task     model.Task
		deadline string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if task.Title == "" {
				return fmt.Errorf("--title is required")
			}
			if deadline != "" {
				ts, err := model.ParseTimestamp(deadline)
				if err != nil {
					return fmt.Errorf("parsing --deadline: %w", err)
				}
				task.Deadline = &ts
			}

			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			created, err := app.client.Entities.Task.Create(cmd.Context(), task)
			if err != nil {
				return fmt.Errorf("creating task: %w", err)
			}
			renderTasks(cmd.OutOrStdout(), []model.Task{*created}, time.Now())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&task.Title, "title", "", "task title")
	f.StringVar(&task.Description, "description", "", "task description")
	f.StringVar(&task.Status, "status", "", "initial status (default todo)")
	f.StringVar(&task.Priority, "priority", "", "low, medium, high or urgent (default medium)")
	f.StringVar(&task.ProjectID, "project", "", "parent project id")
	f.StringVar(&task.AssigneeID, "assignee", "", "assigned user id")
	f.StringVar(&deadline, "deadline", "", "due date, e.g. 2024-05-31")
	f.Float64Var(&task.EstimateHours, "estimate", 0, "estimated hours")
	f.StringSliceVar(&task.Labels, "label", nil, "label, repeatable")
	return cmd
}

func newTasksUpdateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "update <id> field=value [field=value ...]",
		Short:   "Shallow-merge fields into a task",
		Example: `  flowboard tasks update t_demo_1 priority=high estimate_hours=6`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			patch["updated_date"] = model.NewTimestamp(time.Now())

			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			updated, err := app.client.Entities.Task.Update(cmd.Context(), args[0], model.Patch(patch))
			if err != nil {
				return fmt.Errorf("updating task: %w", err)
			}
			if updated == nil {
				return fmt.Errorf("task %q not found", args[0])
			}
			renderTasks(cmd.OutOrStdout(), []model.Task{*updated}, time.Now())
			return nil
		},
	}
}

func newTasksDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			if _, err := app.client.Entities.Task.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
			return nil
		},
	}
}

func newTasksTransitionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "transition <id> <status>",
		Short: "Move a task to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			env, err := app.client.Functions.TransitionTaskStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("transitioning task: %w", err)
			}
			if !env.Success {
				return fmt.Errorf("transition of task %q was rejected", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", args[0], args[1])
			return nil
		},
	}
}
