package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/flowboard/internal/model"
)

func newProjectsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List and create projects",
	}

	var orderBy string
	list := &cobra.Command{
		Use:   "list",
		Short: "List every project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			projects, err := app.client.Entities.Project.List(cmd.Context(), orderBy)
			if err != nil {
				return fmt.Errorf("listing projects: %w", err)
			}
			renderProjects(cmd.OutOrStdout(), projects)
			return nil
		},
	}
	list.Flags().StringVar(&orderBy, "order", "", "field to sort by, prefix with - for descending")

	var project model.Project
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if project.Name == "" {
				return fmt.Errorf("--name is required")
			}
			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			created, err := app.client.Entities.Project.Create(cmd.Context(), project)
			if err != nil {
				return fmt.Errorf("creating project: %w", err)
			}
			renderProjects(cmd.OutOrStdout(), []model.Project{*created})
			return nil
		},
	}
	create.Flags().StringVar(&project.Name, "name", "", "project name")
	create.Flags().StringVar(&project.Description, "description", "", "project description")
	create.Flags().StringVar(&project.Color, "color", "", "hex color (default "+model.DefaultProjectColor+")")
	create.Flags().StringVar(&project.Status, "status", "", "initial status (default active)")

	cmd.AddCommand(list, create)
	return cmd
}

func newUsersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users",
	}

	var orderBy string
	list := &cobra.Command{
		Use:   "list",
		Short: "List every user, e.g. as a leaderboard with --order -total_points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			users, err := app.client.Auth.List(cmd.Context(), orderBy)
			if err != nil {
				return fmt.Errorf("listing users: %w", err)
			}
			renderUsers(cmd.OutOrStdout(), users)
			return nil
		},
	}
	list.Flags().StringVar(&orderBy, "order", "", "field to sort by, prefix with - for descending")

	cmd.AddCommand(list)
	return cmd
}

func newMeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "me [field=value ...]",
		Short:   "Show the current user, or update it with field=value pairs",
		Example: `  flowboard me theme=dark language=en`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				me, err := app.client.Auth.Me(cmd.Context())
				if err != nil {
					return fmt.Errorf("loading current user: %w", err)
				}
				renderUser(cmd.OutOrStdout(), me)
				return nil
			}

			patch, err := parseAssignments(args)
			if err != nil {
				return err
			}
			me, err := app.client.Auth.UpdateMe(cmd.Context(), model.Patch(patch))
			if err != nil {
				return fmt.Errorf("updating current user: %w", err)
			}
			renderUser(cmd.OutOrStdout(), me)
			return nil
		},
	}
	return cmd
}
