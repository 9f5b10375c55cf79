package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/flowboard/internal/remote"
)

func newLoginCmd(c *cli) *cobra.Command {
	var creds remote.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Sign in to the Flowboard API. Missing credentials are asked for
interactively. The token is kept in the system keyring.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if creds.Email == "" || creds.Password == "" {
				if err := loginForm(&creds).Run(); err != nil {
					return err
				}
			}

			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			env, err := app.client.Auth.Login(cmd.Context(), creds)
			if err != nil {
				return fmt.Errorf("logging in: %w", err)
			}
			if !env.Success {
				return fmt.Errorf("login rejected: %s", env.Message)
			}

			if app.client.MockMode() {
				fmt.Fprintln(cmd.OutOrStdout(), "Signed in locally (mock mode)")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", creds.Email)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	return cmd
}

func loginForm(creds *remote.Credentials) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&creds.Email).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password).
				Validate(validateRequired("Password")),
		),
	)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.application(cmd)
			if err != nil {
				return err
			}
			if _, err := app.client.Auth.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logging out: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}
