package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nhle/flowboard/internal/model"
)

// Version is set at build time via -ldflags "-X main.Version=X.Y.Z".
var Version = "0.0.0-dev"

// cli carries global flags and the lazily opened application.
type cli struct {
	configPath string
	mock       bool
	verbose    bool

	app *application
}

// application opens the application on first use.
func (c *cli) application(cmd *cobra.Command) (*application, error) {
	if c.app != nil {
		return c.app, nil
	}

	cfg, err := model.LoadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.mock {
		cfg.Mock.UseMock = true
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}

	app, err := openApplication(cmd.Context(), cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	c.app = app
	return app, nil
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "flowboard",
		Short: "Flowboard - projects, tasks and time tracking from the terminal",
		Long: `Flowboard talks to the Flowboard API when one is configured and falls
back to a local store otherwise.

Config: ~/.config/flowboard/config.yaml
Environment overrides use the FLOWBOARD_ prefix, e.g. FLOWBOARD_API_BASE_URL.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app == nil {
				return nil
			}
			err := c.app.Close()
			c.app = nil
			return err
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", model.DefaultConfigPath(), "path to the config file")
	root.PersistentFlags().BoolVar(&c.mock, "mock", false, "use the local store only")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newTasksCmd(c),
		newProjectsCmd(c),
		newUsersCmd(c),
		newMeCmd(c),
		newLoginCmd(c),
		newLogoutCmd(c),
		newReportCmd(c),
		newAskCmd(c),
		newChatCmd(c),
		newConfigCmd(c),
	)
	return root
}

// loadDotEnv reads .env from the working directory when present.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

func main() {
	if err := loadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
