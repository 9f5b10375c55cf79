package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/flowboard/internal/model"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var (
		baseURL string
		force   bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(c.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", c.configPath)
			}

			cfg := model.DefaultAppConfig()
			cfg.API.BaseURL = baseURL
			if err := model.SaveConfig(c.configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", c.configPath)
			return nil
		},
	}
	initCmd.Flags().StringVar(&baseURL, "base-url", "", "API root, empty for mock mode")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
