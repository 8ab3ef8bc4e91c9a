/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hultner-technologies/recordkit/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a configuration file with default settings and a generated API key.

This command will:
- Create the config directory
- Generate a random API key for the REST API
- Record the data directory and shapes file, if given

Examples:
  recordctl init
  recordctl init --config ./recordkit.yaml --data-dir ./data --shapes ./shapes.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.GetDefaultConfigPath()
		}
		force, _ := cmd.Flags().GetBool("force")

		if config.ConfigExists(path) && !force {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}

		current := container.Config()
		cfg, err := config.BootstrapConfig(path, current.DataDir)
		if err != nil {
			return err
		}

		// carry flag overrides into the new file
		cfg.ShapesFile = current.ShapesFile
		cfg.Format = current.Format
		cfg.Backend = current.Backend
		if err := config.SaveConfig(cfg, path); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Wrote %s\n", path)
		fmt.Fprintf(out, "API key: %s...\n", cfg.Security.APIKey[:8])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
