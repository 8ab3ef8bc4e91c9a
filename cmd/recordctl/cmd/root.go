/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hultner-technologies/recordkit/pkg/config"
	"github.com/hultner-technologies/recordkit/pkg/di"
)

var container *di.Container

// SetContainer injects the dependency container
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recordctl",
	Short: "recordctl - declare, validate and store records",
	Long: `recordctl builds records from declared shapes, converts them to and from
canonical JSON or YAML, and stores them in pebble or redis.

Shapes are declared in a YAML file (see --shapes); the built-in "event"
shape is always available.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil {
			return fmt.Errorf("dependency container not initialized")
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return container.SetConfig(cfg)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default "+config.GetDefaultConfigPath()+")")
	flags.String("shapes", "", "YAML file declaring additional shapes")
	flags.String("format", "", "Text format for output and storage (json or yaml)")
	flags.StringP("data-dir", "d", "", "Data directory for the pebble backend")
	flags.String("backend", "", "Storage backend (pebble or redis)")
}

// loadConfig reads the config file, if any, and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	switch {
	case config.ConfigExists(path):
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case explicit && cmd.Name() != "init":
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	overrides := map[string]*string{
		"shapes":   &cfg.ShapesFile,
		"format":   &cfg.Format,
		"data-dir": &cfg.DataDir,
		"backend":  &cfg.Backend,
	}
	for name, target := range overrides {
		if flags.Changed(name) {
			*target, _ = flags.GetString(name)
		}
	}
	return cfg, nil
}
