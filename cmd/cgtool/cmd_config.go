package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava12/bachcg/internal/config"
)

var configForce bool

// configCmd groups configuration file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cgtool configuration",
}

// configInitCmd writes current settings to a configuration file
var configInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write current settings to a configuration file",
	Long: `Writes the effective settings (defaults, configuration file, and environment overrides)
to the given file, the --config file, or cgtool.yaml. The file is TOML if its name ends in .toml.
Existing files are kept unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite existing file")
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path = config.DefaultFile
	}

	if !configForce {
		if _, e := os.Stat(path); e == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}

	if e := cfg.Save(path); e != nil {
		return e
	}
	logger.Info("configuration written", zap.String("path", path))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
