package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ava12/bachcg/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cgtool",
	Short: "Compiled grammar tool",
	Long: `cgtool packs grammar definitions (YAML, TOML, JSON) into the compiled "bach-cg1" format,
dumps and checks compiled grammars, and generates Go code embedding them.

Settings are read from cgtool.yaml in the working directory (or --config file),
CGTOOL_SHORTHAND, CGTOOL_HEX_WIDTH, and CGTOOL_WORKERS override them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var e error
		logger, e = zapConfig.Build()
		if e != nil {
			return fmt.Errorf("failed to initialize logger: %w", e)
		}

		return loadConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func loadConfig() error {
	path := configPath
	if path == "" {
		path = config.DefaultFile
	}

	var e error
	cfg, e = config.Load(path)
	if e != nil {
		return e
	}
	logger.Debug("configuration loaded", zap.String("path", path), zap.String("shorthand", cfg.Shorthand))
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "log debug messages")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (default is "+config.DefaultFile+")")

	rootCmd.AddCommand(packCmd, dumpCmd, genCmd, checkCmd, watchCmd, configCmd)
}

func main() {
	if e := rootCmd.Execute(); e != nil {
		fmt.Fprintln(os.Stderr, e)
		os.Exit(1)
	}
}

// outputName replaces the extension of input file name.
func outputName(in, ext string) string {
	return in[:len(in)-len(filepath.Ext(in))] + ext
}

// writeOutput writes data to the file or to command output if name is "-".
func writeOutput(cmd *cobra.Command, name string, data []byte) error {
	if name == "-" {
		_, e := cmd.OutOrStdout().Write(data)
		return e
	}

	if e := os.WriteFile(name, data, 0644); e != nil {
		return fmt.Errorf("failed to write %s: %w", name, e)
	}
	logger.Info("file written", zap.String("path", name), zap.Int("bytes", len(data)))
	return nil
}
