package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tabula/internal/config"
	"github.com/aretw0/tabula/internal/logging"
)

// settings merges tabula.yaml, TABULA_* variables and the flags bound below.
var settings = config.New()

var rootCmd = &cobra.Command{
	Use:   "tabula",
	Short: "Tabula validates strings with table-driven state machines",
	Long: `Tabula runs input strings through finite state machines described as
transition tables. It ships with a binary-number and an arithmetic-expression
machine and loads more from YAML, JSON or Markdown definition files.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.String("dir", "", "Directory containing machine definitions")
	pf.StringSlice("file", nil, "Machine definition file (YAML or JSON), may be repeated")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("log-file", "", "Write JSON logs to this rotating file instead of Stderr")
	pf.String("config", "", "Directory containing tabula.yaml (default: current directory)")

	settings.BindPFlag("dir", pf.Lookup("dir"))
	settings.BindPFlag("log_level", pf.Lookup("log-level"))
	settings.BindPFlag("log_file", pf.Lookup("log-file"))
}

// loadConfig resolves the settings for the running command.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir, _ := cmd.Flags().GetString("config")
	if dir == "" {
		dir = "."
	}
	return config.Load(settings, dir)
}

// newLogger builds the command logger. Logs go to the rotating file when one
// is configured, to Stderr otherwise.
func newLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if cfg.LogFile != "" {
		logger, closer := logging.NewFile(level, logging.FileOptions{
			Path:       cfg.LogFile,
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		})
		return logger, closer, nil
	}
	return logging.New(level), nopCloser{}, nil
}

// setup loads settings and a logger, the prologue shared by every command.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closer, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, func() { closer.Close() }, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
