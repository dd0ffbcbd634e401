package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/lexfsm"
	"github.com/aretw0/lexfsm/internal/config"
	"github.com/aretw0/lexfsm/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    = config.Default()
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "lexfsm",
	Short: "lexfsm compiles and runs table-driven tokenizer state machines",
	Long: `lexfsm loads FSM descriptions (text tables or YAML), validates them and runs
them as tokenizers. It can also render them as Mermaid graphs, publish them to
Redis and serve them over HTTP.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: lexfsm.{yaml,yml,json,toml} in the working directory)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
}

// setup reads the config file and applies flag overrides before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.Discover(".")
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = logging.New(level)
	if path != "" {
		logger.Debug("config loaded", "path", path)
	}
	return nil
}

// loadMachine opens the description file at path with the CLI logger.
func loadMachine(cmd *cobra.Command, path string, opts ...lexfsm.Option) (*lexfsm.Machine, error) {
	opts = append([]lexfsm.Option{lexfsm.WithLogger(logger)}, opts...)
	m, err := lexfsm.NewContext(cmd.Context(), path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return m, nil
}
