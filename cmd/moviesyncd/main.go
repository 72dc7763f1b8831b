// Command moviesyncd is the unattended runner: it executes one pipeline
// run and exits, intended to be driven by a scheduler such as a systemd
// timer using the schedule recorded in the configuration.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zetronik/tv-movies-parser/internal/config"
	"github.com/zetronik/tv-movies-parser/internal/logging"
	"github.com/zetronik/tv-movies-parser/internal/pipeline"
	"github.com/zetronik/tv-movies-parser/internal/store"
)

func main() {
	cmd := newCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		configFlag string
		modeFlag   string
	)

	cmd := &cobra.Command{
		Use:           "moviesyncd",
		Short:         "Unattended reconciliation run",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configFlag, modeFlag)
		},
	}

	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&modeFlag, "mode", "auto", "Run mode: sync, crawl, or auto")
	return cmd
}

func run(parent context.Context, configPath, modeRaw string) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}
	mode, err := pipeline.ParseMode(modeRaw)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		OutputPaths: []string{
			"stderr",
			filepath.Join(cfg.Paths.LogDir, "moviesyncd.log"),
		},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	runner := pipeline.NewRunner(cfg, st, logger)
	return runner.Run(ctx, mode)
}
