package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zetronik/tv-movies-parser/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a reconciliation run",
		Long: `Execute a reconciliation run.

Mode "sync" refreshes the catalog from the daily export, "crawl" discovers
tracker releases for stored titles, and "auto" runs the phases enabled in
the [workflow] config section.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			mode, err := pipeline.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runner := pipeline.NewRunner(cfg, st, logger)
			return runner.Run(runCtx, mode)
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "auto", "Run mode: sync, crawl, or auto")
	return cmd
}
