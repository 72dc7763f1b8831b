package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zetronik/tv-movies-parser/internal/runstate"
)

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Ask the running pipeline to stop at the next checkpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			canceller := runstate.NewCanceller(cfg.Paths.StopFile)
			if err := canceller.Request(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "stop requested; the run winds down at its next checkpoint")
			return nil
		},
	}
}
