package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zetronik/tv-movies-parser/internal/runstate"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show store contents and current run progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return err
			}
			progress, err := runstate.ReadProgress(cfg.Paths.ProgressFile)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Titles", strconv.FormatInt(stats.Titles, 10)},
				{"Releases", strconv.FormatInt(stats.Releases, 10)},
				{"Titles without releases", strconv.FormatInt(stats.TitlesWithoutReleases, 10)},
			}
			rows = append(rows, progressRows(progress)...)

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"}, rows,
				[]columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func progressRows(progress *runstate.Progress) [][]string {
	if progress == nil {
		return [][]string{{"Current task", "none"}}
	}
	rows := [][]string{{"Current task", progress.Task}}
	if progress.Task != runstate.TaskIdle {
		counter := strconv.Itoa(progress.Current)
		if progress.Total > 0 {
			counter += "/" + strconv.Itoa(progress.Total)
		}
		rows = append(rows, []string{"Progress", counter})
	}
	if progress.Timestamp != 0 {
		updated := time.Unix(progress.Timestamp, 0).UTC().Format(time.RFC3339)
		rows = append(rows, []string{"Updated", updated})
	}
	return rows
}
