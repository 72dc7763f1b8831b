package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zetronik/tv-movies-parser/internal/store"
)

func newTitlesCommand(ctx *commandContext) *cobra.Command {
	var (
		filterFlag string
		limitFlag  int
		offsetFlag int
	)

	cmd := &cobra.Command{
		Use:   "titles",
		Short: "List stored titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			titles, total, err := st.ListTitles(cmd.Context(), filterFlag, limitFlag, offsetFlag)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(titles))
			for _, title := range titles {
				rows = append(rows, []string{
					strconv.FormatInt(title.ID, 10),
					title.Title,
					title.OriginalTitle,
					title.Year(),
					formatRating(title.Rating),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "Original title", "Year", "Rating"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight}))
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d titles\n", len(titles), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&filterFlag, "filter", "", "Substring filter on title or original title")
	cmd.Flags().IntVar(&limitFlag, "limit", 25, "Maximum titles to show (0 for all)")
	cmd.Flags().IntVar(&offsetFlag, "offset", 0, "Titles to skip")
	return cmd
}

func newReleasesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "releases <title-id>",
		Short: "List stored releases of a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			titleID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid title id %q", args[0])
			}

			_, st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			title, err := st.GetTitle(cmd.Context(), titleID)
			if err != nil {
				return err
			}
			if title == nil {
				return fmt.Errorf("title %d not found", titleID)
			}
			releases, err := st.ReleasesForTitle(cmd.Context(), titleID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", displayName(title), title.Year())
			rows := make([][]string, 0, len(releases))
			for _, release := range releases {
				rows = append(rows, []string{
					fmt.Sprintf("%.2f", release.SizeGB),
					release.Quality,
					release.FileFormat,
					release.Translation,
					strconv.Itoa(release.Seeds),
					strconv.Itoa(release.Leeches),
					release.MagnetLink,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Size GB", "Quality", "Format", "Translation", "Seeds", "Leeches", "Magnet"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}))
			return nil
		},
	}
}

func displayName(title *store.Title) string {
	if title.Title != "" {
		return title.Title
	}
	return title.OriginalTitle
}

func formatRating(rating float64) string {
	if rating == 0 {
		return ""
	}
	return strconv.FormatFloat(rating, 'f', 1, 64)
}
