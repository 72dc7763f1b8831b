package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/zetronik/tv-movies-parser/internal/catalog"
	"github.com/zetronik/tv-movies-parser/internal/logging"
	"github.com/zetronik/tv-movies-parser/internal/tmdb"
)

const taskMetadataSync = "metadata_sync"

// runMetadataSync reconciles the local catalog against the daily export:
// download ids, diff against stored ids, fetch details for the missing ones.
func (r *Runner) runMetadataSync(ctx context.Context, logger *slog.Logger) error {
	if err := r.cfg.RequireTMDBCredentials(); err != nil {
		return Wrap(ErrConfiguration, taskMetadataSync, "credentials", "", err)
	}
	fetcher, err := r.detailsFetcher()
	if err != nil {
		return Wrap(ErrConfiguration, taskMetadataSync, "build client", "", err)
	}

	if err := r.checkpoint(ctx); err != nil {
		return err
	}

	upstream, err := r.catalogClient(logger).DailyIDs(ctx, catalog.ExportDay(r.now()))
	if err != nil {
		return Wrap(ErrTransient, taskMetadataSync, "download export", "", err)
	}
	local, err := r.store.TitleIDs(ctx)
	if err != nil {
		return Wrap(ErrTransient, taskMetadataSync, "list stored ids", "", err)
	}

	work := catalog.NewWorkSet(upstream, local, r.cfg.TMDB.FetchLimit)
	logger.Info("metadata sync planned",
		logging.Int("upstream_ids", len(upstream)),
		logging.Int("stored_ids", len(local)),
		logging.Int("to_fetch", len(work)))
	if reportErr := r.reporter.Update(taskMetadataSync, 0, len(work)); reportErr != nil {
		logger.Warn("write progress", logging.Error(reportErr))
	}

	var fetched, skipped int
	for i, movieID := range work {
		if err := r.checkpoint(ctx); err != nil {
			return err
		}

		movie, err := fetcher.GetMovieDetails(ctx, movieID)
		switch {
		case errors.Is(err, tmdb.ErrNotFound):
			// The export lags the API; removed entries are expected.
			logger.Debug("movie gone upstream", logging.Int64(logging.FieldTitleID, movieID))
			skipped++
		case err != nil:
			logger.Warn("fetch movie details",
				logging.Int64(logging.FieldTitleID, movieID), logging.Error(err))
			skipped++
		default:
			title := tmdb.Flatten(movie, r.cfg.TMDB.ImageBaseURL)
			if err := r.store.UpsertTitle(ctx, title); err != nil {
				return Wrap(ErrTransient, taskMetadataSync, "store title", "", err)
			}
			fetched++
		}

		if reportErr := r.reporter.Update(taskMetadataSync, i+1, len(work)); reportErr != nil {
			logger.Warn("write progress", logging.Error(reportErr))
		}
		r.sleep(ctx, r.metadataDelay)
	}

	logger.Info("metadata sync finished",
		logging.Int("fetched", fetched),
		logging.Int("skipped", skipped))
	return nil
}
