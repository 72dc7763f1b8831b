package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/zetronik/tv-movies-parser/internal/logging"
	"github.com/zetronik/tv-movies-parser/internal/store"
	"github.com/zetronik/tv-movies-parser/internal/tracker"
)

const taskReleaseDiscovery = "release_discovery"

// runReleaseDiscovery finds tracker releases for stored titles, either by
// searching the tracker per title or by crawling a category's forums.
func (r *Runner) runReleaseDiscovery(ctx context.Context, logger *slog.Logger) error {
	if err := r.cfg.RequireTrackerCredentials(); err != nil {
		return Wrap(ErrConfiguration, taskReleaseDiscovery, "credentials", "", err)
	}
	client, err := r.trackerClient(logger)
	if err != nil {
		return Wrap(ErrConfiguration, taskReleaseDiscovery, "build client", "", err)
	}

	if err := r.checkpoint(ctx); err != nil {
		return err
	}
	if err := client.Login(ctx); err != nil {
		if errors.Is(err, tracker.ErrLoginFailed) {
			return Wrap(ErrConfiguration, taskReleaseDiscovery, "login", "", err)
		}
		return Wrap(ErrTransient, taskReleaseDiscovery, "login", "", err)
	}

	if r.cfg.Tracker.Discovery == "crawl" {
		return r.crawlReleases(ctx, logger, client)
	}
	return r.searchReleases(ctx, logger, client)
}

// searchReleases queries the tracker once per stored title and keeps the
// first matching topics. Matches are confirmed through the same title
// resolution the crawler uses.
func (r *Runner) searchReleases(ctx context.Context, logger *slog.Logger, client TrackerClient) error {
	titles, err := r.store.TitlesForSearch(ctx, r.cfg.Tracker.SearchLimit)
	if err != nil {
		return Wrap(ErrTransient, taskReleaseDiscovery, "list titles", "", err)
	}
	logger.Info("release search planned", logging.Int("titles", len(titles)))
	if reportErr := r.reporter.Update(taskReleaseDiscovery, 0, len(titles)); reportErr != nil {
		logger.Warn("write progress", logging.Error(reportErr))
	}

	var stored int
	for i, title := range titles {
		if err := r.checkpoint(ctx); err != nil {
			return err
		}

		results, err := client.Search(ctx, searchQuery(title))
		if err != nil {
			logger.Warn("tracker search",
				logging.Int64(logging.FieldTitleID, title.ID), logging.Error(err))
			continue
		}
		r.sleep(ctx, r.releaseDelay)

		matched := 0
		for _, result := range results {
			if matched >= r.cfg.Tracker.TopicsPerTitle {
				break
			}
			if err := r.checkpoint(ctx); err != nil {
				return err
			}
			heading, ok := tracker.ParseTopicHeading(result.Title)
			if !ok {
				continue
			}
			matchID, ok, err := r.store.FindTitleID(ctx, heading.Title, heading.OriginalTitle, heading.Year)
			if err != nil {
				return Wrap(ErrTransient, taskReleaseDiscovery, "resolve title", "", err)
			}
			if !ok || matchID != title.ID {
				continue
			}

			details, err := client.TopicDetails(ctx, result.TopicID)
			r.sleep(ctx, r.releaseDelay)
			if err != nil {
				logger.Warn("fetch topic",
					logging.Int64(logging.FieldTopicID, result.TopicID), logging.Error(err))
				continue
			}
			inserted, err := r.storeRelease(ctx, logger, title.ID, details)
			if err != nil {
				return err
			}
			if inserted {
				stored++
			}
			matched++
		}

		if reportErr := r.reporter.Update(taskReleaseDiscovery, i+1, len(titles)); reportErr != nil {
			logger.Warn("write progress", logging.Error(reportErr))
		}
	}

	logger.Info("release search finished", logging.Int("stored", stored))
	return nil
}

// searchQuery builds the tracker query for one title. The release year
// narrows the result set the same way the stored matcher narrows its lookup.
func searchQuery(title *store.Title) string {
	query := title.OriginalTitle
	if year := title.Year(); year != "" {
		query += " " + year
	}
	return query
}

// crawlReleases walks every forum of the configured category page by page
// and resolves each topic heading against the store. Topic pages are only
// fetched for headings that resolve, which keeps the request volume down.
func (r *Runner) crawlReleases(ctx context.Context, logger *slog.Logger, client TrackerClient) error {
	forums, err := client.ForumsFromCategory(ctx, int64(r.cfg.Tracker.CategoryID))
	if err != nil {
		return Wrap(ErrTransient, taskReleaseDiscovery, "list forums", "", err)
	}
	logger.Info("release crawl planned",
		logging.Int("category_id", r.cfg.Tracker.CategoryID),
		logging.Int("forums", len(forums)))

	var planned, processed, stored int
	for _, forum := range forums {
		forumLogger := logger.With(logging.Int64(logging.FieldForumID, forum.ID))
		for page := 0; page < r.cfg.Tracker.PagesPerForum; page++ {
			if err := r.checkpoint(ctx); err != nil {
				return err
			}

			topics, err := client.TopicsFromForum(ctx, forum.ID, page)
			if err != nil {
				forumLogger.Warn("list forum page", logging.Int("page", page), logging.Error(err))
				break
			}
			r.sleep(ctx, r.releaseDelay)
			planned += len(topics)

			for _, topic := range topics {
				if err := r.checkpoint(ctx); err != nil {
					return err
				}
				processed++
				if reportErr := r.reporter.Update(taskReleaseDiscovery, processed, planned); reportErr != nil {
					forumLogger.Warn("write progress", logging.Error(reportErr))
				}
				heading, ok := tracker.ParseTopicHeading(topic.Title)
				if !ok {
					continue
				}
				titleID, ok, err := r.store.FindTitleID(ctx, heading.Title, heading.OriginalTitle, heading.Year)
				if err != nil {
					return Wrap(ErrTransient, taskReleaseDiscovery, "resolve title", "", err)
				}
				if !ok {
					continue
				}

				details, err := client.TopicDetails(ctx, topic.ID)
				r.sleep(ctx, r.releaseDelay)
				if err != nil {
					forumLogger.Warn("fetch topic",
						logging.Int64(logging.FieldTopicID, topic.ID), logging.Error(err))
					continue
				}
				inserted, err := r.storeRelease(ctx, forumLogger, titleID, details)
				if err != nil {
					return err
				}
				if inserted {
					stored++
				}
			}
		}
	}

	logger.Info("release crawl finished",
		logging.Int("topics", processed),
		logging.Int("stored", stored))
	return nil
}

// storeRelease persists one scraped topic. Topics without a magnet are
// skipped; they are usually moderated or absorbed releases.
func (r *Runner) storeRelease(ctx context.Context, logger *slog.Logger, titleID int64, details *tracker.TopicDetails) (bool, error) {
	if strings.TrimSpace(details.MagnetLink) == "" {
		logger.Debug("topic without magnet", logging.Int64(logging.FieldTopicID, details.TopicID))
		return false, nil
	}
	release := &store.Release{
		TitleID:     titleID,
		TopicTitle:  details.Title,
		SizeGB:      details.SizeGB,
		Quality:     details.Quality,
		FileFormat:  details.FileFormat,
		Translation: details.Translation,
		MagnetLink:  details.MagnetLink,
		Seeds:       details.Seeds,
		Leeches:     details.Leeches,
	}
	inserted, err := r.store.InsertRelease(ctx, release)
	if err != nil {
		return false, Wrap(ErrTransient, taskReleaseDiscovery, "store release", "", err)
	}
	if inserted {
		logger.Debug("release stored",
			logging.Int64(logging.FieldTitleID, titleID),
			logging.Int64(logging.FieldTopicID, details.TopicID))
	}
	return inserted, nil
}
