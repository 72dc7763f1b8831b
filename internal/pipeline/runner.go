package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zetronik/tv-movies-parser/internal/catalog"
	"github.com/zetronik/tv-movies-parser/internal/config"
	"github.com/zetronik/tv-movies-parser/internal/logging"
	"github.com/zetronik/tv-movies-parser/internal/runstate"
	"github.com/zetronik/tv-movies-parser/internal/store"
	"github.com/zetronik/tv-movies-parser/internal/tmdb"
	"github.com/zetronik/tv-movies-parser/internal/tracker"
)

// Mode selects which phases a run executes.
type Mode string

const (
	// ModeSync runs only the metadata sync phase.
	ModeSync Mode = "sync"
	// ModeCrawl runs only the release discovery phase.
	ModeCrawl Mode = "crawl"
	// ModeAuto runs the phases the workflow gates enable.
	ModeAuto Mode = "auto"
)

// ParseMode validates a mode string from the CLI.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeSync:
		return ModeSync, nil
	case ModeCrawl:
		return ModeCrawl, nil
	case ModeAuto, "":
		return ModeAuto, nil
	}
	return "", fmt.Errorf("unknown mode %q (want sync, crawl, or auto)", raw)
}

// CatalogClient lists the daily export ids.
type CatalogClient interface {
	DailyIDs(ctx context.Context, day time.Time) ([]int64, error)
}

// TrackerClient is the forum surface the release phase needs.
type TrackerClient interface {
	Login(ctx context.Context) error
	Search(ctx context.Context, query string) ([]tracker.SearchResult, error)
	ForumsFromCategory(ctx context.Context, categoryID int64) ([]tracker.Forum, error)
	TopicsFromForum(ctx context.Context, forumID int64, page int) ([]tracker.Topic, error)
	TopicDetails(ctx context.Context, topicID int64) (*tracker.TopicDetails, error)
}

// Runner executes the two-phase reconciliation run.
type Runner struct {
	cfg       *config.Config
	store     *store.Store
	logger    *slog.Logger
	fetcher   tmdb.Fetcher
	catalog   CatalogClient
	tracker   TrackerClient
	reporter  *runstate.Reporter
	canceller *runstate.Canceller
	now       func() time.Time

	metadataDelay time.Duration
	releaseDelay  time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithFetcher overrides the metadata details client.
func WithFetcher(fetcher tmdb.Fetcher) Option {
	return func(r *Runner) { r.fetcher = fetcher }
}

// WithCatalog overrides the export client.
func WithCatalog(client CatalogClient) Option {
	return func(r *Runner) { r.catalog = client }
}

// WithTracker overrides the forum client.
func WithTracker(client TrackerClient) Option {
	return func(r *Runner) { r.tracker = client }
}

// WithClock overrides the run clock.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithDelays overrides the per-request pacing delays.
func WithDelays(metadata, release time.Duration) Option {
	return func(r *Runner) {
		r.metadataDelay = metadata
		r.releaseDelay = release
	}
}

// NewRunner wires a runner from configuration. Service clients are built
// lazily inside their phase so a disabled phase needs no credentials.
func NewRunner(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	runner := &Runner{
		cfg:           cfg,
		store:         st,
		logger:        logging.NewComponentLogger(logger, "pipeline"),
		reporter:      runstate.NewReporter(cfg.Paths.ProgressFile),
		canceller:     runstate.NewCanceller(cfg.Paths.StopFile),
		now:           time.Now,
		metadataDelay: time.Duration(cfg.TMDB.RequestDelayMS) * time.Millisecond,
		releaseDelay:  time.Duration(cfg.Tracker.RequestDelayMS) * time.Millisecond,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// Run executes one pipeline run. The database archive and the progress
// reset always happen, even when a phase fails; an operator stop request
// ends the run cleanly.
func (r *Runner) Run(ctx context.Context, mode Mode) (err error) {
	runID := uuid.NewString()
	logger := r.logger.With(logging.String(logging.FieldRunID, runID))

	lock, lockErr := runstate.AcquireRunLock(r.cfg.LockPath())
	if lockErr != nil {
		return Wrap(ErrConfiguration, "run", "lock", "", lockErr)
	}
	defer func() { _ = lock.Release() }()

	if clearErr := r.canceller.Clear(); clearErr != nil {
		return Wrap(ErrConfiguration, "run", "clear stop marker", "", clearErr)
	}

	started := r.now()
	logger.Info("run started", logging.String("mode", string(mode)))

	defer func() {
		if archiveErr := r.archive(logger); archiveErr != nil && err == nil {
			err = archiveErr
		}
		if resetErr := r.reporter.Reset(); resetErr != nil {
			logger.Warn("reset progress", logging.Error(resetErr))
		}
		if clearErr := r.canceller.Clear(); clearErr != nil {
			logger.Warn("clear stop marker", logging.Error(clearErr))
		}
		logger.Info("run finished",
			logging.Duration("elapsed", r.now().Sub(started)),
			logging.Bool("ok", err == nil))
	}()

	runSync := mode == ModeSync || (mode == ModeAuto && r.cfg.Workflow.RunMetadataSync)
	runCrawl := mode == ModeCrawl || (mode == ModeAuto && r.cfg.Workflow.RunReleaseCrawl)

	if runSync {
		if err = r.runMetadataSync(ctx, logger); err != nil {
			if errors.Is(err, ErrCancelled) {
				logger.Info("run stopped by request", logging.String("phase", "metadata_sync"))
				return nil
			}
			return err
		}
	}
	if runCrawl {
		if err = r.runReleaseDiscovery(ctx, logger); err != nil {
			if errors.Is(err, ErrCancelled) {
				logger.Info("run stopped by request", logging.String("phase", "release_discovery"))
				return nil
			}
			return err
		}
	}
	return nil
}

// checkpoint is consulted at every loop level so a stop request or context
// cancellation takes effect within one unit of work.
func (r *Runner) checkpoint(ctx context.Context) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, ctxErr)
	}
	if r.canceller.Requested() {
		return ErrCancelled
	}
	return nil
}

func (r *Runner) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

func (r *Runner) catalogClient(logger *slog.Logger) CatalogClient {
	if r.catalog == nil {
		r.catalog = catalog.NewClient(r.cfg, logger)
	}
	return r.catalog
}

func (r *Runner) detailsFetcher() (tmdb.Fetcher, error) {
	if r.fetcher == nil {
		client, err := tmdb.New(r.cfg.TMDB.APIKey, r.cfg.TMDB.ReadToken, r.cfg.TMDB.BaseURL, r.cfg.TMDB.Language)
		if err != nil {
			return nil, err
		}
		r.fetcher = client
	}
	return r.fetcher, nil
}

func (r *Runner) trackerClient(logger *slog.Logger) (TrackerClient, error) {
	if r.tracker == nil {
		client, err := tracker.NewClient(r.cfg, logger)
		if err != nil {
			return nil, err
		}
		r.tracker = client
	}
	return r.tracker, nil
}
