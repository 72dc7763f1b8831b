package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/zetronik/tv-movies-parser/internal/config"
	"github.com/zetronik/tv-movies-parser/internal/runstate"
	"github.com/zetronik/tv-movies-parser/internal/store"
	"github.com/zetronik/tv-movies-parser/internal/testsupport"
	"github.com/zetronik/tv-movies-parser/internal/tmdb"
	"github.com/zetronik/tv-movies-parser/internal/tracker"
)

type fakeCatalog struct {
	ids []int64
	err error
}

func (f *fakeCatalog) DailyIDs(_ context.Context, _ time.Time) ([]int64, error) {
	return f.ids, f.err
}

type fakeFetcher struct {
	movies  map[int64]*tmdb.Movie
	onFetch func(movieID int64)
	calls   int
}

func (f *fakeFetcher) GetMovieDetails(_ context.Context, movieID int64) (*tmdb.Movie, error) {
	f.calls++
	if f.onFetch != nil {
		f.onFetch(movieID)
	}
	movie, ok := f.movies[movieID]
	if !ok {
		return nil, fmt.Errorf("movie %d: %w", movieID, tmdb.ErrNotFound)
	}
	return movie, nil
}

type fakeTracker struct {
	loginErr error
	loggedIn bool
	results  map[string][]tracker.SearchResult
	forums   []tracker.Forum
	topics   map[int64][]tracker.Topic
	details  map[int64]*tracker.TopicDetails
	onTopic  func(topicID int64)
}

func (f *fakeTracker) Login(_ context.Context) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = true
	return nil
}

func (f *fakeTracker) Search(_ context.Context, query string) ([]tracker.SearchResult, error) {
	return f.results[query], nil
}

func (f *fakeTracker) ForumsFromCategory(_ context.Context, _ int64) ([]tracker.Forum, error) {
	return f.forums, nil
}

func (f *fakeTracker) TopicsFromForum(_ context.Context, forumID int64, page int) ([]tracker.Topic, error) {
	if page > 0 {
		return nil, nil
	}
	return f.topics[forumID], nil
}

func (f *fakeTracker) TopicDetails(_ context.Context, topicID int64) (*tracker.TopicDetails, error) {
	if f.onTopic != nil {
		f.onTopic(topicID)
	}
	details, ok := f.details[topicID]
	if !ok {
		return nil, fmt.Errorf("topic %d not served", topicID)
	}
	return details, nil
}

func newRunnerFixture(t *testing.T, opts ...Option) (*Runner, *config.Config, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.TMDB.ReadToken = "token"
	cfg.Tracker.Username = "user"
	cfg.Tracker.Password = "pass"
	st := testsupport.MustOpenStore(t, cfg)
	opts = append([]Option{WithDelays(0, 0)}, opts...)
	return NewRunner(cfg, st, nil, opts...), cfg, st
}

func TestParseMode(t *testing.T) {
	for raw, want := range map[string]Mode{"sync": ModeSync, "CRAWL": ModeCrawl, "auto": ModeAuto, "": ModeAuto} {
		got, err := ParseMode(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = (%v, %v), want %v", raw, got, err, want)
		}
	}
	if _, err := ParseMode("cron"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestRunMetadataSync(t *testing.T) {
	fetcher := &fakeFetcher{movies: map[int64]*tmdb.Movie{
		1: {ID: 1, Title: "Один", OriginalTitle: "One", ReleaseDate: "2001-01-01"},
	}}
	runner, cfg, st := newRunnerFixture(t,
		WithCatalog(&fakeCatalog{ids: []int64{1, 2, 3}}),
		WithFetcher(fetcher),
	)
	ctx := context.Background()
	if err := st.UpsertTitle(ctx, &store.Title{ID: 2, Title: "Два", ReleaseDate: "2002-01-01"}); err != nil {
		t.Fatalf("seed title: %v", err)
	}

	if err := runner.Run(ctx, ModeSync); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// id 1 fetched, id 2 already stored, id 3 gone upstream.
	if fetcher.calls != 2 {
		t.Fatalf("expected 2 fetches, got %d", fetcher.calls)
	}
	title, err := st.GetTitle(ctx, 1)
	if err != nil || title == nil {
		t.Fatalf("expected title 1 stored, got (%+v, %v)", title, err)
	}
	if title.Title != "Один" {
		t.Fatalf("unexpected title: %+v", title)
	}
	if missing, err := st.GetTitle(ctx, 3); err != nil || missing != nil {
		t.Fatalf("expected title 3 absent, got (%+v, %v)", missing, err)
	}

	progress, err := runstate.ReadProgress(cfg.Paths.ProgressFile)
	if err != nil {
		t.Fatalf("read progress: %v", err)
	}
	if progress == nil || progress.Task != runstate.TaskIdle {
		t.Fatalf("expected idle progress after run, got %+v", progress)
	}
	if _, err := os.Stat(cfg.Paths.ArchiveFile); err != nil {
		t.Fatalf("expected archive after run: %v", err)
	}
}

func TestRunStopsOnStopMarker(t *testing.T) {
	var runner *Runner
	var cfg *config.Config
	fetcher := &fakeFetcher{
		movies: map[int64]*tmdb.Movie{
			1: {ID: 1, Title: "Один", ReleaseDate: "2001-01-01"},
			2: {ID: 2, Title: "Два", ReleaseDate: "2002-01-01"},
		},
		onFetch: func(int64) {
			if err := runstate.NewCanceller(cfg.Paths.StopFile).Request(); err != nil {
				t.Errorf("request stop: %v", err)
			}
		},
	}
	runner, cfg, _ = newRunnerFixture(t,
		WithCatalog(&fakeCatalog{ids: []int64{1, 2}}),
		WithFetcher(fetcher),
	)

	if err := runner.Run(context.Background(), ModeSync); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected stop after first unit, got %d fetches", fetcher.calls)
	}
	// Finalization still ran: archive written, marker cleared.
	if _, err := os.Stat(cfg.Paths.ArchiveFile); err != nil {
		t.Fatalf("expected archive after stopped run: %v", err)
	}
	if runstate.NewCanceller(cfg.Paths.StopFile).Requested() {
		t.Fatal("expected stop marker cleared after run")
	}
}

func TestRunSearchDiscovery(t *testing.T) {
	matrix := "Матрица / The Matrix [1999, США, BDRip 1080p]"
	trackerClient := &fakeTracker{
		results: map[string][]tracker.SearchResult{
			"The Matrix 1999": {
				{TopicID: 100, Title: matrix, Seeds: 15},
				{TopicID: 101, Title: "Другой фильм / Other [2007, DVDRip]", Seeds: 3},
				{TopicID: 102, Title: matrix, Seeds: 1},
			},
		},
		details: map[int64]*tracker.TopicDetails{
			100: {TopicID: 100, Title: matrix, MagnetLink: "magnet:?xt=urn:btih:aaa", SizeGB: 13.5, Quality: "BDRip 1080p"},
			102: {TopicID: 102, Title: matrix, MagnetLink: ""},
		},
	}
	runner, _, st := newRunnerFixture(t, WithTracker(trackerClient))
	runner.cfg.Tracker.Discovery = "search"

	ctx := context.Background()
	if err := st.UpsertTitle(ctx, &store.Title{ID: 11, Title: "Матрица", OriginalTitle: "The Matrix", ReleaseDate: "1999-03-31"}); err != nil {
		t.Fatalf("seed title: %v", err)
	}

	if err := runner.Run(ctx, ModeCrawl); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !trackerClient.loggedIn {
		t.Fatal("expected login before discovery")
	}

	releases, err := st.ReleasesForTitle(ctx, 11)
	if err != nil {
		t.Fatalf("ReleasesForTitle: %v", err)
	}
	if len(releases) != 1 {
		t.Fatalf("expected one stored release, got %+v", releases)
	}
	if releases[0].MagnetLink != "magnet:?xt=urn:btih:aaa" || releases[0].Quality != "BDRip 1080p" {
		t.Fatalf("unexpected release: %+v", releases[0])
	}
}

func TestSearchQuery(t *testing.T) {
	withYear := &store.Title{OriginalTitle: "The Matrix", ReleaseDate: "1999-03-31"}
	if got := searchQuery(withYear); got != "The Matrix 1999" {
		t.Fatalf("got %q", got)
	}
	noDate := &store.Title{OriginalTitle: "Stalker"}
	if got := searchQuery(noDate); got != "Stalker" {
		t.Fatalf("got %q", got)
	}
}

func TestRunCrawlDiscovery(t *testing.T) {
	heading := "Брат [1997, Россия, драма, DVDRip]"
	trackerClient := &fakeTracker{
		forums: []tracker.Forum{{ID: 187, Name: "Наше кино"}},
		topics: map[int64][]tracker.Topic{
			187: {
				{ID: 777, Title: heading},
				{ID: 778, Title: "Правила раздела"},
				{ID: 779, Title: "Чужой / Alien [1979, ужасы, BDRip]"},
			},
		},
		details: map[int64]*tracker.TopicDetails{
			777: {TopicID: 777, Title: heading, MagnetLink: "magnet:?xt=urn:btih:bbb", SizeGB: 1.46, Quality: "DVDRip"},
		},
	}
	runner, cfg, st := newRunnerFixture(t, WithTracker(trackerClient))
	runner.cfg.Tracker.Discovery = "crawl"

	var snapshot *runstate.Progress
	trackerClient.onTopic = func(_ int64) {
		snapshot, _ = runstate.ReadProgress(cfg.Paths.ProgressFile)
	}

	ctx := context.Background()
	if err := st.UpsertTitle(ctx, &store.Title{ID: 21, Title: "Брат", ReleaseDate: "1997-05-17"}); err != nil {
		t.Fatalf("seed title: %v", err)
	}

	if err := runner.Run(ctx, ModeCrawl); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if snapshot == nil || snapshot.Current != 1 || snapshot.Total != 3 {
		t.Fatalf("unexpected mid-crawl progress: %+v", snapshot)
	}

	releases, err := st.ReleasesForTitle(ctx, 21)
	if err != nil {
		t.Fatalf("ReleasesForTitle: %v", err)
	}
	if len(releases) != 1 || releases[0].SizeGB != 1.46 {
		t.Fatalf("unexpected releases: %+v", releases)
	}
}

func TestRunRejectsBadLogin(t *testing.T) {
	runner, _, _ := newRunnerFixture(t, WithTracker(&fakeTracker{loginErr: tracker.ErrLoginFailed}))
	err := runner.Run(context.Background(), ModeCrawl)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	runner, cfg, _ := newRunnerFixture(t, WithCatalog(&fakeCatalog{}), WithFetcher(&fakeFetcher{}))
	lock, err := runstate.AcquireRunLock(cfg.LockPath())
	if err != nil {
		t.Fatalf("pre-acquire lock: %v", err)
	}
	defer func() { _ = lock.Release() }()

	if err := runner.Run(context.Background(), ModeSync); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected lock failure, got %v", err)
	}
}

func TestRunRequiresCredentials(t *testing.T) {
	runner, _, _ := newRunnerFixture(t, WithCatalog(&fakeCatalog{}), WithFetcher(&fakeFetcher{}))
	runner.cfg.TMDB.ReadToken = ""
	runner.cfg.TMDB.APIKey = ""
	if err := runner.Run(context.Background(), ModeSync); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
