package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zetronik/tv-movies-parser/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[paths]\ndata_dir = \"" + dir + "\"\nlog_dir = \"" + filepath.Join(dir, "logs") + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertTitleReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &Title{ID: 42, Title: "Фильм", OriginalTitle: "The Movie", Overview: "old overview", ReleaseDate: "1999-05-01", Rating: 6.1}
	if err := s.UpsertTitle(ctx, first); err != nil {
		t.Fatalf("UpsertTitle: %v", err)
	}

	second := &Title{ID: 42, Title: "Фильм", OriginalTitle: "The Movie", ReleaseDate: "1999-05-01", Rating: 7.3}
	if err := s.UpsertTitle(ctx, second); err != nil {
		t.Fatalf("UpsertTitle replace: %v", err)
	}

	got, err := s.GetTitle(ctx, 42)
	if err != nil {
		t.Fatalf("GetTitle: %v", err)
	}
	if got == nil {
		t.Fatal("expected title to exist")
	}
	if got.Rating != 7.3 {
		t.Fatalf("expected rating 7.3 after replace, got %v", got.Rating)
	}
	if got.Overview != "" {
		t.Fatalf("expected overview cleared by replace, got %q", got.Overview)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Titles != 1 {
		t.Fatalf("expected one title row, got %d", stats.Titles)
	}
}

func TestUpsertTitleRejectsInvalidID(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpsertTitle(context.Background(), &Title{ID: 0, Title: "x"}); err == nil {
		t.Fatal("expected error for id 0")
	}
}

func TestInsertReleaseDeduplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.UpsertTitle(ctx, &Title{ID: 1, Title: "Фильм", ReleaseDate: "2001-01-01"}); err != nil {
		t.Fatalf("UpsertTitle: %v", err)
	}

	release := &Release{TitleID: 1, TopicTitle: "Фильм (2001) BDRip", SizeGB: 8.42, MagnetLink: "magnet:?xt=urn:btih:abc", Seeds: 10}
	inserted, err := s.InsertRelease(ctx, release)
	if err != nil {
		t.Fatalf("InsertRelease: %v", err)
	}
	if !inserted {
		t.Fatal("expected first insert to report inserted")
	}

	again := &Release{TitleID: 1, TopicTitle: "different heading", SizeGB: 1.0, MagnetLink: "magnet:?xt=urn:btih:abc", Seeds: 99}
	inserted, err = s.InsertRelease(ctx, again)
	if err != nil {
		t.Fatalf("InsertRelease repeat: %v", err)
	}
	if inserted {
		t.Fatal("expected repeat insert to be ignored")
	}

	releases, err := s.ReleasesForTitle(ctx, 1)
	if err != nil {
		t.Fatalf("ReleasesForTitle: %v", err)
	}
	if len(releases) != 1 {
		t.Fatalf("expected one release, got %d", len(releases))
	}
	if releases[0].Seeds != 10 {
		t.Fatalf("expected original row untouched, got seeds=%d", releases[0].Seeds)
	}
}

func TestInsertReleaseRejectsEmptyMagnet(t *testing.T) {
	s := newTestStore(t)
	_, err := s.InsertRelease(context.Background(), &Release{TitleID: 1, MagnetLink: "  "})
	if !errors.Is(err, ErrEmptyMagnet) {
		t.Fatalf("expected ErrEmptyMagnet, got %v", err)
	}
}

func TestFindTitleID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	titles := []*Title{
		{ID: 10, Title: "Ёлки", OriginalTitle: "Yolki", ReleaseDate: "2010-12-16"},
		{ID: 11, Title: "Фильм", OriginalTitle: "The Movie", ReleaseDate: "1999-05-01"},
		{ID: 12, Title: "Фильм", OriginalTitle: "The Movie", ReleaseDate: "2005-05-01"},
	}
	for _, title := range titles {
		if err := s.UpsertTitle(ctx, title); err != nil {
			t.Fatalf("UpsertTitle %d: %v", title.ID, err)
		}
	}

	cases := []struct {
		name     string
		local    string
		original string
		year     string
		wantID   int64
		wantOK   bool
	}{
		{name: "case insensitive", local: "фильм", year: "1999", wantID: 11, wantOK: true},
		{name: "year disambiguates", local: "Фильм", year: "2005", wantID: 12, wantOK: true},
		{name: "yo equivalence", local: "елки", year: "2010", wantID: 10, wantOK: true},
		{name: "original name matches", local: "", original: "the movie", year: "1999", wantID: 11, wantOK: true},
		{name: "wrong year", local: "Фильм", year: "1998"},
		{name: "empty year", local: "Фильм"},
		{name: "no names", year: "1999"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok, err := s.FindTitleID(ctx, tc.local, tc.original, tc.year)
			if err != nil {
				t.Fatalf("FindTitleID: %v", err)
			}
			if ok != tc.wantOK || id != tc.wantID {
				t.Fatalf("got (%d, %v), want (%d, %v)", id, ok, tc.wantID, tc.wantOK)
			}
		})
	}
}

func TestTitleIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, id := range []int64{5, 6, 7} {
		if err := s.UpsertTitle(ctx, &Title{ID: id, Title: "t", ReleaseDate: "2020-01-01"}); err != nil {
			t.Fatalf("UpsertTitle: %v", err)
		}
	}
	ids, err := s.TitleIDs(ctx)
	if err != nil {
		t.Fatalf("TitleIDs: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(ids))
	}
	if _, ok := ids[6]; !ok {
		t.Fatal("expected id 6 in set")
	}
}

func TestTitlesForSearchSkipsMissingOriginal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.UpsertTitle(ctx, &Title{ID: 1, Title: "Без оригинала", ReleaseDate: "2020-01-01"}); err != nil {
		t.Fatalf("UpsertTitle: %v", err)
	}
	if err := s.UpsertTitle(ctx, &Title{ID: 2, Title: "С оригиналом", OriginalTitle: "With Original", ReleaseDate: "2021-01-01"}); err != nil {
		t.Fatalf("UpsertTitle: %v", err)
	}

	titles, err := s.TitlesForSearch(ctx, 0)
	if err != nil {
		t.Fatalf("TitlesForSearch: %v", err)
	}
	if len(titles) != 1 || titles[0].ID != 2 {
		t.Fatalf("expected only title 2, got %+v", titles)
	}
}

func TestListTitlesFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seed := []*Title{
		{ID: 1, Title: "Зелёная миля", OriginalTitle: "The Green Mile", ReleaseDate: "1999-12-06"},
		{ID: 2, Title: "Матрица", OriginalTitle: "The Matrix", ReleaseDate: "1999-03-31"},
		{ID: 3, Title: "Побег", OriginalTitle: "Escape", ReleaseDate: "2005-06-01"},
	}
	for _, title := range seed {
		if err := s.UpsertTitle(ctx, title); err != nil {
			t.Fatalf("UpsertTitle: %v", err)
		}
	}

	titles, total, err := s.ListTitles(ctx, "зеленая", 10, 0)
	if err != nil {
		t.Fatalf("ListTitles: %v", err)
	}
	if total != 1 || len(titles) != 1 || titles[0].ID != 1 {
		t.Fatalf("expected title 1 for filter, got total=%d titles=%+v", total, titles)
	}

	titles, total, err = s.ListTitles(ctx, "matrix", 10, 0)
	if err != nil {
		t.Fatalf("ListTitles original: %v", err)
	}
	if total != 1 || len(titles) != 1 || titles[0].ID != 2 {
		t.Fatalf("expected title 2 for original-name filter, got total=%d", total)
	}

	titles, total, err = s.ListTitles(ctx, "", 2, 0)
	if err != nil {
		t.Fatalf("ListTitles all: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(titles) != 2 || titles[0].ID != 3 {
		t.Fatalf("expected newest-first page of 2, got %+v", titles)
	}
}

func TestStatsCountsTitlesWithoutReleases(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.UpsertTitle(ctx, &Title{ID: 1, Title: "a", ReleaseDate: "2020-01-01"}); err != nil {
		t.Fatalf("UpsertTitle: %v", err)
	}
	if err := s.UpsertTitle(ctx, &Title{ID: 2, Title: "b", ReleaseDate: "2020-01-01"}); err != nil {
		t.Fatalf("UpsertTitle: %v", err)
	}
	if _, err := s.InsertRelease(ctx, &Release{TitleID: 1, MagnetLink: "magnet:?xt=urn:btih:x"}); err != nil {
		t.Fatalf("InsertRelease: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Titles != 2 || stats.Releases != 1 || stats.TitlesWithoutReleases != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
