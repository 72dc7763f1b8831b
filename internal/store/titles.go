package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const titleColumns = "id, title, original_title, overview, rating, release_date, poster_url, genres, countries, directors, actors"

func nullable(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func scanTitle(row interface{ Scan(...any) error }) (*Title, error) {
	var (
		title         Title
		name          sql.NullString
		originalName  sql.NullString
		overview      sql.NullString
		rating        sql.NullFloat64
		releaseDate   sql.NullString
		posterURL     sql.NullString
		genres        sql.NullString
		countries     sql.NullString
		directors     sql.NullString
		actors        sql.NullString
	)
	if err := row.Scan(&title.ID, &name, &originalName, &overview, &rating,
		&releaseDate, &posterURL, &genres, &countries, &directors, &actors); err != nil {
		return nil, err
	}
	title.Title = name.String
	title.OriginalTitle = originalName.String
	title.Overview = overview.String
	title.Rating = rating.Float64
	title.ReleaseDate = releaseDate.String
	title.PosterURL = posterURL.String
	title.Genres = genres.String
	title.Countries = countries.String
	title.Directors = directors.String
	title.Actors = actors.String
	return &title, nil
}

// UpsertTitle writes a title row, fully replacing any existing row with the
// same upstream id.
func (s *Store) UpsertTitle(ctx context.Context, title *Title) error {
	if title == nil {
		return errors.New("upsert title: nil title")
	}
	if title.ID <= 0 {
		return fmt.Errorf("upsert title: invalid id %d", title.ID)
	}
	_, err := s.execWithRetry(ctx, `
		INSERT OR REPLACE INTO titles
		(id, title, original_title, overview, rating, release_date, poster_url, genres, countries, directors, actors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		title.ID, nullable(title.Title), nullable(title.OriginalTitle), nullable(title.Overview),
		title.Rating, nullable(title.ReleaseDate), nullable(title.PosterURL), nullable(title.Genres),
		nullable(title.Countries), nullable(title.Directors), nullable(title.Actors))
	if err != nil {
		return fmt.Errorf("upsert title %d: %w", title.ID, err)
	}
	return nil
}

// TitleIDs returns the set of stored upstream ids.
func (s *Store) TitleIDs(ctx context.Context) (map[int64]struct{}, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM titles")
	if err != nil {
		return nil, fmt.Errorf("query title ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan title id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate title ids: %w", err)
	}
	return ids, nil
}

// GetTitle returns the stored title for id, or nil when absent.
func (s *Store) GetTitle(ctx context.Context, id int64) (*Title, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+titleColumns+" FROM titles WHERE id = ?", id)
	title, err := scanTitle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get title %d: %w", id, err)
	}
	return title, nil
}

// FindTitleID resolves a parsed heading to a stored title. Candidates are
// narrowed by year in SQL; name comparison happens in Go so the configured
// letter equivalences apply. Either name may be empty.
func (s *Store) FindTitleID(ctx context.Context, name, originalName, year string) (int64, bool, error) {
	year = strings.TrimSpace(year)
	if year == "" {
		return 0, false, nil
	}
	if strings.TrimSpace(name) == "" && strings.TrimSpace(originalName) == "" {
		return 0, false, nil
	}

	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, original_title FROM titles WHERE substr(release_date, 1, 4) = ?", year)
	if err != nil {
		return 0, false, fmt.Errorf("query titles for year %s: %w", year, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       int64
			stored   sql.NullString
			original sql.NullString
		)
		if err := rows.Scan(&id, &stored, &original); err != nil {
			return 0, false, fmt.Errorf("scan title candidate: %w", err)
		}
		if s.titleMatches(stored.String, name, originalName) || s.titleMatches(original.String, name, originalName) {
			return id, true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return 0, false, fmt.Errorf("iterate title candidates: %w", err)
	}
	return 0, false, nil
}

func (s *Store) titleMatches(stored, name, originalName string) bool {
	if strings.TrimSpace(stored) == "" {
		return false
	}
	if strings.TrimSpace(name) != "" && s.normalizer.Equal(stored, name) {
		return true
	}
	return strings.TrimSpace(originalName) != "" && s.normalizer.Equal(stored, originalName)
}

// TitlesForSearch returns titles usable as tracker search queries, oldest
// id first. Titles without an original name are skipped because the tracker
// indexes releases under the original name.
func (s *Store) TitlesForSearch(ctx context.Context, limit int) ([]*Title, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + titleColumns + " FROM titles WHERE original_title IS NOT NULL AND original_title != '' ORDER BY id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query titles for search: %w", err)
	}
	defer rows.Close()
	return collectTitles(rows)
}

// ListTitles returns stored titles matching the filter, newest release first,
// along with the total match count. An empty filter matches everything.
func (s *Store) ListTitles(ctx context.Context, filter string, limit, offset int) ([]*Title, int64, error) {
	ctx = ensureContext(ctx)

	where := ""
	args := []any{}
	if trimmed := strings.TrimSpace(filter); trimmed != "" {
		where = " WHERE instr(searchable(title), searchable(?)) > 0 OR instr(searchable(original_title), searchable(?)) > 0"
		args = append(args, trimmed, trimmed)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM titles"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	query := "SELECT " + titleColumns + " FROM titles" + where + " ORDER BY release_date DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query titles: %w", err)
	}
	defer rows.Close()

	titles, err := collectTitles(rows)
	if err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

func collectTitles(rows *sql.Rows) ([]*Title, error) {
	var titles []*Title
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate titles: %w", err)
	}
	return titles, nil
}

// Stats reports row counts for the status surface.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM titles").Scan(&stats.Titles); err != nil {
		return Stats{}, fmt.Errorf("count titles: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM releases").Scan(&stats.Releases); err != nil {
		return Stats{}, fmt.Errorf("count releases: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM titles WHERE NOT EXISTS (SELECT 1 FROM releases WHERE releases.title_id = titles.id)",
	).Scan(&stats.TitlesWithoutReleases); err != nil {
		return Stats{}, fmt.Errorf("count titles without releases: %w", err)
	}
	return stats, nil
}
