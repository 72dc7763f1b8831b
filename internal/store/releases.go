package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyMagnet rejects releases discovered without a magnet link.
var ErrEmptyMagnet = errors.New("release has no magnet link")

// InsertRelease stores a discovered release. The (title_id, magnet_link)
// pair is unique; rediscovery of a known magnet is a no-op and reports
// inserted=false.
func (s *Store) InsertRelease(ctx context.Context, release *Release) (bool, error) {
	if release == nil {
		return false, errors.New("insert release: nil release")
	}
	if strings.TrimSpace(release.MagnetLink) == "" {
		return false, ErrEmptyMagnet
	}
	if release.TitleID <= 0 {
		return false, fmt.Errorf("insert release: invalid title id %d", release.TitleID)
	}

	res, err := s.execWithRetry(ctx, `
		INSERT OR IGNORE INTO releases
		(title_id, topic_title, size_gb, quality, file_format, translation, magnet_link, seeds, leeches)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		release.TitleID, nullable(release.TopicTitle), release.SizeGB, nullable(release.Quality),
		nullable(release.FileFormat), nullable(release.Translation), release.MagnetLink,
		release.Seeds, release.Leeches)
	if err != nil {
		return false, fmt.Errorf("insert release for title %d: %w", release.TitleID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert release for title %d: %w", release.TitleID, err)
	}
	return affected > 0, nil
}

// ReleasesForTitle returns the stored releases of a title, largest first.
func (s *Store) ReleasesForTitle(ctx context.Context, titleID int64) ([]*Release, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title_id, topic_title, size_gb, quality, file_format, translation, magnet_link, seeds, leeches
		FROM releases WHERE title_id = ? ORDER BY size_gb DESC, id ASC`, titleID)
	if err != nil {
		return nil, fmt.Errorf("query releases for title %d: %w", titleID, err)
	}
	defer rows.Close()

	var releases []*Release
	for rows.Next() {
		var (
			release     Release
			topicTitle  sql.NullString
			quality     sql.NullString
			fileFormat  sql.NullString
			translation sql.NullString
		)
		if err := rows.Scan(&release.ID, &release.TitleID, &topicTitle, &release.SizeGB,
			&quality, &fileFormat, &translation, &release.MagnetLink,
			&release.Seeds, &release.Leeches); err != nil {
			return nil, fmt.Errorf("scan release: %w", err)
		}
		release.TopicTitle = topicTitle.String
		release.Quality = quality.String
		release.FileFormat = fileFormat.String
		release.Translation = translation.String
		releases = append(releases, &release)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate releases: %w", err)
	}
	return releases, nil
}
