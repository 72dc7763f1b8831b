package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/zetronik/tv-movies-parser/internal/config"
	"github.com/zetronik/tv-movies-parser/internal/logging"
)

// Client downloads the metadata service's daily id export.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient builds an export client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		baseURL:    cfg.TMDB.ExportBaseURL,
		logger:     logging.NewComponentLogger(logger, "catalog"),
	}
}

// ExportDay returns the export date for a run started at now. Exports are
// published once per day and cover the previous calendar day.
func ExportDay(now time.Time) time.Time {
	return now.AddDate(0, 0, -1)
}

// exportFileName formats the export object name, e.g. movie_ids_08_30_2026.json.gz.
func exportFileName(day time.Time) string {
	return fmt.Sprintf("movie_ids_%02d_%02d_%04d.json.gz", day.Month(), day.Day(), day.Year())
}

type exportLine struct {
	ID int64 `json:"id"`
}

// DailyIDs downloads and decodes the id export for the given day. Lines that
// fail to decode are skipped; the export occasionally carries trailing noise.
func (c *Client) DailyIDs(ctx context.Context, day time.Time) ([]int64, error) {
	url := c.baseURL + "/" + exportFileName(day)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build export request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download export: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download export %s: unexpected status %s", url, resp.Status)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("open export archive: %w", err)
	}
	defer func() { _ = gz.Close() }()

	var (
		ids     []int64
		skipped int
	)
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry exportLine
		if err := json.Unmarshal(line, &entry); err != nil || entry.ID <= 0 {
			skipped++
			continue
		}
		ids = append(ids, entry.ID)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	c.logger.Info("export downloaded",
		logging.String("file", exportFileName(day)),
		logging.Int("ids", len(ids)),
		logging.Int("skipped_lines", skipped))
	return ids, nil
}
