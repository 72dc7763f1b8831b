package pipeline

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zetronik/tv-movies-parser/internal/logging"
)

const (
	archiveAttempts       = 3
	archiveInitialBackoff = time.Second
)

// archive zips the database into the configured archive file. It runs at
// the end of every run, even failed ones, so downstream consumers always
// see the latest state. Retries cover the archive being held open by a
// reader mid-swap.
func (r *Runner) archive(logger *slog.Logger) error {
	source := r.cfg.DatabasePath()
	target := r.cfg.Paths.ArchiveFile

	backoff := archiveInitialBackoff
	var lastErr error
	for attempt := 1; attempt <= archiveAttempts; attempt++ {
		lastErr = writeArchive(source, target)
		if lastErr == nil {
			logger.Info("database archived", logging.String("archive", target))
			return nil
		}
		logger.Warn("archive attempt failed",
			logging.Int("attempt", attempt), logging.Error(lastErr))
		if attempt < archiveAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return Wrap(ErrTransient, "archive", "write", "", lastErr)
}

func writeArchive(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("ensure archive dir: %w", err)
	}

	tmp := target + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	writer := zip.NewWriter(out)
	entry, err := writer.Create(filepath.Base(source))
	if err == nil {
		_, err = io.Copy(entry, in)
	}
	if closeErr := writer.Close(); err == nil {
		err = closeErr
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write archive: %w", err)
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace archive: %w", err)
	}
	return nil
}
