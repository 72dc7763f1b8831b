package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeTracker()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ProgressFile) == "" {
		c.Paths.ProgressFile = filepath.Join(c.Paths.DataDir, "progress.json")
	} else if c.Paths.ProgressFile, err = expandPath(c.Paths.ProgressFile); err != nil {
		return fmt.Errorf("paths.progress_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.StopFile) == "" {
		c.Paths.StopFile = filepath.Join(c.Paths.DataDir, "stop.flag")
	} else if c.Paths.StopFile, err = expandPath(c.Paths.StopFile); err != nil {
		return fmt.Errorf("paths.stop_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.ArchiveFile) == "" {
		c.Paths.ArchiveFile = filepath.Join(c.Paths.DataDir, "movies.zip")
	} else if c.Paths.ArchiveFile, err = expandPath(c.Paths.ArchiveFile); err != nil {
		return fmt.Errorf("paths.archive_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	if c.TMDB.ReadToken == "" {
		if value, ok := os.LookupEnv("TMDB_READ_TOKEN"); ok {
			c.TMDB.ReadToken = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.ExportBaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.ExportBaseURL), "/")
	if c.TMDB.ExportBaseURL == "" {
		c.TMDB.ExportBaseURL = defaultTMDBExportBaseURL
	}
	c.TMDB.ImageBaseURL = strings.TrimSpace(c.TMDB.ImageBaseURL)
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = defaultTMDBImageBaseURL
	}
	if c.TMDB.FetchLimit <= 0 {
		c.TMDB.FetchLimit = defaultTMDBFetchLimit
	}
	if c.TMDB.RequestDelayMS <= 0 {
		c.TMDB.RequestDelayMS = defaultTMDBRequestDelayMS
	}
}

func (c *Config) normalizeTracker() {
	if c.Tracker.Username == "" {
		if value, ok := os.LookupEnv("RUTRACKER_LOGIN"); ok {
			c.Tracker.Username = strings.TrimSpace(value)
		}
	}
	if c.Tracker.Password == "" {
		if value, ok := os.LookupEnv("RUTRACKER_PASSWORD"); ok {
			c.Tracker.Password = value
		}
	}
	c.Tracker.BaseURL = strings.TrimRight(strings.TrimSpace(c.Tracker.BaseURL), "/")
	if c.Tracker.BaseURL == "" {
		c.Tracker.BaseURL = defaultTrackerBaseURL
	}
	c.Tracker.Discovery = strings.ToLower(strings.TrimSpace(c.Tracker.Discovery))
	if c.Tracker.Discovery == "" {
		c.Tracker.Discovery = defaultTrackerDiscovery
	}
	if c.Tracker.CategoryID <= 0 {
		c.Tracker.CategoryID = defaultTrackerCategoryID
	}
	if c.Tracker.PagesPerForum <= 0 {
		c.Tracker.PagesPerForum = defaultPagesPerForum
	}
	if c.Tracker.TopicsPerTitle <= 0 {
		c.Tracker.TopicsPerTitle = defaultTopicsPerTitle
	}
	if c.Tracker.SearchLimit <= 0 {
		c.Tracker.SearchLimit = defaultTrackerSearchLimit
	}
	if c.Tracker.RequestDelayMS <= 0 {
		c.Tracker.RequestDelayMS = defaultTrackerRequestDelay
	}
	if len(c.Tracker.NormalizePairs) == 0 {
		c.Tracker.NormalizePairs = []string{"ё=е"}
	}
}

func (c *Config) normalizeWorkflow() {
	c.Workflow.Schedule = strings.TrimSpace(c.Workflow.Schedule)
	if c.Workflow.Schedule == "" {
		c.Workflow.Schedule = defaultSchedule
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
