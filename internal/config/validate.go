package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is structurally usable. Credential
// presence is checked at run start instead, because each credential is only
// required when its phase gate is enabled.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateTracker(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if err := ensurePositiveMap(map[string]int{
		"tmdb.fetch_limit":      c.TMDB.FetchLimit,
		"tmdb.request_delay_ms": c.TMDB.RequestDelayMS,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTracker() error {
	switch c.Tracker.Discovery {
	case "search", "crawl":
	default:
		return fmt.Errorf("tracker.discovery must be %q or %q, got %q", "search", "crawl", c.Tracker.Discovery)
	}
	if err := ensurePositiveMap(map[string]int{
		"tracker.category_id":      c.Tracker.CategoryID,
		"tracker.pages_per_forum":  c.Tracker.PagesPerForum,
		"tracker.topics_per_title": c.Tracker.TopicsPerTitle,
		"tracker.search_limit":     c.Tracker.SearchLimit,
		"tracker.request_delay_ms": c.Tracker.RequestDelayMS,
	}); err != nil {
		return err
	}
	for _, pair := range c.Tracker.NormalizePairs {
		if !strings.Contains(pair, "=") {
			return fmt.Errorf("tracker.normalize_pairs entry %q must be of the form \"from=to\"", pair)
		}
	}
	return nil
}

// RequireTMDBCredentials reports whether metadata sync can authenticate.
func (c *Config) RequireTMDBCredentials() error {
	if strings.TrimSpace(c.TMDB.ReadToken) == "" && strings.TrimSpace(c.TMDB.APIKey) == "" {
		return errors.New("tmdb credentials missing: set tmdb.read_token or tmdb.api_key (or TMDB_READ_TOKEN / TMDB_API_KEY)")
	}
	return nil
}

// RequireTrackerCredentials reports whether the release crawl can log in.
func (c *Config) RequireTrackerCredentials() error {
	if strings.TrimSpace(c.Tracker.Username) == "" || c.Tracker.Password == "" {
		return errors.New("tracker credentials missing: set tracker.username and tracker.password (or RUTRACKER_LOGIN / RUTRACKER_PASSWORD)")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
