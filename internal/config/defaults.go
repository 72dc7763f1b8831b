package config

const (
	defaultDataDir             = "~/.local/share/moviesync"
	defaultLogDir              = "~/.local/share/moviesync/logs"
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultTMDBExportBaseURL   = "http://files.tmdb.org/p/exports"
	defaultTMDBImageBaseURL    = "https://image.tmdb.org/t/p/w500"
	defaultTMDBLanguage        = "ru-RU"
	defaultTMDBFetchLimit      = 100
	defaultTMDBRequestDelayMS  = 50
	defaultTrackerBaseURL      = "https://rutracker.org/forum"
	defaultTrackerDiscovery    = "search"
	defaultTrackerCategoryID   = 2
	defaultPagesPerForum       = 1
	defaultTopicsPerTitle      = 5
	defaultTrackerSearchLimit  = 100
	defaultTrackerRequestDelay = 1500
	defaultSchedule            = "02:00"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			ExportBaseURL:  defaultTMDBExportBaseURL,
			ImageBaseURL:   defaultTMDBImageBaseURL,
			Language:       defaultTMDBLanguage,
			FetchLimit:     defaultTMDBFetchLimit,
			RequestDelayMS: defaultTMDBRequestDelayMS,
		},
		Tracker: Tracker{
			BaseURL:        defaultTrackerBaseURL,
			Discovery:      defaultTrackerDiscovery,
			CategoryID:     defaultTrackerCategoryID,
			PagesPerForum:  defaultPagesPerForum,
			TopicsPerTitle: defaultTopicsPerTitle,
			SearchLimit:    defaultTrackerSearchLimit,
			RequestDelayMS: defaultTrackerRequestDelay,
		},
		Workflow: Workflow{
			RunMetadataSync: true,
			RunReleaseCrawl: true,
			Schedule:        defaultSchedule,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
