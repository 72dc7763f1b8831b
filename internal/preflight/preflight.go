package preflight

import (
	"context"

	"github.com/zetronik/tv-movies-parser/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Service checks only run for the phases the workflow gates enable.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	if cfg.Workflow.RunMetadataSync {
		results = append(results, CheckTMDB(ctx, cfg))
	}
	if cfg.Workflow.RunReleaseCrawl {
		results = append(results, CheckTracker(ctx, cfg))
	}

	return results
}

// AllPassed reports whether every check passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
