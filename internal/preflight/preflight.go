package preflight

import (
	"context"

	"ludotheque/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Authenticator obtains remote credentials.
type Authenticator interface {
	Authenticate(ctx context.Context) error
}

// RunAll executes all applicable checks for the given config. remote may be
// nil when the IGDB client could not be built.
func RunAll(ctx context.Context, cfg *config.Config, remote Authenticator) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Games directory", cfg.Paths.GamesDir, false),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir, true),
		CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir, true),
		CheckIGDB(ctx, remote),
	}

	if cfg.Translation.Enabled {
		results = append(results, CheckLLM(ctx, "Translation LLM", cfg.LLM))
	}

	results = append(results, CheckEmulators(cfg.Emulators)...)
	return results
}

// Failed reports whether any required check failed.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed && !result.Optional {
			return true
		}
	}
	return false
}
