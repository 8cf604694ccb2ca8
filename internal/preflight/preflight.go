package preflight

import (
	"context"

	"motk/internal/config"
	"motk/internal/sheet"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every check that applies to the given config. The client
// may be nil when the backing store could not be opened; the backing checks
// then report that instead of failing hard.
func RunAll(ctx context.Context, cfg *config.Config, client sheet.Client) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if cfg.Storage.Provider == config.ProviderFS {
		results = append(results,
			CheckDirectoryAccess("Storage root", cfg.Paths.StorageDir),
			CheckFreeSpace("Storage free space", cfg.Paths.StorageDir))
	}
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckBacking(ctx, client)...)
	return results
}

// Failures filters results down to the checks that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
