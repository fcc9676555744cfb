package preflight

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"muxext/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// workDir anchors the ../resources FFmpeg lookup; empty means the process
// working directory.
func RunAll(cfg *config.Config, workDir string) []Result {
	if cfg == nil {
		return nil
	}
	if workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		}
	}

	results := []Result{
		CheckFFmpeg(cfg.FFmpeg.Binary, workDir),
		CheckDirectoryAccess("Output directory", cfg.Output.Dir),
	}
	if cfg.History.Enabled {
		results = append(results, CheckParentAccess("History directory", cfg.History.Path))
	}
	return results
}

// Err joins every failed check into a single error, or returns nil.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return errors.New("preflight failed: " + strings.Join(failed, "; "))
}
