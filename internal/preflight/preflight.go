package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"sidecar/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks the scan root and, when they will be written, the state and
// log directories.
func RunAll(cfg *config.Config, root string) []Result {
	results := []Result{CheckDirectory("Scan root", root, false)}
	if cfg == nil {
		return results
	}
	if cfg.Ledger.Enabled {
		results = append(results, CheckDirectory("State directory", cfg.Paths.StateDir, true))
	}
	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		results = append(results, CheckDirectory("Log directory", cfg.Paths.LogDir, true))
	}
	return results
}

// CheckDirectory verifies that path is a directory that can be listed and
// traversed, and written to when writable is set.
func CheckDirectory(name, path string, writable bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}

	mode := uint32(unix.R_OK | unix.X_OK)
	label := "read ok"
	if writable {
		mode |= unix.W_OK
		label = "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// FirstFailure returns an error describing the first failed check, or nil.
func FirstFailure(results []Result) error {
	for _, r := range results {
		if !r.Passed {
			return fmt.Errorf("preflight %s: %s", strings.ToLower(r.Name), r.Detail)
		}
	}
	return nil
}
