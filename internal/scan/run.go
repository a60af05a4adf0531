package scan

import (
	"context"
	"log/slog"
	"sync"

	"sidecar/internal/ledger"
	"sidecar/internal/logging"
)

// Resolver finds the sidecar for one media file.
type Resolver interface {
	ForMediaFile(path string) (string, bool, error)
}

// Result is the outcome for one media file.
type Result struct {
	MediaPath     string
	CompanionPath string
	Status        ledger.Status
	Err           error
}

// Entry converts the result to its ledger form.
func (r Result) Entry() ledger.Entry {
	entry := ledger.Entry{
		MediaPath:     r.MediaPath,
		CompanionPath: r.CompanionPath,
		Status:        r.Status,
	}
	if r.Err != nil {
		entry.ErrorMessage = r.Err.Error()
	}
	return entry
}

// Summary counts results by status.
type Summary struct {
	Found   int
	Missing int
	Failed  int
}

// Total is the number of media files summarized.
func (s Summary) Total() int {
	return s.Found + s.Missing + s.Failed
}

// Summarize counts results by status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case ledger.StatusFound:
			s.Found++
		case ledger.StatusMissing:
			s.Missing++
		case ledger.StatusError:
			s.Failed++
		}
	}
	return s
}

// Runner resolves many media files on a fixed pool of workers. Each file's
// candidates are still probed in order by the Resolver; only distinct files
// run in parallel.
type Runner struct {
	resolver Resolver
	workers  int
	logger   *slog.Logger
}

// NewRunner returns a Runner. workers below 1 is treated as 1.
func NewRunner(resolver Resolver, workers int, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		resolver: resolver,
		workers:  workers,
		logger:   logging.NewComponentLogger(logger, "scan"),
	}
}

// Run resolves files and returns one result per file in input order. An
// access failure on one file is recorded in its result and does not stop the
// others. If ctx is cancelled, Run stops handing out work and returns the
// context error.
func (r *Runner) Run(ctx context.Context, files []string) ([]Result, error) {
	results := make([]Result, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = r.resolveOne(files[idx])
			}
		}()
	}

	var cancelled error
feed:
	for idx := range files {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}

	summary := Summarize(results)
	r.logger.Info("scan complete",
		logging.Int("media_files", len(files)),
		logging.Int("found", summary.Found),
		logging.Int("missing", summary.Missing),
		logging.Int("failed", summary.Failed),
	)
	return results, nil
}

func (r *Runner) resolveOne(path string) Result {
	companion, ok, err := r.resolver.ForMediaFile(path)
	switch {
	case err != nil:
		return Result{MediaPath: path, Status: ledger.StatusError, Err: err}
	case !ok:
		return Result{MediaPath: path, Status: ledger.StatusMissing}
	default:
		return Result{MediaPath: path, CompanionPath: companion, Status: ledger.StatusFound}
	}
}
