package ledger

import "time"

// Status is the outcome recorded for one media file.
type Status string

const (
	StatusFound   Status = "found"
	StatusMissing Status = "missing"
	StatusError   Status = "error"
)

// Run summarizes one recorded scan.
type Run struct {
	ID         string
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time
	Found      int
	Missing    int
	Failed     int
}

// Finished reports whether FinishRun has been called for the run.
func (r *Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Total is the number of media files the run covered.
func (r *Run) Total() int {
	return r.Found + r.Missing + r.Failed
}

// Entry is the recorded outcome for one media file.
type Entry struct {
	MediaPath     string
	CompanionPath string
	Status        Status
	ErrorMessage  string
}
