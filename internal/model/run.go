package model

import (
	"slices"
	"time"
)

// Run states as stored in reports and the history database.
const (
	RunStateRunning   = "running"
	RunStateFinished  = "finished"
	RunStateSuspended = "suspended"
)

// DownloadCounts tallies download outcomes.
type DownloadCounts struct {
	Written int `json:"written"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Total returns the number of download attempts.
func (c DownloadCounts) Total() int {
	return c.Written + c.Skipped + c.Failed
}

// RunReport summarizes one crawl run.
type RunReport struct {
	// ID is the history database id, zero when history is disabled.
	ID int64 `json:"id,omitempty"`

	// Seeds are the configured start URLs.
	Seeds []string `json:"seeds"`

	// Resumed is true when the run continued a saved frontier.
	Resumed bool `json:"resumed"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`

	// State is one of the RunState constants.
	State string `json:"state"`

	// PagesFetched counts URLs whose content was scanned for links.
	PagesFetched int `json:"pages_fetched"`

	// PagesFailed counts URLs abandoned after a fetch error.
	PagesFailed int `json:"pages_failed"`

	// Retries counts 503 retries.
	Retries int `json:"retries"`

	// LinksConsidered counts candidates seen for the first time.
	LinksConsidered int `json:"links_considered"`

	// CrossOriginDropped counts candidates dropped for changing host.
	CrossOriginDropped int `json:"cross_origin_dropped"`

	// Enqueued counts URLs appended to the frontier.
	Enqueued int `json:"enqueued"`

	Downloads    DownloadCounts `json:"downloads"`
	BytesWritten int64          `json:"bytes_written"`

	// Snapshots counts successful state saves.
	Snapshots int `json:"snapshots"`

	// FrontierRemaining is the frontier length at the end of the run.
	FrontierRemaining int `json:"frontier_remaining"`

	// VisitedCount is the visited set size at the end of the run.
	VisitedCount int `json:"visited_count"`

	// Written lists the files written during the run.
	Written []string `json:"written,omitempty"`
}

// NewRunReport creates a report for a run starting now.
func NewRunReport(seeds []string) *RunReport {
	return &RunReport{
		Seeds:     slices.Clone(seeds),
		StartedAt: time.Now(),
		State:     RunStateRunning,
	}
}

// Duration returns the run time, up to now for an unfinished run.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// AddDownload updates the counters for one download attempt.
func (r *RunReport) AddDownload(rec *DownloadRecord) {
	switch rec.Outcome {
	case OutcomeWritten:
		r.Downloads.Written++
		r.BytesWritten += rec.Bytes
		r.Written = append(r.Written, rec.Filename)
	case OutcomeSkipped:
		r.Downloads.Skipped++
	default:
		r.Downloads.Failed++
	}
}

// Finish marks the report as ended in state.
func (r *RunReport) Finish(state string) {
	r.State = state
	r.FinishedAt = time.Now()
}
