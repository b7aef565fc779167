package model

import "time"

// Download outcome names, matching download.Outcome.String.
const (
	OutcomeSkipped = "skipped"
	OutcomeWritten = "written"
	OutcomeFailed  = "failed"
)

// DownloadRecord is one download attempt as stored in the history
// database.
type DownloadRecord struct {
	ID          int64     `json:"id,omitempty"`
	RunID       int64     `json:"run_id,omitempty"`
	URL         string    `json:"url"`
	Filename    string    `json:"filename,omitempty"`
	Outcome     string    `json:"outcome"`
	StatusCode  int       `json:"status_code,omitempty"`
	Bytes       int64     `json:"bytes,omitempty"`
	CameraModel string    `json:"camera_model,omitempty"`
	TakenAt     string    `json:"taken_at,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
