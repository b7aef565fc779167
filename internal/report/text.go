package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/picgrab/internal/model"
)

// TextWriter outputs plain text for terminal display.
type TextWriter struct {
	baseWriter

	// verbose lists every written file.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose lists written files in run summaries.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteRun outputs a run summary.
func (w *TextWriter) WriteRun(r *model.RunReport) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 60) + "\n")
	title := "picgrab run"
	if r.ID != 0 {
		title = fmt.Sprintf("picgrab run #%d", r.ID)
	}
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")

	fmt.Fprintf(&sb, "State:        %s\n", r.State)
	if r.Resumed {
		sb.WriteString("Resumed:      yes\n")
	}
	fmt.Fprintf(&sb, "Seeds:        %s\n", strings.Join(r.Seeds, ", "))
	fmt.Fprintf(&sb, "Started:      %s\n", r.StartedAt.Format(time.DateTime))
	fmt.Fprintf(&sb, "Duration:     %s\n", r.Duration().Round(time.Millisecond))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Pages:        %d fetched, %d failed, %d retried\n", r.PagesFetched, r.PagesFailed, r.Retries)
	fmt.Fprintf(&sb, "Links:        %d considered, %d enqueued, %d cross-origin dropped\n",
		r.LinksConsidered, r.Enqueued, r.CrossOriginDropped)
	fmt.Fprintf(&sb, "Downloads:    %d written (%s), %d skipped, %d failed\n",
		r.Downloads.Written, formatBytes(r.BytesWritten), r.Downloads.Skipped, r.Downloads.Failed)
	fmt.Fprintf(&sb, "State saved:  %d time(s); %d queued, %d visited\n", r.Snapshots, r.FrontierRemaining, r.VisitedCount)

	if w.verbose && len(r.Written) > 0 {
		sb.WriteString("\nWritten files:\n")
		for _, name := range r.Written {
			sb.WriteString("  - " + name + "\n")
		}
	}

	return io.WriteString(w.output, sb.String())
}

// WriteHistory outputs one line per run.
func (w *TextWriter) WriteHistory(runs []*model.RunReport) (int, error) {
	if len(runs) == 0 {
		return io.WriteString(w.output, "No runs recorded.\n")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-6s %-19s %-10s %8s %8s  %s\n", "ID", "STARTED", "STATE", "WRITTEN", "PAGES", "SEEDS")
	for _, r := range runs {
		fmt.Fprintf(&sb, "%-6d %-19s %-10s %8d %8d  %s\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.State,
			r.Downloads.Written,
			r.PagesFetched,
			truncateString(strings.Join(r.Seeds, " "), 60),
		)
	}
	return io.WriteString(w.output, sb.String())
}

// WriteDownloads outputs the downloads of a run.
func (w *TextWriter) WriteDownloads(run *model.RunReport, records []*model.DownloadRecord) (int, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Run #%d (%s), %d download attempt(s)\n\n", run.ID, run.State, len(records))
	for _, rec := range records {
		fmt.Fprintf(&sb, "%-8s %-40s %s\n", rec.Outcome, truncateString(valueOrDash(rec.Filename), 40), rec.URL)
		if rec.CameraModel != "" || rec.TakenAt != "" {
			fmt.Fprintf(&sb, "         camera: %s, taken: %s\n", valueOrDash(rec.CameraModel), valueOrDash(rec.TakenAt))
		}
		if rec.Error != "" {
			fmt.Fprintf(&sb, "         error: %s\n", rec.Error)
		}
	}
	return io.WriteString(w.output, sb.String())
}
