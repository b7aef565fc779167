package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/picgrab/internal/model"
)

// ErrUnknownFormat is returned by New for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Supported format names.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Writer renders reports to an output.
type Writer interface {
	// WriteRun outputs the summary of one run.
	WriteRun(report *model.RunReport) (int, error)

	// WriteHistory outputs a list of runs.
	WriteHistory(runs []*model.RunReport) (int, error)

	// WriteDownloads outputs the download attempts of one run.
	WriteDownloads(run *model.RunReport, records []*model.DownloadRecord) (int, error)
}

// New returns the Writer for format.
func New(format string, output io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return NewTextWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown, "md":
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// valueOrDash returns s, or "-" when s is empty.
func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
