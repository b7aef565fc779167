package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/picgrab/internal/model"
)

// JSONWriter outputs reports as JSON documents.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteRun outputs the run report.
func (w *JSONWriter) WriteRun(report *model.RunReport) (int, error) {
	return w.writeJSON(report)
}

// WriteHistory outputs the runs as a JSON array.
func (w *JSONWriter) WriteHistory(runs []*model.RunReport) (int, error) {
	if runs == nil {
		runs = []*model.RunReport{}
	}
	return w.writeJSON(runs)
}

// runDownloads is the JSON shape of WriteDownloads.
type runDownloads struct {
	Run       *model.RunReport        `json:"run"`
	Downloads []*model.DownloadRecord `json:"downloads"`
}

// WriteDownloads outputs the run together with its download records.
func (w *JSONWriter) WriteDownloads(run *model.RunReport, records []*model.DownloadRecord) (int, error) {
	if records == nil {
		records = []*model.DownloadRecord{}
	}
	return w.writeJSON(runDownloads{Run: run, Downloads: records})
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
