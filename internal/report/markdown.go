package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/picgrab/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteRun outputs a run summary with a chart of download outcomes.
func (w *MarkdownWriter) WriteRun(r *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	title := "picgrab Run"
	if r.ID != 0 {
		title += " #" + strconv.FormatInt(r.ID, 10)
	}
	md.H1(title)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"State", r.State},
			{"Seeds", "`" + strings.Join(r.Seeds, "`, `") + "`"},
			{"Started", r.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", r.Duration().Round(time.Millisecond).String()},
			{"Resumed", strconv.FormatBool(r.Resumed)},
		},
	})
	md.PlainText("")

	md.H2("Traversal")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Pages fetched", strconv.Itoa(r.PagesFetched)},
			{"Pages failed", strconv.Itoa(r.PagesFailed)},
			{"Retries", strconv.Itoa(r.Retries)},
			{"Links considered", strconv.Itoa(r.LinksConsidered)},
			{"Enqueued", strconv.Itoa(r.Enqueued)},
			{"Cross-origin dropped", strconv.Itoa(r.CrossOriginDropped)},
			{"Frontier remaining", strconv.Itoa(r.FrontierRemaining)},
			{"Visited", strconv.Itoa(r.VisitedCount)},
		},
	})
	md.PlainText("")

	w.writeDownloadSummary(md, r)
	w.writeStateAlert(md, r)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeDownloadSummary(md *markdown.Markdown, r *model.RunReport) {
	md.H2("Downloads")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Written", strconv.Itoa(r.Downloads.Written)},
			{"Skipped", strconv.Itoa(r.Downloads.Skipped)},
			{"Failed", strconv.Itoa(r.Downloads.Failed)},
			{"**Bytes written**", "**" + formatBytes(r.BytesWritten) + "**"},
		},
	})
	md.PlainText("")

	if r.Downloads.Total() > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Download Outcomes"),
			piechart.WithShowData(true),
		)
		if r.Downloads.Written > 0 {
			chart.LabelAndIntValue("Written", uint64(r.Downloads.Written))
		}
		if r.Downloads.Skipped > 0 {
			chart.LabelAndIntValue("Skipped", uint64(r.Downloads.Skipped))
		}
		if r.Downloads.Failed > 0 {
			chart.LabelAndIntValue("Failed", uint64(r.Downloads.Failed))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	if len(r.Written) > 0 {
		md.Details("Written files", strings.Join(r.Written, "\n"))
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeStateAlert(md *markdown.Markdown, r *model.RunReport) {
	switch {
	case r.State == model.RunStateSuspended:
		md.Importantf("Run was interrupted with %d URL(s) left in the frontier. Run grab again with the same state files to resume.", r.FrontierRemaining)
	case r.Downloads.Failed > 0:
		md.Warningf("%d download(s) failed.", r.Downloads.Failed)
	case r.Downloads.Written == 0:
		md.Note("No new files were written.")
	default:
		md.Tip("Run finished.")
	}
	md.PlainText("")
}

// WriteHistory outputs a table of runs.
func (w *MarkdownWriter) WriteHistory(runs []*model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("picgrab History")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			strconv.FormatInt(r.ID, 10),
			r.StartedAt.Format("2006-01-02 15:04:05 MST"),
			r.State,
			strconv.Itoa(r.Downloads.Written),
			strconv.Itoa(r.PagesFetched),
			truncateString(strings.Join(r.Seeds, " "), 60),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Started", "State", "Written", "Pages", "Seeds"},
		Rows:   rows,
	})
	md.PlainText("")
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteDownloads outputs a table of the download attempts of a run.
func (w *MarkdownWriter) WriteDownloads(run *model.RunReport, records []*model.DownloadRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("picgrab Run #" + strconv.FormatInt(run.ID, 10) + " Downloads")
	md.PlainText("")

	if len(records) == 0 {
		md.PlainText("No download attempts recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = []string{
			rec.Outcome,
			valueOrDash(rec.Filename),
			truncateString(rec.URL, 60),
			valueOrDash(rec.CameraModel),
			valueOrDash(rec.TakenAt),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "File", "URL", "Camera", "Taken"},
		Rows:   rows,
	})
	md.PlainText("")
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [picgrab](https://github.com/nao1215/picgrab)*")
}
