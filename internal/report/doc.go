// Package report renders run summaries and crawl history.
//
// Three formats are available: plain text for the terminal, JSON for
// scripts, and Markdown (with a mermaid chart of download outcomes) for
// sharing. All writers implement Writer.
package report
