package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/picgrab/internal/config"
	"github.com/nao1215/picgrab/internal/model"
)

// newGallery serves a page linking two images, one of them twice.
func newGallery(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, `<html><body>
<a href="/sub/">more</a>
<img src="/a.jpg">
</body></html>`)
	})
	mux.HandleFunc("/sub/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<img src="b.jpg"> <img src="/a.jpg">`)
	})
	mux.HandleFunc("/a.jpg", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "image a")
	})
	mux.HandleFunc("/sub/b.jpg", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "image b")
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// TestGrab_DownloadsImages tests a complete run against an HTTP server.
func TestGrab_DownloadsImages(t *testing.T) {
	t.Parallel()

	server := newGallery(t)
	target := t.TempDir()

	stdout, stderr, err := execute(t, "grab", "--no-history", "-t", target, "--json", server.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("failed to parse JSON summary: %v\n%s", err, stdout)
	}
	if report.State != model.RunStateFinished {
		t.Errorf("expected finished, got %s", report.State)
	}
	if report.Downloads.Written != 2 {
		t.Errorf("expected 2 files written, got %+v", report.Downloads)
	}

	for name, want := range map[string]string{"a.jpg": "image a", "b.jpg": "image b"} {
		data, err := os.ReadFile(filepath.Join(target, name))
		if err != nil {
			t.Errorf("expected %s: %v", name, err)
			continue
		}
		if string(data) != want {
			t.Errorf("expected %q in %s, got %q", want, name, data)
		}
	}
}

// TestGrab_SkipsExistingFiles tests that a second run writes nothing.
func TestGrab_SkipsExistingFiles(t *testing.T) {
	t.Parallel()

	server := newGallery(t)
	target := t.TempDir()

	if _, stderr, err := execute(t, "grab", "--no-history", "-t", target, server.URL+"/"); err != nil {
		t.Fatalf("first run failed: %v\n%s", err, stderr)
	}
	stdout, stderr, err := execute(t, "grab", "--no-history", "-t", target, "--json", server.URL+"/")
	if err != nil {
		t.Fatalf("second run failed: %v\n%s", err, stderr)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("failed to parse JSON summary: %v", err)
	}
	if report.Downloads.Written != 0 || report.Downloads.Skipped != 2 {
		t.Errorf("expected 2 skipped downloads, got %+v", report.Downloads)
	}
}

// TestGrab_StateFiles tests that the state files are written.
func TestGrab_StateFiles(t *testing.T) {
	t.Parallel()

	server := newGallery(t)
	dir := t.TempDir()
	visited := filepath.Join(dir, "visited.json")
	frontier := filepath.Join(dir, "frontier.json")

	_, stderr, err := execute(t, "grab", "--no-history",
		"-t", filepath.Join(dir, "out"),
		"--visited-file", visited,
		"--frontier-file", frontier,
		server.URL+"/",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr)
	}

	data, err := os.ReadFile(frontier)
	if err != nil {
		t.Fatalf("expected frontier file: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("expected empty frontier, got %s", data)
	}

	data, err = os.ReadFile(visited)
	if err != nil {
		t.Fatalf("expected visited file: %v", err)
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatal(err)
	}
	for _, u := range []string{server.URL + "/", server.URL + "/sub/", server.URL + "/a.jpg", server.URL + "/sub/b.jpg"} {
		if !slices.Contains(items, u) {
			t.Errorf("expected %s in visited set %v", u, items)
		}
	}
}

// TestGrab_NoURL tests the failure without seed URLs.
func TestGrab_NoURL(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "grab", "--no-history", "-t", t.TempDir())
	if !errors.Is(err, config.ErrNoURL) {
		t.Fatalf("expected ErrNoURL, got %v", err)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Errorf("expected usage output, got %q", stdout)
	}
}

// TestGrab_InvalidPattern tests that an invalid regex is fatal.
func TestGrab_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "grab", "--no-history", "-t", t.TempDir(), "-f", "(", "http://127.0.0.1:1/")
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

// TestGrab_InvalidLogLevel tests log level validation.
func TestGrab_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "grab", "--no-history", "-t", t.TempDir(), "-l", "LOUD", "http://127.0.0.1:1/")
	if !errors.Is(err, config.ErrInvalidLogLevel) {
		t.Errorf("expected ErrInvalidLogLevel, got %v", err)
	}
}

// TestGrab_MarkdownSummary tests the Markdown summary.
func TestGrab_MarkdownSummary(t *testing.T) {
	t.Parallel()

	server := newGallery(t)
	stdout, stderr, err := execute(t, "grab", "--no-history", "-t", t.TempDir(), "-m", server.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "# picgrab Run") {
		t.Errorf("expected Markdown heading, got %q", stdout)
	}
}

// TestGrab_VerboseLogsRedacted tests that debug logs hide URL secrets.
func TestGrab_VerboseLogsRedacted(t *testing.T) {
	t.Parallel()

	server := newGallery(t)
	_, stderr, err := execute(t, "-v", "grab", "--no-history", "-t", t.TempDir(), server.URL+"/?token=hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "level=DEBUG") {
		t.Error("expected debug output with -v")
	}
	if strings.Contains(stderr, "hunter2") {
		t.Error("expected token to be redacted from logs")
	}
}

// TestGrab_HistoryUnavailable tests that an unusable history directory
// does not stop the crawl.
func TestGrab_HistoryUnavailable(t *testing.T) {
	t.Parallel()

	server := newGallery(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, err := execute(t, "grab", "--history-dir", filepath.Join(blocker, "history"),
		"-t", t.TempDir(), "--json", server.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "history disabled for this run") {
		t.Errorf("expected a warning about the history, got %q", stderr)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("failed to parse JSON summary: %v", err)
	}
	if report.Downloads.Written != 2 {
		t.Errorf("expected 2 files written, got %+v", report.Downloads)
	}
}

// TestReleaseOnDone tests that the release function runs after cancellation.
func TestReleaseOnDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	released := make(chan struct{})
	releaseOnDone(ctx, func() { close(released) })

	select {
	case <-released:
		t.Fatal("expected no release before cancellation")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case <-released:
	case <-time.After(5 * time.Second):
		t.Fatal("expected release after cancellation")
	}
}

// TestInterruptContext tests that the context follows its parent and that
// stop may be called after the signal handling was released.
func TestInterruptContext(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(t.Context())
	ctx, stop := interruptContext(parent)

	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("expected context to be done after the parent was cancelled")
	}
	stop()
	stop()
}
