package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/nao1215/picgrab/internal/fetch"
)

// Getter fetches a URL. *fetch.Client implements it.
type Getter interface {
	Get(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// ErrTruncated is returned when a download hit the body size limit.
var ErrTruncated = errors.New("download truncated at body size limit")

// Result describes one download attempt.
type Result struct {
	// URL is the requested URL.
	URL string

	// Outcome is skipped, written or failed.
	Outcome Outcome

	// Filename is the derived file name. Empty when derivation failed.
	Filename string

	// Path is the file that was written or found, if any.
	Path string

	// StatusCode is the HTTP status, zero when no request was made.
	StatusCode int

	// Bytes is the number of bytes written.
	Bytes int64

	// CameraModel is the EXIF Model tag of a written image.
	CameraModel string

	// TakenAt is the EXIF DateTimeOriginal tag of a written image.
	TakenAt string
}

// Manager writes downloads into a target directory.
type Manager struct {
	getter     Getter
	target     string
	ignoreDirs []string
	probeEXIF  bool
	logger     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithIgnoreDuplicatesIn sets the directories searched for an existing
// file before downloading. The target directory is always searched.
func WithIgnoreDuplicatesIn(dirs []string) Option {
	return func(m *Manager) {
		m.ignoreDirs = append([]string(nil), dirs...)
	}
}

// WithEXIF enables or disables reading EXIF tags of written files.
func WithEXIF(enabled bool) Option {
	return func(m *Manager) {
		m.probeEXIF = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager writing into target.
func NewManager(getter Getter, target string, opts ...Option) *Manager {
	m := &Manager{
		getter:    getter,
		target:    target,
		probeEXIF: true,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if !containsDir(m.ignoreDirs, target) {
		m.ignoreDirs = append(m.ignoreDirs, target)
	}
	return m
}

// Target returns the target directory.
func (m *Manager) Target() string {
	return m.target
}

// MaybeDownload downloads rawURL unless a file with its derived name
// already exists in one of the ignore-duplicates directories.
// The returned error is non-nil exactly when the outcome is OutcomeFailed.
func (m *Manager) MaybeDownload(ctx context.Context, rawURL string) (Result, error) {
	res := Result{URL: rawURL}

	name, err := Filename(rawURL)
	if err != nil {
		res.Outcome = OutcomeFailed
		m.logger.Error("cannot derive file name", "url", rawURL, "error", err)
		return res, err
	}
	res.Filename = name

	if existing, ok := m.findExisting(name); ok {
		res.Outcome = OutcomeSkipped
		res.Path = existing
		m.logger.Warn("file exists, skipping", "filename", name, "path", existing, "url", rawURL)
		return res, nil
	}

	m.logger.Info("downloading", "url", rawURL)
	resp, err := m.getter.Get(ctx, rawURL)
	if resp != nil {
		res.StatusCode = resp.StatusCode
	}
	if err != nil {
		res.Outcome = OutcomeFailed
		m.logger.Error("error fetching file", "url", rawURL, "status", res.StatusCode, "error", err)
		return res, err
	}
	if resp.Truncated {
		res.Outcome = OutcomeFailed
		m.logger.Error("error fetching file", "url", rawURL, "error", ErrTruncated)
		return res, fmt.Errorf("%w: %s", ErrTruncated, rawURL)
	}

	out := filepath.Join(m.target, name)
	if err := os.WriteFile(out, resp.Body, 0600); err != nil {
		res.Outcome = OutcomeFailed
		m.logger.Error("error writing file", "path", out, "error", err)
		return res, fmt.Errorf("failed to write %s: %w", out, err)
	}

	res.Outcome = OutcomeWritten
	res.Path = out
	res.Bytes = int64(len(resp.Body))
	if m.probeEXIF {
		res.CameraModel, res.TakenAt = readEXIF(resp.Body)
	}
	m.logger.Debug("file written", "path", out, "bytes", res.Bytes)
	return res, nil
}

// findExisting returns the path of a regular file named name in one of
// the ignore-duplicates directories.
func (m *Manager) findExisting(name string) (string, bool) {
	for _, dir := range m.ignoreDirs {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// readEXIF returns the camera model and original timestamp of an image.
// Missing EXIF data yields empty strings.
func readEXIF(data []byte) (string, string) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return "", ""
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return "", ""
	}

	var model, taken string
	for _, entry := range entries {
		switch entry.TagName {
		case "Model":
			if model == "" {
				model = entry.Formatted
			}
		case "DateTimeOriginal":
			if taken == "" {
				taken = entry.Formatted
			}
		}
	}
	return model, taken
}

// containsDir reports whether dirs contains dir, ignoring a trailing slash.
func containsDir(dirs []string, dir string) bool {
	want := filepath.Clean(dir)
	for _, d := range dirs {
		if filepath.Clean(d) == want {
			return true
		}
	}
	return false
}
