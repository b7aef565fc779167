package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Store loads and saves the frontier and visited set.
// An empty path disables persistence of that structure.
type Store struct {
	visitedPath  string
	frontierPath string
	logger       *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for load and save problems.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a Store for the given state files.
func NewStore(visitedPath, frontierPath string, opts ...StoreOption) *Store {
	s := &Store{
		visitedPath:  visitedPath,
		frontierPath: frontierPath,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled reports whether at least one state file is configured.
func (s *Store) Enabled() bool {
	return s.visitedPath != "" || s.frontierPath != ""
}

// Load reads both state files. A missing, unreadable or corrupt file is
// logged and treated as empty; Load never fails.
func (s *Store) Load() (*Frontier, *VisitedSet) {
	frontier := NewFrontier(s.load("frontier", s.frontierPath)...)
	visited := NewVisitedSet(s.load("visited", s.visitedPath)...)
	return frontier, visited
}

func (s *Store) load(kind, path string) []string {
	if path == "" {
		return nil
	}
	items, err := readJSON(path)
	switch {
	case err == nil:
		s.logger.Info("loaded state", "kind", kind, "path", path, "count", len(items))
		return items
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("no saved state", "kind", kind, "path", path)
	default:
		s.logger.Warn("failed to load state, starting empty", "kind", kind, "path", path, "error", err)
	}
	return nil
}

// Save writes both state files. The files are independent and written
// concurrently; each is replaced atomically.
func (s *Store) Save(ctx context.Context, frontier *Frontier, visited *VisitedSet) error {
	g, _ := errgroup.WithContext(ctx)
	if s.frontierPath != "" {
		items := frontier.Items()
		g.Go(func() error {
			return writeJSON(s.frontierPath, items)
		})
	}
	if s.visitedPath != "" {
		items := visited.Items()
		g.Go(func() error {
			return writeJSON(s.visitedPath, items)
		})
	}
	return g.Wait()
}

func readJSON(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, err
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return items, nil
}

// writeJSON writes items to a temporary file next to path and renames it
// over path.
func writeJSON(path string, items []string) error {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
