package crawler

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/nao1215/picgrab/internal/extract"
	"github.com/nao1215/picgrab/internal/state"
)

// Default backoff window before retrying a 503 response.
const (
	DefaultBackoffMin = 500 * time.Millisecond
	DefaultBackoffMax = 1500 * time.Millisecond
)

// Option configures a Crawler.
type Option func(*Crawler)

// WithStore sets the store the frontier and visited set are loaded from
// and saved to.
func WithStore(store *state.Store) Option {
	return func(c *Crawler) {
		c.store = store
	}
}

// WithRecorder sets a Recorder that receives run and download records.
func WithRecorder(r Recorder) Option {
	return func(c *Crawler) {
		c.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithExtractor replaces the link extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(c *Crawler) {
		c.extractor = e
	}
}

// WithAllowCrossOrigin permits candidates whose host differs from the
// page they were found on.
func WithAllowCrossOrigin(allow bool) Option {
	return func(c *Crawler) {
		c.allowCrossOrigin = allow
	}
}

// WithSaveEvery snapshots state after every n successfully processed URLs.
// Zero disables periodic snapshots; the final snapshot is always written.
func WithSaveEvery(n int) Option {
	return func(c *Crawler) {
		c.saveEvery = n
	}
}

// WithBackoff sets the function that picks the wait before a 503 retry.
func WithBackoff(backoff func() time.Duration) Option {
	return func(c *Crawler) {
		c.backoff = backoff
	}
}

// randomBackoff returns a duration in [DefaultBackoffMin, DefaultBackoffMax).
func randomBackoff() time.Duration {
	return DefaultBackoffMin + rand.N(DefaultBackoffMax-DefaultBackoffMin) //nolint:gosec // jitter only
}
