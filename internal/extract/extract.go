package extract

import (
	"iter"
	"log/slog"
	"net/url"
	"regexp"

	"golang.org/x/net/html"
)

// linkPattern matches, in order of alternatives: a bare absolute URL,
// a quoted href value and a quoted src value.
var linkPattern = regexp.MustCompile(`(https?://[^\s<>]+)|href=['"]([^"']+)|src=['"]([^"']+)`)

// Extractor scans page bodies for link candidates.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used to report skipped candidates.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Links returns the absolute URL candidates found in body, resolved
// against base. The sequence is lazy: the body is scanned as the caller
// ranges over it, and stopping early stops the scan.
//
// A candidate that does not parse as a URL reference is logged and
// skipped; it never ends the sequence.
func (e *Extractor) Links(base *url.URL, body string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := body
		for {
			loc := linkPattern.FindStringSubmatchIndex(rest)
			if loc == nil {
				return
			}
			raw := candidate(rest, loc)
			rest = rest[loc[1]:]

			ref, err := url.Parse(raw)
			if err != nil {
				e.logger.Debug("skipping unparsable link", "base", base.String(), "raw", raw, "error", err)
				continue
			}
			if !yield(base.ResolveReference(ref).String()) {
				return
			}
		}
	}
}

// candidate returns the text of the first non-empty capture group of a
// match. Attribute values are entity-unescaped, bare URLs are not.
func candidate(s string, loc []int) string {
	if loc[2] >= 0 {
		return s[loc[2]:loc[3]]
	}
	for g := 2; g <= 3; g++ {
		if start := loc[2*g]; start >= 0 {
			return html.UnescapeString(s[start:loc[2*g+1]])
		}
	}
	return ""
}
