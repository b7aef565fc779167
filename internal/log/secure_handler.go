package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// LevelCritical is the level used for fatal startup problems.
const LevelCritical = slog.LevelError + 4

// sensitiveKeys contains attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"password":            true,
	"token":               true,
	"secret":              true,
	"session":             true,
}

// sensitiveParams contains query parameter names whose values are masked
// inside logged URLs.
var sensitiveParams = map[string]bool{
	"token":        true,
	"access_token": true,
	"auth":         true,
	"key":          true,
	"api_key":      true,
	"apikey":       true,
	"sig":          true,
	"signature":    true,
	"password":     true,
	"session":      true,
	"sessionid":    true,
	"sid":          true,
}

// urlPattern finds URLs embedded in longer strings such as error messages.
var urlPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

// SecureHandler wraps an slog.Handler and redacts credentials found in
// attribute values before passing records to the wrapped handler.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled delegates to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given (redacted) attributes added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitized[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitized)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr redacts a single attribute, recursing into groups.
func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	switch v.Kind() {
	case slog.KindGroup:
		attrs := v.Group()
		sanitized := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			sanitized[i] = h.sanitizeAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitized...)}
	case slog.KindString:
		if sensitiveKeys[strings.ToLower(a.Key)] {
			return slog.String(a.Key, MaskValue)
		}
		return slog.String(a.Key, RedactText(v.String()))
	case slog.KindAny:
		if sensitiveKeys[strings.ToLower(a.Key)] {
			return slog.String(a.Key, MaskValue)
		}
		switch x := v.Any().(type) {
		case error:
			return slog.String(a.Key, RedactText(x.Error()))
		case *url.URL:
			return slog.String(a.Key, RedactURL(x.String()))
		case []string:
			out := make([]string, len(x))
			for i, s := range x {
				out[i] = RedactText(s)
			}
			return slog.Any(a.Key, out)
		case fmt.Stringer:
			return slog.String(a.Key, RedactText(x.String()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

// RedactText redacts every URL embedded in s.
func RedactText(s string) string {
	if !strings.Contains(s, "://") {
		return s
	}
	return urlPattern.ReplaceAllStringFunc(s, RedactURL)
}

// RedactURL masks the userinfo password and sensitive query parameter
// values of rawURL. Unparsable input is returned unchanged.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	changed := false
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), MaskValue)
			changed = true
		}
	}

	if u.RawQuery != "" {
		q := u.Query()
		for name := range q {
			if sensitiveParams[strings.ToLower(name)] {
				q.Set(name, MaskValue)
				changed = true
			}
		}
		if changed {
			u.RawQuery = q.Encode()
		}
	}

	if !changed {
		return rawURL
	}
	// url.URL.String escapes the mask; keep it readable.
	return strings.ReplaceAll(u.String(), url.QueryEscape(MaskValue), MaskValue)
}

// ParseLevel converts a level name to an slog.Level.
// Accepted names are DEBUG, INFO, WARNING (or WARN), ERROR and CRITICAL.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARNING", "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported log level %q", name)
	}
}

// NewLogger creates a text logger writing to w at the given level.
// All records pass through a SecureHandler.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
					return slog.String(slog.LevelKey, "CRITICAL")
				}
			}
			return a
		},
	}
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, opts)))
}

// NewJSONLogger creates a JSON logger writing to w at the given level.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, opts)))
}
