package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "picgrab"

	// DefaultTarget is the directory downloads are written to.
	DefaultTarget = "fetched/"

	// DefaultSaveFrequency is the number of successfully processed URLs
	// between two periodic snapshots of the frontier and visited set.
	DefaultSaveFrequency = 100

	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "INFO"

	// DefaultUserAgent identifies picgrab in HTTP requests.
	DefaultUserAgent = "picgrab/1.0 (+https://github.com/nao1215/picgrab)"

	// DefaultTimeout of zero leaves requests without a deadline, which is
	// what the underlying HTTP client does by default.
	DefaultTimeout time.Duration = 0

	// DefaultMaxBodySize of zero reads response bodies without a limit.
	DefaultMaxBodySize int64 = 0
)

// DefaultFollow returns the default follow patterns.
func DefaultFollow() []string { return []string{`.*\.html`, `.*/`} }

// DefaultNoFollow returns the default no-follow patterns.
func DefaultNoFollow() []string { return []string{`.*\.jpg`} }

// DefaultDownload returns the default download patterns.
func DefaultDownload() []string { return []string{`.*\.jpg`} }

// DefaultIgnoreDuplicatesIn returns the default duplicate-check directories.
func DefaultIgnoreDuplicatesIn() []string { return []string{DefaultTarget} }

// logLevels lists the accepted log level names.
var logLevels = []string{"DEBUG", "INFO", "WARNING", "WARN", "ERROR", "CRITICAL"}

// Config holds the finished configuration consumed by the crawl engine.
// It is populated from defaults, command line flags and an optional
// configuration file, then passed explicitly to every component.
type Config struct {
	// URLs are the seed URLs the traversal starts from.
	URLs []string

	// Follow are regular expressions for URLs whose content is scanned
	// for further links.
	Follow []string

	// NoFollow are regular expressions for URLs that must never be
	// followed. They take precedence over Follow.
	NoFollow []string

	// Download are regular expressions for URLs that are saved to Target.
	Download []string

	// Rules are additional action/pattern pairs from the configuration
	// file. They are appended to the list matching their action.
	Rules []Rule

	// Target is the directory holding downloaded files.
	// After Normalize it is an absolute path without trailing slash.
	Target string

	// IgnoreDuplicatesIn are directories checked for an existing file
	// with the same name before downloading. Target is always included.
	IgnoreDuplicatesIn []string

	// AllowCrossOrigin permits following links to a network location
	// different from the page they were found on.
	AllowCrossOrigin bool

	// VisitedFile is the JSON file the visited set is loaded from and
	// saved to. Empty disables persistence of the visited set.
	VisitedFile string

	// FrontierFile is the JSON file the frontier is loaded from and
	// saved to. Empty disables persistence of the frontier.
	FrontierFile string

	// SaveFrequency is the number of successfully processed URLs between
	// periodic snapshots. Zero disables periodic snapshots.
	SaveFrequency int

	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration

	// Proxy is an optional SOCKS5 proxy address in "host:port" form.
	Proxy string

	// MaxBodySize limits how many bytes of a response are read.
	// Zero means unlimited.
	MaxBodySize int64

	// History enables recording runs and downloads in the SQLite
	// history database.
	History bool

	// HistoryDir is the directory holding the history database.
	HistoryDir string

	// LogLevel is one of DEBUG, INFO, WARNING, ERROR, CRITICAL.
	LogLevel string

	// ConfigFilePath is the configuration file that was loaded, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Follow:             DefaultFollow(),
		NoFollow:           DefaultNoFollow(),
		Download:           DefaultDownload(),
		Target:             DefaultTarget,
		IgnoreDuplicatesIn: DefaultIgnoreDuplicatesIn(),
		SaveFrequency:      DefaultSaveFrequency,
		UserAgent:          DefaultUserAgent,
		Timeout:            DefaultTimeout,
		MaxBodySize:        DefaultMaxBodySize,
		History:            true,
		HistoryDir:         XDGDataDir(),
		LogLevel:           DefaultLogLevel,
	}
}

// XDGDataDir returns the XDG data directory for picgrab.
// On Linux: ~/.local/share/picgrab
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for picgrab.
// On Linux: ~/.config/picgrab
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	if len(c.URLs) == 0 {
		return ErrNoURL
	}
	if strings.TrimSpace(c.Target) == "" {
		return ErrEmptyTarget
	}
	if c.SaveFrequency < 0 {
		return ErrInvalidSaveFrequency
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if !slices.Contains(logLevels, strings.ToUpper(c.LogLevel)) {
		return ErrInvalidLogLevel
	}
	return nil
}

// Normalize prepares the target directory:
// the trailing slash is stripped, the target is appended to
// IgnoreDuplicatesIn if missing, the target is made absolute and the
// directory is created when it does not exist.
func (c *Config) Normalize() error {
	if len(c.Target) > 1 {
		c.Target = strings.TrimSuffix(c.Target, "/")
	}

	if !containsDir(c.IgnoreDuplicatesIn, c.Target) {
		c.IgnoreDuplicatesIn = append(c.IgnoreDuplicatesIn, c.Target)
	}

	abs, err := filepath.Abs(c.Target)
	if err != nil {
		return fmt.Errorf("failed to resolve target directory %s: %w", c.Target, err)
	}
	c.Target = abs

	if err := os.MkdirAll(c.Target, 0750); err != nil {
		return fmt.Errorf("failed to create target directory %s: %w", c.Target, err)
	}
	return nil
}

// containsDir reports whether dirs contains dir, ignoring a trailing slash.
func containsDir(dirs []string, dir string) bool {
	want := strings.TrimSuffix(dir, "/")
	for _, d := range dirs {
		if strings.TrimSuffix(d, "/") == want {
			return true
		}
	}
	return false
}
