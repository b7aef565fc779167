package config

import (
	"fmt"
	"time"
)

// Rule is a single action/pattern pair in the configuration file.
// The action is one of "follow", "no-follow" or "download".
type Rule struct {
	// Action names which list the pattern belongs to.
	Action string `yaml:"action" json:"action"`

	// Pattern is a regular expression matched against the start of a URL.
	Pattern string `yaml:"pattern" json:"pattern"`
}

// File represents the structure of a picgrab configuration file.
// Keys are the long command line option names with dashes replaced by
// underscores.
// Because JSON is a subset of YAML, the same structure reads both formats.
type File struct {
	URL                []string `yaml:"url,omitempty"`
	Follow             []string `yaml:"follow,omitempty"`
	NoFollow           []string `yaml:"no_follow,omitempty"`
	Download           []string `yaml:"download,omitempty"`
	Rules              []Rule   `yaml:"rules,omitempty"`
	Target             string   `yaml:"target,omitempty"`
	IgnoreDuplicatesIn []string `yaml:"ignore_duplicates_in,omitempty"`
	AllowNetlocChange  bool     `yaml:"allow_netloc_change,omitempty"`
	VisitedFile        string   `yaml:"visited_file,omitempty"`
	FrontierFile       string   `yaml:"frontier_file,omitempty"`

	// SaveFrequency is a pointer because zero is meaningful (disabled).
	SaveFrequency *int `yaml:"save_frequency,omitempty"`

	UserAgent   string `yaml:"user_agent,omitempty"`
	Timeout     string `yaml:"timeout,omitempty"`
	Proxy       string `yaml:"proxy,omitempty"`
	MaxBodySize int64  `yaml:"max_body_size,omitempty"`
	Log         string `yaml:"log,omitempty"`
}

// Apply merges the file into cfg.
//
// URLs given on the command line take precedence over the file.
// For every other option a value present in the file wins over the
// command line value.
func (f *File) Apply(cfg *Config) error {
	if len(cfg.URLs) == 0 && len(f.URL) > 0 {
		cfg.URLs = append([]string(nil), f.URL...)
	}
	if len(f.Follow) > 0 {
		cfg.Follow = f.Follow
	}
	if len(f.NoFollow) > 0 {
		cfg.NoFollow = f.NoFollow
	}
	if len(f.Download) > 0 {
		cfg.Download = f.Download
	}
	if len(f.Rules) > 0 {
		cfg.Rules = append(cfg.Rules, f.Rules...)
	}
	if f.Target != "" {
		cfg.Target = f.Target
	}
	if len(f.IgnoreDuplicatesIn) > 0 {
		cfg.IgnoreDuplicatesIn = f.IgnoreDuplicatesIn
	}
	if f.AllowNetlocChange {
		cfg.AllowCrossOrigin = true
	}
	if f.VisitedFile != "" {
		cfg.VisitedFile = f.VisitedFile
	}
	if f.FrontierFile != "" {
		cfg.FrontierFile = f.FrontierFile
	}
	if f.SaveFrequency != nil {
		cfg.SaveFrequency = *f.SaveFrequency
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", f.Timeout, err)
		}
		cfg.Timeout = d
	}
	if f.Proxy != "" {
		cfg.Proxy = f.Proxy
	}
	if f.MaxBodySize != 0 {
		cfg.MaxBodySize = f.MaxBodySize
	}
	if f.Log != "" {
		cfg.LogLevel = f.Log
	}
	return nil
}
