package policy

import (
	"fmt"
	"regexp"
)

// PatternError reports a rule whose pattern is not a valid regular expression.
type PatternError struct {
	Kind    Kind
	Pattern string
	Err     error
}

// Error implements error.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Kind, e.Pattern, e.Err)
}

// Unwrap returns the underlying regexp error.
func (e *PatternError) Unwrap() error {
	return e.Err
}

// Rule is a compiled pattern together with the action it triggers.
type Rule struct {
	Kind    Kind
	Pattern string
	re      *regexp.Regexp
}

// NewRule compiles pattern so that it only matches at the start of a URL.
func NewRule(kind Kind, pattern string) (Rule, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return Rule{}, &PatternError{Kind: kind, Pattern: pattern, Err: err}
	}
	return Rule{Kind: kind, Pattern: pattern, re: re}, nil
}

// Match reports whether the rule matches a prefix of rawURL.
func (r Rule) Match(rawURL string) bool {
	return r.re != nil && r.re.MatchString(rawURL)
}

// Lists holds the raw pattern lists of a policy, in evaluation order.
type Lists struct {
	Follow   []string
	NoFollow []string
	Download []string
}

// Classification is the result of classifying one URL.
type Classification struct {
	// MayFollow is true when the URL should be queued for a visit.
	MayFollow bool

	// ShouldDownload is true when the URL should be saved.
	ShouldDownload bool

	// Rule is the rule that decided MayFollow, either the first matching
	// no-follow rule or the first matching follow rule. Nil when nothing matched.
	Rule *Rule

	// DownloadRule is the first matching download rule, if any.
	DownloadRule *Rule
}

// Matcher evaluates URLs against immutable rule lists.
type Matcher struct {
	noFollow []Rule
	follow   []Rule
	download []Rule
}

// New compiles the given lists into a Matcher.
// The first invalid pattern aborts with a *PatternError.
func New(lists Lists) (*Matcher, error) {
	m := &Matcher{}
	for _, kind := range Kinds {
		var patterns []string
		switch kind {
		case KindNoFollow:
			patterns = lists.NoFollow
		case KindFollow:
			patterns = lists.Follow
		case KindDownload:
			patterns = lists.Download
		}
		for _, p := range patterns {
			if err := m.Add(kind, p); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Add compiles pattern and appends it to the rules of the given kind.
// It is meant to be used while building a Matcher, before any Classify call.
func (m *Matcher) Add(kind Kind, pattern string) error {
	rule, err := NewRule(kind, pattern)
	if err != nil {
		return err
	}
	switch kind {
	case KindNoFollow:
		m.noFollow = append(m.noFollow, rule)
	case KindFollow:
		m.follow = append(m.follow, rule)
	case KindDownload:
		m.download = append(m.download, rule)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, kind)
	}
	return nil
}

// AddNamed is like Add but takes the action by name.
func (m *Matcher) AddNamed(action, pattern string) error {
	kind, err := ParseKind(action)
	if err != nil {
		return err
	}
	return m.Add(kind, pattern)
}

// Rules returns the rules of the given kind in evaluation order.
func (m *Matcher) Rules(kind Kind) []Rule {
	switch kind {
	case KindNoFollow:
		return m.noFollow
	case KindFollow:
		return m.follow
	case KindDownload:
		return m.download
	default:
		return nil
	}
}

// Classify evaluates rawURL.
//
// No-follow rules are checked first and the first match excludes the URL
// from following. Only when no no-follow rule matched are follow rules
// checked; the first match allows following. Download rules are checked
// independently and the first match marks the URL for download.
func (m *Matcher) Classify(rawURL string) Classification {
	var c Classification

	excluded := false
	if r := firstMatch(m.noFollow, rawURL); r != nil {
		excluded = true
		c.Rule = r
	}

	if !excluded {
		if r := firstMatch(m.follow, rawURL); r != nil {
			c.MayFollow = true
			c.Rule = r
		}
	}

	if r := firstMatch(m.download, rawURL); r != nil {
		c.ShouldDownload = true
		c.DownloadRule = r
	}

	return c
}

// firstMatch returns the first rule matching rawURL, or nil.
func firstMatch(rules []Rule, rawURL string) *Rule {
	for i := range rules {
		if rules[i].Match(rawURL) {
			return &rules[i]
		}
	}
	return nil
}
