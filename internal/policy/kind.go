package policy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAction is returned by ParseKind for an action name that does
// not denote any Kind.
var ErrUnknownAction = errors.New("unknown rule action")

// Kind is the action a rule triggers when it matches.
// The set of kinds is closed; every switch over Kind handles all of them.
type Kind int

const (
	// KindNoFollow prevents a matching URL from being queued.
	KindNoFollow Kind = iota + 1

	// KindFollow queues a matching URL for a visit.
	KindFollow

	// KindDownload saves a matching URL to the target directory.
	KindDownload
)

// Kinds lists every Kind in evaluation order.
var Kinds = []Kind{KindNoFollow, KindFollow, KindDownload}

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNoFollow:
		return "no-follow"
	case KindFollow:
		return "follow"
	case KindDownload:
		return "download"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind returns the Kind named by s.
// Names are case-insensitive; "no_follow" and "nofollow" are accepted
// as spellings of "no-follow".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no-follow", "no_follow", "nofollow":
		return KindNoFollow, nil
	case "follow":
		return KindFollow, nil
	case "download":
		return KindDownload, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}
