package crawler

import "fmt"

// State is the lifecycle state of a Crawler.
type State int

const (
	// StateIdle is the state before Run.
	StateIdle State = iota
	// StateRunning means URLs are being popped and processed.
	StateRunning
	// StateDraining means the frontier is empty and the final save is
	// in progress.
	StateDraining
	// StateSuspended means the run was interrupted and state was saved.
	StateSuspended
	// StateFinished means the frontier was exhausted.
	StateFinished
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateSuspended:
		return "suspended"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
