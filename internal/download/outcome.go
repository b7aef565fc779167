package download

import "fmt"

// Outcome is the result kind of a download attempt.
type Outcome int

const (
	// OutcomeSkipped means a file with the derived name already exists.
	OutcomeSkipped Outcome = iota + 1
	// OutcomeWritten means the file was fetched and written.
	OutcomeWritten
	// OutcomeFailed means the name could not be derived, the fetch failed
	// or the file could not be written.
	OutcomeFailed
)

// String returns the lower-case outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeWritten:
		return "written"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// ParseOutcome is the inverse of String. It is used when reading the
// history database.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range []Outcome{OutcomeSkipped, OutcomeWritten, OutcomeFailed} {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown download outcome %q", s)
}
