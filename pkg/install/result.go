package install

import (
	"time"

	"toolup/pkg/backend"
	"toolup/pkg/diagnose"
)

// AttemptOutcome is how one candidate invocation ended.
type AttemptOutcome int

const (
	OutcomeSuccess AttemptOutcome = iota
	OutcomeFailed
	OutcomeTimedOut
	OutcomeCancelled
	// OutcomeUnverified means the backend reported success but the tool
	// did not pass verification.
	OutcomeUnverified
)

// String returns the outcome name.
func (o AttemptOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed out"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeUnverified:
		return "unverified"
	default:
		return "unknown"
	}
}

// Attempt records one candidate invocation. Attempts are handed to the
// OnAttempt observer and then discarded.
type Attempt struct {
	Tool      string
	Number    int
	Backend   backend.Kind
	PackageID string
	Start     time.Time
	Elapsed   time.Duration
	Outcome   AttemptOutcome
	Reason    string
}

// Result is the final outcome for one tool. It is always returned, never an error.
type Result struct {
	Tool    string
	Success bool
	// Attempts is the number of rounds consumed.
	Attempts  int
	Backend   backend.Kind
	PackageID string
	Version   string
	Message   string

	Suggestions []string
	Severity    diagnose.Severity
	Category    diagnose.Category

	Duration time.Duration

	AlreadyInstalled bool
	DryRun           bool
	RolledBack       bool
}

// Critical reports whether the failure was classified as critical.
func (r Result) Critical() bool {
	return !r.Success && r.Severity == diagnose.Critical
}
