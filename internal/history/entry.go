// Package history records installation results with BoltDB.
package history

import (
	"fmt"
	"time"

	"toolup/pkg/install"
)

// Entry is one recorded installation result.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Tool      string        `json:"tool"`
	Success   bool          `json:"success"`
	Backend   string        `json:"backend,omitempty"`
	PackageID string        `json:"package_id,omitempty"`
	Version   string        `json:"version,omitempty"`
	Attempts  int           `json:"attempts"`
	Duration  time.Duration `json:"duration"`
	Message   string        `json:"message,omitempty"`
	Category  string        `json:"category,omitempty"`
	Severity  string        `json:"severity,omitempty"`

	AlreadyInstalled bool `json:"already_installed,omitempty"`
	DryRun           bool `json:"dry_run,omitempty"`
	RolledBack       bool `json:"rolled_back,omitempty"`
}

// FromResult creates an entry for an orchestrator result.
func FromResult(r install.Result) *Entry {
	e := &Entry{
		ID:               generateID(),
		Timestamp:        time.Now(),
		Tool:             r.Tool,
		Success:          r.Success,
		PackageID:        r.PackageID,
		Version:          r.Version,
		Attempts:         r.Attempts,
		Duration:         r.Duration,
		Message:          r.Message,
		AlreadyInstalled: r.AlreadyInstalled,
		DryRun:           r.DryRun,
		RolledBack:       r.RolledBack,
	}
	if r.Backend != 0 {
		e.Backend = r.Backend.String()
	}
	if !r.Success {
		e.Category = r.Category.String()
		e.Severity = r.Severity.String()
	}
	return e
}

// generateID generates a unique ID for the entry.
func generateID() string {
	return time.Now().Format("20060102150405.000000")
}

// FormatTime returns a human-readable timestamp.
func (e *Entry) FormatTime() string {
	return e.Timestamp.Format("2006-01-02 15:04:05")
}

// Status returns a one-word outcome.
func (e *Entry) Status() string {
	switch {
	case e.DryRun:
		return "dry-run"
	case e.AlreadyInstalled:
		return "present"
	case e.Success:
		return "installed"
	default:
		return "failed"
	}
}

// Summary returns a brief summary of the entry.
func (e *Entry) Summary() string {
	if e.Backend == "" {
		return fmt.Sprintf("%s %s (%s)", e.FormatTime(), e.Tool, e.Status())
	}
	return fmt.Sprintf("%s %s [%s] (%s)", e.FormatTime(), e.Tool, e.Backend, e.Status())
}
