package install

import "fmt"

// Level is the severity of a log event.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Logger receives leveled events from the orchestrator. Implementations own
// formatting and delivery and must be safe for concurrent use.
type Logger interface {
	Logf(level Level, format string, args ...any)
}

// LoggerFunc adapts a function to a Logger.
type LoggerFunc func(level Level, format string, args ...any)

// Logf calls f.
func (f LoggerFunc) Logf(level Level, format string, args ...any) {
	f(level, format, args...)
}

// NopLogger discards everything.
type NopLogger struct{}

// Logf does nothing.
func (NopLogger) Logf(Level, string, ...any) {}
