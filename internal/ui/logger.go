package ui

import (
	"sync"

	"toolup/pkg/install"
)

// Logger prints orchestrator events with the leveled message helpers.
// It serializes output from concurrent install workers.
type Logger struct {
	mu  sync.Mutex
	min install.Level
}

// NewLogger creates a logger. Debug events are shown only when verbose.
func NewLogger(verbose bool) *Logger {
	min := install.LevelInfo
	if verbose {
		min = install.LevelDebug
	}
	return &Logger{min: min}
}

// SetMinLevel hides events below level. Success events are always shown.
func (l *Logger) SetMinLevel(level install.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.min = level
}

// Logf implements install.Logger.
func (l *Logger) Logf(level install.Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level != install.LevelSuccess && level < l.min {
		return
	}

	switch level {
	case install.LevelDebug:
		MutedMsg("  "+format, args...)
	case install.LevelInfo:
		InfoMsg(format, args...)
	case install.LevelWarning:
		WarningMsg(format, args...)
	case install.LevelError:
		ErrorMsg(format, args...)
	case install.LevelSuccess:
		SuccessMsg(format, args...)
	}
}
