package install

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"toolup/pkg/backend"
)

// Request is one install invocation.
type Request struct {
	Backend   backend.Backend
	PackageID string
	Force     bool
	// LogFile asks the backend to write its log there, when supported.
	LogFile string
}

// Outcome is the result of a single invocation. Exit code zero is the only
// success signal; output is kept for the classifier, never parsed here.
type Outcome struct {
	Success   bool
	RawOutput string
	ExitCode  int
	Err       error
}

// Reason describes a failed outcome in one line.
func (o Outcome) Reason() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	if o.Success {
		return ""
	}
	reason := fmt.Sprintf("exit code %d", o.ExitCode)
	if tail := lastLine(o.RawOutput); tail != "" {
		reason += ": " + tail
	}
	return reason
}

// Installer performs one install call. It does not retry or verify.
type Installer interface {
	Install(ctx context.Context, req Request) Outcome
}

// CommandInstaller invokes the backend executable.
type CommandInstaller struct {
	runner backend.Runner
}

// NewCommandInstaller creates an installer that runs commands through runner.
func NewCommandInstaller(runner backend.Runner) *CommandInstaller {
	return &CommandInstaller{runner: runner}
}

// Install runs the backend's install command line.
func (i *CommandInstaller) Install(ctx context.Context, req Request) Outcome {
	args := req.Backend.InstallArgs(req.PackageID, req.Force, req.LogFile)

	res, err := i.runner.Exec(ctx, req.Backend.Binary(), args...)
	if err != nil {
		return Outcome{RawOutput: res.Output, ExitCode: res.ExitCode, Err: err}
	}

	return Outcome{
		Success:   res.Success(),
		RawOutput: res.Output,
		ExitCode:  res.ExitCode,
	}
}

// DryRunInstaller reports success without running anything.
type DryRunInstaller struct{}

// Install always succeeds.
func (DryRunInstaller) Install(context.Context, Request) Outcome {
	return Outcome{Success: true}
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// tailLines returns the last n non-empty lines of s.
func tailLines(s string, n int) string {
	var kept []string
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if line := strings.TrimRight(lines[i], " \t\r"); strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	slices.Reverse(kept)
	return strings.Join(kept, "\n")
}
