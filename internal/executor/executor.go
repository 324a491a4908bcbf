// Package executor handles subprocess execution for backend and tool probes.
//
// Every command runs in its own process group so that a deadline or an
// external cancellation terminates the whole tree, not only the direct child.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Wait blocks on inherited pipes after the process
// group has been killed.
const waitDelay = 2 * time.Second

// Result is the outcome of a command that ran to completion.
type Result struct {
	Output   string
	ExitCode int
}

// Success reports whether the command exited zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Executor runs commands with optional verbose tracing.
type Executor struct {
	verbose bool
	out     io.Writer
}

// New creates a new Executor.
func New(verbose bool) *Executor {
	return &Executor{
		verbose: verbose,
		out:     os.Stdout,
	}
}

// SetOutput redirects verbose tracing.
func (e *Executor) SetOutput(w io.Writer) {
	e.out = w
}

// LookPath resolves an executable on PATH.
func (e *Executor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Exec runs a command, capturing stdout and stderr combined.
//
// A command that starts and exits, with any exit code, yields a nil error and
// its exit code in the Result. An error is returned only when the command
// could not be started or was terminated because ctx ended.
func (e *Executor) Exec(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		return killProcessGroup(cmd)
	}
	cmd.WaitDelay = waitDelay

	if e.verbose {
		fmt.Fprintf(e.out, "Executing: %s %s\n", name, strings.Join(args, " "))
	}

	err := cmd.Run()
	res := Result{Output: combined.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, fmt.Errorf("command aborted: %w", ctxErr)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, fmt.Errorf("failed to start %s: %w", name, err)
	}

	return res, nil
}
