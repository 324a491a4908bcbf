package install

import (
	"context"
	"fmt"
	"time"

	"toolup/pkg/backend"
	"toolup/pkg/catalog"
	"toolup/pkg/envpath"
)

const (
	// DefaultSettleDelay gives installers time to publish PATH changes.
	DefaultSettleDelay = 2 * time.Second

	// DefaultVerifyTimeout bounds the version probe.
	DefaultVerifyTimeout = 10 * time.Second
)

// Verification is the result of checking that a tool works.
type Verification struct {
	Success bool
	Path    string
	Version string
	Reason  string
}

// Verifier confirms a tool is resolvable and runs.
type Verifier interface {
	// Verify runs after an install reported success.
	Verify(ctx context.Context, def catalog.ToolDefinition) Verification
	// Check inspects the current state without waiting.
	Check(ctx context.Context, def catalog.ToolDefinition) Verification
}

// CommandVerifier resolves the tool's command and runs its version probe.
type CommandVerifier struct {
	runner  backend.Runner
	settle  time.Duration
	timeout time.Duration
	refresh func() error
	sleep   func(context.Context, time.Duration) error
}

// NewCommandVerifier creates a verifier. A zero settle delay disables waiting.
func NewCommandVerifier(runner backend.Runner, settle time.Duration) *CommandVerifier {
	return &CommandVerifier{
		runner:  runner,
		settle:  settle,
		timeout: DefaultVerifyTimeout,
		refresh: envpath.Refresh,
		sleep:   sleepContext,
	}
}

// SetTimeout changes the version probe timeout.
func (v *CommandVerifier) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		v.timeout = timeout
	}
}

// Verify waits for the settle delay, reloads PATH, then checks the tool.
// The reported version is the first non-empty line of the version output,
// trimmed.
func (v *CommandVerifier) Verify(ctx context.Context, def catalog.ToolDefinition) Verification {
	if err := v.sleep(ctx, v.settle); err != nil {
		return Verification{Reason: "verification interrupted"}
	}

	var path string
	var err error
	envpath.Do(func() {
		// A failed reload leaves the current PATH, which may still resolve the tool.
		_ = v.refresh()
		path, err = v.runner.LookPath(def.Command)
	})
	return v.runVersion(ctx, def, path, err)
}

// Check resolves the command and runs the version probe.
func (v *CommandVerifier) Check(ctx context.Context, def catalog.ToolDefinition) Verification {
	var path string
	var err error
	envpath.Do(func() {
		path, err = v.runner.LookPath(def.Command)
	})
	return v.runVersion(ctx, def, path, err)
}

// runVersion runs the version command of a resolved tool.
func (v *CommandVerifier) runVersion(ctx context.Context, def catalog.ToolDefinition, path string, lookErr error) Verification {
	if lookErr != nil {
		return Verification{Reason: fmt.Sprintf("%s not on PATH", def.Command)}
	}

	probeCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	res, err := v.runner.Exec(probeCtx, path, def.VersionArgs...)
	if err != nil {
		return Verification{Path: path, Reason: fmt.Sprintf("%s is not functional: %v", def.Command, err)}
	}
	if !res.Success() {
		return Verification{Path: path, Reason: fmt.Sprintf("%s is not functional: version check exited with code %d", def.Command, res.ExitCode)}
	}

	return Verification{
		Success: true,
		Path:    path,
		Version: firstLine(res.Output),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
