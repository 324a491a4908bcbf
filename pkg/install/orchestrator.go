// Package install drives the installation of catalog tools: it picks
// candidates from the available backends, bounds every invocation with a
// deadline, retries whole rounds with backoff, verifies the result and
// rolls back reversible side effects when every round fails.
package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"toolup/pkg/backend"
	"toolup/pkg/catalog"
	"toolup/pkg/diagnose"
	"toolup/pkg/rollback"
)

// BackendSource supplies the available backends. *backend.Cache satisfies it.
type BackendSource interface {
	Available(ctx context.Context) []backend.Backend
	ForceReprobe(ctx context.Context) []backend.Backend
}

// Rollback is the per-tool snapshot used to undo a failed install.
// *rollback.Context satisfies it.
type Rollback interface {
	TempDir(pattern string) (string, error)
	Cleanup() rollback.Report
	Release() rollback.Report
}

// RollbackFactory captures the pre-install state of a tool.
type RollbackFactory func(tool string, wasInstalled bool, priorVersion string) Rollback

// CaptureRollback is the default RollbackFactory.
func CaptureRollback(tool string, wasInstalled bool, priorVersion string) Rollback {
	return rollback.Capture(tool, wasInstalled, priorVersion)
}

// Orchestrator runs the attempt loop for catalog tools.
type Orchestrator struct {
	registry  *catalog.Registry
	backends  BackendSource
	installer Installer
	verifier  Verifier
	opts      Options

	log         Logger
	newRollback RollbackFactory
	sleep       func(context.Context, time.Duration) error
}

// New creates an orchestrator. When opts.DryRun is set the installer is
// replaced by DryRunInstaller.
func New(registry *catalog.Registry, backends BackendSource, installer Installer, verifier Verifier, opts Options) *Orchestrator {
	opts = opts.normalized()
	if opts.DryRun {
		installer = DryRunInstaller{}
	}
	return &Orchestrator{
		registry:    registry,
		backends:    backends,
		installer:   installer,
		verifier:    verifier,
		opts:        opts,
		log:         NopLogger{},
		newRollback: CaptureRollback,
		sleep:       sleepContext,
	}
}

// SetLogger sets the event sink.
func (o *Orchestrator) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	o.log = l
}

// SetRollbackFactory replaces how rollback contexts are captured.
func (o *Orchestrator) SetRollbackFactory(f RollbackFactory) {
	o.newRollback = f
}

// SetSleep replaces the backoff sleep.
func (o *Orchestrator) SetSleep(sleep func(context.Context, time.Duration) error) {
	o.sleep = sleep
}

// Options returns the effective options.
func (o *Orchestrator) Options() Options {
	return o.opts
}

// Reprobe discards the cached backend list and probes again.
func (o *Orchestrator) Reprobe(ctx context.Context) []backend.Backend {
	return o.backends.ForceReprobe(ctx)
}

// Install runs the full state machine for one tool. It always returns a
// Result; expected failures are reported in it, never as panics.
func (o *Orchestrator) Install(ctx context.Context, name string) Result {
	start := time.Now()
	res := o.install(ctx, name)
	res.Duration = time.Since(start)

	if o.opts.OnResult != nil {
		o.opts.OnResult(res)
	}
	return res
}

func (o *Orchestrator) install(ctx context.Context, name string) Result {
	def, ok := o.registry.Lookup(name)
	if !ok {
		o.log.Logf(LevelError, "%s: not in the catalog", name)
		return Result{
			Tool:        name,
			Message:     fmt.Sprintf("unknown tool %q", name),
			Category:    diagnose.CategoryNotFound,
			Severity:    diagnose.Medium,
			Suggestions: []string{"Run 'toolup list' to see the available tools"},
		}
	}

	if o.opts.DryRun {
		o.log.Logf(LevelInfo, "%s: dry run, nothing installed", def.Name)
		return Result{
			Tool:    def.Name,
			Success: true,
			DryRun:  true,
			Message: fmt.Sprintf("dry run: would install %s", def.Name),
		}
	}

	if ctx.Err() != nil {
		return cancelledBeforeStart(def)
	}

	prior := o.verifier.Check(ctx, def)
	if prior.Success && !o.opts.Force {
		o.log.Logf(LevelSuccess, "%s is already installed (%s)", def.Name, prior.Version)
		return Result{
			Tool:             def.Name,
			Success:          true,
			Version:          prior.Version,
			AlreadyInstalled: true,
			Message:          fmt.Sprintf("%s is already installed", def.Name),
		}
	}

	available := o.backends.Available(ctx)
	if ctx.Err() != nil {
		// An interrupted probe reports nothing available; that is not an environment fault.
		return cancelledBeforeStart(def)
	}
	if len(available) == 0 {
		msg := "no backend available: none of winget, chocolatey or scoop responded"
		o.log.Logf(LevelError, "%s: %s", def.Name, msg)
		return o.failure(def, nil, msg, msg, 0, false)
	}

	candidates := def.Candidates(available)
	if len(candidates) == 0 {
		msg := fmt.Sprintf("%s has no package for the available backends (%s)",
			def.Name, strings.Join(backendNames(available), ", "))
		o.log.Logf(LevelError, "%s", msg)
		res := o.failure(def, available, msg, msg, 0, false)
		res.Category = diagnose.CategoryNotFound
		res.Severity = diagnose.High
		return res
	}

	rb := o.newRollback(def.Name, prior.Success, prior.Version)
	logDir, err := rb.TempDir("toolup-" + def.Name + "-")
	if err != nil {
		o.log.Logf(LevelWarning, "%s: backend logs disabled: %v", def.Name, err)
		logDir = ""
	}

	return o.run(ctx, def, available, candidates, rb, logDir)
}

// run executes the rounds once a rollback context exists.
func (o *Orchestrator) run(ctx context.Context, def catalog.ToolDefinition, available []backend.Backend,
	candidates []catalog.Candidate, rb Rollback, logDir string) Result {
	maxAttempts := o.opts.MaxAttempts()
	lastReason := "no candidate succeeded"

	for round := 1; round <= maxAttempts; round++ {
		for _, c := range candidates {
			if ctx.Err() != nil {
				return o.abort(def, available, rb, round, "installation cancelled")
			}

			att, ver := o.attempt(ctx, def, round, c, logDir)
			o.observe(att)

			switch att.Outcome {
			case OutcomeSuccess:
				if report := rb.Release(); report.Err() != nil {
					o.log.Logf(LevelDebug, "%s: %v", def.Name, report.Err())
				}
				o.log.Logf(LevelSuccess, "%s %s installed via %s", def.Name, ver.Version, c.Backend.Name())
				return Result{
					Tool:      def.Name,
					Success:   true,
					Attempts:  round,
					Backend:   c.Backend.Kind(),
					PackageID: c.PackageID,
					Version:   ver.Version,
					Message:   fmt.Sprintf("installed %s via %s", def.Name, c.Backend.DisplayName()),
				}
			case OutcomeCancelled:
				return o.abort(def, available, rb, round, "installation cancelled")
			default:
				lastReason = att.Reason
			}
		}

		if round < maxAttempts {
			wait := o.opts.Backoff(round)
			o.log.Logf(LevelInfo, "%s: round %d/%d failed, retrying in %s", def.Name, round, maxAttempts, wait)
			if err := o.sleep(ctx, wait); err != nil {
				return o.abort(def, available, rb, round, "installation cancelled")
			}
		}
	}

	return o.abort(def, available, rb, maxAttempts, lastReason)
}

// attempt invokes one candidate and, on reported success, verifies the tool.
func (o *Orchestrator) attempt(ctx context.Context, def catalog.ToolDefinition, round int,
	c catalog.Candidate, logDir string) (Attempt, Verification) {
	att := Attempt{
		Tool:      def.Name,
		Number:    round,
		Backend:   c.Backend.Kind(),
		PackageID: c.PackageID,
		Start:     time.Now(),
	}

	req := Request{
		Backend:   c.Backend,
		PackageID: c.PackageID,
		Force:     o.opts.Force,
	}
	if logDir != "" {
		req.LogFile = filepath.Join(logDir, fmt.Sprintf("%s-%d-%s.log", c.Backend.Name(), round, safeName(c.PackageID)))
	}

	o.log.Logf(LevelInfo, "%s: installing %s via %s (round %d/%d)",
		def.Name, c.PackageID, c.Backend.Name(), round, o.opts.MaxAttempts())

	out, outcome := o.invoke(ctx, req)
	att.Outcome = outcome
	att.Elapsed = time.Since(att.Start)

	switch outcome {
	case OutcomeTimedOut:
		att.Reason = fmt.Sprintf("%s install of %s timed out after %s", c.Backend.Name(), c.PackageID, o.opts.Timeout)
		o.log.Logf(LevelWarning, "%s: %s", def.Name, att.Reason)
		o.logBackendLog(def, req.LogFile)
		return att, Verification{}
	case OutcomeCancelled:
		att.Reason = "cancelled"
		return att, Verification{}
	case OutcomeFailed:
		att.Reason = out.Reason()
		o.log.Logf(LevelWarning, "%s: %s failed for %s: %s", def.Name, c.Backend.Name(), c.PackageID, att.Reason)
		if out.RawOutput != "" {
			o.log.Logf(LevelDebug, "%s: %s output:\n%s", def.Name, c.Backend.Name(), strings.TrimSpace(out.RawOutput))
		}
		o.logBackendLog(def, req.LogFile)
		return att, Verification{}
	}

	ver := o.verifier.Verify(ctx, def)
	if !ver.Success {
		if ctx.Err() != nil {
			att.Outcome = OutcomeCancelled
			att.Reason = "cancelled"
			return att, ver
		}
		att.Outcome = OutcomeUnverified
		att.Reason = "verification failed: " + ver.Reason
		o.log.Logf(LevelWarning, "%s: %s reported success but %s", def.Name, c.Backend.Name(), att.Reason)
		return att, ver
	}

	att.Elapsed = time.Since(att.Start)
	return att, ver
}

// invoke runs the installer as a future with a deadline. The installer's
// context is cancelled on expiry, which terminates its process group; the
// loop does not wait for an installer that ignores cancellation.
func (o *Orchestrator) invoke(ctx context.Context, req Request) (Outcome, AttemptOutcome) {
	callCtx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()

	done := make(chan Outcome, 1)
	go func() {
		done <- o.installer.Install(callCtx, req)
	}()

	select {
	case out := <-done:
		switch {
		case out.Success:
			return out, OutcomeSuccess
		case ctx.Err() != nil:
			return out, OutcomeCancelled
		case errors.Is(callCtx.Err(), context.DeadlineExceeded):
			return out, OutcomeTimedOut
		default:
			return out, OutcomeFailed
		}
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return Outcome{Err: ctx.Err()}, OutcomeCancelled
		}
		return Outcome{Err: callCtx.Err()}, OutcomeTimedOut
	}
}

// abort cleans up once and builds the failure result.
func (o *Orchestrator) abort(def catalog.ToolDefinition, available []backend.Backend, rb Rollback, rounds int, reason string) Result {
	report := rb.Cleanup()
	if err := report.Err(); err != nil {
		o.log.Logf(LevelWarning, "%s: rollback incomplete: %v", def.Name, err)
	} else {
		o.log.Logf(LevelDebug, "%s: rolled back (%d paths removed, PATH restored: %t)",
			def.Name, len(report.Removed), report.PathRestored)
	}

	msg := fmt.Sprintf("failed to install %s after %d round(s): %s; partially installed packages are not removed automatically",
		def.Name, rounds, reason)
	o.log.Logf(LevelError, "%s", msg)

	return o.failure(def, available, msg, reason, rounds, true)
}

func (o *Orchestrator) failure(def catalog.ToolDefinition, available []backend.Backend, msg, reason string, rounds int, rolledBack bool) Result {
	d := diagnose.Classify(reason, toolContext(def, available))
	return Result{
		Tool:        def.Name,
		Attempts:    rounds,
		Message:     msg,
		Suggestions: d.Suggestions,
		Severity:    d.Severity,
		Category:    d.Category,
		RolledBack:  rolledBack,
	}
}

// logBackendLog reports the tail of a backend log file. The file lives in
// the rollback temp dir and is removed with it.
func (o *Orchestrator) logBackendLog(def catalog.ToolDefinition, path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if tail := tailLines(string(data), logTailLines); tail != "" {
		o.log.Logf(LevelDebug, "%s: last lines of %s:\n%s", def.Name, filepath.Base(path), tail)
	}
}

func cancelledBeforeStart(def catalog.ToolDefinition) Result {
	return Result{
		Tool:     def.Name,
		Message:  fmt.Sprintf("installation of %s cancelled before it started", def.Name),
		Category: diagnose.CategoryGeneric,
		Severity: diagnose.Low,
	}
}

func (o *Orchestrator) observe(att Attempt) {
	if o.opts.OnAttempt != nil {
		o.opts.OnAttempt(att)
	}
}

func toolContext(def catalog.ToolDefinition, available []backend.Backend) diagnose.ToolContext {
	ctx := diagnose.ToolContext{
		Tool:      def.Name,
		ManualURL: def.ManualURL,
		Backends:  backendNames(available),
	}
	for _, b := range available {
		ctx.SearchHints = append(ctx.SearchHints, b.SearchHint(def.Name))
	}
	return ctx
}

func backendNames(backends []backend.Backend) []string {
	names := make([]string, 0, len(backends))
	for _, b := range backends {
		names = append(names, b.Name())
	}
	return names
}

// logTailLines bounds how much of a backend log is reported.
const logTailLines = 20

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func safeName(s string) string {
	return unsafeChars.ReplaceAllString(s, "_")
}
