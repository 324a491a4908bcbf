package install

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"toolup/internal/executor"
	"toolup/pkg/backend"
	"toolup/pkg/catalog"
	"toolup/pkg/rollback"
)

func testRegistry(t *testing.T) *catalog.Registry {
	t.Helper()

	fzf := catalog.NewTool("fzf", map[backend.Kind][]string{
		backend.Primary:   {"junegunn.fzf"},
		backend.Secondary: {"fzf"},
	})
	fzf.ManualURL = "https://github.com/junegunn/fzf/releases"

	reg, err := catalog.NewRegistry([]catalog.ToolDefinition{
		fzf,
		catalog.NewTool("jq", map[backend.Kind][]string{backend.Primary: {"jqlang.jq"}}),
		catalog.NewTool("bat", map[backend.Kind][]string{backend.Primary: {"sharkdp.bat"}}),
		catalog.NewTool("fd", map[backend.Kind][]string{backend.Primary: {"sharkdp.fd"}}),
		catalog.NewTool("python", map[backend.Kind][]string{
			backend.Primary:   {"Python.Python.3.12", "Python.Python.3.11"},
			backend.Secondary: {"python"},
		}),
		catalog.NewTool("oh-my-posh", map[backend.Kind][]string{backend.Tertiary: {"oh-my-posh"}}),
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return reg
}

// fakeBackends is a BackendSource with a fixed list.
type fakeBackends struct {
	mu       sync.Mutex
	list     []backend.Backend
	calls    int
	reprobes int

	// onAvailable runs inside Available, before the list is returned.
	onAvailable func()
}

func (f *fakeBackends) Available(context.Context) []backend.Backend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.onAvailable != nil {
		f.onAvailable()
	}
	return f.list
}

func (f *fakeBackends) ForceReprobe(context.Context) []backend.Backend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reprobes++
	return f.list
}

type installCall struct {
	kind backend.Kind
	id   string
}

// fakeInstaller records calls and delegates behaviour to a function.
type fakeInstaller struct {
	mu     sync.Mutex
	calls  []installCall
	behave func(ctx context.Context, req Request) Outcome
}

func (f *fakeInstaller) Install(ctx context.Context, req Request) Outcome {
	f.mu.Lock()
	f.calls = append(f.calls, installCall{req.Backend.Kind(), req.PackageID})
	f.mu.Unlock()

	if f.behave == nil {
		return Outcome{Success: true}
	}
	return f.behave(ctx, req)
}

func (f *fakeInstaller) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeInstaller) recorded() []installCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]installCall(nil), f.calls...)
}

// fakeVerifier reports the tool as missing before install and then plays
// back the verify sequence; the last entry repeats. Empty means always ok.
type fakeVerifier struct {
	mu        sync.Mutex
	installed bool
	version   string
	verify    []bool
	checks    int
	verifies  int
}

func (f *fakeVerifier) Check(context.Context, catalog.ToolDefinition) Verification {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	if f.installed {
		return Verification{Success: true, Version: f.version}
	}
	return Verification{Reason: "not on PATH"}
}

func (f *fakeVerifier) Verify(context.Context, catalog.ToolDefinition) Verification {
	f.mu.Lock()
	defer f.mu.Unlock()

	ok := true
	if n := len(f.verify); n > 0 {
		idx := f.verifies
		if idx >= n {
			idx = n - 1
		}
		ok = f.verify[idx]
	}
	f.verifies++

	if !ok {
		return Verification{Reason: "tool not on PATH"}
	}
	return Verification{Success: true, Version: f.version}
}

// fakeRollbacks is a RollbackFactory that counts what happens to its contexts.
type fakeRollbacks struct {
	mu       sync.Mutex
	dir      string
	captured int
	cleanups int
	releases int
}

func (f *fakeRollbacks) factory(string, bool, string) Rollback {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captured++
	return &fakeRollback{parent: f}
}

func (f *fakeRollbacks) counts() (captured, cleanups, releases int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.captured, f.cleanups, f.releases
}

type fakeRollback struct {
	parent *fakeRollbacks
}

func (r *fakeRollback) TempDir(pattern string) (string, error) {
	if r.parent.dir != "" {
		return r.parent.dir, nil
	}
	return "/tmp/" + pattern + "fake", nil
}

func (r *fakeRollback) Cleanup() rollback.Report {
	r.parent.mu.Lock()
	defer r.parent.mu.Unlock()
	r.parent.cleanups++
	return rollback.Report{}
}

func (r *fakeRollback) Release() rollback.Report {
	r.parent.mu.Lock()
	defer r.parent.mu.Unlock()
	r.parent.releases++
	return rollback.Report{}
}

// fakeRunner counts every subprocess request.
type fakeRunner struct {
	mu       sync.Mutex
	lookups  int
	execs    int
	lastName string
	lastArgs []string
	missing  bool
	result   executor.Result
	err      error
}

func (r *fakeRunner) LookPath(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	if r.missing {
		return "", &notFoundError{name}
	}
	return "/bin/" + name, nil
}

func (r *fakeRunner) Exec(_ context.Context, name string, args ...string) (executor.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.execs++
	r.lastName = name
	r.lastArgs = args
	return r.result, r.err
}

func (r *fakeRunner) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookups + r.execs
}

type notFoundError struct{ name string }

func (e *notFoundError) Error() string { return "executable file not found: " + e.name }

// harness wires an orchestrator with fakes and a recording sleep.
type harness struct {
	orch      *Orchestrator
	backends  *fakeBackends
	installer *fakeInstaller
	verifier  *fakeVerifier
	rollbacks *fakeRollbacks

	mu       sync.Mutex
	sleeps   []time.Duration
	attempts []Attempt
}

func newHarness(t *testing.T, available []backend.Backend, opts Options) *harness {
	t.Helper()

	h := &harness{
		backends:  &fakeBackends{list: available},
		installer: &fakeInstaller{},
		verifier:  &fakeVerifier{version: "1.0.0"},
		rollbacks: &fakeRollbacks{},
	}

	opts.OnAttempt = func(a Attempt) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.attempts = append(h.attempts, a)
	}

	h.orch = New(testRegistry(t), h.backends, h.installer, h.verifier, opts)
	h.orch.SetRollbackFactory(h.rollbacks.factory)
	h.orch.SetSleep(func(ctx context.Context, d time.Duration) error {
		h.mu.Lock()
		h.sleeps = append(h.sleeps, d)
		h.mu.Unlock()
		return ctx.Err()
	})
	return h
}

func (h *harness) outcomes() []AttemptOutcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]AttemptOutcome, 0, len(h.attempts))
	for _, a := range h.attempts {
		out = append(out, a.Outcome)
	}
	return out
}

// recordLogs captures every orchestrator event as "level: message".
func (h *harness) recordLogs() func() []string {
	var mu sync.Mutex
	var lines []string
	h.orch.SetLogger(LoggerFunc(func(level Level, format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, level.String()+": "+fmt.Sprintf(format, args...))
	}))
	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), lines...)
	}
}

func allBackends() []backend.Backend {
	return backend.Default()
}

// blockUntilDone simulates an installer that hangs until it is killed.
func blockUntilDone(ctx context.Context, _ Request) Outcome {
	<-ctx.Done()
	return Outcome{ExitCode: -1, Err: ctx.Err()}
}
