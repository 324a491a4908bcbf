package backend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"toolup/internal/executor"
)

// fakeRunner resolves binaries from a map and returns canned results.
type fakeRunner struct {
	mu      sync.Mutex
	paths   map[string]string
	results map[string]executor.Result
	errs    map[string]error
	calls   int
	onExec  func()
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if p, ok := f.paths[name]; ok {
		return p, nil
	}
	return "", errors.New("not found")
}

func (f *fakeRunner) Exec(ctx context.Context, name string, args ...string) (executor.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.onExec != nil {
		f.onExec()
	}
	if err := ctx.Err(); err != nil {
		return executor.Result{ExitCode: -1}, err
	}
	if err := f.errs[name]; err != nil {
		return executor.Result{ExitCode: -1}, err
	}
	return f.results[name], nil
}

func (f *fakeRunner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestProbeOnlyReturnsResponsiveBackends(t *testing.T) {
	runner := &fakeRunner{
		paths: map[string]string{
			"winget": `C:\winget.exe`,
			"choco":  `C:\choco.exe`,
			"scoop":  `C:\scoop.cmd`,
		},
		results: map[string]executor.Result{
			`C:\winget.exe`: {Output: "v1.7.10861\n"},
			`C:\choco.exe`:  {ExitCode: 1},
		},
		errs: map[string]error{
			`C:\scoop.cmd`: errors.New("command aborted: context deadline exceeded"),
		},
	}

	prober := NewProber(Default(), runner, time.Second)
	statuses := prober.ProbeAll(context.Background())

	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available || statuses[0].Version != "v1.7.10861" {
		t.Errorf("winget should be available with version, got %+v", statuses[0])
	}
	if statuses[1].Available {
		t.Error("choco with non-zero exit should be unavailable")
	}
	if statuses[2].Available {
		t.Error("scoop with a timed out probe should be unavailable")
	}

	available := prober.Probe(context.Background())
	if len(available) != 1 || available[0].Kind() != Primary {
		t.Errorf("Probe() = %v, want [winget]", KindsOf(available))
	}
}

func TestProbeMissingExecutableSkipsExec(t *testing.T) {
	runner := &fakeRunner{paths: map[string]string{}}
	prober := NewProber(Default(), runner, time.Second)

	if got := prober.Probe(context.Background()); len(got) != 0 {
		t.Errorf("Probe() = %v, want empty", KindsOf(got))
	}
	if runner.Calls() != 0 {
		t.Errorf("expected no version invocations, got %d", runner.Calls())
	}
}

func TestProbeDisabled(t *testing.T) {
	runner := &fakeRunner{
		paths:   map[string]string{"winget": "winget", "scoop": "scoop"},
		results: map[string]executor.Result{},
	}
	prober := NewProber(Default(), runner, time.Second)
	prober.Disable(Primary)

	got := prober.Probe(context.Background())
	if len(got) != 1 || got[0].Kind() != Tertiary {
		t.Errorf("Probe() = %v, want [scoop]", KindsOf(got))
	}
}

func TestProbeSortsByPriority(t *testing.T) {
	runner := &fakeRunner{
		paths:   map[string]string{"winget": "winget", "choco": "choco", "scoop": "scoop"},
		results: map[string]executor.Result{},
	}
	prober := NewProber([]Backend{NewScoop(), NewChocolatey(), NewWinget()}, runner, time.Second)

	got := KindsOf(prober.Probe(context.Background()))
	want := []Kind{Primary, Secondary, Tertiary}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Probe() = %v, want %v", got, want)
		}
	}
}

func TestCacheProbesOnce(t *testing.T) {
	runner := &fakeRunner{
		paths:   map[string]string{"winget": "winget"},
		results: map[string]executor.Result{},
	}
	cache := NewCache(NewProber(Default(), runner, time.Second))

	if cache.Probed() {
		t.Error("Probed() should be false before first use")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := cache.Available(context.Background()); len(got) != 1 {
				t.Errorf("Available() = %v", KindsOf(got))
			}
		}()
	}
	wg.Wait()

	if runner.Calls() != 1 {
		t.Errorf("expected a single probe invocation, got %d", runner.Calls())
	}

	cache.ForceReprobe(context.Background())
	if runner.Calls() != 2 {
		t.Errorf("ForceReprobe should probe again, got %d calls", runner.Calls())
	}
}

func TestCacheSkipsCancelledResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &fakeRunner{
		paths:   map[string]string{"winget": "winget", "choco": "choco", "scoop": "scoop"},
		results: map[string]executor.Result{},
		onExec:  cancel,
	}
	cache := NewCache(NewProber(Default(), runner, time.Second))

	if got := cache.Available(ctx); len(got) != 0 {
		t.Errorf("interrupted Available() = %v, want none", KindsOf(got))
	}
	if cache.Probed() {
		t.Error("an interrupted probe must not be cached")
	}

	got := cache.Available(context.Background())
	if len(got) != 3 {
		t.Fatalf("Available() after interruption = %v, want all three", KindsOf(got))
	}
	if !cache.Probed() {
		t.Error("Probed() = false after a complete probe")
	}

	ctx, cancel = context.WithCancel(context.Background())
	runner.onExec = cancel
	cache.ForceReprobe(ctx)
	runner.onExec = nil
	if got := cache.Available(context.Background()); len(got) != 3 {
		t.Errorf("Available() after interrupted reprobe = %v, want all three", KindsOf(got))
	}
}

func TestCacheReturnsCopy(t *testing.T) {
	runner := &fakeRunner{
		paths:   map[string]string{"winget": "winget", "choco": "choco"},
		results: map[string]executor.Result{},
	}
	cache := NewCache(NewProber(Default(), runner, time.Second))

	first := cache.Available(context.Background())
	first[0] = nil

	second := cache.Available(context.Background())
	if second[0] == nil {
		t.Error("mutating a returned slice must not affect the cache")
	}
}
