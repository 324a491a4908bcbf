package backend

import (
	"context"
	"sync"
	"time"

	"toolup/internal/executor"
)

// DefaultProbeTimeout bounds each availability probe.
const DefaultProbeTimeout = 5 * time.Second

// Runner resolves and executes commands. *executor.Executor satisfies it.
type Runner interface {
	LookPath(name string) (string, error)
	Exec(ctx context.Context, name string, args ...string) (executor.Result, error)
}

// Status is the probe result for one backend.
type Status struct {
	Backend   Backend
	Path      string
	Available bool
	Version   string
	Reason    string
}

// Prober checks which backends are present and responsive.
type Prober struct {
	backends []Backend
	runner   Runner
	timeout  time.Duration
	disabled map[Kind]bool
}

// NewProber creates a prober over the given backends.
func NewProber(backends []Backend, runner Runner, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{
		backends: backends,
		runner:   runner,
		timeout:  timeout,
		disabled: make(map[Kind]bool),
	}
}

// Disable excludes a backend kind from every probe.
func (p *Prober) Disable(kinds ...Kind) {
	for _, k := range kinds {
		p.disabled[k] = true
	}
}

// Probe returns the available backends in priority order.
func (p *Prober) Probe(ctx context.Context) []Backend {
	var available []Backend
	for _, st := range p.ProbeAll(ctx) {
		if st.Available {
			available = append(available, st.Backend)
		}
	}
	return available
}

// ProbeAll returns a status for every known backend in priority order.
// A failing probe only marks its own backend unavailable.
func (p *Prober) ProbeAll(ctx context.Context) []Status {
	ordered := make([]Backend, len(p.backends))
	copy(ordered, p.backends)
	SortByKind(ordered)

	statuses := make([]Status, 0, len(ordered))
	for _, b := range ordered {
		statuses = append(statuses, p.probeOne(ctx, b))
	}
	return statuses
}

func (p *Prober) probeOne(ctx context.Context, b Backend) Status {
	st := Status{Backend: b}

	if p.disabled[b.Kind()] {
		st.Reason = "disabled by configuration"
		return st
	}

	path, err := p.runner.LookPath(b.Binary())
	if err != nil {
		st.Reason = "executable not found: " + b.Binary()
		return st
	}
	st.Path = path

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	res, err := p.runner.Exec(probeCtx, path, b.VersionArgs()...)
	if err != nil {
		st.Reason = err.Error()
		return st
	}
	if !res.Success() {
		st.Reason = "version check failed"
		return st
	}

	st.Available = true
	st.Version = firstLine(res.Output)
	return st
}

// Cache memoizes the probe result for the lifetime of the process.
// It is safe for concurrent use; the first caller computes, later callers read.
type Cache struct {
	prober *Prober

	mu        sync.Mutex
	probed    bool
	available []Backend
}

// NewCache creates a cache around a prober.
func NewCache(prober *Prober) *Cache {
	return &Cache{prober: prober}
}

// Available returns the cached available backends, probing on first use.
// A probe interrupted by ctx is returned but not cached.
func (c *Cache) Available(ctx context.Context) []Backend {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.probed {
		return c.snapshot()
	}
	return c.probe(ctx)
}

// ForceReprobe discards the cached result and probes again.
func (c *Cache) ForceReprobe(ctx context.Context) []Backend {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.probed = false
	c.available = nil
	return c.probe(ctx)
}

// probe runs the prober; c.mu must be held.
func (c *Cache) probe(ctx context.Context) []Backend {
	available := c.prober.Probe(ctx)
	if ctx.Err() != nil {
		return available
	}
	c.available = available
	c.probed = true
	return c.snapshot()
}

// Probed reports whether the cache holds a result.
func (c *Cache) Probed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.probed
}

func (c *Cache) snapshot() []Backend {
	out := make([]Backend, len(c.available))
	copy(out, c.available)
	return out
}
