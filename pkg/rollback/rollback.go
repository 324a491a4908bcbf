// Package rollback captures the state of the host before a tool is installed
// and undoes the reversible side effects of a failed installation.
//
// Packages that a backend partially installed are never removed: package
// removal can cascade to shared dependencies, so that is left to the user.
package rollback

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"

	"toolup/pkg/envpath"
)

// DefaultPathVar is the environment variable that is snapshotted.
const DefaultPathVar = "PATH"

// Option configures a Context at capture time.
type Option func(*Context)

// WithFs sets the filesystem temporary paths live on.
func WithFs(fs afero.Fs) Option {
	return func(c *Context) {
		c.fs = fs
	}
}

// WithPathVar snapshots a different PATH-like variable.
func WithPathVar(name string) Option {
	return func(c *Context) {
		c.PathVar = name
	}
}

// Context is the per-tool snapshot taken before the first attempt.
// It is owned by a single installation worker.
type Context struct {
	Tool         string
	WasInstalled bool
	PriorVersion string

	PathVar      string
	PathSnapshot string
	pathWasSet   bool

	fs        afero.Fs
	mu        sync.Mutex
	tempPaths []string

	closed bool
	report Report
}

// Report describes what a cleanup did.
type Report struct {
	Removed      []string
	PathRestored bool
	Errors       []error
}

// Err joins all errors encountered during cleanup.
func (r Report) Err() error {
	return errors.Join(r.Errors...)
}

// Capture snapshots the environment for a tool about to be installed.
func Capture(tool string, wasInstalled bool, priorVersion string, opts ...Option) *Context {
	c := &Context{
		Tool:         tool,
		WasInstalled: wasInstalled,
		PriorVersion: priorVersion,
		PathVar:      DefaultPathVar,
		fs:           afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(c)
	}

	envpath.Do(func() {
		c.PathSnapshot, c.pathWasSet = os.LookupEnv(c.PathVar)
	})
	return c
}

// TempDir creates a temporary directory that is removed on cleanup or release.
func (c *Context) TempDir(pattern string) (string, error) {
	dir, err := afero.TempDir(c.fs, "", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	c.Track(dir)
	return dir, nil
}

// Track records a path created during an attempt.
func (c *Context) Track(path string) {
	if path == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tempPaths = append(c.tempPaths, path)
}

// TempPaths returns the recorded paths.
func (c *Context) TempPaths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.tempPaths...)
}

// Cleanup removes recorded paths and restores the PATH snapshot.
// Only the first call has effects; later calls return the first report.
func (c *Context) Cleanup() Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.report
	}
	c.closed = true

	c.report = c.removePaths()
	envpath.Do(c.restorePath)

	return c.report
}

// restorePath puts the PATH snapshot back; c.mu and the PATH lock must be held.
func (c *Context) restorePath() {
	current, set := os.LookupEnv(c.PathVar)
	if set == c.pathWasSet && current == c.PathSnapshot {
		return
	}

	var err error
	if c.pathWasSet {
		err = os.Setenv(c.PathVar, c.PathSnapshot)
	} else {
		err = os.Unsetenv(c.PathVar)
	}
	if err != nil {
		c.report.Errors = append(c.report.Errors, fmt.Errorf("failed to restore %s: %w", c.PathVar, err))
		return
	}
	c.report.PathRestored = true
}

// Release removes temporary paths after a successful install, leaving the
// environment as the install left it. A released context cannot be cleaned up.
func (c *Context) Release() Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Report{}
	}
	c.closed = true
	return c.removePaths()
}

// Closed reports whether Cleanup or Release has run.
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Context) removePaths() Report {
	var r Report
	for i := len(c.tempPaths) - 1; i >= 0; i-- {
		path := c.tempPaths[i]
		if _, err := c.fs.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := c.fs.RemoveAll(path); err != nil {
			r.Errors = append(r.Errors, fmt.Errorf("failed to remove %s: %w", path, err))
			continue
		}
		r.Removed = append(r.Removed, path)
	}
	return r
}
