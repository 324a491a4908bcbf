// Package envpath reloads PATH from the operating system's persistent
// environment store, so tools installed by another process become visible
// without restarting.
package envpath

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// mu guards the process PATH across concurrent installs.
var mu sync.Mutex

// Do runs fn while holding the process-wide PATH lock. Reloading PATH and
// resolving a command against it, or restoring a snapshot, go through Do so
// one worker's restore cannot land between another's reload and lookup.
func Do(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	fn()
}

// Refresh merges the persistent PATH into the process environment. Entries
// already in the process PATH are kept. On systems without a persistent
// store it does nothing. Refresh does not take the PATH lock; run it inside
// Do when other goroutines may touch PATH.
func Refresh() error {
	stored, err := storedPath()
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		return nil
	}

	merged := Merge(append(stored, os.Getenv("PATH"))...)
	if merged == os.Getenv("PATH") {
		return nil
	}
	return os.Setenv("PATH", merged)
}

// Merge joins PATH lists, dropping empty and duplicate entries while keeping
// the first occurrence. Comparison ignores case and trailing separators on
// Windows.
func Merge(lists ...string) string {
	seen := make(map[string]bool)
	var out []string

	for _, list := range lists {
		for _, entry := range filepath.SplitList(list) {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			key := normalize(entry)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, entry)
		}
	}

	return strings.Join(out, string(os.PathListSeparator))
}

func normalize(entry string) string {
	if runtime.GOOS != "windows" {
		return entry
	}
	return strings.ToLower(strings.TrimRight(entry, `\/`))
}
