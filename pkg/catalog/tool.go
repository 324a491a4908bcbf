// Package catalog holds the static tool definitions: which package identifier
// each backend uses for a logical tool, and how to check that the tool works.
package catalog

import (
	"strings"

	"toolup/pkg/backend"
)

// ToolDefinition describes one logical tool. Values are immutable once built;
// the identifier lists are only reachable through copying accessors.
type ToolDefinition struct {
	// Name is the unique logical name (e.g., "git").
	Name string

	// Command is the executable used for verification. Defaults to Name.
	Command string

	// VersionArgs is the functional probe. Defaults to --version.
	VersionArgs []string

	// Description is a one-line summary for listings.
	Description string

	// Category groups tools in listings (e.g., "vcs", "search").
	Category string

	// ManualURL is where the tool can be downloaded by hand.
	ManualURL string

	// BuiltIn marks tools shipped with a stock OS install.
	BuiltIn bool

	packages map[backend.Kind][]string
}

// NewTool builds a definition, copying the identifier lists and applying
// defaults for Command and VersionArgs.
func NewTool(name string, packages map[backend.Kind][]string) ToolDefinition {
	def := ToolDefinition{
		Name:     strings.TrimSpace(name),
		packages: make(map[backend.Kind][]string),
	}
	for kind, ids := range packages {
		var clean []string
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" {
				clean = append(clean, id)
			}
		}
		if len(clean) > 0 {
			def.packages[kind] = clean
		}
	}
	return def.withDefaults()
}

func (d ToolDefinition) withDefaults() ToolDefinition {
	if d.Command == "" {
		d.Command = d.Name
	}
	if len(d.VersionArgs) == 0 {
		d.VersionArgs = []string{"--version"}
	} else {
		d.VersionArgs = append([]string(nil), d.VersionArgs...)
	}
	return d
}

// Packages returns the identifiers declared for a backend, in declaration order.
func (d ToolDefinition) Packages(kind backend.Kind) []string {
	ids := d.packages[kind]
	if len(ids) == 0 {
		return nil
	}
	return append([]string(nil), ids...)
}

// Kinds returns the backends that have identifiers, in priority order.
func (d ToolDefinition) Kinds() []backend.Kind {
	var kinds []backend.Kind
	for _, k := range backend.Kinds() {
		if len(d.packages[k]) > 0 {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// HasPackages reports whether any backend can install the tool.
func (d ToolDefinition) HasPackages() bool {
	return len(d.Kinds()) > 0
}

// Candidate is one (backend, identifier) pair to try.
type Candidate struct {
	Backend   backend.Backend
	PackageID string
}

// Candidates returns every candidate for the available backends: all
// identifiers of the highest-priority backend first, then the next backend.
func (d ToolDefinition) Candidates(available []backend.Backend) []Candidate {
	ordered := make([]backend.Backend, len(available))
	copy(ordered, available)
	backend.SortByKind(ordered)

	var out []Candidate
	for _, b := range ordered {
		for _, id := range d.packages[b.Kind()] {
			out = append(out, Candidate{Backend: b, PackageID: id})
		}
	}
	return out
}
