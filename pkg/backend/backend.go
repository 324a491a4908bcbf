package backend

import "sort"

// Backend describes how to drive one package-manager executable.
type Backend interface {
	// Kind returns the priority slot this backend occupies.
	Kind() Kind

	// Name returns the short identifier (e.g., "winget").
	Name() string

	// DisplayName returns a human-readable name.
	DisplayName() string

	// Binary returns the executable looked up on PATH.
	Binary() string

	// VersionArgs returns the arguments of the lightweight availability probe.
	VersionArgs() []string

	// InstallArgs builds the non-interactive install command line.
	// logFile is empty when no log file should be written.
	InstallArgs(packageID string, force bool, logFile string) []string

	// SearchHint returns a command a user can run to look up a package name.
	SearchHint(query string) string
}

// BaseBackend provides the metadata shared by all backends.
type BaseBackend struct {
	kind        Kind
	name        string
	displayName string
	binary      string
}

// NewBaseBackend creates a new BaseBackend with the given parameters.
func NewBaseBackend(kind Kind, displayName, binary string) *BaseBackend {
	return &BaseBackend{
		kind:        kind,
		name:        kind.String(),
		displayName: displayName,
		binary:      binary,
	}
}

// Kind returns the priority slot.
func (b *BaseBackend) Kind() Kind {
	return b.kind
}

// Name returns the short identifier for this backend.
func (b *BaseBackend) Name() string {
	return b.name
}

// DisplayName returns the human-readable name.
func (b *BaseBackend) DisplayName() string {
	return b.displayName
}

// Binary returns the executable name for this backend.
func (b *BaseBackend) Binary() string {
	return b.binary
}

// SetBinary changes the executable to use (e.g., an absolute path).
func (b *BaseBackend) SetBinary(binary string) {
	b.binary = binary
}

// VersionArgs returns the default availability probe arguments.
func (b *BaseBackend) VersionArgs() []string {
	return []string{"--version"}
}

// Default returns the three known backends in priority order.
func Default() []Backend {
	return []Backend{NewWinget(), NewChocolatey(), NewScoop()}
}

// SortByKind orders backends by priority, keeping declaration order for ties.
func SortByKind(backends []Backend) {
	sort.SliceStable(backends, func(i, j int) bool {
		return backends[i].Kind() < backends[j].Kind()
	})
}

// KindsOf returns the kinds of the given backends, preserving order.
func KindsOf(backends []Backend) []Kind {
	kinds := make([]Kind, 0, len(backends))
	for _, b := range backends {
		kinds = append(kinds, b.Kind())
	}
	return kinds
}
