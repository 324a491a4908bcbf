// Package backend models the package-manager executables toolup dispatches to
// and decides which of them are usable on the current host.
package backend

import (
	"fmt"
	"strings"
)

// Kind identifies a backend slot. The numeric order is the preference order:
// Primary is always tried before Secondary, Secondary before Tertiary.
type Kind int

const (
	// None is the zero value, used when no backend was involved.
	None Kind = iota
	// Primary is bound to winget.
	Primary
	// Secondary is bound to chocolatey.
	Secondary
	// Tertiary is bound to scoop.
	Tertiary
)

// Kinds returns every real backend kind in priority order.
func Kinds() []Kind {
	return []Kind{Primary, Secondary, Tertiary}
}

// String returns the name of the backend bound to the kind.
func (k Kind) String() string {
	switch k {
	case Primary:
		return "winget"
	case Secondary:
		return "chocolatey"
	case Tertiary:
		return "scoop"
	}
	return "none"
}

// Slot returns the priority slot name ("primary", "secondary", "tertiary").
func (k Kind) Slot() string {
	switch k {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Tertiary:
		return "tertiary"
	}
	return "none"
}

// ParseKind resolves a backend name, alias or slot name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "winget", "primary":
		return Primary, nil
	case "chocolatey", "choco", "secondary":
		return Secondary, nil
	case "scoop", "tertiary":
		return Tertiary, nil
	}
	return None, fmt.Errorf("unknown backend: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	if len(text) == 0 || string(text) == "none" {
		*k = None
		return nil
	}
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
