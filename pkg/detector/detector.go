// Package detector identifies the host operating system for diagnostics.
package detector

import (
	"runtime"
)

// OSType represents the detected operating system type.
type OSType string

const (
	OSLinux   OSType = "linux"
	OSDarwin  OSType = "darwin"
	OSWindows OSType = "windows"
	OSUnknown OSType = "unknown"
)

// SystemInfo contains information about the detected system.
type SystemInfo struct {
	OS         OSType
	Arch       string
	PrettyName string // Human-readable name
	Version    string
	Build      string
}

// Detect detects the current system.
func Detect() *SystemInfo {
	info := &SystemInfo{
		OS:   osType(runtime.GOOS),
		Arch: runtime.GOARCH,
	}
	detectPlatform(info)

	if info.PrettyName == "" {
		info.PrettyName = defaultName(info.OS)
	}
	return info
}

func osType(goos string) OSType {
	switch goos {
	case "linux":
		return OSLinux
	case "darwin":
		return OSDarwin
	case "windows":
		return OSWindows
	default:
		return OSUnknown
	}
}

func defaultName(os OSType) string {
	switch os {
	case OSLinux:
		return "Linux"
	case OSDarwin:
		return "macOS"
	case OSWindows:
		return "Windows"
	default:
		return runtime.GOOS
	}
}

// IsWindows returns true if the system is running Windows.
func (s *SystemInfo) IsWindows() bool {
	return s.OS == OSWindows
}

// SupportsBackends reports whether winget, chocolatey or scoop can exist here.
func (s *SystemInfo) SupportsBackends() bool {
	return s.IsWindows()
}

// String returns the name with version and build when known.
func (s *SystemInfo) String() string {
	name := s.PrettyName
	if s.Version != "" {
		name += " " + s.Version
	}
	if s.Build != "" {
		name += " (build " + s.Build + ")"
	}
	return name
}
