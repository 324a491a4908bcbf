package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette, matching the fatih/color message colors.
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Yellow
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
)

// BackendColors gives each backend its brand color.
var BackendColors = map[string]lipgloss.Color{
	"winget":     lipgloss.Color("#0078D4"), // Windows blue
	"chocolatey": lipgloss.Color("#80B5E3"), // Chocolatey light blue
	"scoop":      lipgloss.Color("#E6A23C"), // Scoop amber
}

// Styles holds the lipgloss styles of the summary panel.
type Styles struct {
	Panel    lipgloss.Style
	Title    lipgloss.Style
	Tool     lipgloss.Style
	Version  lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Critical lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() *Styles {
	s := &Styles{}

	s.Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)
	if !UseUnicode {
		s.Panel = s.Panel.Border(lipgloss.NormalBorder())
	}

	s.Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	s.Tool = lipgloss.NewStyle().Bold(true)
	s.Version = lipgloss.NewStyle().Foreground(ColorSuccess)
	s.Muted = lipgloss.NewStyle().Foreground(ColorMuted)
	s.Success = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	s.Warning = lipgloss.NewStyle().Foreground(ColorWarning)
	s.Error = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	s.Critical = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true).
		Underline(true)

	return s
}

// Backend returns a style for the backend name.
func (s *Styles) Backend(name string) lipgloss.Style {
	if c, ok := BackendColors[name]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(ColorSecondary)
}
