package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"toolup/pkg/backend"
	"toolup/pkg/diagnose"
	"toolup/pkg/install"
)

// RenderSummary formats the batch results as a bordered panel.
func RenderSummary(results []install.Result) string {
	st := DefaultStyles()

	var installed, present, failed int
	lines := make([]string, 0, len(results))

	for _, r := range results {
		lines = append(lines, summaryLine(st, r))
		switch {
		case r.Success && r.AlreadyInstalled:
			present++
		case r.Success:
			installed++
		default:
			failed++
		}
	}

	title := st.Title.Render("Installation summary")
	counts := fmt.Sprintf("%s installed  %s already present  %s failed",
		st.Success.Render(fmt.Sprint(installed)),
		st.Muted.Render(fmt.Sprint(present)),
		failStyle(st, failed).Render(fmt.Sprint(failed)))

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		strings.Join(lines, "\n"),
		"",
		counts,
	)
	return st.Panel.Render(body)
}

func failStyle(st *Styles, failed int) lipgloss.Style {
	if failed > 0 {
		return st.Error
	}
	return st.Muted
}

func summaryLine(st *Styles, r install.Result) string {
	name := st.Tool.Render(r.Tool)

	switch {
	case r.DryRun:
		return fmt.Sprintf("%s %s %s", SymbolPending, name, st.Muted.Render("dry run"))
	case r.AlreadyInstalled:
		return fmt.Sprintf("%s %s %s %s", SymbolSuccess, name, st.Version.Render(r.Version), st.Muted.Render("already installed"))
	case r.Success:
		via := st.Backend(r.Backend.String()).Render(r.Backend.String())
		return fmt.Sprintf("%s %s %s via %s (%s)", SymbolSuccess, name, st.Version.Render(r.Version), via,
			st.Muted.Render(roundsLabel(r.Attempts)))
	}

	sev := st.Warning
	if r.Severity == diagnose.Critical {
		sev = st.Critical
	} else if r.Severity >= diagnose.High {
		sev = st.Error
	}
	return fmt.Sprintf("%s %s %s %s", SymbolError, name, sev.Render(r.Category.String()), st.Muted.Render(r.Severity.String()))
}

func roundsLabel(n int) string {
	if n == 1 {
		return "1 round"
	}
	return fmt.Sprintf("%d rounds", n)
}

// PrintFailures prints the message and suggestions of every failed result.
func PrintFailures(w io.Writer, results []install.Result) {
	for _, r := range results {
		if r.Success {
			continue
		}
		fmt.Fprintf(w, "\n%s %s\n", Error.Sprint(SymbolError), Bold(r.Tool))
		fmt.Fprintf(w, "  %s\n", r.Message)
		for i, s := range r.Suggestions {
			fmt.Fprintf(w, "  %s %d. %s\n", Muted.Sprint(SymbolArrow), i+1, s)
		}
	}
}

// BackendLabel renders a backend kind for tables.
func BackendLabel(k backend.Kind) string {
	if k == backend.None {
		return "-"
	}
	return BackendName.Sprint(k.String())
}
