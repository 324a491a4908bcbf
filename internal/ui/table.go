package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"toolup/pkg/backend"
	"toolup/pkg/catalog"
	"toolup/pkg/install"
)

// Table wraps tabwriter for consistent styling.
type Table struct {
	writer *tabwriter.Writer
}

// NewTable creates a new table on stdout with the header row written.
func NewTable(header []string) *Table {
	return NewTableWriter(os.Stdout, header)
}

// NewTableWriter creates a new table that writes to a specific writer.
func NewTableWriter(w io.Writer, header []string) *Table {
	t := &Table{writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	if len(header) > 0 {
		headerRow := make([]string, len(header))
		for i, h := range header {
			headerRow[i] = Bold(strings.ToUpper(h))
		}
		t.AddRow(headerRow)
	}
	return t
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row []string) {
	fmt.Fprintln(t.writer, strings.Join(row, "\t"))
}

// Render flushes the table.
func (t *Table) Render() {
	t.writer.Flush()
}

// ToolStatus pairs a catalog entry with its verification state.
type ToolStatus struct {
	Tool      catalog.ToolDefinition
	Checked   bool
	Installed bool
	Version   string
}

// PrintTools prints catalog tools, with install state when checked.
func PrintTools(w io.Writer, tools []ToolStatus) {
	if len(tools) == 0 {
		MutedMsg("No tools found")
		return
	}

	t := NewTableWriter(w, []string{"tool", "category", "backends", "status", "description"})
	for _, ts := range tools {
		var kinds []string
		for _, k := range ts.Tool.Kinds() {
			kinds = append(kinds, k.String())
		}
		backends := strings.Join(kinds, ",")
		if ts.Tool.BuiltIn {
			backends = strings.TrimPrefix(backends+",built-in", ",")
		}

		status := "-"
		if ts.Checked {
			if ts.Installed {
				status = Installed.Sprint(SymbolSuccess) + " " + ToolVersion.Sprint(dash(ts.Version))
			} else {
				status = NotInstalled.Sprint("not installed")
			}
		}

		desc := ts.Tool.Description
		if len(desc) > 50 {
			desc = desc[:47] + "..."
		}

		t.AddRow([]string{ToolName.Sprint(ts.Tool.Name), ts.Tool.Category, backends, status, desc})
	}
	t.Render()
}

// PrintBackends prints the probe status of every backend.
func PrintBackends(w io.Writer, statuses []backend.Status) {
	t := NewTableWriter(w, []string{"priority", "backend", "status", "version", "path"})
	for _, st := range statuses {
		status := Green(SymbolSuccess + " available")
		if !st.Available {
			status = Red(SymbolError + " " + st.Reason)
		}
		version := st.Version
		if version == "" {
			version = "-"
		}
		path := st.Path
		if path == "" {
			path = "-"
		}
		t.AddRow([]string{st.Backend.Kind().Slot(), BackendName.Sprint(st.Backend.Name()), status, version, path})
	}
	t.Render()
}

// PrintResults prints one row per install result.
func PrintResults(w io.Writer, results []install.Result) {
	t := NewTableWriter(w, []string{"tool", "result", "backend", "package", "version", "rounds", "time"})
	for _, r := range results {
		var outcome string
		switch {
		case r.DryRun:
			outcome = Yellow("dry run")
		case r.AlreadyInstalled:
			outcome = Green("present")
		case r.Success:
			outcome = Green("installed")
		default:
			outcome = Red("failed")
		}
		t.AddRow([]string{
			ToolName.Sprint(r.Tool),
			outcome,
			BackendLabel(r.Backend),
			dash(r.PackageID),
			ToolVersion.Sprint(dash(r.Version)),
			fmt.Sprint(r.Attempts),
			r.Duration.Round(time.Millisecond).String(),
		})
	}
	t.Render()
}

// printField prints a single field with formatting.
func printField(label, value string) {
	fmt.Printf("  %s: %s\n", Cyan(label), value)
}

// PrintSystemInfo prints system information.
func PrintSystemInfo(prettyName, arch, configPath string, catalogSize int) {
	HeaderMsg("System Information")

	printField("Operating System", prettyName)
	printField("Architecture", arch)
	printField("Config File", configPath)
	printField("Catalog Tools", fmt.Sprint(catalogSize))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
