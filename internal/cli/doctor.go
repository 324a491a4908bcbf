package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toolup/internal/config"
	"toolup/internal/ui"
	"toolup/pkg/backend"
	"toolup/pkg/detector"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose system issues",
	Long: `Check the host system, probe every package manager backend and
report configuration problems.

Examples:
  toolup doctor             # Run diagnostics`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	issues := 0

	ui.HeaderMsg("Running diagnostics...")

	sysInfo := detector.Detect()
	ui.PrintSystemInfo(sysInfo.String(), sysInfo.Arch, config.ConfigPath(), tools.Len())
	if !sysInfo.SupportsBackends() {
		ui.WarningMsg("winget, chocolatey and scoop only run on Windows; installs will fail on %s", sysInfo.OS)
		issues++
	}

	statuses, _ := ui.WithSpinner("Probing package managers", func() ([]backend.Status, error) {
		return newProber().ProbeAll(cmd.Context()), nil
	})

	ui.HeaderMsg("Package Managers")
	ui.PrintBackends(os.Stdout, statuses)

	available := 0
	for _, st := range statuses {
		if st.Available {
			available++
		}
	}
	if available == 0 {
		ui.ErrorMsg("No package manager available; install winget, chocolatey or scoop")
		issues++
	} else {
		ui.SuccessMsg("%d of %d backend(s) available", available, len(statuses))
	}

	// Tools with no identifiers for any usable backend
	var unreachable []string
	for _, def := range tools.All() {
		if def.BuiltIn {
			continue
		}
		reachable := false
		for _, st := range statuses {
			if st.Available && len(def.Packages(st.Backend.Kind())) > 0 {
				reachable = true
				break
			}
		}
		if !reachable {
			unreachable = append(unreachable, def.Name)
		}
	}
	if available > 0 && len(unreachable) > 0 {
		ui.WarningMsg("%d tool(s) have no package for the available backends: %v", len(unreachable), unreachable)
	}

	// Check config
	if _, err := os.Stat(config.ConfigPath()); os.IsNotExist(err) {
		ui.MutedMsg("No config file (using defaults)")
	} else {
		ui.SuccessMsg("Config file found")
	}

	if err := config.EnsureDataDir(); err != nil {
		ui.ErrorMsg("Data directory not writable: %v", err)
		issues++
	}

	// Summary
	fmt.Println()
	if issues == 0 {
		ui.SuccessMsg("No issues found!")
	} else {
		ui.WarningMsg("Found %d issue(s)", issues)
	}

	return nil
}
