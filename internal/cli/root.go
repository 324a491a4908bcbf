// Package cli implements the command-line interface for toolup.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toolup/internal/config"
	"toolup/internal/executor"
	"toolup/internal/ui"
	"toolup/pkg/backend"
	"toolup/pkg/catalog"
	"toolup/pkg/install"
)

var (
	// Global flags
	cfgFile     string
	catalogFile string
	dryRun      bool
	yes         bool
	verbose     bool
	noColor     bool

	// Global state
	cfg    *config.Config
	tools  *catalog.Registry
	runner *executor.Executor
)

// Build metadata - set at build time via ldflags
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "toolup",
	Short: "Install developer tools through winget, chocolatey or scoop",
	Long: `toolup installs command-line developer tools by dispatching to the
package managers present on the machine, verifying that each tool
actually runs, and cleaning up after failed attempts.

Backends, in order of preference:
  winget, chocolatey, scoop

Examples:
  toolup install git fzf ripgrep      # Install three tools
  toolup install --all --dry-run      # Show what would be installed
  toolup list --installed             # Show which catalog tools are present
  toolup doctor                       # Check which backends respond`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp(cmd)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "extra YAML tool catalog")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would happen without executing")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "assume yes to all prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initializeApp sets up the application state.
func initializeApp(cmd *cobra.Command) error {
	// Load configuration
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	// Apply global flag overrides
	if yes {
		cfg.Install.AutoConfirm = true
	}
	if dryRun {
		cfg.Install.DryRun = true
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.Color = false
	}
	applyInstallFlags(cmd)

	if err := cfg.Validate(); err != nil {
		return err
	}

	ui.Init(cfg.ShouldUseColor(), cfg.Output.Unicode)

	tools, err = loadCatalog()
	if err != nil {
		return err
	}

	runner = executor.New(cfg.Output.Verbose)
	// Keep traces off stdout so tables stay clean.
	runner.SetOutput(os.Stderr)
	return nil
}

// loadCatalog merges the configured and flagged catalogs over the built-in one.
func loadCatalog() (*catalog.Registry, error) {
	reg, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}

	for _, path := range []string{cfg.Catalog.Path, catalogFile} {
		if path == "" {
			continue
		}
		extra, err := catalog.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if reg, err = reg.Merge(extra); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// newProber builds a prober over the known backends, honoring disabled ones.
func newProber() *backend.Prober {
	p := backend.NewProber(backend.Default(), runner, cfg.ProbeTimeout())
	// Validate already rejected unknown names.
	disabled, _ := cfg.DisabledBackends()
	p.Disable(disabled...)
	return p
}

// newVerifier builds the post-install verifier.
func newVerifier() *install.CommandVerifier {
	return install.NewCommandVerifier(runner, cfg.SettleDelay())
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print toolup version",
	Run: func(cmd *cobra.Command, args []string) {
		ui.InfoMsg("toolup version %s", Version)
		if Commit != "unknown" {
			ui.MutedMsg("  Commit: %s", Commit)
		}
		if BuildTime != "unknown" {
			ui.MutedMsg("  Built:  %s", BuildTime)
		}
	},
}
