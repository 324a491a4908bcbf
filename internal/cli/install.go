package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"toolup/internal/history"
	"toolup/internal/ui"
	"toolup/pkg/backend"
	"toolup/pkg/install"
)

var (
	installAll     bool
	force          bool
	retries        int
	timeoutSecs    int
	jobs           int
	stopOnCritical bool
)

var installCmd = &cobra.Command{
	Use:   "install [tools...]",
	Short: "Install one or more tools",
	Long: `Install tools from the catalog using the first backend that can
provide them. Each tool is verified after installation; failed rounds
are retried with backoff and cleaned up when every round fails.

Examples:
  toolup install git fzf           # Install two tools
  toolup install -y --jobs 4 --all # Install everything, four at a time
  toolup install --force jq        # Reinstall even if jq works already
  toolup install rg                # Uses alias if configured`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVarP(&installAll, "all", "a", false, "install every catalog tool that is not built in")
	installCmd.Flags().BoolVarP(&force, "force", "f", false, "reinstall tools that are already present")
	installCmd.Flags().IntVar(&retries, "retries", 0, "extra rounds after the first (default from config)")
	installCmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "seconds allowed per backend invocation (default from config)")
	installCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "tools installed at once (default from config)")
	installCmd.Flags().BoolVar(&stopOnCritical, "stop-on-critical", false, "abort remaining tools after a critical failure")
}

// applyInstallFlags copies explicitly set install flags into the config.
func applyInstallFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Lookup("retries") == nil {
		return
	}
	if flags.Changed("retries") {
		cfg.Install.RetryCount = retries
	}
	if flags.Changed("timeout") {
		cfg.Install.TimeoutSeconds = timeoutSecs
	}
	if flags.Changed("jobs") {
		cfg.Install.Concurrency = jobs
	}
	if force {
		cfg.Install.Force = true
	}
}

func runInstall(cmd *cobra.Command, args []string) error {
	names, err := resolveTools(args)
	if err != nil {
		return err
	}

	showPlan(names)

	// Confirm if not auto-confirmed
	if !cfg.Install.AutoConfirm && !cfg.Install.DryRun {
		confirmed, err := ui.Confirm(fmt.Sprintf("Install %d tool(s)?", len(names)), true)
		if err != nil {
			return err
		}
		if !confirmed {
			return ErrAborted
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := installTools(ctx, cancel, names)

	recordHistory(results)

	fmt.Println()
	if cfg.Output.Verbose {
		ui.PrintResults(os.Stdout, results)
		fmt.Println()
	}
	fmt.Println(ui.RenderSummary(results))
	ui.PrintFailures(os.Stdout, results)

	var failed int
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d tool(s)", ErrInstallFailed, failed, len(results))
	}
	return nil
}

// resolveTools expands --all, resolves aliases, drops duplicates and rejects
// names missing from the catalog.
func resolveTools(args []string) ([]string, error) {
	if installAll {
		for _, def := range tools.All() {
			if def.HasPackages() && !def.BuiltIn {
				args = append(args, def.Name)
			}
		}
	}
	if len(args) == 0 {
		return nil, ErrNoTools
	}

	seen := make(map[string]bool)
	var names, unknown []string
	for _, name := range cfg.ResolveAliases(args) {
		def, ok := tools.Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		key := strings.ToLower(def.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, def.Name)
	}

	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s (run 'toolup list' to see available tools)", ErrUnknownTool, strings.Join(unknown, ", "))
	}
	return names, nil
}

func showPlan(names []string) {
	verb := "Installing"
	if cfg.Install.DryRun {
		verb = "Dry run for"
	}
	ui.InfoMsg("%s %d tool(s)", verb, len(names))
	for _, name := range names {
		def, _ := tools.Lookup(name)
		var kinds []string
		for _, k := range def.Kinds() {
			kinds = append(kinds, k.String())
		}
		ui.MutedMsg("  - %s (%s)", def.Name, strings.Join(kinds, ", "))
	}
}

// installTools runs the batch. cancel aborts the remaining tools when a
// critical failure is reported and --stop-on-critical is set.
func installTools(ctx context.Context, cancel context.CancelFunc, names []string) []install.Result {
	opts := cfg.InstallOptions()

	progress := ui.NewProgress(len(names))
	defer progress.Finish()

	logger := ui.NewLogger(cfg.Output.Verbose)
	if progress.Active() && !cfg.Output.Verbose {
		logger.SetMinLevel(install.LevelWarning)
	}

	opts.OnResult = func(r install.Result) {
		progress.Done(r)
		if stopOnCritical && r.Critical() {
			cancel()
		}
	}
	if cfg.Output.Verbose {
		opts.OnAttempt = func(a install.Attempt) {
			logger.Logf(install.LevelDebug, "%s: round %d %s/%s %s in %s %s",
				a.Tool, a.Number, a.Backend, a.PackageID, a.Outcome, a.Elapsed.Round(time.Millisecond), a.Reason)
		}
	}

	cache := backend.NewCache(newProber())
	if !opts.DryRun {
		available, _ := ui.WithSpinner("Probing package managers", func() ([]backend.Backend, error) {
			return cache.Available(ctx), nil
		})
		if len(available) > 0 {
			ui.MutedMsg("Available backends: %s", strings.Join(backendNames(available), ", "))
		}
	}

	orch := install.New(tools, cache, install.NewCommandInstaller(runner), newVerifier(), opts)
	orch.SetLogger(logger)

	return orch.Batch(ctx, names)
}

func backendNames(backends []backend.Backend) []string {
	names := make([]string, 0, len(backends))
	for _, b := range backends {
		names = append(names, b.Name())
	}
	return names
}

// recordHistory saves results; history is best effort.
func recordHistory(results []install.Result) {
	store, err := history.Open()
	if err != nil {
		if cfg.Output.Verbose {
			ui.WarningMsg("History unavailable: %v", err)
		}
		return
	}
	defer store.Close()

	entries := make([]*history.Entry, 0, len(results))
	for _, r := range results {
		entries = append(entries, history.FromResult(r))
	}
	if err := store.Record(entries...); err != nil && cfg.Output.Verbose {
		ui.WarningMsg("Failed to record history: %v", err)
	}
}
