package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"toolup/internal/ui"
	"toolup/pkg/catalog"
)

var (
	listInstalled bool
	listCategory  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog tools",
	Long: `List the tools toolup knows how to install, with the backends
that provide each one.

Examples:
  toolup list                   # List all catalog tools
  toolup list --installed       # Also check which tools are present
  toolup list -c search         # Only tools in the 'search' category`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listInstalled, "installed", "i", false, "check whether each tool is installed")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "filter by category")
}

func runList(cmd *cobra.Command, args []string) error {
	var defs []catalog.ToolDefinition
	for _, def := range tools.All() {
		if listCategory != "" && !strings.EqualFold(def.Category, listCategory) {
			continue
		}
		defs = append(defs, def)
	}

	statuses := make([]ui.ToolStatus, len(defs))
	for i, def := range defs {
		statuses[i] = ui.ToolStatus{Tool: def}
	}

	if listInstalled && len(defs) > 0 {
		checkInstalled(cmd.Context(), statuses)
	}

	ui.PrintTools(os.Stdout, statuses)
	return nil
}

// checkInstalled fills in install state, a few tools at a time.
func checkInstalled(ctx context.Context, statuses []ui.ToolStatus) {
	verifier := newVerifier()

	sp := ui.NewSpinner(checkingMessage(0, len(statuses)))
	sp.Start()
	defer sp.Stop()

	var done atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.InstallOptions().Concurrency)
	for i := range statuses {
		i := i
		g.Go(func() error {
			v := verifier.Check(ctx, statuses[i].Tool)
			statuses[i].Checked = true
			statuses[i].Installed = v.Success
			statuses[i].Version = v.Version
			sp.UpdateMessage(checkingMessage(int(done.Add(1)), len(statuses)))
			return nil
		})
	}
	_ = g.Wait()
}

func checkingMessage(done, total int) string {
	return fmt.Sprintf("Checking installed tools (%d/%d)", done, total)
}
