package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"toolup/internal/history"
	"toolup/internal/ui"
)

var (
	historyLimit int
	historyClear bool
	historyPrune time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history [tool]",
	Short: "Show installation history",
	Long: `Display the history of installations performed by toolup.

Examples:
  toolup history              # Show recent history
  toolup history -l 20        # Show last 20 installations
  toolup history git          # Show history for git only
  toolup history --prune 720h # Drop entries older than 30 days`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "number of entries to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all history")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete entries older than this age")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	switch {
	case historyClear:
		return clearHistory(store)
	case historyPrune > 0:
		n, err := store.Prune(historyPrune)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
		ui.SuccessMsg("Removed %d entr%s", n, plural(n, "y", "ies"))
		return nil
	}

	var entries []history.Entry
	if len(args) == 1 {
		entries, err = store.ForTool(cfg.ResolveAlias(args[0]), historyLimit)
	} else {
		entries, err = store.List(historyLimit)
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) == 0 {
		ui.MutedMsg("No history entries found")
		return nil
	}

	ui.HeaderMsg("Installation History")

	for i, entry := range entries {
		var status string
		switch entry.Status() {
		case "failed":
			status = ui.Red(entry.Status())
		case "dry-run":
			status = ui.Yellow(entry.Status())
		default:
			status = ui.Green(entry.Status())
		}

		source := entry.Backend
		if entry.PackageID != "" {
			source += "/" + entry.PackageID
		}
		if source == "" {
			source = "-"
		}

		fmt.Printf("%2d. %s %s [%s] (%s)\n",
			i+1,
			ui.Muted.Sprint(entry.FormatTime()),
			ui.Bold(entry.Tool),
			ui.Cyan(source),
			status,
		)

		if !entry.Success && entry.Message != "" {
			ui.MutedMsg("    %s: %s", entry.Category, entry.Message)
		}
	}

	total, _ := store.Count()
	ui.MutedMsg("\nShowing %d of %d total entries", len(entries), total)

	return nil
}

func clearHistory(store *history.Store) error {
	if !cfg.Install.AutoConfirm {
		confirmed, err := ui.Confirm("Delete all history?", false)
		if err != nil {
			return err
		}
		if !confirmed {
			return ErrAborted
		}
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	ui.SuccessMsg("History cleared")
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
