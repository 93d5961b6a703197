package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stream-orbs/internal/platform/tui"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/storage"
)

var (
	flagScoresTUI   bool
	flagScoresLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show stored results",
	Long: `Display the best results for a mode, or a summary of every mode
when no mode is given.

Examples:
  orbs scores
  orbs scores race
  orbs scores pachinko --limit 25
  orbs scores --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse results in an interactive table")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of results to show")
}

func runScores(_ *cobra.Command, args []string) error {
	modeID := ""
	if len(args) > 0 {
		canonical, ok := registry.Resolve(args[0])
		if !ok {
			return fmt.Errorf("unknown mode %q, run 'orbs modes' to see available modes", args[0])
		}
		modeID = canonical
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open orbs database: %w", err)
	}
	defer store.Close()

	if flagScoresTUI {
		width, height := terminalSize()
		_, err := tui.RunScoreboard(store, modeID, width, height)
		return err
	}

	if modeID == "" {
		return printSummary(store)
	}
	return printResults(store, modeID)
}

func printResults(store *storage.Store, modeID string) error {
	results, err := store.TopResults(modeID, flagScoresLimit)
	if err != nil {
		return err
	}

	title := modeID
	for _, info := range registry.List() {
		if info.ID == modeID {
			title = info.Title
		}
	}
	fmt.Printf("Results - %s\n\n", title)

	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'orbs run %s' to record some!\n", modeID)
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-16s  %-6s  %-4s  %s\n", "Rank", "Orb", "Score", "Pos", "Date")
	fmt.Printf("  %-4s  %-16s  %-6s  %-4s  %s\n", "----", "---", "-----", "---", "----")

	for i, r := range results {
		label := r.Label
		if label == "" {
			label = r.SpriteID
		}
		if len(label) > 16 {
			label = label[:15] + "."
		}
		pos := "-"
		if r.Slot > 0 {
			pos = fmt.Sprint(r.Slot)
		}
		fmt.Printf("  %-4d  %-16s  %-6d  %-4s  %s\n", i+1, label, r.Score, pos, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(modeID); err == nil && best > 0 {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}

func printSummary(store *storage.Store) error {
	stats, err := store.GetAllModeStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No results recorded yet.")
		return nil
	}
	writeSummary(os.Stdout, stats)
	return nil
}

// writeSummary prints one line per mode, sorted by mode ID.
func writeSummary(w io.Writer, stats map[string]*storage.ModeStats) {
	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(w, "  %-10s  %-7s  %-5s  %-5s  %-7s  %s\n", "Mode", "Results", "Best", "Wins", "Avg", "Last played")
	fmt.Fprintf(w, "  %-10s  %-7s  %-5s  %-5s  %-7s  %s\n", "----", "-------", "----", "----", "---", "-----------")
	for _, id := range ids {
		s := stats[id]
		last := "-"
		if !s.LastPlayed.IsZero() {
			last = s.LastPlayed.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "  %-10s  %-7d  %-5d  %-5d  %-7.1f  %s\n", id, s.Results, s.HighScore, s.Wins, s.AvgScore, last)
	}
}
