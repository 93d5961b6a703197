package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stream-orbs/internal/platform/tui"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/stage"
	"github.com/vovakirdan/stream-orbs/internal/storage"
)

var (
	flagLogFile  string
	flagNoRoster bool
)

var runCmd = &cobra.Command{
	Use:   "run [mode]",
	Short: "Run the stage with a local admin console",
	Long: `Run the orb stage in this terminal. The terminal is both the display
and the admin console.

Controls:
  A            - Add a random orb
  C            - Clear all orbs
  X            - Explode from the center
  Tab/S-Tab    - Next/previous mode
  1-9          - Jump to a mode
  M            - Mode picker
  S/R          - Start/reset the race
  E            - Re-run every orb
  Ctrl+S       - Save a screenshot
  ?            - Toggle help
  Q/Ctrl+C     - Quit

The saved roster is restored on start and saved again on quit.
Race and pachinko results are recorded in the database.

Examples:
  orbs run
  orbs run race --fps 30
  orbs run pachinko --config pachinko=./wide-board.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default: discard)")
	runCmd.Flags().BoolVar(&flagNoRoster, "no-roster", false, "Do not restore or save the orb roster")
}

func runRun(_ *cobra.Command, args []string) error {
	modeID := stage.DefaultMode
	if len(args) > 0 {
		modeID = args[0]
		if !registry.Exists(modeID) {
			return fmt.Errorf("unknown mode %q, run 'orbs modes' to see available modes", modeID)
		}
	}

	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, "orbs")

	store := openStore(logger)
	var recorder *storage.Recorder
	opts := []stage.Option{stage.WithMode(modeID)}
	if store != nil {
		defer store.Close()
		recorder = storage.NewRecorder(store, logger, 64)
		opts = append(opts, stage.WithResults(recorder.Record))
	}

	roster := store
	if flagNoRoster {
		roster = nil
	}
	st, err := newStage(logger, roster, opts...)
	if err != nil {
		return err
	}

	width, height := terminalSize()
	runErr := tui.Run(st, width, height)

	if recorder != nil {
		recorder.Close()
	}
	if roster != nil {
		saveRoster(st, roster, logger)
	}
	return runErr
}
