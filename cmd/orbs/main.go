// orbs is a stream overlay engine: avatar orbs animated by pluggable modes
// (free-fall physics, perimeter snake, pachinko, lane race).
//
// Usage:
//
//	orbs modes              - List available modes
//	orbs run [mode]         - Run the stage with a local admin console
//	orbs serve              - Serve the stage over SSH and websocket
//	orbs scores [mode]      - Show stored results
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--seed <value>    - Set RNG seed for reproducible runs
//	--db <path>       - Set database path (default: ~/.orbs/orbs.db)
//	--width <px>      - Logical canvas width (default: 405)
//	--height <px>     - Logical canvas height (default: 720)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagWidth  float64
	flagHeight float64
	flagDebug  bool
	flagConfig map[string]string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "orbs",
	Short: "Stream Orbs - animated avatar orbs for stream overlays",
	Long: `Stream Orbs animates avatar orbs on a stream overlay canvas. The active
mode decides how they move: free-fall physics, a perimeter snake, a
pachinko board or a lane race.

Available commands:
  modes    - Show all available modes
  run      - Run the stage with a local admin console
  serve    - Serve the stage to SSH and websocket displays
  scores   - View stored race and pachinko results

Examples:
  orbs modes
  orbs run pachinko
  orbs serve --ssh :2222 --http :8080
  orbs scores race`,
	SilenceUsage: true,
}

func init() {
	defaults := defaultRuntime()

	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", defaults.TickRate, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.orbs/orbs.db", "Path to the orbs database")
	rootCmd.PersistentFlags().Float64Var(&flagWidth, "width", defaults.CanvasW, "Logical canvas width in pixels")
	rootCmd.PersistentFlags().Float64Var(&flagHeight, "height", defaults.CanvasH, "Logical canvas height in pixels")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringToStringVar(&flagConfig, "config", nil, "Mode config files as mode=path (e.g. race=./race.yaml)")

	// Add subcommands
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
