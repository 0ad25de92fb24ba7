package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// replayCmd is sugar over `run --headless --input-log`: deterministically
// re-execute a recorded run with no window and no live input driver, the
// whole session driven by the preloaded queue.
var replayCmd = &cobra.Command{
	Use:   "replay path/to/rom",
	Short: "replay a recorded input log headlessly",
	Args:  cobra.ExactArgs(1),
	Run:   runReplay,
}

func init() {
	replayCmd.Flags().Float64Var(&clockFrequency, "clock-frequency", 540, "CPU cycles per second")
	replayCmd.Flags().Int64Var(&seed, "seed", 1, "seed for the CXNN pseudo-random number generator")
	replayCmd.Flags().StringVar(&inputLogPath, "input-log", "", "CSV input log to replay (required)")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) {
	if inputLogPath == "" {
		fmt.Println("replay requires --input-log path/to/log.csv")
		os.Exit(1)
	}
	headless = true
	runChippy(cmd, args)
}
