package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shuklaayush/chippy/internal/audiodriver"
	"github.com/shuklaayush/chippy/internal/drivers"
	"github.com/shuklaayush/chippy/internal/orchestrator"
	"github.com/shuklaayush/chippy/internal/pixeldriver"
	"github.com/shuklaayush/chippy/internal/replaylog"
)

var (
	clockFrequency float64
	refreshRate    float64
	inputRate      float64
	headless       bool
	inputLogPath   string
	seed           int64
	beepPath       string
)

// runCmd runs the chippy virtual machine and waits for a shutdown signal to exit
var runCmd = &cobra.Command{
	Use:   "run path/to/rom",
	Short: "run the chippy emulator",
	Args:  cobra.ExactArgs(1),
	Run:   runChippy,
}

func init() {
	runCmd.Flags().Float64Var(&clockFrequency, "clock-frequency", 540, "CPU cycles per second")
	runCmd.Flags().Float64Var(&refreshRate, "refresh-rate", 60, "display redraws per second")
	runCmd.Flags().Float64Var(&inputRate, "input-rate", 120, "keyboard polls per second")
	runCmd.Flags().BoolVar(&headless, "headless", false, "run without a window, driven entirely by a preloaded --input-log")
	runCmd.Flags().StringVar(&inputLogPath, "input-log", "", "CSV input log to preload the event queue from, for deterministic replay")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "seed for the CXNN pseudo-random number generator")
	runCmd.Flags().StringVar(&beepPath, "beep-path", "assets/beep.mp3", "mp3 sample played while the sound timer is non-zero")
}

func runChippy(cmd *cobra.Command, args []string) {
	rom, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("error reading rom: %v\n", err)
		os.Exit(1)
	}

	cfg := orchestrator.Config{
		ClockHz: clockFrequency,
		Seed:    seed,
	}

	if inputLogPath != "" {
		bundle, err := loadReplayBundle(inputLogPath, seed)
		if err != nil {
			fmt.Printf("error loading input log: %v\n", err)
			os.Exit(1)
		}
		cfg.Replay = bundle
	}

	if !headless {
		win, err := pixeldriver.NewWindow("chippy")
		if err != nil {
			fmt.Printf("error creating window: %v\n", err)
			os.Exit(1)
		}
		cfg.Display = pixeldriver.NewDisplay(win, refreshRate)
		cfg.Input = pixeldriver.NewInput(win, inputRate)

		speaker, err := audiodriver.NewSpeaker(beepPath, refreshRate)
		if err != nil {
			fmt.Printf("error loading beep sample, continuing without audio: %v\n", err)
			cfg.Audio = audiodriver.Null{FrequencyHz: refreshRate}
		} else {
			cfg.Audio = speaker
		}
	}

	if err := orchestrator.Run(rom, cfg); err != nil {
		fmt.Printf("\nchippy exited with an error: %v\n", err)
		os.Exit(1)
	}
}

func loadReplayBundle(path string, seed int64) (*replaylog.Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	events, err := replaylog.Read(f)
	if err != nil {
		return nil, err
	}
	return &replaylog.Bundle{Seed: seed, Events: events}, nil
}

// ensure drivers.Input/Display/Audio stay satisfied by the concrete
// adapters wired above; a mismatch here is a compile error instead of a
// runtime surprise.
var (
	_ drivers.Input   = (*pixeldriver.Input)(nil)
	_ drivers.Display = (*pixeldriver.Display)(nil)
	_ drivers.Audio   = (*audiodriver.Speaker)(nil)
	_ drivers.Audio   = audiodriver.Null{}
)
