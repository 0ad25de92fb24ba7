// Package orchestrator wires a machine State, its CPU, and the three
// pluggable drivers (input, display, audio) into the four concurrent
// loops spec.md §5 describes, coordinating their shutdown through one
// shared fault cell.
package orchestrator

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/shuklaayush/chippy/internal/chip8"
	"github.com/shuklaayush/chippy/internal/drivers"
	"github.com/shuklaayush/chippy/internal/faultcell"
	"github.com/shuklaayush/chippy/internal/inputqueue"
	"github.com/shuklaayush/chippy/internal/rateloop"
	"github.com/shuklaayush/chippy/internal/replaylog"
)

// Config gathers everything a run needs beyond the ROM bytes
// themselves: the CPU clock rate, the seed pinning CXNN, an optional
// replay bundle preloading the input queue, and the drivers (each of
// which carries its own polling or refresh rate).
type Config struct {
	ClockHz float64
	Seed    int64
	Replay  *replaylog.Bundle

	Input   drivers.Input
	Display drivers.Display // nil in headless mode
	Audio   drivers.Audio   // nil in headless mode
}

// Run loads rom into a fresh machine and drives it to completion,
// spawning one goroutine per loop and blocking until every loop has
// observed the shared fault cell's shutdown. It returns nil on a clean
// interrupt (chip8.Interrupt) and the stored fault otherwise.
func Run(rom []byte, cfg Config) error {
	state := chip8.NewState()
	if err := state.LoadROM(rom); err != nil {
		return err
	}

	seed := cfg.Seed
	var preload []inputqueue.PreloadedEvent
	if cfg.Replay != nil {
		seed = cfg.Replay.Seed
		preload = cfg.Replay.Events
	}
	queue := inputqueue.New(preload...)

	cell := faultcell.New()
	cpu := chip8.NewCPU(state, queue, cell, cfg.ClockHz, seed)

	stopSignalWatch := make(chan struct{})
	defer close(stopSignalWatch)
	go watchShutdownSignals(cell, stopSignalWatch)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		cpu.Run(cell)
	}()

	if cfg.Input != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runInputLoop(cell, state, queue, cfg.Input)
		}()
	}

	if cfg.Display != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runDisplayLoop(cell, state, cfg.Display, cpu)
		}()
	}

	if cfg.Audio != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runAudioLoop(cell, state, cfg.Audio)
		}()
	}

	wg.Wait()

	if err := cell.Err(); err != nil {
		if err == chip8.Interrupt {
			return nil
		}
		return err
	}
	return nil
}

// watchShutdownSignals maps Ctrl-C (SIGINT) and SIGTERM to the same
// clean shutdown as an in-window Escape or window-close (spec.md §6):
// the first one received fails cell with chip8.Interrupt so every loop
// observes it on its next tick. stop, closed by Run once every loop has
// exited, lets this goroutine return instead of leaking past the run
// it was watching.
func watchShutdownSignals(cell *faultcell.Cell, stop <-chan struct{}) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
		cell.Fail(chip8.Interrupt)
	case <-stop:
	}
}

// runInputLoop polls in at its own frequency, stamping every observed
// transition with the CPU's current clock before enqueuing it, per
// spec.md §6's "input driver stamps and enqueues."
func runInputLoop(cell *faultcell.Cell, state *chip8.State, queue *inputqueue.Queue, in drivers.Input) {
	rateloop.Run(cell, in.Frequency(), func(time.Duration) error {
		event, ok, err := in.Poll()
		if err != nil {
			return chip8.WrapDriverError("input", err)
		}
		if ok {
			kind := inputqueue.Release
			if event.Pressed {
				kind = inputqueue.Press
			}
			queue.Enqueue(state.Clock(), inputqueue.Event{Key: event.Key, Kind: kind})
		}
		return nil
	})
}

// runDisplayLoop redraws at disp's own frequency, passing along the
// CPU's last observed frequency as a telemetry hint alongside the
// display loop's own measured fps (SPEC_FULL.md §6).
func runDisplayLoop(cell *faultcell.Cell, state *chip8.State, disp drivers.Display, cpu *chip8.CPU) {
	rateloop.Run(cell, disp.Frequency(), func(elapsed time.Duration) error {
		var fps float64
		if elapsed > 0 {
			fps = float64(time.Second) / float64(elapsed)
		}
		frame := state.FrameSnapshot()
		if err := disp.Draw(frame, cpu.LastObservedFrequency(), fps); err != nil {
			return chip8.WrapDriverError("display", err)
		}
		return nil
	})
}

// runAudioLoop checks the sound timer at audio's own frequency, beeping
// while it is non-zero (spec.md §6).
func runAudioLoop(cell *faultcell.Cell, state *chip8.State, audio drivers.Audio) {
	rateloop.Run(cell, audio.Frequency(), func(time.Duration) error {
		if state.SoundTimer() > 0 {
			if err := audio.Beep(); err != nil {
				return chip8.WrapDriverError("audio", err)
			}
		}
		return nil
	})
}
