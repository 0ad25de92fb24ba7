// Package drivers defines the trait surface every external collaborator
// of the CPU implements: input, display, and audio. The orchestrator
// only ever talks to these contracts; concrete adapters (pixeldriver,
// audiodriver) live in their own packages.
package drivers

import "github.com/shuklaayush/chippy/internal/chip8"

// Input produces timestamped key events. The harness stamps each event
// with the CPU's current clock and enqueues it (spec.md §6).
type Input interface {
	// Frequency is the rate, in Hz, the orchestrator polls this driver at.
	Frequency() float64
	// Poll returns the next observed event, or ok=false if none occurred
	// this tick.
	Poll() (event InputEvent, ok bool, err error)
}

// InputEvent mirrors inputqueue.Event without importing it here, so
// driver implementations don't need to depend on the CPU's internal
// queue package; the orchestrator translates between the two.
type InputEvent struct {
	Key     byte
	Pressed bool
}

// Display reads framebuffer snapshots at its own refresh rate.
type Display interface {
	// Frequency is the refresh rate, in Hz, the orchestrator redraws at.
	Frequency() float64
	// Draw renders one snapshot. cpuFreqHint and fpsHint are optional
	// telemetry (0 means "not available") a HUD may render.
	Draw(frame chip8.Frame, cpuFreqHint, fpsHint float64) error
}

// Audio beeps while the sound timer is non-zero.
type Audio interface {
	// Frequency is the rate, in Hz, the orchestrator checks the sound
	// timer and calls Beep at.
	Frequency() float64
	// Beep is called once per tick while the sound timer is > 0.
	Beep() error
}
