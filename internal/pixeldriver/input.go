package pixeldriver

import (
	"github.com/shuklaayush/chippy/internal/chip8"
	"github.com/shuklaayush/chippy/internal/drivers"
)

// Input implements drivers.Input by diffing the keymap's pressed set
// against the previous poll, emitting one press/release transition per
// call. Multiple transitions observed in a single poll are buffered
// and drained on subsequent calls so no transition is lost.
type Input struct {
	win        *Window
	pollRateHz float64
	wasPressed [chip8.NumKeys]bool
	pending    []drivers.InputEvent
}

// NewInput wraps win as an input driver polled at pollRateHz.
func NewInput(win *Window, pollRateHz float64) *Input {
	return &Input{win: win, pollRateHz: pollRateHz}
}

// Frequency implements drivers.Input.
func (in *Input) Frequency() float64 { return in.pollRateHz }

// Poll implements drivers.Input. The window manager's close button and
// the Escape key are both in-window user-shutdown gestures (spec.md
// §6), so either maps to chip8.Interrupt here exactly as the orchestrator's
// own Ctrl-C/SIGTERM handler does.
func (in *Input) Poll() (drivers.InputEvent, bool, error) {
	if len(in.pending) == 0 {
		if in.win.Closed() {
			return drivers.InputEvent{}, false, chip8.Interrupt
		}
		if in.refill() {
			return drivers.InputEvent{}, false, chip8.Interrupt
		}
	}
	if len(in.pending) == 0 {
		return drivers.InputEvent{}, false, nil
	}
	ev := in.pending[0]
	in.pending = in.pending[1:]
	return ev, true, nil
}

// refill scans the keymap for transitions since the last poll and
// buffers them in key order. It reports whether Escape was held down
// during this poll.
func (in *Input) refill() (escape bool) {
	snap := in.win.pollInput()

	var pressed [chip8.NumKeys]bool
	for _, key := range snap.pressed {
		pressed[key] = true
	}
	for key := 0; key < chip8.NumKeys; key++ {
		if pressed[key] != in.wasPressed[key] {
			in.pending = append(in.pending, drivers.InputEvent{
				Key:     byte(key),
				Pressed: pressed[key],
			})
		}
	}
	in.wasPressed = pressed
	return snap.escape
}
