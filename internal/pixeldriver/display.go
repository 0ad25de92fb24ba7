package pixeldriver

import (
	"github.com/faiface/mainthread"

	"github.com/shuklaayush/chippy/internal/chip8"
)

// Display implements drivers.Display on top of a pixelgl Window.
type Display struct {
	win           *Window
	refreshRateHz float64
}

// NewDisplay wraps win as a display driver refreshing at refreshRateHz.
func NewDisplay(win *Window, refreshRateHz float64) *Display {
	return &Display{win: win, refreshRateHz: refreshRateHz}
}

// Frequency implements drivers.Display.
func (d *Display) Frequency() float64 { return d.refreshRateHz }

// Draw implements drivers.Display, marshaling the actual GL calls onto
// the main thread.
func (d *Display) Draw(frame chip8.Frame, cpuFreqHint, fpsHint float64) error {
	if d.win.Closed() {
		return chip8.Interrupt
	}
	mainthread.Call(func() {
		d.win.draw(frame)
	})
	return nil
}
