// Package pixeldriver adapts the teacher's faiface/pixel window into
// the display and input driver contracts of internal/drivers. pixelgl
// requires all window/event calls to happen on the OS main thread, so
// every call into the embedded *pixelgl.Window is marshaled there via
// faiface/mainthread, which the display and input driver loops (each
// running on their own goroutine per spec.md §5) call into.
package pixeldriver

import (
	"fmt"

	"github.com/faiface/mainthread"
	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"github.com/shuklaayush/chippy/internal/chip8"
)

const (
	winCols        float64 = chip8.DisplayWidth
	winRows        float64 = chip8.DisplayHeight
	screenWidth    float64 = 1024
	screenHeight   float64 = 768
	keyRepeatEvery         = 0 // level-sensing only; no synthetic repeat events
)

// keyMap is the canonical CHIP-8 hex keypad laid out on a QWERTY
// keyboard, carried over verbatim from the teacher.
var keyMap = map[byte]pixelgl.Button{
	0x1: pixelgl.Key1, 0x2: pixelgl.Key2,
	0x3: pixelgl.Key3, 0xC: pixelgl.Key4,
	0x4: pixelgl.KeyQ, 0x5: pixelgl.KeyW,
	0x6: pixelgl.KeyE, 0xD: pixelgl.KeyR,
	0x7: pixelgl.KeyA, 0x8: pixelgl.KeyS,
	0x9: pixelgl.KeyD, 0xE: pixelgl.KeyF,
	0xA: pixelgl.KeyZ, 0x0: pixelgl.KeyX,
	0xB: pixelgl.KeyC, 0xF: pixelgl.KeyV,
}

// Window wraps a pixelgl window; the package-level keyMap translates
// CHIP-8 hex keys to its physical buttons.
type Window struct {
	win *pixelgl.Window
}

// NewWindow opens a new pixelgl window sized for the CHIP-8 display.
// Must be called on the OS main thread (i.e. from inside
// mainthread.Run), matching the teacher's pixelgl.Run(runMain) idiom.
func NewWindow(title string) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, screenWidth, screenHeight),
		VSync:  true,
	}
	w, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating new window: %w", err)
	}
	return &Window{win: w}, nil
}

// Closed reports whether the user closed the window.
func (w *Window) Closed() bool {
	var closed bool
	mainthread.Call(func() {
		closed = w.win.Closed()
	})
	return closed
}

// draw clears the window and paints each set framebuffer pixel as a
// filled rectangle, scaled up from the 64x32 logical grid.
func (w *Window) draw(frame chip8.Frame) {
	w.win.Clear(colornames.Black)
	imDraw := imdraw.New(nil)
	imDraw.Color = pixel.RGB(1, 1, 1)
	cellW, cellH := screenWidth/winCols, screenHeight/winRows

	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			if !frame[y][x] {
				continue
			}
			// Flip y: row 0 is the top of the CHIP-8 display but the
			// bottom of pixelgl's coordinate system.
			flippedY := float64(chip8.DisplayHeight-1-y) * cellH
			px := float64(x) * cellW
			imDraw.Push(pixel.V(px, flippedY))
			imDraw.Push(pixel.V(px+cellW, flippedY+cellH))
			imDraw.Rectangle(0)
		}
	}
	imDraw.Draw(w.win)
	w.win.Update()
}

// inputSnapshot is what one pump of the window's event queue yields:
// the keypad keys currently held, and whether Escape (one of spec.md's
// two in-window shutdown gestures, alongside the window manager close
// button) is down.
type inputSnapshot struct {
	pressed []byte
	escape  bool
}

// pollInput pumps the window's event queue once and reads off both the
// held keypad keys and the Escape shutdown gesture from that same pump,
// so the two never observe different input frames.
func (w *Window) pollInput() inputSnapshot {
	var snap inputSnapshot
	mainthread.Call(func() {
		w.win.UpdateInput()
		for key, btn := range keyMap {
			if w.win.Pressed(btn) {
				snap.pressed = append(snap.pressed, key)
			}
		}
		snap.escape = w.win.Pressed(pixelgl.KeyEscape)
	})
	return snap
}
