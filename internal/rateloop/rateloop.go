// Package rateloop implements the busy-wait-then-sleep scheduler shared
// by every driver loop and the CPU loop. It is the Go counterpart of the
// distilled source's run_loop helper: pace a closure at a target
// frequency, honoring a shared fault cell so any loop can be told to
// stop between ticks.
package rateloop

import (
	"time"

	"github.com/shuklaayush/chippy/internal/faultcell"
)

// Tick is invoked once per loop iteration with the elapsed time since
// the previous tick. Returning an error stops the loop and records the
// error in the fault cell.
type Tick func(elapsed time.Duration) error

// Run paces fn at frequencyHz (0 means "as fast as possible"), stopping
// as soon as cell is no longer Ok or fn returns an error. A panic inside
// fn is recovered and reported as a LockPoisoned-style failure so one
// loop's panic cannot take down the process without the others
// observing a clean shutdown.
func Run(cell *faultcell.Cell, frequencyHz float64, fn Tick) {
	var interval time.Duration
	if frequencyHz > 0 {
		interval = time.Duration(float64(time.Second) / frequencyHz)
	}

	prev := time.Now()
	for cell.Ok() {
		now := time.Now()
		elapsed := now.Sub(prev)

		if elapsed >= interval {
			if err := tickSafely(fn, elapsed); err != nil {
				cell.Fail(err)
				return
			}
			prev = now
			continue
		}

		remaining := interval - elapsed
		time.Sleep(time.Duration(float64(remaining) * 0.8))
	}
}

func tickSafely(fn Tick, elapsed time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{r}
		}
	}()
	return fn(elapsed)
}

type panicError struct {
	recovered interface{}
}

func (p panicError) Error() string {
	return "rateloop: tick panicked: " + formatRecovered(p.recovered)
}

func formatRecovered(v interface{}) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "unknown panic"
}
