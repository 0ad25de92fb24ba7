package rateloop

import (
	"errors"
	"testing"
	"time"

	"github.com/shuklaayush/chippy/internal/faultcell"
)

func TestRunStopsOnTickError(t *testing.T) {
	cell := faultcell.New()
	wantErr := errors.New("boom")
	calls := 0

	Run(cell, 0, func(elapsed time.Duration) error {
		calls++
		if calls == 3 {
			return wantErr
		}
		return nil
	})

	if calls != 3 {
		t.Errorf("expected loop to stop after 3rd tick, got %d calls", calls)
	}
	if cell.Err() != wantErr {
		t.Errorf("expected fault cell to hold %v, got %v", wantErr, cell.Err())
	}
}

func TestRunStopsWhenCellAlreadyFailed(t *testing.T) {
	cell := faultcell.New()
	cell.Fail(errors.New("already dead"))
	calls := 0

	Run(cell, 0, func(elapsed time.Duration) error {
		calls++
		return nil
	})

	if calls != 0 {
		t.Errorf("expected no ticks when cell starts failed, got %d", calls)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	cell := faultcell.New()

	Run(cell, 0, func(elapsed time.Duration) error {
		panic("kaboom")
	})

	if cell.Ok() {
		t.Errorf("expected panic to be recorded as a fault")
	}
}

func TestRunPacesAtFrequency(t *testing.T) {
	cell := faultcell.New()
	const freq = 200.0 // 5ms interval
	calls := 0
	start := time.Now()

	Run(cell, freq, func(elapsed time.Duration) error {
		calls++
		if calls == 5 {
			return errors.New("stop")
		}
		return nil
	})

	elapsed := time.Since(start)
	// Every tick, the first included, waits a full 5ms interval, so 5 ticks
	// take at least 25ms; 10ms is a loose lower bound.
	if elapsed < 10*time.Millisecond {
		t.Errorf("expected pacing to take a measurable amount of time, took %v", elapsed)
	}
}
