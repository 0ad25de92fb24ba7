// Package replaylog reads and writes the input-log CSV format spec.md
// §6 defines for deterministic replay: one row per recorded keypad
// transition, `clock,key,kind` with kind 0=release, 1=press. A log
// travels paired with the PRNG seed that produced the recorded run,
// since CXNN's output is part of what a replay must reproduce.
package replaylog

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/shuklaayush/chippy/internal/inputqueue"
)

// Bundle pairs a preloaded event log with the seed that must drive
// CXNN for the replay to reproduce the original run bit-for-bit.
type Bundle struct {
	Seed   int64
	Events []inputqueue.PreloadedEvent
}

// Read parses the `clock,key,kind` CSV format from r, preserving
// insertion order. key is one hex digit (0-9A-F); kind is "0" or "1".
func Read(r io.Reader) ([]inputqueue.PreloadedEvent, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading input log")
	}

	events := make([]inputqueue.PreloadedEvent, 0, len(records))
	for i, rec := range records {
		stamp, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "input log row %d: bad clock %q", i, rec[0])
		}
		key, err := strconv.ParseUint(rec[1], 16, 8)
		if err != nil || key > 0xF {
			return nil, errors.Errorf("input log row %d: bad key %q", i, rec[1])
		}
		kind, err := parseKind(rec[2])
		if err != nil {
			return nil, errors.Wrapf(err, "input log row %d", i)
		}
		events = append(events, inputqueue.PreloadedEvent{
			Stamp: stamp,
			Event: inputqueue.Event{Key: byte(key), Kind: kind},
		})
	}
	return events, nil
}

func parseKind(field string) (inputqueue.Kind, error) {
	switch field {
	case "0":
		return inputqueue.Release, nil
	case "1":
		return inputqueue.Press, nil
	default:
		return 0, errors.Errorf("bad kind %q, want 0 or 1", field)
	}
}

// Write serializes events in insertion order as `clock,key,kind` rows,
// the inverse of Read.
func Write(w io.Writer, events []inputqueue.PreloadedEvent) error {
	cw := csv.NewWriter(w)
	for _, e := range events {
		kind := "0"
		if e.Event.Kind == inputqueue.Press {
			kind = "1"
		}
		row := []string{
			strconv.FormatUint(e.Stamp, 10),
			strings.ToUpper(strconv.FormatUint(uint64(e.Event.Key), 16)),
			kind,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "writing input log row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing input log")
}
