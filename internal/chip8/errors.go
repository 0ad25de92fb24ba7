package chip8

import (
	"fmt"

	"github.com/pkg/errors"
)

// RomTooBigError reports a ROM that would not fit below 0x1000.
type RomTooBigError struct {
	Size int
}

func (e *RomTooBigError) Error() string {
	return fmt.Sprintf("rom too big: %d bytes", e.Size)
}

// MemoryOutOfBoundsError reports a fetch, draw, or store past memory's
// 4096 bytes.
type MemoryOutOfBoundsError struct {
	Addr uint16
}

func (e *MemoryOutOfBoundsError) Error() string {
	return fmt.Sprintf("memory access out of bounds: 0x%04X", e.Addr)
}

// UnimplementedOpcodeError reports a fetched opcode that matched none
// of the 34 known instruction patterns.
type UnimplementedOpcodeError struct {
	Opcode uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("unimplemented opcode: 0x%04X", e.Opcode)
}

// StackFaultError reports a call stack under/overflow (SP left the
// [0, 16] range).
type StackFaultError struct {
	StackPointer int
}

func (e *StackFaultError) Error() string {
	return fmt.Sprintf("stack fault: stack pointer %d out of range", e.StackPointer)
}

// Interrupt is a sentinel the orchestrator maps to a clean, zero-exit
// shutdown rather than surfacing it as a failure.
var Interrupt = errors.New("interrupted")

// WrapDriverError labels an underlying driver failure with which
// collaborator raised it, matching the DisplayError/InputError/
// AudioError variants of spec.md §7. Interrupt is passed through
// unwrapped so the orchestrator's `== chip8.Interrupt` check still
// recognizes a clean user-requested shutdown after it crosses a driver
// boundary.
func WrapDriverError(kind string, err error) error {
	if err == nil {
		return nil
	}
	if err == Interrupt {
		return err
	}
	return errors.Wrapf(err, "%s error", kind)
}
