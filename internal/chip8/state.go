package chip8

import "sync"

const (
	// MemorySize is the size of the CHIP-8 address space.
	MemorySize = 4096
	// NumRegisters is the number of general-purpose 8-bit registers.
	NumRegisters = 16
	// StackDepth is the maximum number of nested subroutine calls.
	StackDepth = 16
	// NumKeys is the size of the hex keypad.
	NumKeys = 16
	// DisplayWidth is the framebuffer column count.
	DisplayWidth = 64
	// DisplayHeight is the framebuffer row count.
	DisplayHeight = 32
	// ProgramStart is the address ROM bytes are loaded at and where PC
	// is initialized to.
	ProgramStart = 0x200
	// FlagRegister is V[0xF], overwritten by arithmetic, shift, and
	// draw instructions.
	FlagRegister = 0xF
	// TimerFrequency is the fixed rate delay/sound timers decrement at.
	TimerFrequency = 60
	// OpcodeSize is the byte length of every CHIP-8 instruction.
	OpcodeSize = 2
)

// Frame is a snapshot of the 64x32 monochrome framebuffer, row-major
// (rows indexed by y, columns by x).
type Frame [DisplayHeight][DisplayWidth]bool

// State is the CHIP-8 machine's mutable record. It is constructed by
// the orchestrator and thereafter owned and exclusively mutated by the
// CPU, except for the three fields shared with drivers (framebuffer,
// sound timer, keypad/clock reads), which are guarded by their own
// mutex so concurrent drivers never race the CPU.
type State struct {
	registers [NumRegisters]byte
	memory    [MemorySize]byte
	index     uint16
	pc        uint16
	stack     [StackDepth]uint16
	sp        int

	delayTimer byte

	mu         sync.RWMutex
	soundTimer byte
	frame      Frame
	keypad     [NumKeys]bool
	clock      uint64
}

// NewState allocates a machine with the fontset loaded and PC at
// ProgramStart.
func NewState() *State {
	s := &State{pc: ProgramStart}
	copy(s.memory[FontsetStartAddress:], Fontset[:])
	return s
}

// LoadROM copies rom verbatim into memory starting at ProgramStart.
// Fails with RomTooBigError if it would not fit in the remaining
// address space.
func (s *State) LoadROM(rom []byte) error {
	if ProgramStart+len(rom) > MemorySize {
		return &RomTooBigError{Size: len(rom)}
	}
	copy(s.memory[ProgramStart:], rom)
	return nil
}

// Dump returns a copy of memory[ProgramStart:ProgramStart+n] for
// round-trip verification against the loaded ROM.
func (s *State) Dump(n int) []byte {
	out := make([]byte, n)
	copy(out, s.memory[ProgramStart:ProgramStart+n])
	return out
}

// Clock returns the current cycle counter. Safe to call from input and
// display drivers concurrently with CPU execution.
func (s *State) Clock() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock
}

// FrameSnapshot returns a copy of the framebuffer for the display
// driver, per spec §5's "display takes a snapshot copy per frame."
func (s *State) FrameSnapshot() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// SoundTimer returns the current sound timer value for the audio
// driver.
func (s *State) SoundTimer() byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.soundTimer
}

// ApplyEvent updates the keypad array in response to a consumed input
// event. Called by the CPU while draining the input queue.
func (s *State) ApplyEvent(key byte, pressed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keypad[key] = pressed
}

// firstPressedKey returns the lowest-indexed key currently held down,
// used by FX0A's key-wait poll.
func (s *State) firstPressedKey() (byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, pressed := range s.keypad {
		if pressed {
			return byte(i), true
		}
	}
	return 0, false
}

// StackPointer exposes SP for invariant checks and tests.
func (s *State) StackPointer() int { return s.sp }

// ProgramCounter exposes PC for invariant checks and tests.
func (s *State) ProgramCounter() uint16 { return s.pc }

// Register reads a general-purpose register for tests/diagnostics.
func (s *State) Register(i int) byte { return s.registers[i] }

// DelayTimer exposes the delay timer for tests/diagnostics.
func (s *State) DelayTimer() byte { return s.delayTimer }

// Index exposes the I register for tests/diagnostics.
func (s *State) Index() uint16 { return s.index }

// Memory reads a single byte, for tests/diagnostics.
func (s *State) Memory(addr uint16) byte { return s.memory[addr] }
