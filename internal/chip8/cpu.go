package chip8

import (
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/shuklaayush/chippy/internal/faultcell"
	"github.com/shuklaayush/chippy/internal/inputqueue"
	"github.com/shuklaayush/chippy/internal/rateloop"
)

// CPU drives one fetch/decode/execute cycle of a machine State per
// tick, at a configurable clock frequency, deriving 60Hz timer ticks
// from the cycle counter the way spec.md §4.1 describes.
type CPU struct {
	state   *State
	queue   *inputqueue.Queue
	cell    *faultcell.Cell
	rng     *rand.Rand
	clockHz float64

	// lastFreq is written by the CPU loop goroutine and read by the
	// display loop goroutine (LastObservedFrequency), so it's stored as
	// float64 bits behind an atomic rather than a bare field, the same
	// discipline State uses for its own cross-goroutine fields.
	lastFreq atomic.Uint64
}

// NewCPU builds a CPU bound to state and queue, ticking at clockHz,
// using seed to make CXNN reproducible across a recorded run.
func NewCPU(state *State, queue *inputqueue.Queue, cell *faultcell.Cell, clockHz float64, seed int64) *CPU {
	return &CPU{
		state:   state,
		queue:   queue,
		cell:    cell,
		rng:     rand.New(rand.NewSource(seed)),
		clockHz: clockHz,
	}
}

// ticksPerTimer is how many CPU cycles separate successive 60Hz timer
// ticks. If clockHz < 60 we tick every cycle rather than divide by
// zero, per spec.md §4.1's explicit fallback.
func (c *CPU) ticksPerTimer() uint64 {
	if c.clockHz < TimerFrequency {
		return 1
	}
	return uint64(c.clockHz) / TimerFrequency
}

// fetch reads the big-endian 16-bit opcode at PC and advances PC by
// OpcodeSize. Fails with MemoryOutOfBoundsError if PC+1 would read
// past memory's end.
func (c *CPU) fetch() (uint16, error) {
	s := c.state
	if int(s.pc)+1 >= MemorySize {
		return 0, &MemoryOutOfBoundsError{Addr: s.pc}
	}
	opcode := uint16(s.memory[s.pc])<<8 | uint16(s.memory[s.pc+1])
	s.pc += OpcodeSize
	return opcode, nil
}

// drainInput applies every queued event whose stamp has come due to
// the keypad before this tick's fetch, per spec.md §4.1 step 1.
func (c *CPU) drainInput() {
	clock := c.state.Clock()
	for {
		ev, ok := c.queue.DequeueReady(clock)
		if !ok {
			return
		}
		c.state.ApplyEvent(ev.Key, ev.Kind == inputqueue.Press)
	}
}

// tickTimers decrements the delay and sound timers toward zero.
func (c *CPU) tickTimers() {
	s := c.state
	if s.delayTimer > 0 {
		s.delayTimer--
	}
	s.mu.Lock()
	if s.soundTimer > 0 {
		s.soundTimer--
	}
	s.mu.Unlock()
}

// Tick runs one full cycle: drain input, fetch, decode, execute, and
// conditionally tick timers, then advance the clock.
func (c *CPU) Tick() error {
	c.drainInput()

	opcode, err := c.fetch()
	if err != nil {
		return err
	}

	ins, err := decode(opcode)
	if err != nil {
		return err
	}

	if err := c.execute(ins); err != nil {
		return err
	}

	if c.state.clock%c.ticksPerTimer() == 0 {
		c.tickTimers()
	}

	c.state.mu.Lock()
	c.state.clock++
	c.state.mu.Unlock()

	return nil
}

// Run paces Tick at clockHz via rateloop until the fault cell signals
// shutdown or a tick fails.
func (c *CPU) Run(cell *faultcell.Cell) {
	rateloop.Run(cell, c.clockHz, func(elapsed time.Duration) error {
		if elapsed > 0 {
			freq := float64(time.Second) / float64(elapsed)
			c.lastFreq.Store(math.Float64bits(freq))
		}
		return c.Tick()
	})
}

// LastObservedFrequency returns the most recently measured cycles/sec,
// a telemetry hint the display driver may render (SPEC_FULL.md §6).
func (c *CPU) LastObservedFrequency() float64 {
	return math.Float64frombits(c.lastFreq.Load())
}
