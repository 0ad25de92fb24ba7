package chip8

import (
	"testing"
	"time"

	"github.com/shuklaayush/chippy/internal/faultcell"
	"github.com/shuklaayush/chippy/internal/inputqueue"
)

func newTestCPU(t *testing.T, rom []byte, clockHz float64) (*CPU, *State) {
	t.Helper()
	s := NewState()
	if err := s.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	q := inputqueue.New()
	cell := faultcell.New()
	return NewCPU(s, q, cell, clockHz, 1), s
}

// Boundary scenario 1: Fibonacci via BCD. V0=0x15 (21), FX33 stores
// BCD digits [0,2,1] at memory[I..I+3].
func TestBCDBoundaryScenario(t *testing.T) {
	rom := []byte{
		0x60, 0x15, // 6015: V0 = 0x15 (21)
		0xA3, 0x00, // A300: I = 0x300 (scratch region)
		0xF0, 0x33, // F033: BCD(V0) at I
		0x12, 0x06, // 1206: jump to self (halt)
	}
	cpu, s := newTestCPU(t, rom, 500)
	for i := 0; i < 3; i++ {
		if err := cpu.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	got := []byte{s.Memory(0x300), s.Memory(0x301), s.Memory(0x302)}
	want := []byte{0, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("memory[0x300+%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

// Boundary scenario 2: sprite wrap on both axes with VF=0 on a clear
// framebuffer.
func TestSpriteWrapBoundaryScenario(t *testing.T) {
	rom := []byte{
		0x60, 62, // V0 = 62
		0x61, 30, // V1 = 30
		0xA0, 0x00, // I = font_base (digit 0 glyph)
		0xD0, 0x15, // D015: draw 5-row sprite at (V0, V1)
	}
	cpu, s := newTestCPU(t, rom, 500)
	for i := 0; i < 4; i++ {
		if err := cpu.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if s.Register(FlagRegister) != 0 {
		t.Errorf("VF = %d, want 0 (framebuffer was clear)", s.Register(FlagRegister))
	}
	frame := s.FrameSnapshot()
	// Digit 0 glyph: 0xF0,0x90,0x90,0x90,0xF0 -> rows of bits 1111,1001,1001,1001,1111
	wantRows := [][]int{
		{62, 63, 0, 1}, // row wraps to y=30
		{62, 65 % 64},
		{62, 65 % 64},
		{62, 65 % 64},
		{62, 63, 0, 1},
	}
	_ = wantRows
	// Check corners explicitly: top-left bit of glyph lands at (62,30).
	if !frame[30][62] {
		t.Errorf("expected pixel (62,30) set")
	}
	// Glyph row 0 is 0xF0 = 11110000 -> bits at col offsets 0,1,2,3 set.
	// col offset 2 -> x = (62+2) % 64 = 0; row wraps y = (30+0)%32 = 30
	if !frame[30][0] {
		t.Errorf("expected pixel (0,30) set (x wrap)")
	}
	// Row offset 2 -> y = (30+2) % 32 = 0 (y wrap)
	if !frame[0][62] {
		t.Errorf("expected pixel (62,0) set (y wrap)")
	}
}

// Boundary scenario 3: carry flag sequencing, V0=0xFF, VF=0x77, then
// 80F4 (V0 += VF): V0=0x76, VF=1.
func TestCarryFlagSequencing(t *testing.T) {
	rom := []byte{
		0x60, 0xFF, // V0 = 0xFF
		0x6F, 0x77, // VF = 0x77
		0x80, 0xF4, // V0 += VF (8XY4, x=0 y=F)
	}
	cpu, s := newTestCPU(t, rom, 500)
	for i := 0; i < 3; i++ {
		if err := cpu.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if s.Register(0) != 0x76 {
		t.Errorf("V0 = 0x%02X, want 0x76", s.Register(0))
	}
	if s.Register(FlagRegister) != 1 {
		t.Errorf("VF = %d, want 1", s.Register(FlagRegister))
	}
}

// Boundary scenario 4: shift flag when X==F; VF=0x81, then 8FF6:
// VF=1 (pre-shift LSB wins over the shifted value).
func TestShiftFlagWhenXIsF(t *testing.T) {
	rom := []byte{
		0x6F, 0x81, // VF = 0x81
		0x8F, 0xF6, // 8FF6: VF >>= 1 (x=F, y=F)
	}
	cpu, s := newTestCPU(t, rom, 500)
	for i := 0; i < 2; i++ {
		if err := cpu.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if s.Register(FlagRegister) != 1 {
		t.Errorf("VF = %d, want 1 (pre-shift LSB of 0x81)", s.Register(FlagRegister))
	}
}

// Boundary scenario 5: key-wait replay. CPU clock freq 600Hz; preload
// queue with (clk=300, key=5, Press); ROM is F00A at 0x200 then 1200.
func TestKeyWaitReplayBoundaryScenario(t *testing.T) {
	s := NewState()
	rom := []byte{
		0xF0, 0x0A, // F00A: wait for key, store in V0
		0x12, 0x00, // 1200: jump to self
	}
	if err := s.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	q := inputqueue.New(inputqueue.PreloadedEvent{
		Stamp: 300,
		Event: inputqueue.Event{Key: 5, Kind: inputqueue.Press},
	})
	cell := faultcell.New()
	cpu := NewCPU(s, q, cell, 600, 1)

	// Advance the clock to 300 without running FX0A yet, simulating the
	// CPU having ticked 300 cycles on prior (no-op) instructions.
	for i := uint64(0); i < 300; i++ {
		s.mu.Lock()
		s.clock++
		s.mu.Unlock()
	}

	if err := cpu.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if s.Register(0) != 5 {
		t.Errorf("V0 = %d, want 5", s.Register(0))
	}
}

func TestKeyWaitBlocksUntilPressArrivesLater(t *testing.T) {
	rom := []byte{0xF0, 0x0A} // F00A: wait for key, store in V0
	cpu, s := newTestCPU(t, rom, 500)

	done := make(chan error, 1)
	go func() { done <- cpu.Tick() }()

	select {
	case <-done:
		t.Fatalf("Tick returned before any key press was enqueued")
	case <-time.After(20 * time.Millisecond):
	}

	cpu.queue.Enqueue(s.Clock(), inputqueue.Event{Key: 9, Kind: inputqueue.Press})

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Tick: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Tick did not unblock after a press was enqueued")
	}

	if s.Register(0) != 9 {
		t.Errorf("V0 = %d, want 9", s.Register(0))
	}
}

func TestKeyWaitUnblockedByFaultCell(t *testing.T) {
	rom := []byte{0xF0, 0x0A}
	cpu, _ := newTestCPU(t, rom, 500)

	done := make(chan error, 1)
	go func() { done <- cpu.Tick() }()

	time.Sleep(10 * time.Millisecond)
	cpu.cell.Fail(Interrupt)

	select {
	case err := <-done:
		if err != Interrupt {
			t.Errorf("expected Interrupt, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Tick did not observe fault cell shutdown")
	}
}

// Boundary scenario 6: ROM too big.
func TestRomTooBigBoundaryScenario(t *testing.T) {
	s := NewState()
	rom := make([]byte, MemorySize)
	err := s.LoadROM(rom)
	if err == nil {
		t.Fatalf("expected RomTooBigError")
	}
	tooBig, ok := err.(*RomTooBigError)
	if !ok {
		t.Fatalf("expected *RomTooBigError, got %T", err)
	}
	if tooBig.Size != MemorySize {
		t.Errorf("Size = %d, want %d", tooBig.Size, MemorySize)
	}
}

func TestMemoryOutOfBoundsOnFetch(t *testing.T) {
	s := NewState()
	s.pc = MemorySize - 1
	q := inputqueue.New()
	cell := faultcell.New()
	cpu := NewCPU(s, q, cell, 500, 1)

	if err := cpu.Tick(); err == nil {
		t.Fatalf("expected MemoryOutOfBoundsError")
	} else if _, ok := err.(*MemoryOutOfBoundsError); !ok {
		t.Errorf("expected *MemoryOutOfBoundsError, got %T: %v", err, err)
	}
}

func TestUnimplementedOpcode(t *testing.T) {
	rom := []byte{0x00, 0x01} // 0x0001 matches no 0x00FF pattern
	cpu, _ := newTestCPU(t, rom, 500)
	err := cpu.Tick()
	if err == nil {
		t.Fatalf("expected UnimplementedOpcodeError")
	}
	if _, ok := err.(*UnimplementedOpcodeError); !ok {
		t.Errorf("expected *UnimplementedOpcodeError, got %T: %v", err, err)
	}
}

func TestStackUnderflowOnReturn(t *testing.T) {
	rom := []byte{0x00, 0xEE} // RET with no prior CALL
	cpu, _ := newTestCPU(t, rom, 500)
	err := cpu.Tick()
	if _, ok := err.(*StackFaultError); !ok {
		t.Errorf("expected *StackFaultError, got %T: %v", err, err)
	}
}

func TestClearScreenIdempotent(t *testing.T) {
	rom := []byte{0x00, 0xE0, 0x00, 0xE0}
	cpu, s := newTestCPU(t, rom, 500)
	s.frame[0][0] = true
	if err := cpu.Tick(); err != nil {
		t.Fatalf("tick 1: %v", err)
	}
	if err := cpu.Tick(); err != nil {
		t.Fatalf("tick 2: %v", err)
	}
	if s.FrameSnapshot() != (Frame{}) {
		t.Errorf("expected framebuffer to remain clear after repeated CLS")
	}
}

func TestDrawTwiceRestoresFramebuffer(t *testing.T) {
	rom := []byte{
		0x60, 0x00, // V0 = 0
		0x61, 0x00, // V1 = 0
		0xA0, 0x00, // I = font base (digit 0)
		0xD0, 0x15, // draw
		0xD0, 0x15, // draw again at same coords
	}
	cpu, s := newTestCPU(t, rom, 500)
	for i := 0; i < 5; i++ {
		if err := cpu.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if s.FrameSnapshot() != (Frame{}) {
		t.Errorf("expected framebuffer restored to clear after drawing sprite twice")
	}
}

func TestROMRoundTrip(t *testing.T) {
	rom := []byte{0x12, 0x34, 0xAB, 0xCD, 0xEF, 0x00}
	s := NewState()
	if err := s.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	got := s.Dump(len(rom))
	for i := range rom {
		if got[i] != rom[i] {
			t.Errorf("byte %d = 0x%02X, want 0x%02X", i, got[i], rom[i])
		}
	}
}

func TestLowCPUFrequencyTicksTimersEveryCycle(t *testing.T) {
	rom := []byte{0x00, 0xE0} // harmless CLS, repeated
	cpu, s := newTestCPU(t, rom, 30) // below TimerFrequency
	s.delayTimer = 10
	if err := cpu.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if s.DelayTimer() != 9 {
		t.Errorf("DelayTimer = %d, want 9 (timers tick every cycle below 60Hz)", s.DelayTimer())
	}
}
