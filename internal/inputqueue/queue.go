// Package inputqueue implements the ordered (clock, event) buffer that
// mediates between the input driver and the CPU. It is the Go
// counterpart of the distilled source's input.rs InputQueue trait,
// backed there by a VecDeque<(InputEvent, u64)>.
package inputqueue

import "sync"

// Kind distinguishes a key press from a key release.
type Kind int

const (
	// Release marks a key transitioning from down to up.
	Release Kind = iota
	// Press marks a key transitioning from up to down.
	Press
)

func (k Kind) String() string {
	if k == Press {
		return "Press"
	}
	return "Release"
}

// Event is a single keypad transition, key indexed 0..15.
type Event struct {
	Key  byte
	Kind Kind
}

// entry pairs an event with the CPU clock it was stamped with.
type entry struct {
	stamp uint64
	event Event
}

// Queue is a FIFO of (clock, event) pairs. One writer (the input
// driver) calls Enqueue; the CPU calls DequeueReady to drain events
// whose stamp has come due. Safe for concurrent use by one writer and
// multiple readers.
type Queue struct {
	mu      sync.Mutex
	entries []entry
}

// New returns an empty queue, optionally preloaded with historical
// events for deterministic replay (§6/§9 of the replay bundle).
func New(preload ...PreloadedEvent) *Queue {
	q := &Queue{}
	for _, p := range preload {
		q.entries = append(q.entries, entry{stamp: p.Stamp, event: p.Event})
	}
	return q
}

// PreloadedEvent is a historical (clock, event) pair supplied at
// construction time to seed a replay run.
type PreloadedEvent struct {
	Stamp uint64
	Event Event
}

// Enqueue appends event stamped with the given clock value. Enqueue
// order is preserved; the queue does not itself enforce that stamps
// are monotonic, only that dequeue yields insertion order.
func (q *Queue) Enqueue(stamp uint64, event Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, entry{stamp: stamp, event: event})
}

// DequeueReady returns the head event if its stamp is <= currentClock,
// removing it from the queue. Returns false if the queue is empty or
// the head is not yet due.
func (q *Queue) DequeueReady(currentClock uint64) (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return Event{}, false
	}
	head := q.entries[0]
	if head.stamp > currentClock {
		return Event{}, false
	}
	q.entries = q.entries[1:]
	return head.event, true
}

// Len reports the number of events currently buffered.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
