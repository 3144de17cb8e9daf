package packet

import "sync/atomic"

// Queue is a bounded ring buffer of *Packet safe for exactly one
// concurrent producer and one concurrent consumer — the shape the
// pending queue and the pool's free set both need, since on this
// hardware one side is always the ISR and the other is always
// foreground code.
//
// The free set has a second writer during Stop's drain (foreground
// pushes packets back after disabling the timers), but by that point the
// ISR is guaranteed stopped, so the single-producer invariant still
// holds at any instant in time.
type Queue struct {
	buf  []*Packet
	head atomic.Uint32
	tail atomic.Uint32
}

// NewQueue returns a queue that can hold up to capacity packets.
func NewQueue(capacity int) *Queue {
	return &Queue{buf: make([]*Packet, capacity+1)}
}

// Enqueue appends pkt, returning false if the queue is full.
func (q *Queue) Enqueue(pkt *Packet) bool {
	tail := q.tail.Load()
	next := (tail + 1) % uint32(len(q.buf))
	if next == q.head.Load() {
		return false
	}
	q.buf[tail] = pkt
	q.tail.Store(next)
	return true
}

// Dequeue removes and returns the oldest packet, or (nil, false) if empty.
func (q *Queue) Dequeue() (*Packet, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return nil, false
	}
	pkt := q.buf[head]
	q.buf[head] = nil
	q.head.Store((head + 1) % uint32(len(q.buf)))
	return pkt, true
}

// Empty reports whether the queue currently holds no packets.
func (q *Queue) Empty() bool {
	return q.head.Load() == q.tail.Load()
}

// Len returns the current number of queued packets.
func (q *Queue) Len() int {
	tail := int(q.tail.Load())
	head := int(q.head.Load())
	if tail >= head {
		return tail - head
	}
	return len(q.buf) - head + tail
}
