package packet

import "time"

// pollInterval is how often Acquire retries when the free set is
// momentarily exhausted. Packets drain at one every <=196us, so even a
// pathological producer burst self-corrects within a couple of polls.
const pollInterval = 2 * time.Millisecond

// Pool is a generator's fixed-size, pre-allocated set of Packet slots.
// Slots are allocated once at construction and never freed; they migrate
// between the free set and the pending queue (and transiently, the
// generator's current packet) for the life of the process.
type Pool struct {
	slots []Packet
	free  *Queue
}

// NewPool pre-allocates size Packet slots, all initially free.
func NewPool(size int) *Pool {
	p := &Pool{
		slots: make([]Packet, size),
		free:  NewQueue(size),
	}
	for i := range p.slots {
		p.free.Enqueue(&p.slots[i])
	}
	return p
}

// Size returns the pool's fixed capacity.
func (p *Pool) Size() int {
	return len(p.slots)
}

// Available returns the number of currently free slots.
func (p *Pool) Available() int {
	return p.free.Len()
}

// Acquire blocks until a free slot is available and returns it. Callers
// on the hot ISR path never call this — only LoadPacket, from foreground
// or task context.
func (p *Pool) Acquire() *Packet {
	for {
		if pkt, ok := p.free.Dequeue(); ok {
			return pkt
		}
		time.Sleep(pollInterval)
	}
}

// Release returns pkt to the free set without clearing its contents.
// This is the ISR-safe path used by Generator.nextBit when a packet finishes
// its repeats.
func (p *Pool) Release(pkt *Packet) {
	p.free.Enqueue(pkt)
}

// ReleaseZeroed clears pkt before returning it to the free set. Used by
// Stop when draining in-flight and pending packets; purely cosmetic
// (the contents are overwritten by the next Encode regardless) but kept
// to mirror the reference implementation's shutdown behavior.
func (p *Pool) ReleaseZeroed(pkt *Packet) {
	pkt.Reset()
	p.free.Enqueue(pkt)
}
