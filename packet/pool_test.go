package packet

import "testing"

func TestPoolAcquireReleaseConservation(t *testing.T) {
	const size = 8
	p := NewPool(size)
	if p.Size() != size || p.Available() != size {
		t.Fatalf("new pool: Size=%d Available=%d, want %d/%d", p.Size(), p.Available(), size, size)
	}

	held := make([]*Packet, size)
	for i := range held {
		held[i] = p.Acquire()
	}
	if p.Available() != 0 {
		t.Fatalf("Available() = %d after draining pool, want 0", p.Available())
	}

	for _, pkt := range held {
		p.Release(pkt)
	}
	if p.Available() != size {
		t.Fatalf("Available() = %d after releasing all, want %d", p.Available(), size)
	}
}

func TestPoolReleaseZeroedClearsPacket(t *testing.T) {
	p := NewPool(2)
	pkt := p.Acquire()
	pkt.Buffer[0] = 0xFF
	pkt.NumBits = 58
	pkt.CurrentBit = 12
	p.ReleaseZeroed(pkt)

	reacquired := p.Acquire()
	if reacquired.Buffer[0] != 0 || reacquired.NumBits != 0 || reacquired.CurrentBit != 0 {
		t.Fatalf("ReleaseZeroed did not clear packet: %+v", reacquired)
	}
}

func TestPoolReleaseDoesNotClear(t *testing.T) {
	// A single-slot pool hands the same slot back on the next Acquire.
	p := NewPool(1)
	pkt := p.Acquire()
	pkt.Buffer[0] = 0xAB
	p.Release(pkt)

	reacquired := p.Acquire()
	if reacquired.Buffer[0] != 0xAB {
		t.Fatalf("Release unexpectedly cleared the packet")
	}
}
