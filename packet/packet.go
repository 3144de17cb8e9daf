// Package packet implements the DCC baseband frame representation: the
// fixed packet buffer, the pre-allocated pool generators draw slots from,
// and the bit-level preamble/checksum serializer described by NMRA S-9.2.
package packet

// BufferSize is large enough to hold the 22-bit preamble plus a 6-byte
// payload (5 data bytes + checksum), the longest frame this base station
// ever serializes.
const BufferSize = 10

var bitMask = [8]byte{0x80, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02, 0x01}

// Packet is a serialized DCC frame: a bit-packed, MSB-first buffer plus
// the bookkeeping the waveform ISR needs to walk it bit by bit and repeat
// it the requested number of times.
//
// CurrentBit and RepeatsRemaining are mutated exclusively by the ISR
// while the packet is the generator's current packet; everything else is
// written once by Encode before the packet is enqueued.
type Packet struct {
	Buffer           [BufferSize]byte
	NumBits          uint16
	CurrentBit       uint16
	RepeatsRemaining uint16
}

// BitAt returns the bit at position i (0-indexed from the start of the
// preamble), MSB-first within each byte.
func (p *Packet) BitAt(i uint16) bool {
	return p.Buffer[i/8]&bitMask[i%8] != 0
}

// Reset clears a packet back to its zero value. Only used when returning
// a packet to the free set during shutdown — see Pool.ReleaseZeroed.
func (p *Packet) Reset() {
	*p = Packet{}
}

// ResetPayload is the NMRA digital decoder reset packet (two all-zero
// bytes, checksum appended by Encode).
var ResetPayload = []byte{0x00, 0x00}

// IdlePayload is the canonical DCC idle frame.
var IdlePayload = []byte{0xFF, 0x00}
