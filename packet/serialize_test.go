package packet

import "testing"

func TestEncodeInvalidPayloadLen(t *testing.T) {
	var p Packet
	for _, n := range []int{0, 1, 6, 7} {
		payload := make([]byte, n)
		if err := Encode(&p, payload, 0); err != ErrInvalidPayloadLen {
			t.Errorf("payload len %d: got err %v, want ErrInvalidPayloadLen", n, err)
		}
	}
}

func TestEncodePreambleInvariant(t *testing.T) {
	var p Packet
	if err := Encode(&p, []byte{0x03, 0x3F, 0x80}, 0); err != nil {
		t.Fatal(err)
	}
	if p.Buffer[0] != 0xFF || p.Buffer[1] != 0xFF {
		t.Fatalf("preamble bytes = %#x %#x, want 0xFF 0xFF", p.Buffer[0], p.Buffer[1])
	}
	if p.Buffer[2]>>2 != 0x3F {
		t.Fatalf("buffer[2]>>2 = %#x, want 0x3F", p.Buffer[2]>>2)
	}
	for i := uint16(0); i < 22; i++ {
		if !p.BitAt(i) {
			t.Fatalf("preamble bit %d is 0, want 1", i)
		}
	}
	if p.BitAt(22) {
		t.Fatalf("packet-start bit 22 is 1, want 0")
	}
	// The wire format has no dedicated packet-end bit: transmission simply
	// stops after the checksum byte's own low bit, whatever its value.
	wantChecksum := byte(0x03) ^ 0x3F ^ 0x80
	if got := p.BitAt(p.NumBits - 1); got != (wantChecksum&1 != 0) {
		t.Fatalf("final bit = %v, want checksum low bit %v", got, wantChecksum&1 != 0)
	}
}

func TestEncodeChecksum(t *testing.T) {
	var p Packet
	payload := []byte{0x03, 0x3F, 0x80}
	if err := Encode(&p, payload, 0); err != nil {
		t.Fatal(err)
	}
	wantChecksum := byte(0x03) ^ 0x3F ^ 0x80
	if wantChecksum != 0xBC {
		t.Fatalf("test arithmetic error: checksum = %#x, want 0xBC", wantChecksum)
	}
	if p.NumBits != 58 {
		t.Fatalf("NumBits = %d, want 58", p.NumBits)
	}
	if got := NumBits(len(payload)); got != 58 {
		t.Fatalf("NumBits(3) = %d, want 58", got)
	}

	// Re-extract the checksum byte from the bit stream: it occupies bits
	// [22 + 1 + 3*9 .. 22 + 1 + 3*9 + 8), i.e. after the 22-bit preamble, the
	// start bit, and the three 9-bit (separator+byte) payload groups.
	start := uint16(22 + 1 + 3*9)
	var got byte
	for i := 0; i < 8; i++ {
		got <<= 1
		if p.BitAt(start + uint16(i)) {
			got |= 1
		}
	}
	if got != wantChecksum {
		t.Fatalf("decoded checksum bits = %#x, want %#x", got, wantChecksum)
	}
}

func TestNumBitsTable(t *testing.T) {
	cases := map[int]int{2: 49, 3: 58, 4: 67, 5: 76}
	for n, want := range cases {
		if got := NumBits(n); got != want {
			t.Errorf("NumBits(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestIdlePacketBitstream(t *testing.T) {
	var p Packet
	if err := Encode(&p, IdlePayload, 0); err != nil {
		t.Fatal(err)
	}
	// preamble, start(0), byte0=0xFF, sep(0), byte1=0x00, sep(0),
	// checksum=0xFF. The stream ends right after the checksum's low bit;
	// it reads as 1 here only because the idle checksum happens to be
	// 0xFF, not because of a dedicated end bit.
	bit := 22
	expect := func(want bool) {
		t.Helper()
		if p.BitAt(uint16(bit)) != want {
			t.Fatalf("bit %d = %v, want %v", bit, p.BitAt(uint16(bit)), want)
		}
		bit++
	}
	expect(false) // start bit
	for i := 0; i < 8; i++ {
		expect(true) // 0xFF
	}
	expect(false) // separator
	for i := 0; i < 8; i++ {
		expect(false) // 0x00
	}
	expect(false) // separator
	for i := 0; i < 8; i++ {
		expect(true) // checksum 0xFF, including its low bit
	}
	if bit != int(p.NumBits) {
		t.Fatalf("consumed %d bits, NumBits=%d", bit, p.NumBits)
	}
}
