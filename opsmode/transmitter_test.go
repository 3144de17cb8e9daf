package opsmode

import (
	"testing"

	"dccbase/dcclog"
	"dccbase/generator"
	"dccbase/hal"
	"dccbase/simhal"
)

func newTestTransmitter(t *testing.T) (*Transmitter, *generator.Generator, *simhal.Clock) {
	t.Helper()
	clock := simhal.NewClock()
	gpio := simhal.NewGPIO()
	timers := simhal.NewSimTimerDriver(clock)
	gen := generator.New("OPS", hal.Pin(0), 0, 1, gpio, timers, dcclog.New(dcclog.Silent, nil))
	gen.StopDrainDelay = 0
	if err := gen.Configure(16); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	return New(gen, dcclog.New(dcclog.Silent, nil)), gen, clock
}

// drainQueue advances the simulated clock until gen's pending queue is
// empty, failing the test if it never does.
func drainQueue(t *testing.T, gen *generator.Generator, clock *simhal.Clock) {
	t.Helper()
	for i := 0; i < 20000 && !gen.IsQueueEmpty(); i++ {
		clock.Advance(250)
	}
	if !gen.IsQueueEmpty() {
		t.Fatal("pending queue never drained")
	}
}

func TestLongAddressOpsWriteByte(t *testing.T) {
	tx, gen, clock := newTestTransmitter(t)

	loco, cv, value := uint16(3000), uint16(29), byte(0x06)
	addr := addressBytes(loco)
	if len(addr) != 2 || addr[0] != 0xCB || addr[1] != 0xB8 {
		t.Fatalf("addressBytes(3000) = % x, want [CB B8]", addr)
	}
	header := byte(0xEC | headerHigh(cv))
	low := headerLow(cv)
	if header != 0xEC {
		t.Fatalf("header byte = %#x, want 0xEC", header)
	}
	if low != 0x1C {
		t.Fatalf("low byte = %#x, want 0x1C", low)
	}
	checksum := addr[0] ^ addr[1] ^ header ^ low ^ value
	if checksum != 0x7D {
		t.Fatalf("checksum = %#x, want 0x7D", checksum)
	}

	if err := tx.WriteCVByte(loco, cv, value); err != nil {
		t.Fatalf("WriteCVByte: %v", err)
	}
	drainQueue(t, gen, clock)
}

func TestShortAddressOpsWriteBit(t *testing.T) {
	tx, gen, clock := newTestTransmitter(t)

	loco, cv, bit, value := uint16(3), uint16(1), uint8(2), true
	addr := addressBytes(loco)
	if len(addr) != 1 || addr[0] != 0x03 {
		t.Fatalf("addressBytes(3) = % x, want [03]", addr)
	}
	header := byte(0xE8 | headerHigh(cv))
	if header != 0xE8 {
		t.Fatalf("header byte = %#x, want 0xE8", header)
	}
	low := headerLow(cv)
	if low != 0x00 {
		t.Fatalf("low byte = %#x, want 0x00", low)
	}
	valueByte := byte(0xF0 | bit | 0x08)
	if valueByte != 0xFA {
		t.Fatalf("value byte = %#x, want 0xFA", valueByte)
	}

	if err := tx.WriteCVBit(loco, cv, bit, value); err != nil {
		t.Fatalf("WriteCVBit: %v", err)
	}
	drainQueue(t, gen, clock)
}

func TestAddressBytesBoundary(t *testing.T) {
	cases := []struct {
		loco uint16
		want []byte
	}{
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0xC0, 0x80}},
		{10239, []byte{0xC0 | byte(10239>>8), byte(10239 & 0xFF)}},
	}
	for _, c := range cases {
		got := addressBytes(c.loco)
		if len(got) != len(c.want) {
			t.Fatalf("addressBytes(%d) = % x, want % x", c.loco, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("addressBytes(%d) = % x, want % x", c.loco, got, c.want)
			}
		}
	}
}

func TestWriteCVByteLongAddressFitsPayload(t *testing.T) {
	// A long address plus a byte write is 2 (addr) + 1 (header) + 1
	// (low) + 1 (value) = 5 bytes, exactly packet.MaxPayloadLen.
	tx, gen, clock := newTestTransmitter(t)
	if err := tx.WriteCVByte(3000, 1024, 0xFF); err != nil {
		t.Fatalf("WriteCVByte with long address: %v", err)
	}
	drainQueue(t, gen, clock)
}
