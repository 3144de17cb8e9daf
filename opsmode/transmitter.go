// Package opsmode implements the DCC operations-mode (main-track)
// protocol: fire-and-forget CV writes addressed to a specific decoder,
// with no ACK detection. Used for configuring a locomotive already on
// the layout without dropping it to the programming track.
package opsmode

import (
	"dccbase/dcclog"
	"dccbase/generator"
)

// opsWriteRepeats is the number of extra passes every ops-mode write
// gets queued with, so a decoder that misses one copy to noise still
// catches a later repeat.
const opsWriteRepeats = 4

// Transmitter drives fire-and-forget CV writes over an OPS generator.
// gen is a generator.PacketSink rather than a concrete *generator.Generator
// so a hardware-accelerated backend (targets/pio.Generator) can stand in
// for the default two-timer ISR driver.
type Transmitter struct {
	gen generator.PacketSink
	log *dcclog.Logger
}

// New builds a Transmitter bound to gen's OPS track output.
func New(gen generator.PacketSink, log *dcclog.Logger) *Transmitter {
	return &Transmitter{gen: gen, log: log}
}

// addressBytes returns the one- or two-byte address header for loco,
// per NMRA S-9.2.1: 1..127 is a short address, 128..10239 a long one.
func addressBytes(loco uint16) []byte {
	if loco <= 127 {
		return []byte{byte(loco)}
	}
	return []byte{0xC0 | byte(loco>>8), byte(loco)}
}

func headerHigh(cv uint16) byte {
	return byte(((cv - 1) >> 8) & 0x03)
}

func headerLow(cv uint16) byte {
	return byte((cv - 1) & 0xFF)
}

// WriteCVByte sets CV cv to value on locomotive loco. No ACK is
// solicited; the caller cannot know whether the decoder heard it.
func (t *Transmitter) WriteCVByte(loco uint16, cv uint16, value byte) error {
	payload := append(addressBytes(loco), 0xEC|headerHigh(cv), headerLow(cv), value)
	t.log.Debugf("ops write_cv_byte loco=%d cv=%d value=%d", loco, cv, value)
	return t.gen.LoadPacket(payload, opsWriteRepeats)
}

// WriteCVBit sets a single bit of CV cv to value on locomotive loco.
func (t *Transmitter) WriteCVBit(loco uint16, cv uint16, bit uint8, value bool) error {
	var valBit byte
	if value {
		valBit = 0x08
	}
	payload := append(addressBytes(loco), 0xE8|headerHigh(cv), headerLow(cv), 0xF0|bit|valBit)
	t.log.Debugf("ops write_cv_bit loco=%d cv=%d bit=%d value=%v", loco, cv, bit, value)
	return t.gen.LoadPacket(payload, opsWriteRepeats)
}
