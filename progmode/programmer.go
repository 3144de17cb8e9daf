// Package progmode implements the DCC service-mode (programming-track)
// protocol: bit-wise CV read, byte/bit CV write, and ACK detection via
// timed ADC sampling while the PROG generator idles between packets.
package progmode

import (
	"time"

	"dccbase/dcclog"
	"dccbase/generator"
	"dccbase/hal"
	"dccbase/packet"
)

// DefaultSampleCount is the number of ADC reads taken per ACK check.
const DefaultSampleCount = 250

// DefaultSampleInterval is the delay between ADC reads during an ACK check.
const DefaultSampleInterval = 2 * time.Millisecond

// MaxWriteAttempts bounds byte/bit write-then-verify retries.
const MaxWriteAttempts = 5

// Programmer drives CV read/write operations over a PROG generator,
// sensing decoder ACKs through the motor board's current-sense ADC.
// gen is a generator.PacketSink rather than a concrete *generator.Generator
// so a hardware-accelerated backend (targets/pio.Generator) can stand in
// for the default two-timer ISR driver.
type Programmer struct {
	// SampleCount and SampleInterval default to DefaultSampleCount and
	// DefaultSampleInterval; tests running against a simulated clock
	// shrink them to keep wall-clock runtime reasonable.
	SampleCount    int
	SampleInterval time.Duration

	gen          generator.PacketSink
	adc          hal.ADCDriver
	channel      hal.ADCChannel
	ackThreshold uint16
	log          *dcclog.Logger
}

// New builds a Programmer bound to gen's PROG track output, sampling
// ACKs from adc's PROG channel as reported by board.
func New(gen generator.PacketSink, adc hal.ADCDriver, board hal.MotorBoard, log *dcclog.Logger) (*Programmer, error) {
	ch, err := board.ADCChannel("PROG")
	if err != nil {
		return nil, err
	}
	maxMA, err := board.MaxMilliamps("PROG")
	if err != nil {
		return nil, err
	}
	return &Programmer{
		SampleCount:    DefaultSampleCount,
		SampleInterval: DefaultSampleInterval,
		gen:            gen,
		adc:            adc,
		channel:        ch,
		ackThreshold:   uint16(4096 * 60 / uint32(maxMA)),
		log:            log,
	}, nil
}

// headerHigh and headerLow split a 1-based CV index into the two-bit
// high component and low byte the wire format's header/address bytes use.
func headerHigh(cv uint16) byte {
	return byte(((cv - 1) >> 8) & 0x03)
}

func headerLow(cv uint16) byte {
	return byte((cv - 1) & 0xFF)
}

// sampleCurrent averages SampleCount ADC reads at sampleInterval,
// discarding zero (invalid) readings. Returns 0 if every read was
// discarded.
func (p *Programmer) sampleCurrent() uint16 {
	var sum uint32
	var n uint32
	for i := 0; i < p.SampleCount; i++ {
		reading, err := p.adc.Read(p.channel)
		if err == nil && reading > 0 {
			sum += uint32(reading)
			n++
		}
		time.Sleep(p.SampleInterval)
	}
	if n == 0 {
		return 0
	}
	return uint16(sum / n)
}

func (p *Programmer) ack() bool {
	return p.sampleCurrent() > p.ackThreshold
}

// ReadCV reads CV cv (1..1024) bit by bit per NMRA S-9.2.3, then
// verifies the accumulated byte. Returns -1 if the final verification
// is not ACKed.
func (p *Programmer) ReadCV(cv uint16) int16 {
	var value byte
	for bit := uint8(0); bit < 8; bit++ {
		p.gen.LoadPacket(packet.ResetPayload, 3)
		p.gen.LoadPacket([]byte{0x78 | headerHigh(cv), headerLow(cv), 0xE8 + bit}, 5)
		p.gen.WaitForQueueEmpty()
		if p.ack() {
			value |= 1 << bit
			p.log.Debugf("read_cv %d: bit %d ON", cv, bit)
		} else {
			p.log.Debugf("read_cv %d: bit %d OFF", cv, bit)
		}
	}

	p.gen.LoadPacket(packet.ResetPayload, 3)
	p.gen.LoadPacket([]byte{0x74 | headerHigh(cv), headerLow(cv), value}, 5)
	p.gen.WaitForQueueEmpty()
	if !p.ack() {
		p.log.Warnf("read_cv %d: could not be verified", cv)
		return -1
	}
	return int16(value)
}

// WriteCVByte writes value to CV cv, retrying up to MaxWriteAttempts
// times until both the write and a subsequent verify are ACKed.
func (p *Programmer) WriteCVByte(cv uint16, value byte) bool {
	verified := false
	for attempt := 0; attempt < MaxWriteAttempts && !verified; attempt++ {
		p.gen.LoadPacket(packet.ResetPayload, 1)
		p.gen.LoadPacket([]byte{0x7C | headerHigh(cv), headerLow(cv), value}, 4)
		p.gen.WaitForQueueEmpty()

		if p.ack() {
			p.gen.LoadPacket(packet.ResetPayload, 3)
			p.gen.LoadPacket([]byte{0x74 | headerHigh(cv), headerLow(cv), value}, 5)
			p.gen.WaitForQueueEmpty()
			if p.ack() {
				verified = true
				p.log.Debugf("write_cv_byte %d=%d verified", cv, value)
			}
		} else {
			p.log.Warnf("write_cv_byte %d=%d could not be verified", cv, value)
		}
		p.gen.LoadPacket(packet.ResetPayload, 3)
	}
	return verified
}

// WriteCVBit writes a single bit of CV cv, with the same retry and
// double-ACK structure as WriteCVByte.
func (p *Programmer) WriteCVBit(cv uint16, bit uint8, value bool) bool {
	var valBit byte
	if value {
		valBit = 0x08
	}
	verified := false
	for attempt := 0; attempt < MaxWriteAttempts && !verified; attempt++ {
		p.gen.LoadPacket(packet.ResetPayload, 1)
		p.gen.LoadPacket([]byte{0x78 | headerHigh(cv), headerLow(cv), 0xF0 | bit | valBit}, 4)
		p.gen.WaitForQueueEmpty()

		if p.ack() {
			p.gen.LoadPacket(packet.ResetPayload, 3)
			p.gen.LoadPacket([]byte{0x74 | headerHigh(cv), headerLow(cv), 0xB0 | bit | valBit}, 5)
			p.gen.WaitForQueueEmpty()
			if p.ack() {
				verified = true
				p.log.Debugf("write_cv_bit %d[%d]=%v verified", cv, bit, value)
			}
		} else {
			p.log.Warnf("write_cv_bit %d[%d]=%v could not be verified", cv, bit, value)
		}
		p.gen.LoadPacket(packet.ResetPayload, 3)
	}
	return verified
}
