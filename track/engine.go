// Package track is the public façade a command layer (CLI, web UI,
// throttle server) drives: two independent DCC generators, OPS and
// PROG, plus the service-mode and operations-mode protocols layered
// on top of them.
package track

import (
	"errors"

	"dccbase/dcclog"
	"dccbase/generator"
	"dccbase/hal"
	"dccbase/opsmode"
	"dccbase/progmode"
)

// Which selects one of the two independent generators a base station
// runs: the main-track operations output or the programming-track
// service-mode output.
type Which int

const (
	Ops Which = iota
	Prog
)

func (w Which) String() string {
	if w == Ops {
		return "OPS"
	}
	return "PROG"
}

// ErrNotConfigured is returned by any Engine method invoked on a track
// that hasn't been configured yet.
var ErrNotConfigured = errors.New("track: generator not configured")

// Engine owns the OPS and PROG generators and the protocol drivers
// built on top of them. The command layer never touches generator,
// progmode or opsmode directly.
type Engine struct {
	gpio   hal.GPIODriver
	timers hal.TimerDriver
	adc    hal.ADCDriver
	board  hal.MotorBoard
	log    *dcclog.Logger

	ops  generator.Backend
	prog generator.Backend

	tx  *opsmode.Transmitter
	prg *progmode.Programmer
}

// NewEngine wires an Engine to its hardware collaborators. Configure
// must be called for each track before use.
func NewEngine(gpio hal.GPIODriver, timers hal.TimerDriver, adc hal.ADCDriver, board hal.MotorBoard, log *dcclog.Logger) *Engine {
	return &Engine{gpio: gpio, timers: timers, adc: adc, board: board, log: log}
}

// Configure brings up the default two-timer ISR generator for which,
// allocating pool_size packet slots and driving direction_pin as its
// output.
func (e *Engine) Configure(which Which, name string, directionPin hal.Pin, poolSize int) error {
	fullIdx, pulseIdx := timerIndices(which)
	g := generator.New(name, directionPin, fullIdx, pulseIdx, e.gpio, e.timers, e.log)
	if err := g.Configure(poolSize); err != nil {
		return err
	}
	return e.configureWith(which, g)
}

// ConfigureWithBackend wires which to an already-configured
// generator.Backend, letting target-specific code substitute a
// hardware-accelerated waveform backend (e.g. targets/pio.Generator)
// for the default two-timer ISR driver Configure builds.
func (e *Engine) ConfigureWithBackend(which Which, g generator.Backend) error {
	return e.configureWith(which, g)
}

func (e *Engine) configureWith(which Which, g generator.Backend) error {
	switch which {
	case Ops:
		e.ops = g
		e.tx = opsmode.New(g, e.log)
	case Prog:
		e.prog = g
		prg, err := progmode.New(g, e.adc, e.board, e.log)
		if err != nil {
			return err
		}
		e.prg = prg
	}
	return nil
}

// timerIndices assigns each track its own pair of hardware timers so
// OPS and PROG never contend for the same peripheral.
func timerIndices(which Which) (full, pulse int) {
	if which == Ops {
		return 0, 1
	}
	return 2, 3
}

func (e *Engine) generator(which Which) generator.Backend {
	if which == Ops {
		return e.ops
	}
	return e.prog
}

// Start (re-)arms which's timers after a prior Stop.
func (e *Engine) Start(which Which) error {
	g := e.generator(which)
	if g == nil {
		return ErrNotConfigured
	}
	return g.Start()
}

// Stop disables which's timers and releases any in-flight packets.
func (e *Engine) Stop(which Which) error {
	g := e.generator(which)
	if g == nil {
		return ErrNotConfigured
	}
	g.Stop()
	return nil
}

// LoadPacket enqueues a raw payload on which's generator.
func (e *Engine) LoadPacket(which Which, payload []byte, repeats uint16) error {
	g := e.generator(which)
	if g == nil {
		return ErrNotConfigured
	}
	return g.LoadPacket(payload, repeats)
}

// WaitEmpty blocks until which's pending queue drains.
func (e *Engine) WaitEmpty(which Which) error {
	g := e.generator(which)
	if g == nil {
		return ErrNotConfigured
	}
	g.WaitForQueueEmpty()
	return nil
}

// IsEmpty reports whether which's pending queue currently holds no packets.
func (e *Engine) IsEmpty(which Which) (bool, error) {
	g := e.generator(which)
	if g == nil {
		return false, ErrNotConfigured
	}
	return g.IsQueueEmpty(), nil
}

// ReadCV reads CV cv from the decoder on the programming track.
func (e *Engine) ReadCV(cv uint16) (int16, error) {
	if e.prg == nil {
		return -1, ErrNotConfigured
	}
	return e.prg.ReadCV(cv), nil
}

// WriteProgCVByte writes value to CV cv on the programming track,
// returning whether the write was verified.
func (e *Engine) WriteProgCVByte(cv uint16, value byte) (bool, error) {
	if e.prg == nil {
		return false, ErrNotConfigured
	}
	return e.prg.WriteCVByte(cv, value), nil
}

// WriteProgCVBit writes a single bit of CV cv on the programming track.
func (e *Engine) WriteProgCVBit(cv uint16, bit uint8, value bool) (bool, error) {
	if e.prg == nil {
		return false, ErrNotConfigured
	}
	return e.prg.WriteCVBit(cv, bit, value), nil
}

// WriteOpsCVByte fire-and-forgets a CV byte write to loco on the main track.
func (e *Engine) WriteOpsCVByte(loco, cv uint16, value byte) error {
	if e.tx == nil {
		return ErrNotConfigured
	}
	return e.tx.WriteCVByte(loco, cv, value)
}

// WriteOpsCVBit fire-and-forgets a CV bit write to loco on the main track.
func (e *Engine) WriteOpsCVBit(loco, cv uint16, bit uint8, value bool) error {
	if e.tx == nil {
		return ErrNotConfigured
	}
	return e.tx.WriteCVBit(loco, cv, bit, value)
}
