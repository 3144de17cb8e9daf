// Package generator implements the real-time DCC waveform generator: a
// hardware-timer-driven bit serializer that drains a lock-free packet
// pool through two interlocking ISRs and a single direction GPIO pin.
// Two independent Generators exist in a running base station, OPS and
// PROG, each owning its own timer pair, pool and queue.
package generator

import (
	"errors"
	"time"

	"dccbase/dcclog"
	"dccbase/hal"
	"dccbase/irq"
	"dccbase/packet"
)

// Bit cell timing, in microseconds, assuming a 1us timer tick
// (hal.OneMicrosecondPrescaler). These are fixed by NMRA S-9.1 cell
// shapes, not configurable at runtime.
const (
	cellPeriod1US = 116
	cellPeriod0US = 196
	pulseHalf1US  = 58
	pulseHalf0US  = 98
)

// Boot sequence repeat counts, mandated by NMRA S-9.2.3 so a decoder
// sitting in service mode exits cleanly when the base station powers up.
// Exported so alternate backends (e.g. targets/pio's PIO-driven
// Generator) queue the same compliant power-up sequence.
const (
	BootResetRepeats = 20
	BootIdleRepeats  = 10
)

const queuePollInterval = 2 * time.Millisecond

// defaultStopDrainDelay is long enough that any ISR already in flight
// when Stop disables the timers is guaranteed to have returned before
// packets are released back to the pool.
const defaultStopDrainDelay = 250 * time.Millisecond

// ErrQueueFull is returned by LoadPacket if the pending queue somehow
// has no room, which should not happen when the queue's capacity is
// sized to the pool (see Configure).
var ErrQueueFull = errors.New("generator: pending queue full")

// CellHalfPeriodUS returns the microsecond half-period NMRA S-9.1
// assigns to a "1" or "0" bit cell. Exported so alternate waveform
// backends (targets/pio's PIO state machine, which drives the pin
// autonomously rather than through TimerHandle callbacks) can convert
// the same cell shapes into their own hardware's time base.
func CellHalfPeriodUS(bit bool) uint32 {
	if bit {
		return pulseHalf1US
	}
	return pulseHalf0US
}

// PacketSink is the packet-submission surface the service-mode and
// ops-mode protocol layers drive: load a raw payload for transmission
// and block until the track has caught up. Generator implements it
// directly; targets/pio.Generator implements it against a PIO-fed
// backend, so opsmode.Transmitter and progmode.Programmer can run
// against either without caring which is underneath.
type PacketSink interface {
	LoadPacket(payload []byte, repeats uint16) error
	WaitForQueueEmpty()
	IsQueueEmpty() bool
}

// Backend is the full lifecycle a track.Engine drives per track:
// PacketSink plus bring-up/teardown. Generator and targets/pio.Generator
// both implement it.
type Backend interface {
	PacketSink
	Start() error
	Stop()
}

// Generator drives one physical DCC output.
type Generator struct {
	Name string

	// Verbose gates per-packet hex logging, off by default; mirrors the
	// reference firmware's SHOW_DCC_PACKETS compile flag.
	Verbose bool

	// StopDrainDelay overrides the wait Stop performs before releasing
	// in-flight packets. Defaults to 250ms; tests running against a
	// simulated clock with no real concurrency set it to 0.
	StopDrainDelay time.Duration

	dirPin        hal.Pin
	fullTimerIdx  int
	pulseTimerIdx int

	gpio   hal.GPIODriver
	timers hal.TimerDriver
	log    *dcclog.Logger

	pool    *packet.Pool
	pending *packet.Queue
	idle    packet.Packet

	fullTimer  hal.TimerHandle
	pulseTimer hal.TimerHandle

	current *packet.Packet
	running bool
}

// New wires a Generator to its hardware collaborators without
// allocating any packets or touching hardware; call Configure to do
// that and bring the generator up.
func New(name string, dirPin hal.Pin, fullTimerIdx, pulseTimerIdx int, gpio hal.GPIODriver, timers hal.TimerDriver, log *dcclog.Logger) *Generator {
	return &Generator{
		Name:           name,
		dirPin:         dirPin,
		fullTimerIdx:   fullTimerIdx,
		pulseTimerIdx:  pulseTimerIdx,
		gpio:           gpio,
		timers:         timers,
		log:            log,
		StopDrainDelay: defaultStopDrainDelay,
	}
}

// Configure pre-allocates maxPackets Packet slots, builds the idle
// singleton, drives the direction pin low, and starts the generator:
// boot packets queued, timers armed, ISRs running.
func (g *Generator) Configure(maxPackets int) error {
	g.pool = packet.NewPool(maxPackets)
	g.pending = packet.NewQueue(maxPackets)
	if err := packet.Encode(&g.idle, packet.IdlePayload, 0); err != nil {
		return err
	}

	if err := g.gpio.ConfigureOutput(g.dirPin); err != nil {
		return err
	}
	if err := g.gpio.SetPin(g.dirPin, false); err != nil {
		return err
	}

	return g.Start()
}

// Start queues the mandatory reset/idle boot sequence and arms the
// hardware timers. Safe to call again after Stop.
func (g *Generator) Start() error {
	if err := g.LoadPacket(packet.ResetPayload, BootResetRepeats); err != nil {
		return err
	}
	if err := g.LoadPacket(packet.IdlePayload, BootIdleRepeats); err != nil {
		return err
	}

	g.fullTimer = g.timers.Begin(g.fullTimerIdx, hal.OneMicrosecondPrescaler, true)
	g.pulseTimer = g.timers.Begin(g.pulseTimerIdx, hal.OneMicrosecondPrescaler, true)
	g.fullTimer.AttachInterrupt(g.fullCycleISR)
	g.pulseTimer.AttachInterrupt(g.pulseISR)

	g.fullTimer.AlarmWrite(cellPeriod1US, true)
	g.fullTimer.Write(0)
	g.pulseTimer.AlarmWrite(pulseHalf1US, false)
	g.pulseTimer.Write(0)

	g.fullTimer.AlarmEnable()
	g.pulseTimer.AlarmEnable()
	g.running = true
	return nil
}

// Stop disables both timers, waits for any in-flight ISR to finish,
// then drains current and pending packets back to the free set.
func (g *Generator) Stop() {
	g.fullTimer.Stop()
	g.fullTimer.AlarmDisable()
	g.fullTimer.DetachInterrupt()
	g.fullTimer.End()
	g.pulseTimer.Stop()
	g.pulseTimer.AlarmDisable()
	g.pulseTimer.DetachInterrupt()
	g.pulseTimer.End()

	if g.StopDrainDelay > 0 {
		time.Sleep(g.StopDrainDelay)
	}

	// AlarmDisable can still leave one fullCycleISR in flight (the IRQ may
	// already be pending when the disable takes effect), so g.current is
	// snapshotted under a brief interrupt mask rather than trusted to the
	// drain delay alone.
	state := irq.Disable()
	current := g.current
	g.current = nil
	irq.Restore(state)

	if current != nil && current != &g.idle {
		g.pool.ReleaseZeroed(current)
	}

	for {
		pkt, ok := g.pending.Dequeue()
		if !ok {
			break
		}
		g.pool.ReleaseZeroed(pkt)
	}

	g.running = false
}

// Running reports whether the generator's timers are armed.
func (g *Generator) Running() bool {
	return g.running
}

// LoadPacket serializes payload (2..5 bytes, checksum appended
// internally) into a free packet and enqueues it for transmission with
// repeats additional passes after the first. Blocks briefly if the pool
// is momentarily exhausted.
func (g *Generator) LoadPacket(payload []byte, repeats uint16) error {
	pkt := g.pool.Acquire()
	if err := packet.Encode(pkt, payload, repeats); err != nil {
		g.pool.Release(pkt)
		return err
	}
	if g.Verbose {
		g.log.Debugf("%s: load % x repeats=%d", g.Name, payload, repeats)
	}
	if !g.pending.Enqueue(pkt) {
		g.pool.Release(pkt)
		return ErrQueueFull
	}
	return nil
}

// IsQueueEmpty reports whether the pending queue currently holds no packets.
func (g *Generator) IsQueueEmpty() bool {
	return g.pending.Empty()
}

// PendingCount returns the number of packets waiting to transmit.
// Diagnostic only; the reference firmware only ever logs this figure,
// this repo exposes it directly.
func (g *Generator) PendingCount() int {
	return g.pending.Len()
}

// WaitForQueueEmpty blocks until the pending queue drains, polling at
// queuePollInterval. Used by service-mode code to sequence ADC sampling
// precisely after a packet sequence has finished transmitting.
func (g *Generator) WaitForQueueEmpty() {
	for !g.IsQueueEmpty() {
		time.Sleep(queuePollInterval)
	}
}

// fullCycleISR fires at the start of every bit cell: it asks the
// serializer for the next bit, reprograms both timer periods to match
// it, arms the pulse timer as a one-shot, and drives the direction pin
// high for the cell's positive half.
func (g *Generator) fullCycleISR() {
	bit := g.nextBit()

	var full, half uint32
	if bit {
		full, half = cellPeriod1US, pulseHalf1US
	} else {
		full, half = cellPeriod0US, pulseHalf0US
	}
	g.fullTimer.AlarmWrite(full, true)
	g.pulseTimer.AlarmWrite(half, false)
	g.pulseTimer.Write(0)
	g.pulseTimer.AlarmEnable()

	g.gpio.SetPin(g.dirPin, true)
}

// pulseISR fires once per bit cell, at the pulse timer's period: it
// drives the direction pin low for the cell's negative half. Toggling
// this single pin inverts the H-bridge's polarity, so every cell is
// bipolar with 50% duty regardless of bit value.
func (g *Generator) pulseISR() {
	g.gpio.SetPin(g.dirPin, false)
}

// nextBit advances the serializer cursor by one bit and returns it.
// Called only from fullCycleISR; must be O(1) and allocation-free.
func (g *Generator) nextBit() bool {
	if g.current != nil && g.current.CurrentBit == g.current.NumBits {
		if g.current.RepeatsRemaining > 0 {
			g.current.RepeatsRemaining--
			g.current.CurrentBit = 0
		} else {
			if g.current != &g.idle {
				g.pool.Release(g.current)
			}
			g.current = nil
		}
	}

	if g.current == nil {
		if pkt, ok := g.pending.Dequeue(); ok {
			g.current = pkt
		} else {
			g.idle.CurrentBit = 0
			g.current = &g.idle
		}
	}

	bit := g.current.BitAt(g.current.CurrentBit)
	g.current.CurrentBit++
	return bit
}
