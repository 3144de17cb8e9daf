//go:build rp2040

// Package pio provides a hardware-accelerated alternative to the
// two-software-timer waveform driver: a PIO state machine that shifts
// out DCC bit cells with the CPU only responsible for keeping its FIFO
// fed, the same division of labor the teacher's PIO stepper backend
// uses for step pulses.
package pio

import (
	"time"

	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"dccbase/dcclog"
	"dccbase/generator"
	"dccbase/packet"
)

// buildWaveformProgram assembles a PIO program that, for each 32-bit
// command word pulled from the FIFO, drives the direction pin high for
// the cell's positive half then low for its negative half, with the
// half-cycle delay taken from the command word's low 16 bits. The
// generator package still computes which bit comes next and its cell
// timing (packet.Packet / nextBit); this program only turns "drive
// high N cycles, then low N cycles" into pin toggles without further
// CPU involvement for that cell.
func buildWaveformProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),         // 0: pull block
		asm.Out(rp2pio.OutDestY, 16).Encode(),   // 1: out y, 16 (half-cycle delay)
		asm.Set(rp2pio.SetDestPins, 1).Encode(), // 2: set pins, 1 (direction high)
		asm.Jmp(4, rp2pio.JmpYNZeroDec).Encode(), // 3: jmp y--, 4
		asm.Jmp(5, rp2pio.JmpAlways).Encode(),    // 4: (delay loop continues at 3)
		asm.Set(rp2pio.SetDestPins, 0).Encode(), // 5: set pins, 0 (direction low)
		// .wrap
	}
}

// WaveformBackend drives one DCC track output entirely from PIO once
// fed a packet: it encodes each bit cell's half-period into a command
// word and keeps the state machine's FIFO topped up from the
// generator's packet stream.
type WaveformBackend struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	dirPin machine.Pin
	offset uint8
}

// NewWaveformBackend wires a PIO state machine to dirPin. pioNum
// selects PIO0 or PIO1; smNum the state machine within it.
func NewWaveformBackend(pioNum, smNum uint8, dirPin machine.Pin) *WaveformBackend {
	var hw *rp2pio.PIO
	if pioNum == 0 {
		hw = rp2pio.PIO0
	} else {
		hw = rp2pio.PIO1
	}
	return &WaveformBackend{pio: hw, sm: hw.StateMachine(smNum), dirPin: dirPin}
}

// Configure loads the waveform program and starts the state machine
// idling on an empty FIFO (it blocks on Pull until fed).
func (b *WaveformBackend) Configure() error {
	b.dirPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	prog := buildWaveformProgram()
	offset, err := b.pio.AddProgram(prog, 0)
	if err != nil {
		return err
	}
	b.offset = offset

	cfg := b.sm.DefaultStateMachineConfig()
	cfg.SetOutPins(uint8(b.dirPin), 1)
	cfg.SetSetPins(uint8(b.dirPin), 1)
	cfg.SetWrap(offset, offset+5)
	b.sm.Init(offset, cfg)
	b.sm.SetEnabled(true)
	return nil
}

// cellWord packs a bit cell's half-period (in PIO clock cycles) into
// the 16 bits the program's `out y, 16` instruction consumes.
func cellWord(halfCycles uint16) uint32 {
	return uint32(halfCycles)
}

// PushPacket feeds pkt's bit cells into the state machine's FIFO one
// command word per bit, including its configured repeats. Blocks on a
// full FIFO exactly as the stepper backend's PushCommand does.
func (b *WaveformBackend) PushPacket(pkt *packet.Packet, cellHalfCycles func(bit bool) uint16) {
	passes := 1 + int(pkt.RepeatsRemaining)
	for p := 0; p < passes; p++ {
		for i := uint16(0); i < pkt.NumBits; i++ {
			half := cellHalfCycles(pkt.BitAt(i))
			b.sm.TxPut(cellWord(half))
		}
	}
}

// pioClockHz is the RP2040 system clock the PIO block runs from by
// default; cellHalfCycles uses it to convert generator.CellHalfPeriodUS's
// microsecond cell shapes into the state machine's clock cycles.
const pioClockHz = 125_000_000

// queuePollInterval mirrors generator.queuePollInterval: how often
// feedLoop checks for newly queued packets once it has caught up.
const queuePollInterval = 2 * time.Millisecond

func cellHalfCycles(bit bool) uint16 {
	return uint16(generator.CellHalfPeriodUS(bit) * (pioClockHz / 1_000_000))
}

// Generator is a hardware-accelerated alternative to generator.Generator:
// rather than two software timers firing an ISR per half-cycle, a PIO
// state machine shifts out bit cells autonomously once its FIFO is fed.
// It implements generator.Backend, so track.Engine.ConfigureWithBackend
// and opsmode/progmode can drive it exactly like the default ISR
// generator.
type Generator struct {
	Name string

	backend *WaveformBackend
	log     *dcclog.Logger

	pool    *packet.Pool
	pending *packet.Queue
	idle    packet.Packet

	stop chan struct{}
}

// NewGenerator builds a Generator around an already-constructed
// WaveformBackend. Configure allocates the packet pool and brings the
// state machine up.
func NewGenerator(name string, backend *WaveformBackend, log *dcclog.Logger) *Generator {
	return &Generator{Name: name, backend: backend, log: log}
}

// Configure pre-allocates maxPackets Packet slots, builds the idle
// singleton, loads the PIO program, and starts feeding the state
// machine.
func (g *Generator) Configure(maxPackets int) error {
	g.pool = packet.NewPool(maxPackets)
	g.pending = packet.NewQueue(maxPackets)
	if err := packet.Encode(&g.idle, packet.IdlePayload, 0); err != nil {
		return err
	}
	if err := g.backend.Configure(); err != nil {
		return err
	}
	return g.Start()
}

// Start queues the mandatory reset/idle boot sequence and starts
// feedLoop. Safe to call again after Stop.
func (g *Generator) Start() error {
	if err := g.LoadPacket(packet.ResetPayload, generator.BootResetRepeats); err != nil {
		return err
	}
	if err := g.LoadPacket(packet.IdlePayload, generator.BootIdleRepeats); err != nil {
		return err
	}

	g.stop = make(chan struct{})
	go g.feedLoop(g.stop)
	return nil
}

// Stop halts feedLoop and drains any still-pending packets back to the
// free set. The state machine itself is left enabled, idling on its
// next blocking Pull, matching Generator.Stop's "timers disabled, pool
// reclaimed" contract closely enough for the protocol layers above it.
func (g *Generator) Stop() {
	if g.stop != nil {
		close(g.stop)
		g.stop = nil
	}
	for {
		pkt, ok := g.pending.Dequeue()
		if !ok {
			break
		}
		g.pool.ReleaseZeroed(pkt)
	}
}

// feedLoop keeps the state machine's FIFO fed: one packet (or, absent
// any queued work, the idle packet) per iteration, the same shape as
// Generator.nextBit but operating a whole packet at a time since PIO
// consumes a bit cell's timing autonomously once queued.
func (g *Generator) feedLoop(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		pkt, ok := g.pending.Dequeue()
		if !ok {
			g.backend.PushPacket(&g.idle, cellHalfCycles)
			time.Sleep(queuePollInterval)
			continue
		}
		g.backend.PushPacket(pkt, cellHalfCycles)
		g.pool.Release(pkt)
	}
}

// LoadPacket serializes payload into a free packet and enqueues it for
// transmission with repeats additional passes after the first.
func (g *Generator) LoadPacket(payload []byte, repeats uint16) error {
	pkt := g.pool.Acquire()
	if err := packet.Encode(pkt, payload, repeats); err != nil {
		g.pool.Release(pkt)
		return err
	}
	g.log.Debugf("%s: load % x repeats=%d", g.Name, payload, repeats)
	if !g.pending.Enqueue(pkt) {
		g.pool.Release(pkt)
		return generator.ErrQueueFull
	}
	return nil
}

// IsQueueEmpty reports whether the pending queue currently holds no packets.
func (g *Generator) IsQueueEmpty() bool {
	return g.pending.Empty()
}

// WaitForQueueEmpty blocks until the pending queue drains.
func (g *Generator) WaitForQueueEmpty() {
	for !g.IsQueueEmpty() {
		time.Sleep(queuePollInterval)
	}
}
