package track

import (
	"testing"
	"time"

	"dccbase/dcclog"
	"dccbase/hal"
	"dccbase/simhal"
)

func newTestEngine(t *testing.T) (*Engine, *simhal.Clock, func()) {
	t.Helper()
	clock := simhal.NewClock()
	gpio := simhal.NewGPIO()
	timers := simhal.NewSimTimerDriver(clock)
	adc := simhal.NewADC()
	board := simhal.NewMotorBoard(3000)
	e := NewEngine(gpio, timers, adc, board, dcclog.New(dcclog.Silent, nil))

	stop := make(chan struct{})
	go clock.Pump(500*time.Microsecond, 5000, stop)

	return e, clock, func() { close(stop) }
}

func TestEngineRejectsUnconfiguredTrack(t *testing.T) {
	e, _, stop := newTestEngine(t)
	defer stop()

	if _, err := e.IsEmpty(Ops); err != ErrNotConfigured {
		t.Fatalf("IsEmpty on unconfigured OPS = %v, want ErrNotConfigured", err)
	}
	if _, err := e.ReadCV(1); err != ErrNotConfigured {
		t.Fatalf("ReadCV on unconfigured PROG = %v, want ErrNotConfigured", err)
	}
	if err := e.WriteOpsCVByte(3, 1, 0); err != ErrNotConfigured {
		t.Fatalf("WriteOpsCVByte on unconfigured OPS = %v, want ErrNotConfigured", err)
	}
}

func TestEngineConfigureOpsAndLoadPacket(t *testing.T) {
	e, clock, stop := newTestEngine(t)
	defer stop()

	if err := e.Configure(Ops, "OPS", hal.Pin(0), 16); err != nil {
		t.Fatalf("Configure(Ops): %v", err)
	}
	if err := e.LoadPacket(Ops, []byte{0x03, 0x01, 0x00}, 0); err != nil {
		t.Fatalf("LoadPacket: %v", err)
	}
	if empty, _ := e.IsEmpty(Ops); empty {
		t.Fatal("IsEmpty(Ops) = true immediately after LoadPacket")
	}

	for i := 0; i < 20000; i++ {
		clock.Advance(250)
		if empty, _ := e.IsEmpty(Ops); empty {
			break
		}
	}
	if empty, _ := e.IsEmpty(Ops); !empty {
		t.Fatal("pending queue never drained")
	}
}

func TestEngineConfigureProgAndWriteOps(t *testing.T) {
	e, _, stop := newTestEngine(t)
	defer stop()

	if err := e.Configure(Ops, "OPS", hal.Pin(0), 16); err != nil {
		t.Fatalf("Configure(Ops): %v", err)
	}
	if err := e.Configure(Prog, "PROG", hal.Pin(1), 16); err != nil {
		t.Fatalf("Configure(Prog): %v", err)
	}

	if err := e.WriteOpsCVByte(3000, 29, 0x06); err != nil {
		t.Fatalf("WriteOpsCVByte: %v", err)
	}
	if err := e.WriteOpsCVBit(3, 1, 2, true); err != nil {
		t.Fatalf("WriteOpsCVBit: %v", err)
	}
}

func TestEngineStopThenRestart(t *testing.T) {
	e, _, stop := newTestEngine(t)
	defer stop()

	if err := e.Configure(Ops, "OPS", hal.Pin(0), 16); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := e.Stop(Ops); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := e.Start(Ops); err != nil {
		t.Fatalf("Start: %v", err)
	}
}
