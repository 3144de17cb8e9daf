package progmode

import (
	"sync/atomic"
	"testing"
	"time"

	"dccbase/dcclog"
	"dccbase/generator"
	"dccbase/hal"
	"dccbase/simhal"
)

// newTestProgrammer wires a Programmer to a live generator running
// against a simulated clock that's pumped forward in real time by a
// background goroutine, the way a real hardware timer advances
// independently of the foreground CPU it interrupts. Returns the
// Programmer and a stop func the test must call before returning.
func newTestProgrammer(t *testing.T, maxMA uint16) (*Programmer, *simhal.ADC, func()) {
	t.Helper()
	clock := simhal.NewClock()
	gpio := simhal.NewGPIO()
	timers := simhal.NewSimTimerDriver(clock)
	gen := generator.New("PROG", hal.Pin(0), 0, 1, gpio, timers, dcclog.New(dcclog.Silent, nil))
	gen.StopDrainDelay = 0
	if err := gen.Configure(32); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	stop := make(chan struct{})
	go clock.Pump(500*time.Microsecond, 5000, stop)

	board := simhal.NewMotorBoard(maxMA)
	adc := simhal.NewADC()
	p, err := New(gen, adc, board, dcclog.New(dcclog.Silent, nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.SampleCount = 8
	p.SampleInterval = time.Millisecond

	return p, adc, func() {
		close(stop)
		gen.Stop()
	}
}

func TestReadCVBitZeroACKPositive(t *testing.T) {
	p, adc, stop := newTestProgrammer(t, 3000)
	defer stop()

	threshold := p.ackThreshold
	var calls int64
	adc.ReadFunc = func(ch hal.ADCChannel) (uint16, error) {
		n := atomic.AddInt64(&calls, 1) - 1
		window := int(n) / p.SampleCount
		pos := int(n) % p.SampleCount
		// Window 0 is bit 0's verify-bit check; window 8 is the final
		// byte verify. Both ACK. Windows 1..7 never do.
		if (window == 0 || window == 8) && pos >= 3 && pos <= 5 {
			return threshold + 10, nil
		}
		return 0, nil
	}

	done := make(chan int16, 1)
	go func() { done <- p.ReadCV(1) }()

	select {
	case got := <-done:
		if got != 1 {
			t.Fatalf("ReadCV = %d, want 1 (only bit 0 set)", got)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("ReadCV did not return within 10s")
	}
}

func TestWriteCVByteExhaustsRetries(t *testing.T) {
	p, adc, stop := newTestProgrammer(t, 3000)
	defer stop()

	adc.ReadFunc = func(ch hal.ADCChannel) (uint16, error) {
		return 0, nil // decoder never acknowledges
	}

	done := make(chan bool, 1)
	go func() { done <- p.WriteCVByte(7, 0x55) }()

	select {
	case got := <-done:
		if got {
			t.Fatal("WriteCVByte returned true with an ADC that never acks")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("WriteCVByte did not return within 10s")
	}
}

func TestAckThresholdFormula(t *testing.T) {
	p, _, stop := newTestProgrammer(t, 3000)
	defer stop()
	// 4096 * 60 / 3000 = 81 (integer division).
	if p.ackThreshold != 81 {
		t.Fatalf("ackThreshold = %d, want 81", p.ackThreshold)
	}
}
