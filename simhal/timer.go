package simhal

import "dccbase/hal"

// SimTimerDriver allocates simTimer handles that schedule their alarms
// against a shared Clock instead of real hardware. One Clock per
// generator under test keeps OPS and PROG timing independent, the way
// they run on independent hardware timer pairs in the field.
type SimTimerDriver struct {
	clock *Clock
}

// NewSimTimerDriver returns a driver whose timers schedule against clock.
func NewSimTimerDriver(clock *Clock) *SimTimerDriver {
	return &SimTimerDriver{clock: clock}
}

// Begin implements hal.TimerDriver. index and prescaler are accepted for
// interface compatibility but have no effect: the logical clock already
// runs in microseconds.
func (d *SimTimerDriver) Begin(index int, prescaler uint32, countUp bool) hal.TimerHandle {
	return &simTimer{clock: d.clock}
}

// simTimer implements hal.TimerHandle against a Clock.
type simTimer struct {
	clock      *Clock
	isr        func()
	period     uint32
	autoreload bool
	enabled    bool
	pending    *event
}

func (t *simTimer) AttachInterrupt(isr func()) {
	t.isr = isr
}

func (t *simTimer) AlarmWrite(periodUS uint32, autoreload bool) {
	t.period = periodUS
	t.autoreload = autoreload
	if t.enabled {
		t.arm()
	}
}

func (t *simTimer) Write(value uint32) {
	// No separate per-timer counter in the simulated clock; hardware
	// timers that support direct counter writes use this to correct
	// drift, which the logical clock has none of.
}

func (t *simTimer) AlarmEnable() {
	t.enabled = true
	t.arm()
}

func (t *simTimer) arm() {
	if t.pending != nil {
		t.clock.cancel(t.pending)
	}
	if t.isr == nil || t.period == 0 {
		return
	}
	wake := t.clock.Now() + uint64(t.period)
	t.pending = t.clock.schedule(wake, t.fire)
}

func (t *simTimer) fire() {
	t.pending = nil
	isr := t.isr
	if isr == nil {
		return
	}
	isr()
	if t.enabled && t.autoreload {
		t.arm()
	}
}

func (t *simTimer) AlarmDisable() {
	t.enabled = false
	if t.pending != nil {
		t.clock.cancel(t.pending)
		t.pending = nil
	}
}

func (t *simTimer) Stop() {
	t.AlarmDisable()
}

func (t *simTimer) DetachInterrupt() {
	t.isr = nil
}

func (t *simTimer) End() {
	t.AlarmDisable()
	t.DetachInterrupt()
}
