//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"dccbase/hal"
)

// RP2040's four hardware alarm comparators, memory-mapped against the
// free-running 1MHz TIMERAWL counter InitClock already relies on. Each
// DCC generator's full-cycle and pulse ISRs claim one comparator apiece.
const (
	timerBaseAddr = 0x40054000
	timerALARM0   = timerBaseAddr + 0x10
	timerARMED    = timerBaseAddr + 0x20
	timerINTR     = timerBaseAddr + 0x34
	timerINTE     = timerBaseAddr + 0x38
)

func alarmReg(index int) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(timerALARM0 + 4*index)))
}

// RPTimerDriver implements hal.TimerDriver against the RP2040's alarm
// comparators. Only the lowest hal.OneMicrosecondPrescaler tick rate is
// supported; the hardware counter already runs at 1MHz.
type RPTimerDriver struct{}

func NewRPTimerDriver() *RPTimerDriver { return &RPTimerDriver{} }

func (d *RPTimerDriver) Begin(index int, prescaler uint32, countUp bool) hal.TimerHandle {
	return &rpTimer{index: index}
}

type rpTimer struct {
	index      int
	isr        func()
	period     uint32
	autoreload bool
}

func (t *rpTimer) AttachInterrupt(isr func()) {
	t.isr = isr
	// Hooking the NVIC vector for TIMER_IRQ_<index> to call handleAlarm
	// is board-specific wiring done once in InitClock; each rpTimer just
	// registers itself in rpTimers below so the shared ISR trampoline can
	// find it.
	rpTimers[t.index] = t
}

func (t *rpTimer) AlarmWrite(periodUS uint32, autoreload bool) {
	t.period = periodUS
	t.autoreload = autoreload
}

func (t *rpTimer) Write(value uint32) {
	// The RP2040 counter is free-running and shared across all four
	// alarms; it cannot be reset per-timer. Each AlarmEnable instead
	// arms relative to the counter's current value, so a per-timer
	// Write(0) has no hardware analog here and is a deliberate no-op.
}

func (t *rpTimer) AlarmEnable() {
	alarmReg(t.index).Set(GetHardwareTime() + t.period)
}

func (t *rpTimer) AlarmDisable() {
	(*volatile.Register32)(unsafe.Pointer(uintptr(timerARMED))).Set(1 << uint(t.index))
}

func (t *rpTimer) Stop() {
	t.AlarmDisable()
}

func (t *rpTimer) DetachInterrupt() {
	rpTimers[t.index] = nil
	t.isr = nil
}

func (t *rpTimer) End() {
	t.AlarmDisable()
	t.DetachInterrupt()
}

var rpTimers [4]*rpTimer

// handleAlarmIRQ is the shared trampoline every TIMER_IRQn vector calls;
// it fires the registered timer's ISR and, for autoreload timers,
// re-arms the comparator before returning.
func handleAlarmIRQ(index int) {
	t := rpTimers[index]
	if t == nil || t.isr == nil {
		return
	}
	(*volatile.Register32)(unsafe.Pointer(uintptr(timerINTR))).Set(1 << uint(index))
	t.isr()
	if t.autoreload {
		alarmReg(index).Set(GetHardwareTime() + t.period)
	}
}
