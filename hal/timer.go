package hal

// OneMicrosecondPrescaler is the hardware timer prescaler value that
// yields a 1us tick on the reference 80MHz APB clock. DCC bit timing is
// specified in microseconds (58us/98us half-cycles), so every target
// driver is expected to configure its timer to this tick rate.
const OneMicrosecondPrescaler = 80

// TimerHandle is a single hardware timer/alarm driving one half-cycle of
// the DCC waveform. The generator owns exactly two: one for the
// direction toggle, one for the track-output pulse.
type TimerHandle interface {
	// AttachInterrupt registers isr to run on every alarm match.
	AttachInterrupt(isr func())

	// AlarmWrite arms the next alarm periodUS microseconds from now. If
	// autoreload is true the timer automatically rearms itself with the
	// same period after each match; otherwise the ISR must call
	// AlarmWrite again to schedule the next one.
	AlarmWrite(periodUS uint32, autoreload bool)

	// Write sets the timer's free-running counter directly.
	Write(value uint32)

	// AlarmEnable starts the timer counting toward the armed alarm.
	AlarmEnable()

	// AlarmDisable halts the timer without detaching its interrupt.
	AlarmDisable()

	// Stop halts the timer and disables its alarm; safe to call when
	// already stopped.
	Stop()

	// DetachInterrupt removes the ISR registered by AttachInterrupt.
	DetachInterrupt()

	// End releases the timer back to its driver, if the platform needs that.
	End()
}

// TimerDriver allocates TimerHandles from the underlying hardware timer
// peripherals. index selects which physical timer/alarm to bind;
// countUp chooses counting direction where the hardware supports both.
type TimerDriver interface {
	Begin(index int, prescaler uint32, countUp bool) TimerHandle
}
