// Package hal defines the hardware-abstraction interfaces the waveform
// generator, service-mode programmer and ops-mode transmitter build on:
// GPIO for the track output pins, timers for the waveform's bit-cell
// clocks, ADC for current-sense sampling, and the motor board they're
// all wired through. Target packages construct a concrete driver and
// pass it to generator.New/track.NewEngine directly; host tests pass a
// simulated one from simhal the same way.
package hal

// Pin identifies a hardware GPIO pin number.
type Pin uint32

// GPIODriver is the abstract GPIO interface the generator uses to drive
// the track's direction (DIR) line. Target-specific
// code constructs the concrete implementation and passes it in.
type GPIODriver interface {
	// ConfigureOutput configures pin as a digital output.
	ConfigureOutput(pin Pin) error

	// ConfigureInput configures pin as a digital input.
	ConfigureInput(pin Pin) error

	// SetPin drives pin high (true) or low (false).
	SetPin(pin Pin, high bool) error
}
