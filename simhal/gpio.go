package simhal

import "dccbase/hal"

// GPIO is a simulated hal.GPIODriver that just records pin state and
// direction, so tests can assert on the waveform generator's direction
// toggling without any real hardware.
type GPIO struct {
	outputs map[hal.Pin]bool
	inputs  map[hal.Pin]bool
	state   map[hal.Pin]bool
}

// NewGPIO returns an empty simulated GPIO bank.
func NewGPIO() *GPIO {
	return &GPIO{
		outputs: make(map[hal.Pin]bool),
		inputs:  make(map[hal.Pin]bool),
		state:   make(map[hal.Pin]bool),
	}
}

func (g *GPIO) ConfigureOutput(pin hal.Pin) error {
	g.outputs[pin] = true
	delete(g.inputs, pin)
	return nil
}

func (g *GPIO) ConfigureInput(pin hal.Pin) error {
	g.inputs[pin] = true
	delete(g.outputs, pin)
	return nil
}

func (g *GPIO) SetPin(pin hal.Pin, high bool) error {
	g.state[pin] = high
	return nil
}

// State reports the last value SetPin recorded for pin, for test
// assertions.
func (g *GPIO) State(pin hal.Pin) bool {
	return g.state[pin]
}
