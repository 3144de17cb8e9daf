//go:build rp2040

package main

import (
	"machine"

	"dccbase/hal"
)

// RPGPIODriver implements hal.GPIODriver on TinyGo's machine.Pin.
type RPGPIODriver struct {
	pins map[hal.Pin]machine.Pin
}

// NewRPGPIODriver returns a driver with no pins configured yet.
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{pins: make(map[hal.Pin]machine.Pin)}
}

func (d *RPGPIODriver) ConfigureOutput(pin hal.Pin) error {
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.pins[pin] = p
	return nil
}

func (d *RPGPIODriver) ConfigureInput(pin hal.Pin) error {
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinInput})
	d.pins[pin] = p
	return nil
}

func (d *RPGPIODriver) SetPin(pin hal.Pin, high bool) error {
	p, ok := d.pins[pin]
	if !ok {
		p = machine.Pin(pin)
		d.pins[pin] = p
	}
	p.Set(high)
	return nil
}
