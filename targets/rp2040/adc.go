//go:build rp2040

package main

import (
	"machine"

	"dccbase/hal"
)

// RPAdcDriver implements hal.ADCDriver over the SoC-internal ADC,
// adapted from the Klipper-target ADC driver's channel-configure-on-
// first-use pattern.
type RPAdcDriver struct {
	channels map[hal.ADCChannel]*machine.ADC
}

func NewRPAdcDriver() *RPAdcDriver {
	machine.InitADC()
	return &RPAdcDriver{channels: make(map[hal.ADCChannel]*machine.ADC)}
}

func (d *RPAdcDriver) pinFor(ch hal.ADCChannel) (machine.Pin, bool) {
	switch ch {
	case 0:
		return machine.ADC0, true
	case 1:
		return machine.ADC1, true
	case 2:
		return machine.ADC2, true
	case 3:
		return machine.ADC3, true
	default:
		return 0, false
	}
}

func (d *RPAdcDriver) Read(ch hal.ADCChannel) (uint16, error) {
	adc, ok := d.channels[ch]
	if !ok {
		pin, known := d.pinFor(ch)
		if !known {
			return 0, hal.ErrUnknownChannel
		}
		a := machine.ADC{Pin: pin}
		a.Configure(machine.ADCConfig{})
		d.channels[ch] = &a
		adc = &a
	}
	// TinyGo's ADC.Get returns a 16-bit scaled value on rp2040; the
	// current-sense math in progmode assumes a 12-bit sample, so shift
	// down to match the reference firmware's raw ADC reading.
	return adc.Get() >> 4, nil
}
