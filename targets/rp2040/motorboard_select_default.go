//go:build rp2040 && !ads1115

package main

import "dccbase/hal"

// fixedMotorBoard is the SoC-internal-ADC fallback used when no
// external I2C ADC (ADS1115MotorBoard) is wired: both tracks share the
// same channel numbering the RPAdcDriver exposes.
type fixedMotorBoard struct {
	maxMA uint16
}

func newFixedMotorBoard(maxMA uint16) *fixedMotorBoard { return &fixedMotorBoard{maxMA: maxMA} }

func (b *fixedMotorBoard) ADCChannel(name string) (hal.ADCChannel, error) {
	if name == "OPS" {
		return 0, nil
	}
	return 1, nil
}

func (b *fixedMotorBoard) MaxMilliamps(name string) (uint16, error) {
	return b.maxMA, nil
}

// newMotorBoard wires the default current-sense path: the RP2040's own
// ADC via RPAdcDriver, calibrated to a single fixed milliamp ceiling
// shared by both tracks. Build with -tags ads1115 to select an external
// ADS1115 board instead (motorboard_select_ads1115.go).
func newMotorBoard() (hal.ADCDriver, hal.MotorBoard, error) {
	return NewRPAdcDriver(), newFixedMotorBoard(3000), nil
}
