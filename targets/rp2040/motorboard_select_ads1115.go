//go:build rp2040 && ads1115

package main

import (
	"machine"

	"dccbase/hal"
)

// ads1115MaxMA calibrates both tracks' ADS1115 channels to the same
// full-scale current; boards needing per-track ceilings should replace
// this with per-channel constants.
const ads1115MaxMA = 3000

// newMotorBoard wires the external-ADC current-sense path: an
// I2C-attached ADS1115 shared by both tracks, selected over the
// SoC-internal ADC (motorboard_select_default.go) by building with
// -tags ads1115.
func newMotorBoard() (hal.ADCDriver, hal.MotorBoard, error) {
	machine.I2C0.Configure(machine.I2CConfig{})
	board, err := NewADS1115MotorBoard(machine.I2C0, ads1115MaxMA)
	if err != nil {
		return nil, nil, err
	}
	return board, board, nil
}
