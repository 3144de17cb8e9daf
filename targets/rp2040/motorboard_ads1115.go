//go:build rp2040 && ads1115

package main

import (
	"machine"

	"tinygo.org/x/drivers/ads1x15"

	"dccbase/hal"
)

// ADS1115MotorBoard implements hal.MotorBoard and hal.ADCDriver for a
// booster shield that puts both tracks' current-sense behind an
// external I2C ADC rather than the SoC-internal one, adapted from the
// pack's I2C-driver registration pattern (see
// examples/drivers/adxl345_example.go) generalized from an
// accelerometer to a dual-channel current sense ADC.
type ADS1115MotorBoard struct {
	dev   ads1x15.Device
	maxMA map[string]uint16
	ch    map[string]ads1x15.Channel
}

// opsChannel and progChannel are the ADS1115 single-ended input pins
// wired to the OPS and PROG track current-sense shunts.
const (
	opsChannel  = ads1x15.Channel0
	progChannel = ads1x15.Channel1
)

// NewADS1115MotorBoard brings up the ADS1115 on i2c and calibrates both
// channels to maxMA milliamps of full-scale current.
func NewADS1115MotorBoard(i2c *machine.I2C, maxMA uint16) (*ADS1115MotorBoard, error) {
	dev := ads1x15.New(i2c)
	dev.Configure(ads1x15.Config{
		Gain:      ads1x15.GAIN_4096MV,
		DataRate:  ads1x15.DR_ADS1015_1600SPS,
		AutoReset: true,
	})

	return &ADS1115MotorBoard{
		dev:   dev,
		maxMA: map[string]uint16{"OPS": maxMA, "PROG": maxMA},
		ch:    map[string]ads1x15.Channel{"OPS": opsChannel, "PROG": progChannel},
	}, nil
}

func (m *ADS1115MotorBoard) ADCChannel(name string) (hal.ADCChannel, error) {
	ch, ok := m.ch[name]
	if !ok {
		return 0, hal.ErrUnknownChannel
	}
	return hal.ADCChannel(ch), nil
}

func (m *ADS1115MotorBoard) MaxMilliamps(name string) (uint16, error) {
	ma, ok := m.maxMA[name]
	if !ok {
		return 0, hal.ErrUnknownChannel
	}
	return ma, nil
}

// Read implements hal.ADCDriver, scaling the ADS1115's 16-bit signed
// result down to the 12-bit range progmode's ACK threshold math uses.
func (m *ADS1115MotorBoard) Read(ch hal.ADCChannel) (uint16, error) {
	raw, err := m.dev.ReadRetained(ads1x15.Channel(ch))
	if err != nil {
		return 0, err
	}
	if raw < 0 {
		return 0, nil
	}
	return uint16(raw) >> 3, nil
}
