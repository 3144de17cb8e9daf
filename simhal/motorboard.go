package simhal

import (
	"fmt"

	"dccbase/hal"
)

// MotorBoard is a simulated hal.MotorBoard with two fixed named
// channels, "OPS" and "PROG", matching the only names the generator and
// programmer ever ask for.
type MotorBoard struct {
	channels map[string]hal.ADCChannel
	maxMA    map[string]uint16
}

// NewMotorBoard returns a board with OPS on channel 0 and PROG on
// channel 1, both calibrated to maxMA milliamps. Call SetMaxMilliamps to
// override per-channel ACK thresholds in a test.
func NewMotorBoard(maxMA uint16) *MotorBoard {
	return &MotorBoard{
		channels: map[string]hal.ADCChannel{"OPS": 0, "PROG": 1},
		maxMA:    map[string]uint16{"OPS": maxMA, "PROG": maxMA},
	}
}

func (m *MotorBoard) ADCChannel(name string) (hal.ADCChannel, error) {
	ch, ok := m.channels[name]
	if !ok {
		return 0, fmt.Errorf("simhal: unknown motor board channel %q", name)
	}
	return ch, nil
}

func (m *MotorBoard) MaxMilliamps(name string) (uint16, error) {
	ma, ok := m.maxMA[name]
	if !ok {
		return 0, fmt.Errorf("simhal: unknown motor board channel %q", name)
	}
	return ma, nil
}

// SetMaxMilliamps overrides the calibrated ceiling for name.
func (m *MotorBoard) SetMaxMilliamps(name string, ma uint16) {
	m.maxMA[name] = ma
}
