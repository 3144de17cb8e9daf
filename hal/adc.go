package hal

import "errors"

// ErrUnknownChannel is returned by an ADCDriver asked to read a channel
// it has no pin mapping for.
var ErrUnknownChannel = errors.New("hal: unknown ADC channel")

// ADCChannel identifies a logical analog input channel, e.g. the
// programming-track current-sense input.
type ADCChannel uint32

// ADCDriver is the abstract ADC interface the service-mode programmer
// uses to sample track current while sensing a decoder's ACK pulse.
type ADCDriver interface {
	// Read performs a one-shot sample from ch and returns the raw
	// reading, scaled to the driver's native resolution.
	Read(ch ADCChannel) (uint16, error)
}
