// Package serial provides the transport a host-side console
// (cmd/dccctl) uses to reach a base station running on real hardware
// over USB-serial: line-delimited ASCII commands out, line-delimited
// ASCII replies back.
package serial

import "io"

// Port is a serial transport. Native, for real hardware links, is the
// only implementation this repo ships; the interface exists so tests
// can substitute an in-memory pipe.
type Port interface {
	io.ReadWriteCloser

	// Flush discards any buffered, not-yet-transmitted data.
	Flush() error
}

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g. "/dev/ttyACM0", "COM3").
	Device string

	// Baud rate. USB CDC links (the usual case for an RP2040 base
	// station) ignore this, but a real UART link needs it set.
	Baud int

	// ReadTimeout bounds a blocking Read, in milliseconds. 0 blocks
	// indefinitely.
	ReadTimeout int
}

// DefaultConfig returns console defaults for device: 115200 baud and a
// 200ms read timeout. A service-mode CV read or write on the base
// station takes longer than that (one ACK check alone samples for about
// 500ms), so a single Read can time out before such a reply arrives.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 200,
	}
}
