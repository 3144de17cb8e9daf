//go:build rp2040

package main

import "machine"

// InitUSB brings up the USB CDC serial console TinyGo exposes as
// machine.Serial on RP2040/RP2350.
func InitUSB() {
	machine.Serial.Configure(machine.UARTConfig{})
}

// USBAvailable returns the number of bytes buffered and ready to read.
func USBAvailable() int {
	return machine.Serial.Buffered()
}

// USBRead reads a single byte, blocking the caller's choice to make.
func USBRead() (byte, error) {
	return machine.Serial.ReadByte()
}

// USBWriteBytes writes data to the USB console.
func USBWriteBytes(data []byte) (int, error) {
	return machine.Serial.Write(data)
}
