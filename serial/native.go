//go:build !wasm

package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// NativePort wraps github.com/tarm/serial for real USB-serial links.
type NativePort struct {
	port *serial.Port
	cfg  *Config
}

// Open opens a native serial port per cfg.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("serial: config cannot be nil")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", cfg.Device, err)
	}
	return &NativePort{port: port, cfg: cfg}, nil
}

func (p *NativePort) Read(b []byte) (int, error)  { return p.port.Read(b) }
func (p *NativePort) Write(b []byte) (int, error) { return p.port.Write(b) }

func (p *NativePort) Close() error {
	if p.port == nil {
		return nil
	}
	return p.port.Close()
}

// Flush is a no-op: tarm/serial has no buffered writes to discard, and
// Write already blocks until the bytes are handed to the OS.
func (p *NativePort) Flush() error {
	return nil
}
