//go:build rp2040

package main

import (
	"bufio"
	"time"

	"machine"

	"dccbase/dcclog"
	"dccbase/hal"
	"dccbase/track"
)

// Direction pins for the two generators' H-bridges.
const (
	opsDirPin  = machine.GPIO2
	progDirPin = machine.GPIO3
	poolSize   = 32
)

func main() {
	InitUSB()
	InitClock()

	gpio := NewRPGPIODriver()
	timers := NewRPTimerDriver()
	log := dcclog.New(dcclog.Info, nil)

	adc, board, err := newMotorBoard()
	if err != nil {
		log.Warnf("motor board: %v", err)
	}

	engine := track.NewEngine(gpio, timers, adc, board, log)
	if err := configureOps(engine, log); err != nil {
		log.Warnf("configure OPS: %v", err)
	}
	if err := engine.Configure(track.Prog, "PROG", hal.Pin(progDirPin), poolSize); err != nil {
		log.Warnf("configure PROG: %v", err)
	}

	runConsole(engine, log)
}

// runConsole reads newline-terminated commands from USB-CDC and
// dispatches them to engine, the same text protocol cmd/dccctl speaks
// over a real serial link.
func runConsole(engine *track.Engine, log *dcclog.Logger) {
	reader := bufio.NewReader(usbReader{})
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		reply := track.DispatchLine(engine, line)
		USBWriteBytes([]byte(reply + "\n"))
	}
}

// usbReader adapts the byte-at-a-time USB helpers to io.Reader for bufio.
type usbReader struct{}

func (usbReader) Read(p []byte) (int, error) {
	for USBAvailable() == 0 {
		time.Sleep(time.Millisecond)
	}
	b, err := USBRead()
	if err != nil {
		return 0, err
	}
	p[0] = b
	return 1, nil
}
