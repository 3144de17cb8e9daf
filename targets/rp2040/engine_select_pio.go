//go:build rp2040 && pio

package main

import (
	pio "dccbase/targets/pio"

	"dccbase/dcclog"
	"dccbase/track"
)

// opsPIONum and opsSMNum select PIO0's first state machine for the OPS
// track's waveform output.
const (
	opsPIONum = 0
	opsSMNum  = 0
)

// configureOps brings up the OPS track on a PIO-driven waveform backend
// instead of the default two-timer ISR generator, trading the ISR
// model's software jitter for PIO's autonomous hardware timing on the
// main track's continuous, high-repeat packet stream. Build with -tags
// pio to select this path.
func configureOps(engine *track.Engine, log *dcclog.Logger) error {
	backend := pio.NewWaveformBackend(opsPIONum, opsSMNum, opsDirPin)
	gen := pio.NewGenerator("OPS", backend, log)
	if err := gen.Configure(poolSize); err != nil {
		return err
	}
	return engine.ConfigureWithBackend(track.Ops, gen)
}
