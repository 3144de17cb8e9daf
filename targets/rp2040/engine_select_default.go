//go:build rp2040 && !pio

package main

import (
	"dccbase/dcclog"
	"dccbase/hal"
	"dccbase/track"
)

// configureOps brings up the OPS track on the default two-timer ISR
// generator. Build with -tags pio to drive OPS from a PIO state machine
// instead (engine_select_pio.go).
func configureOps(engine *track.Engine, log *dcclog.Logger) error {
	return engine.Configure(track.Ops, "OPS", hal.Pin(opsDirPin), poolSize)
}
