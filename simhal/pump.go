package simhal

import "time"

// Pump advances clock by step every wall-clock interval until stop is
// closed. Foreground test code that blocks on real time (the
// programmer's ADC sampling sleeps, the generator's queue-empty
// polling) needs something moving the simulated hardware clock forward
// concurrently, the way a real timer peripheral advances independently
// of the CPU it interrupts; Pump plays that role in host-mode tests.
func (c *Clock) Pump(interval time.Duration, step uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.Advance(step)
		}
	}
}
