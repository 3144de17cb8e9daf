//go:build tinygo

package irq

import "runtime/interrupt"

type state = interrupt.State

// Disable masks interrupts and returns the previous state so the caller
// can briefly touch data an ISR also writes without a torn read/write.
func Disable() State {
	return interrupt.Disable()
}

// Restore re-enables interrupts to the state captured by Disable.
func Restore(s State) {
	interrupt.Restore(s)
}
