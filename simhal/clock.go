// Package simhal provides a deterministic, host-mode implementation of
// the hal interfaces: a logical clock driving simulated timers, plus
// simulated GPIO, ADC and motor board drivers. It lets the generator,
// programmer and transmitter packages be exercised bit-for-bit in plain
// go test, without any real hardware or wall-clock sleeps.
package simhal

// event is a single scheduled callback, sorted into Clock's list by
// WakeTime. Mirrors the reference firmware's sorted-timer-list
// scheduler, but keyed off a per-Clock logical microsecond counter
// instead of a free-running hardware counter.
type event struct {
	wakeTime uint64
	handler  func()
	next     *event
}

// Clock is a logical microsecond clock that simulated timers schedule
// callbacks against. Advance runs every callback whose wake time has
// been reached, in wake-time order; a handler that reschedules itself
// (by calling AlarmWrite again) is inserted back into the list and may
// fire again within the same Advance if its new wake time still falls
// within the advanced window.
type Clock struct {
	now  uint64
	list *event
}

// NewClock returns a Clock starting at logical time 0.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current logical time in microseconds.
func (c *Clock) Now() uint64 {
	return c.now
}

func (c *Clock) schedule(wakeTime uint64, handler func()) *event {
	e := &event{wakeTime: wakeTime, handler: handler}
	c.insert(e)
	return e
}

func (c *Clock) insert(e *event) {
	if c.list == nil || e.wakeTime < c.list.wakeTime {
		e.next = c.list
		c.list = e
		return
	}
	cur := c.list
	for cur.next != nil && cur.next.wakeTime <= e.wakeTime {
		cur = cur.next
	}
	e.next = cur.next
	cur.next = e
}

func (c *Clock) cancel(e *event) {
	if c.list == e {
		c.list = e.next
		e.next = nil
		return
	}
	for cur := c.list; cur != nil; cur = cur.next {
		if cur.next == e {
			cur.next = e.next
			e.next = nil
			return
		}
	}
}

// Advance moves the clock forward by deltaUS microseconds, running every
// event whose wake time is reached along the way, in order. Handlers run
// synchronously on the calling goroutine, matching how a real ISR
// preempts the foreground thread it interrupts.
func (c *Clock) Advance(deltaUS uint64) {
	target := c.now + deltaUS
	for c.list != nil && c.list.wakeTime <= target {
		e := c.list
		c.list = e.next
		e.next = nil
		c.now = e.wakeTime
		e.handler()
	}
	c.now = target
}
