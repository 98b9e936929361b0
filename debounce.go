package settle

import (
	"time"

	"github.com/zoobzio/clockz"
)

// DefaultDelay is the default quiet period before a window's predicate runs.
const DefaultDelay = 500 * time.Millisecond

// debouncer is a single-timer trailing-edge debounce.
//
// Each arm cancels the previous timer, so at most one timer is pending at any
// time. A firing is delivered to the callback with the ticket it was armed
// under; the owner must claim the ticket before acting on it, which discards
// firings that raced with a later arm or a cancel.
//
// debouncer is not safe for concurrent use; the owning Validator guards it.
type debouncer struct {
	clock clockz.Clock
	delay time.Duration

	ticket  uint64
	pending bool
	timer   clockz.Timer
	stop    chan struct{}
}

func newDebouncer(clock clockz.Clock, delay time.Duration) *debouncer {
	if delay < 0 {
		delay = 0
	}
	return &debouncer{clock: clock, delay: delay}
}

// arm schedules fire after the delay, replacing any pending firing.
// A zero delay still defers fire to another goroutine.
func (d *debouncer) arm(fire func(ticket uint64)) uint64 {
	d.cancel()

	d.ticket++
	ticket := d.ticket
	stop := make(chan struct{})
	d.stop = stop
	d.pending = true

	if d.delay == 0 {
		go func() {
			select {
			case <-stop:
			default:
				fire(ticket)
			}
		}()
		return ticket
	}

	timer := d.clock.NewTimer(d.delay)
	d.timer = timer
	go func() {
		select {
		case <-timer.C():
			fire(ticket)
		case <-stop:
		}
	}()
	return ticket
}

// cancel clears the pending firing, if any. It reports whether one was pending.
func (d *debouncer) cancel() bool {
	if !d.pending {
		return false
	}
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	close(d.stop)
	d.stop = nil
	return true
}

// claim accepts a firing if ticket belongs to the current pending arm.
func (d *debouncer) claim(ticket uint64) bool {
	if !d.pending || ticket != d.ticket {
		return false
	}
	d.pending = false
	d.timer = nil
	d.stop = nil
	return true
}

// armed reports whether a firing is pending.
func (d *debouncer) armed() bool {
	return d.pending
}
