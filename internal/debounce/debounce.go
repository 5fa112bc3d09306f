// Package debounce coalesces bursts of calls into one trailing call.
package debounce

import (
	"sync"
	"time"
)

// DefaultWait is the quiet period used when none is given
const DefaultWait = 300 * time.Millisecond

// Debouncer owns at most one pending call. Scheduling a new call replaces
// the pending one, so only the last call of a burst runs, DefaultWait (or
// the configured wait) after it was scheduled.
type Debouncer struct {
	wait time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
}

// New creates a Debouncer. A non-positive wait uses DefaultWait.
func New(wait time.Duration) *Debouncer {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Debouncer{wait: wait}
}

// Wait returns the quiet period
func (d *Debouncer) Wait() time.Duration {
	return d.wait
}

// Schedule cancels any pending call and arms fn to run after the quiet period
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation

	d.timer = time.AfterFunc(d.wait, func() {
		d.mu.Lock()
		// A newer Schedule or Cancel won the race with this timer
		if gen != d.generation {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		fn()
	})
}

// Cancel drops the pending call. It reports whether a call was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.generation++
	return true
}

// Pending reports whether a call is waiting to run
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
