// Package debounce delays committing a rapidly changing value until it has
// been stable for a fixed window.
package debounce

import (
	"sync"
	"time"
)

// Debouncer is a trailing-edge debouncer. Each Set restarts the window; the
// commit callback runs once with the last value after the window elapses
// without another Set.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	commit  func(T)
	timer   *time.Timer
	pending T
	armed   bool
	stopped bool
	gen     uint64
}

// New creates a debouncer that calls commit after delay of inactivity
func New[T any](delay time.Duration, commit func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, commit: commit}
}

// Set records v and restarts the window
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.pending = v
	d.armed = true
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire ignores timers superseded by a later Set; Stop on a running
// AfterFunc cannot recall a callback already scheduled.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || !d.armed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.armed = false
	d.timer = nil
	d.mu.Unlock()

	d.commit(v)
}

// Flush commits the pending value immediately, if any. It reports whether
// a value was committed.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.armed {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	v := d.pending
	d.armed = false
	d.gen++
	d.mu.Unlock()

	d.commit(v)
	return true
}

// Pending reports whether a value is waiting to be committed
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Stop cancels any pending commit. Later calls to Set are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.armed = false
	d.stopped = true
}
