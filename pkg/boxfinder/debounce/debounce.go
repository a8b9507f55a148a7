// Package debounce delays propagation of a rapidly changing value until it
// has been stable for a quiet period.
package debounce

import (
	"sync"
	"time"

	"github.com/mikepea/boxfinder/pkg/boxfinder/clock"
)

// DefaultQuiet is the quiet period used by the search inputs
const DefaultQuiet = 300 * time.Millisecond

// Debouncer emits the latest value passed to Set once no newer value has
// arrived for the quiet period. Each Set supersedes the pending emission.
type Debouncer[T any] struct {
	clock clock.Clock
	quiet time.Duration
	emit  func(T)

	mu      sync.Mutex
	gen     uint64
	timer   clock.Timer
	stopped bool
}

// New creates a Debouncer calling emit with settled values
func New[T any](c clock.Clock, quiet time.Duration, emit func(T)) *Debouncer[T] {
	if c == nil {
		c = clock.Real()
	}
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer[T]{clock: c, quiet: quiet, emit: emit}
}

// Set records a new value and restarts the quiet period
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.quiet, func() {
		d.fire(gen, v)
	})
}

// Cancel drops the pending emission, if any. The Debouncer stays usable.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop drops the pending emission and disables the Debouncer for good
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// a timer that already fired but has not taken the lock yet sees a stale gen
	d.gen++
}

func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.emit(v)
}
