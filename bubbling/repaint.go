package bubbling

import (
	"sync"
	"time"
)

// debouncer holds one cancellable timer slot. Every trigger cancels the
// pending callback and starts the delay again; there is no maximum wait.
type debouncer struct {
	mu    sync.Mutex
	clock Clock
	delay time.Duration
	timer Timer
	fn    func()
}

func newDebouncer(clock Clock, delay time.Duration, fn func()) *debouncer {
	if clock == nil {
		clock = realClock{}
	}
	return &debouncer{clock: clock, delay: delay, fn: fn}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	var t Timer
	t = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timer != t {
			// superseded by a later trigger
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.fn()
	})
	d.timer = t
}

// cancel drops a pending callback. It reports whether one was pending.
func (d *debouncer) cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

func (d *debouncer) setDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

func (d *debouncer) pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
