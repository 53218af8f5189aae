package exam

import (
	"sync"
	"time"
)

// Timer is a countdown clock holding a remaining-seconds value and a
// running flag. The decrement is driven by a single periodic tick, so
// rapid pause/resume cannot skip seconds. Reaching zero auto-stops the
// timer and fires the expiry callback exactly once.
type Timer struct {
	mu        sync.Mutex
	initial   int
	remaining int
	running   bool
	expired   bool
	gen       int // invalidates tick loops started before a pause/reset
	interval  time.Duration
	onExpire  func()
}

type TimerOption func(*Timer)

// WithTickInterval overrides the 1-second tick. Only tests should need
// this.
func WithTickInterval(d time.Duration) TimerOption {
	return func(t *Timer) {
		t.interval = d
	}
}

func NewTimer(seconds int, opts ...TimerOption) *Timer {
	if seconds < 0 {
		seconds = 0
	}
	t := &Timer{
		initial:   seconds,
		remaining: seconds,
		interval:  time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// OnExpire registers the callback fired when the timer reaches zero.
// Must be set before Start.
func (t *Timer) OnExpire(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onExpire = fn
}

// Start begins decrementing the remaining value once per tick. Calling
// Start while already running is a no-op. Starting an already-expired
// timer fires expiry immediately.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	if t.remaining <= 0 {
		t.mu.Unlock()
		t.fireExpiry()
		return
	}
	t.running = true
	gen := t.gen
	t.mu.Unlock()

	go t.tick(gen)
}

func (t *Timer) tick(gen int) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for range ticker.C {
		t.mu.Lock()
		if !t.running || t.gen != gen {
			t.mu.Unlock()
			return
		}
		t.remaining--
		if t.remaining > 0 {
			t.mu.Unlock()
			continue
		}
		t.remaining = 0
		t.running = false
		t.gen++
		t.mu.Unlock()

		t.fireExpiry()
		return
	}
}

// Pause stops decrementing without resetting the value.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.gen++
}

// Reset stops the timer and restores the original initial value. The
// expiry latch is re-armed: a reset timer may expire again.
func (t *Timer) Reset() {
	t.ResetTo(t.initial)
}

// ResetTo stops the timer and sets the remaining value to seconds.
func (t *Timer) ResetTo(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seconds < 0 {
		seconds = 0
	}
	t.running = false
	t.expired = false
	t.gen++
	t.remaining = seconds
}

// Stop halts the timer and forces the remaining value to zero,
// triggering expiry semantics.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.running = false
	t.gen++
	t.remaining = 0
	t.mu.Unlock()

	t.fireExpiry()
}

func (t *Timer) fireExpiry() {
	t.mu.Lock()
	if t.expired {
		t.mu.Unlock()
		return
	}
	t.expired = true
	fn := t.onExpire
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Remaining returns the current remaining seconds. Never negative.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Running reports whether the timer is currently counting down.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
