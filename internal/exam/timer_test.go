package exam

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestTimer_RunsToExpiry(t *testing.T) {
	var fired atomic.Int32

	timer := NewTimer(5, WithTickInterval(time.Millisecond))
	timer.OnExpire(func() { fired.Add(1) })
	timer.Start()

	waitFor(t, time.Second, func() bool { return fired.Load() > 0 })

	// Give any stray ticks a chance to double-fire.
	time.Sleep(20 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("expiry fired %d times, want exactly 1", got)
	}
	if got := timer.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d after expiry, want 0", got)
	}
	if timer.Running() {
		t.Error("timer still running after expiry")
	}
}

func TestTimer_StartAtZeroExpiresImmediately(t *testing.T) {
	var fired atomic.Int32

	timer := NewTimer(0)
	timer.OnExpire(func() { fired.Add(1) })

	timer.Start()
	timer.Start() // second start must not re-fire

	if got := fired.Load(); got != 1 {
		t.Errorf("expiry fired %d times, want exactly 1", got)
	}
	if got := timer.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d, want 0", got)
	}
}

func TestTimer_PauseKeepsValue(t *testing.T) {
	timer := NewTimer(100, WithTickInterval(time.Millisecond))
	timer.Start()

	waitFor(t, time.Second, func() bool { return timer.Remaining() < 100 })
	timer.Pause()

	value := timer.Remaining()
	if value <= 0 || value >= 100 {
		t.Fatalf("Remaining() = %d after pause, want within (0, 100)", value)
	}
	time.Sleep(20 * time.Millisecond)
	if got := timer.Remaining(); got != value {
		t.Errorf("Remaining() = %d while paused, want unchanged %d", got, value)
	}
	if timer.Running() {
		t.Error("timer reports running while paused")
	}
}

func TestTimer_ResetRestoresInitial(t *testing.T) {
	timer := NewTimer(30, WithTickInterval(time.Millisecond))
	timer.Start()
	waitFor(t, time.Second, func() bool { return timer.Remaining() < 30 })

	timer.Reset()
	if got := timer.Remaining(); got != 30 {
		t.Errorf("Remaining() = %d after reset, want 30", got)
	}
	if timer.Running() {
		t.Error("timer running after reset")
	}
}

func TestTimer_ResetRearmsExpiry(t *testing.T) {
	var fired atomic.Int32

	timer := NewTimer(1, WithTickInterval(time.Millisecond))
	timer.OnExpire(func() { fired.Add(1) })
	timer.Start()
	waitFor(t, time.Second, func() bool { return fired.Load() == 1 })

	timer.ResetTo(1)
	timer.Start()
	waitFor(t, time.Second, func() bool { return fired.Load() == 2 })
}

func TestTimer_StopForcesZeroAndExpires(t *testing.T) {
	var fired atomic.Int32

	timer := NewTimer(500)
	timer.OnExpire(func() { fired.Add(1) })
	timer.Start()

	timer.Stop()
	timer.Stop() // idempotent

	if got := fired.Load(); got != 1 {
		t.Errorf("expiry fired %d times, want exactly 1", got)
	}
	if got := timer.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d after stop, want 0", got)
	}
}

func TestTimer_NeverNegative(t *testing.T) {
	timer := NewTimer(-5)
	if got := timer.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d for negative initial value, want 0", got)
	}
}
