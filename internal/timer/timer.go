// internal/timer/timer.go
//
// Wall-clock solve timer, owned by the host rather than the engine.
// The timer keeps a banked duration plus the start of the open window (if
// any). Pause closes the window into the bank; Resume opens a new one. Hosts
// pause on blur and resume on focus, so time spent away is not counted and
// banked time survives however long tick delivery stops.
package timer

import (
	"sync"
	"time"
)

// Timer is safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	now    func() time.Time
	banked time.Duration
	start  time.Time // zero while paused
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

// WithBanked seeds the timer with previously recorded time.
func WithBanked(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.banked = d
		}
	}
}

// New returns a paused timer.
func New(opts ...Option) *Timer {
	t := &Timer{now: time.Now}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Resume opens a new window. No-op if already running.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.start.IsZero() {
		t.start = t.now()
	}
}

// Pause banks the open window. No-op if already paused.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.start.IsZero() {
		return
	}
	if d := t.now().Sub(t.start); d > 0 {
		t.banked += d
	}
	t.start = time.Time{}
}

// Elapsed is the banked time plus the open window.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := t.banked
	if !t.start.IsZero() {
		if d := t.now().Sub(t.start); d > 0 {
			total += d
		}
	}
	return total
}

// Paused reports whether no window is open.
func (t *Timer) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.start.IsZero()
}
