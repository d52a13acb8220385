// Package clock provides the monotonic microsecond counter used for debounce
// window comparisons.
package clock

import (
	"sync/atomic"
	"time"
)

// Micros is a count of microseconds since boot.
type Micros uint64

// FromDuration converts a duration since boot, as reported by the kernel for
// GPIO line events, to Micros.
func FromDuration(d time.Duration) Micros {
	if d < 0 {
		return 0
	}
	return Micros(d / time.Microsecond)
}

// Duration returns m as a time.Duration.
func (m Micros) Duration() time.Duration {
	return time.Duration(m) * time.Microsecond
}

// Clock reads monotonic time.
type Clock interface {
	// Now returns microseconds since boot. Successive calls never decrease.
	Now() Micros
}

// Monotonic reads the system monotonic clock, which is the same time base the
// GPIO character device stamps line events with.
type Monotonic struct {
	last atomic.Uint64
}

// NewMonotonic creates a Monotonic clock.
func NewMonotonic() *Monotonic {
	return &Monotonic{}
}

// Now returns the current monotonic time in microseconds.
func (m *Monotonic) Now() Micros {
	return m.clamp(readMonotonic())
}

// clamp returns the larger of v and the last value handed out.
func (m *Monotonic) clamp(v Micros) Micros {
	for {
		last := m.last.Load()
		if uint64(v) <= last {
			return Micros(last)
		}
		if m.last.CompareAndSwap(last, uint64(v)) {
			return v
		}
	}
}

// Fake is a manually advanced clock for tests.
type Fake struct {
	now atomic.Uint64
}

// NewFake creates a Fake clock reading start.
func NewFake(start Micros) *Fake {
	f := &Fake{}
	f.now.Store(uint64(start))
	return f
}

// Now returns the current fake time.
func (f *Fake) Now() Micros {
	return Micros(f.now.Load())
}

// Advance moves the clock forward by d and returns the new time.
func (f *Fake) Advance(d time.Duration) Micros {
	return Micros(f.now.Add(uint64(FromDuration(d))))
}
