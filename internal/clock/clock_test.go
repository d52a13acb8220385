package clock

import (
	"testing"
	"time"
)

func TestFromDuration(t *testing.T) {
	if got := FromDuration(200 * time.Millisecond); got != 200000 {
		t.Errorf("FromDuration(200ms): got %d, want 200000", got)
	}
	if got := FromDuration(-time.Second); got != 0 {
		t.Errorf("FromDuration(-1s): got %d, want 0", got)
	}
	if got := Micros(1500).Duration(); got != 1500*time.Microsecond {
		t.Errorf("Duration: got %v, want 1.5ms", got)
	}
}

func TestMonotonicNeverDecreases(t *testing.T) {
	m := NewMonotonic()
	prev := m.Now()
	for i := 0; i < 1000; i++ {
		now := m.Now()
		if now < prev {
			t.Fatalf("iteration %d: clock went backwards: %d < %d", i, now, prev)
		}
		prev = now
	}
}

func TestMonotonicClamp(t *testing.T) {
	m := NewMonotonic()
	if got := m.clamp(500); got != 500 {
		t.Errorf("first clamp: got %d, want 500", got)
	}
	if got := m.clamp(300); got != 500 {
		t.Errorf("stale reading: got %d, want 500", got)
	}
	if got := m.clamp(700); got != 700 {
		t.Errorf("later reading: got %d, want 700", got)
	}
}

func TestFakeAdvance(t *testing.T) {
	f := NewFake(1000)
	if f.Now() != 1000 {
		t.Errorf("initial: got %d, want 1000", f.Now())
	}
	if got := f.Advance(250 * time.Millisecond); got != 251000 {
		t.Errorf("Advance: got %d, want 251000", got)
	}
	if f.Now() != 251000 {
		t.Errorf("Now after Advance: got %d, want 251000", f.Now())
	}
}
