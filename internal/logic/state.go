package logic

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrIndexOutOfRange is returned by Set for an index outside [MinIndex, MaxIndex].
var ErrIndexOutOfRange = errors.New("selection index out of range")

// QueueDepth is the number of updates held for the foreground loop before
// further updates stop carrying their own snapshot.
const QueueDepth = 32

// Update is one accepted transition and the state it produced.
type Update struct {
	Action   Action
	Snapshot Snapshot
}

// SharedState owns the selection index and the toggle flags. It is written
// by the edge handler, which runs on GPIO event goroutines, and by the
// foreground loop. Every access goes through this API; fields are atomics and
// read-modify-write steps are compare-and-swap loops, so no caller ever blocks.
//
// Each accepted update is queued together with the state it produced. The
// foreground loop waits on Pending and then calls Drain to render the updates
// in the order they were applied.
type SharedState struct {
	mode     Mode
	index    atomic.Int32
	green    atomic.Bool
	blue     atomic.Bool
	queue    chan Update
	overflow atomic.Uint32
	last     atomic.Uint32
	wake     chan struct{}
}

// NewSharedState creates the state at index 0 with both flags off.
func NewSharedState(mode Mode) *SharedState {
	return &SharedState{
		mode:  mode,
		queue: make(chan Update, QueueDepth),
		wake:  make(chan struct{}, 1),
	}
}

// Mode returns the state machine shape.
func (s *SharedState) Mode() Mode {
	return s.mode
}

// ActionFor maps an accepted edge on line to the transition for this mode.
func (s *SharedState) ActionFor(line Line) Action {
	switch s.mode {
	case ModeToggle:
		switch line {
		case LineButton1:
			return ActionToggleGreen
		case LineButton2:
			return ActionToggleBlue
		}
	default:
		switch line {
		case LineButton1:
			return ActionIncrement
		case LineButton2:
			return ActionDecrement
		}
	}
	return ActionNone
}

// Apply performs a relative transition and queues it for rendering. A step
// that is clamped at a boundary still counts as an update, so the unchanged
// pattern is rendered again. Apply returns false for actions it does not
// handle (ActionNone, ActionSet).
func (s *SharedState) Apply(a Action) bool {
	switch a {
	case ActionIncrement, ActionDecrement:
		delta := int32(1)
		if a == ActionDecrement {
			delta = -1
		}
		idx := s.step(delta)
		snap := s.Snapshot()
		snap.Index = idx
		s.markPending(a, snap)
	case ActionToggleGreen:
		on := flip(&s.green)
		snap := s.Snapshot()
		snap.Green = on
		s.markPending(a, snap)
	case ActionToggleBlue:
		on := flip(&s.blue)
		snap := s.Snapshot()
		snap.Blue = on
		s.markPending(a, snap)
	default:
		return false
	}
	return true
}

// Set stores an absolute index and queues it for rendering.
func (s *SharedState) Set(index int) error {
	if index < MinIndex || index > MaxIndex {
		return fmt.Errorf("set %d: %w", index, ErrIndexOutOfRange)
	}
	s.index.Store(int32(index))
	snap := s.Snapshot()
	snap.Index = index
	s.markPending(ActionSet, snap)
	return nil
}

// step moves the index by delta, saturating at the bounds, and returns the
// index it stored.
func (s *SharedState) step(delta int32) int {
	for {
		old := s.index.Load()
		next := old + delta
		if next > MaxIndex {
			next = MaxIndex
		}
		if next < MinIndex {
			next = MinIndex
		}
		if next == old || s.index.CompareAndSwap(old, next) {
			return int(next)
		}
	}
}

// flip inverts b and returns the new value.
func flip(b *atomic.Bool) bool {
	for {
		old := b.Load()
		if b.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (s *SharedState) markPending(a Action, snap Snapshot) {
	s.last.Store(uint32(a))
	select {
	case s.queue <- Update{Action: a, Snapshot: snap}:
	default:
		s.overflow.Add(1)
	}
	select {
	case s.wake <- struct{}{}:
	default:
		// A wake-up is already queued.
	}
}

// Pending returns a channel that receives when updates are waiting.
func (s *SharedState) Pending() <-chan struct{} {
	return s.wake
}

// Drain returns the waiting updates, oldest first. Updates that arrived while
// the queue was full are returned at the end as copies of the current state,
// so the length always equals the number of accepted updates. An empty result
// means a wake-up raced with an earlier drain.
func (s *SharedState) Drain() []Update {
	var out []Update
drain:
	for {
		select {
		case u := <-s.queue:
			out = append(out, u)
		default:
			break drain
		}
	}
	if n := s.overflow.Swap(0); n > 0 {
		u := Update{Action: Action(s.last.Load()), Snapshot: s.Snapshot()}
		for i := uint32(0); i < n; i++ {
			out = append(out, u)
		}
	}
	return out
}

// Snapshot returns the current index and flags.
func (s *SharedState) Snapshot() Snapshot {
	return Snapshot{
		Mode:  s.mode,
		Index: int(s.index.Load()),
		Green: s.green.Load(),
		Blue:  s.blue.Load(),
	}
}
