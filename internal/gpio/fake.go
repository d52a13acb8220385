package gpio

import (
	"errors"
	"sync"

	"github.com/sweeney/pattern-gallery/internal/clock"
	"github.com/sweeney/pattern-gallery/internal/logic"
)

// FakeButtons is a test double that delivers edges on demand.
type FakeButtons struct {
	mu      sync.Mutex
	handler EdgeHandler

	// WatchError, if set, will be returned by Watch.
	WatchError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeButtons creates a FakeButtons with no handler.
func NewFakeButtons() *FakeButtons {
	return &FakeButtons{}
}

// Watch records the handler.
func (f *FakeButtons) Watch(h EdgeHandler) error {
	if f.WatchError != nil {
		return f.WatchError
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handler != nil {
		return errors.New("gpio: buttons already watched")
	}
	f.handler = h
	return nil
}

// Press delivers a falling edge on line stamped t, synchronously, as the edge
// goroutine would. It returns false if nothing is watching.
func (f *FakeButtons) Press(line logic.Line, t clock.Micros) bool {
	f.mu.Lock()
	h := f.handler
	closed := f.Closed
	f.mu.Unlock()
	if h == nil || closed {
		return false
	}
	h(logic.Edge{Line: line, Time: t})
	return true
}

// Close stops delivery.
func (f *FakeButtons) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// FakeOutputs records output levels.
type FakeOutputs struct {
	mu     sync.Mutex
	levels map[Output]bool
	writes int

	// SetError, if set, will be returned by Set.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutputs creates a FakeOutputs with every output low.
func NewFakeOutputs() *FakeOutputs {
	return &FakeOutputs{levels: make(map[Output]bool)}
}

// Set records the level.
func (f *FakeOutputs) Set(out Output, on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.mu.Lock()
	f.levels[out] = on
	f.writes++
	f.mu.Unlock()
	return nil
}

// Level returns the last level written to out.
func (f *FakeOutputs) Level(out Output) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.levels[out]
}

// Writes returns the number of successful Set calls.
func (f *FakeOutputs) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// Close marks the outputs as closed.
func (f *FakeOutputs) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
