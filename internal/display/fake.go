package display

import (
	"fmt"
	"sync"
)

// FakeDisplay records display operations for test assertions. It draws into
// a real Canvas so tests can also inspect pixels.
type FakeDisplay struct {
	mu      sync.Mutex
	ops     []string
	frames  [][]string
	pending []string
	canvas  *Canvas

	// ClearError, DrawError and FlushError, if set, are returned by the
	// corresponding call.
	ClearError error
	DrawError  error
	FlushError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDisplay creates a FakeDisplay.
func NewFakeDisplay() *FakeDisplay {
	return &FakeDisplay{canvas: NewCanvas(Width, Height)}
}

// Clear records a clear.
func (f *FakeDisplay) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "clear")
	if f.ClearError != nil {
		return f.ClearError
	}
	f.pending = nil
	f.canvas.Clear()
	return nil
}

// DrawText records the text.
func (f *FakeDisplay) DrawText(text string, x, y int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, fmt.Sprintf("text %q @%d,%d", text, x, y))
	if f.DrawError != nil {
		return f.DrawError
	}
	f.pending = append(f.pending, text)
	f.canvas.DrawText(text, x, y)
	return nil
}

// Flush records the pending texts as one frame.
func (f *FakeDisplay) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "flush")
	if f.FlushError != nil {
		return f.FlushError
	}
	frame := make([]string, len(f.pending))
	copy(frame, f.pending)
	f.frames = append(f.frames, frame)
	return nil
}

// Ops returns every recorded operation in order.
func (f *FakeDisplay) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.ops))
	copy(out, f.ops)
	return out
}

// Frames returns the text lines of each flushed frame.
func (f *FakeDisplay) Frames() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.frames))
	copy(out, f.frames)
	return out
}

// Canvas returns the backing canvas.
func (f *FakeDisplay) Canvas() *Canvas {
	return f.canvas
}

// Close marks the display as closed.
func (f *FakeDisplay) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
