package matrix

import "sync"

// Draw records one DrawPattern call.
type Draw struct {
	Index   int
	R, G, B float32
	Frame   []byte
}

// FakeMatrix records drawn patterns for test assertions.
type FakeMatrix struct {
	mu    sync.Mutex
	draws []Draw

	// DrawError, if set, will be returned by DrawPattern after recording the
	// attempt in Attempts.
	DrawError error

	// Attempts counts DrawPattern calls, including failed ones.
	Attempts int

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeMatrix creates a FakeMatrix.
func NewFakeMatrix() *FakeMatrix {
	return &FakeMatrix{}
}

// DrawPattern records the pattern and its encoded frame.
func (f *FakeMatrix) DrawPattern(index int, r, g, b float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Attempts++
	if f.DrawError != nil {
		return f.DrawError
	}
	frame, err := Frame(index, r, g, b)
	if err != nil {
		return err
	}
	f.draws = append(f.draws, Draw{Index: index, R: r, G: g, B: b, Frame: frame})
	return nil
}

// Draws returns a copy of the successful draws.
func (f *FakeMatrix) Draws() []Draw {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Draw, len(f.draws))
	copy(out, f.draws)
	return out
}

// Close marks the matrix as closed.
func (f *FakeMatrix) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
