package matrix

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// SimMatrix stands in for the LED matrix when no hardware is attached. It
// validates and encodes each frame, logs the pattern and keeps only the last
// one shown.
type SimMatrix struct {
	mu     sync.Mutex
	index  int
	frames uint64
}

// NewSimMatrix creates a SimMatrix showing nothing.
func NewSimMatrix() *SimMatrix {
	return &SimMatrix{index: -1}
}

// DrawPattern encodes the frame and logs the pattern.
func (s *SimMatrix) DrawPattern(index int, r, g, b float32) error {
	if _, err := Frame(index, r, g, b); err != nil {
		return err
	}
	s.mu.Lock()
	s.index = index
	s.frames++
	s.mu.Unlock()
	log.Debugf("matrix: pattern %d\n%s", index, ASCII(index))
	return nil
}

// Close is a no-op.
func (s *SimMatrix) Close() error {
	return nil
}
