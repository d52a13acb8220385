package display

import (
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// SimDisplay stands in for the OLED when no hardware is attached. It draws
// into an in-memory canvas and logs each flushed label.
type SimDisplay struct {
	mu      sync.Mutex
	canvas  *Canvas
	pending []string
	shown   []string
}

// NewSimDisplay creates a blank SimDisplay.
func NewSimDisplay() *SimDisplay {
	return &SimDisplay{canvas: NewCanvas(Width, Height)}
}

// Clear blanks the canvas.
func (s *SimDisplay) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas.Clear()
	s.pending = s.pending[:0]
	return nil
}

// DrawText draws text onto the canvas.
func (s *SimDisplay) DrawText(text string, x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas.DrawText(text, x, y)
	s.pending = append(s.pending, text)
	return nil
}

// Flush makes the drawn text current and logs it.
func (s *SimDisplay) Flush() error {
	s.mu.Lock()
	s.shown = append(s.shown[:0], s.pending...)
	label := strings.Join(s.shown, " | ")
	s.mu.Unlock()
	log.Infof("display: %s", label)
	return nil
}

// Close is a no-op.
func (s *SimDisplay) Close() error {
	return nil
}
