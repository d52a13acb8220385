// Package matrix drives the 5x5 addressable LED matrix that shows the pattern
// gallery.
package matrix

import (
	"errors"
	"fmt"
)

// Matrix geometry.
const (
	Width     = 5
	Height    = 5
	NumPixels = Width * Height
)

// DefaultIntensity is the per-channel brightness scale. The LEDs are very
// bright at full drive.
const DefaultIntensity = 0.007

// ErrPatternIndex is returned for a pattern index outside the gallery.
var ErrPatternIndex = errors.New("matrix: pattern index out of range")

// Matrix is the LED-matrix collaborator.
type Matrix interface {
	// DrawPattern shows gallery pattern index with each channel scaled by
	// the given intensity in [0, 1].
	DrawPattern(index int, r, g, b float32) error

	// Close blanks the matrix and releases the bus.
	Close() error
}

// Frame returns the strip-ordered RGB bytes for gallery pattern index, with
// each channel scaled by its intensity.
func Frame(index int, r, g, b float32) ([]byte, error) {
	if index < 0 || index >= len(Gallery) {
		return nil, fmt.Errorf("pattern %d: %w", index, ErrPatternIndex)
	}
	p := &Gallery[index]
	frame := make([]byte, NumPixels*3)
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			px := p[row][col]
			off := stripIndex(row, col) * 3
			frame[off] = scale(px[0], r)
			frame[off+1] = scale(px[1], g)
			frame[off+2] = scale(px[2], b)
		}
	}
	return frame, nil
}

// stripIndex maps a logical (row, col) to the position on the serpentine
// strip. The strip starts at the bottom-right corner and snakes upwards.
func stripIndex(row, col int) int {
	if row%2 == 0 {
		return NumPixels - 1 - (row*Width + col)
	}
	return NumPixels - 1 - (row*Width + (Width - 1 - col))
}

// scale truncates v*k, with k clamped to [0, 1].
func scale(v uint8, k float32) byte {
	if k <= 0 {
		return 0
	}
	if k >= 1 {
		return v
	}
	return byte(float32(v) * k)
}
