// Package display drives the monochrome character display that labels the
// current pattern.
package display

// Panel size in pixels.
const (
	Width  = 128
	Height = 64
)

// LineHeight is the vertical pitch between text lines.
const LineHeight = 12

// Display is the character-display collaborator. Clear and DrawText only
// touch the off-screen buffer; Flush pushes it to the panel.
type Display interface {
	Clear() error
	// DrawText draws text with its baseline at y.
	DrawText(text string, x, y int) error
	Flush() error
	Close() error
}
