// Package gpio provides push-button edge sources and LED outputs with hardware
// abstraction.
// The real implementation uses the Linux GPIO character device, which delivers
// edge events on its own goroutine; that goroutine is the interrupt context.
// The fake implementation allows testing without hardware.
package gpio

import (
	"fmt"

	"github.com/sweeney/pattern-gallery/internal/logic"
)

// EdgeHandler receives falling edges from the buttons. It is called from the
// edge-delivery goroutine and must return quickly without blocking.
type EdgeHandler func(logic.Edge)

// Buttons is a source of falling edges from the two push-buttons.
type Buttons interface {
	// Watch starts delivering edges to h.
	Watch(h EdgeHandler) error

	// Close stops edge delivery and releases GPIO resources.
	Close() error
}

// Output identifies a digital LED output.
type Output uint8

const (
	OutputRed Output = iota
	OutputGreen
	OutputBlue
)

func (o Output) String() string {
	switch o {
	case OutputRed:
		return "red"
	case OutputGreen:
		return "green"
	case OutputBlue:
		return "blue"
	}
	return fmt.Sprintf("output(%d)", uint8(o))
}

// Outputs drives the simple on/off LEDs.
type Outputs interface {
	// Set drives out high when on is true.
	Set(out Output, on bool) error

	// Close releases GPIO resources.
	Close() error
}

// DefaultChip is the GPIO character device used when none is configured.
const DefaultChip = "gpiochip0"

// Default pin offsets on DefaultChip.
const (
	DefaultPinButton1 = 5
	DefaultPinButton2 = 6
	DefaultPinGreen   = 11
	DefaultPinBlue    = 12
	DefaultPinRed     = 13
)

// Pins holds the line offsets used by the daemon.
type Pins struct {
	Button1 int
	Button2 int
	Red     int
	Green   int
	Blue    int
}

// DefaultPins returns the default wiring.
func DefaultPins() Pins {
	return Pins{
		Button1: DefaultPinButton1,
		Button2: DefaultPinButton2,
		Red:     DefaultPinRed,
		Green:   DefaultPinGreen,
		Blue:    DefaultPinBlue,
	}
}
