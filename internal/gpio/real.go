//go:build linux

package gpio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/pattern-gallery/internal/clock"
	"github.com/sweeney/pattern-gallery/internal/logic"
)

// RealButtons watches two button lines on a GPIO chip for falling edges.
type RealButtons struct {
	chipName string
	pins     [2]int

	mu    sync.Mutex
	lines []*gpiocdev.Line
}

// NewRealButtons creates a button source for the given line offsets.
// No lines are requested until Watch is called.
func NewRealButtons(chipName string, pinButton1, pinButton2 int) *RealButtons {
	return &RealButtons{
		chipName: chipName,
		pins:     [2]int{pinButton1, pinButton2},
	}
}

// Watch requests both lines as pulled-up inputs with falling-edge detection.
// The kernel stamps each event with CLOCK_MONOTONIC, which is passed through
// as the edge time.
func (b *RealButtons) Watch(h EdgeHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lines != nil {
		return errors.New("gpio: buttons already watched")
	}

	chip, err := gpiocdev.NewChip(b.chipName)
	if err != nil {
		return fmt.Errorf("open gpio chip: %w", err)
	}
	// Requested lines stay valid after the chip handle is closed.
	defer chip.Close()

	for i, line := range logic.Lines {
		line := line
		l, err := chip.RequestLine(b.pins[i],
			gpiocdev.WithPullUp,
			gpiocdev.WithFallingEdge,
			gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
				h(logic.Edge{Line: line, Time: clock.FromDuration(evt.Timestamp)})
			}))
		if err != nil {
			b.closeLocked()
			return fmt.Errorf("request %s pin %d: %w", line, b.pins[i], err)
		}
		b.lines = append(b.lines, l)
	}
	return nil
}

// Close releases the button lines.
func (b *RealButtons) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeLocked()
}

func (b *RealButtons) closeLocked() error {
	var errs []error
	for _, l := range b.lines {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.lines = nil
	if len(errs) > 0 {
		return fmt.Errorf("close button lines: %v", errs)
	}
	return nil
}

// RealOutputs drives the red, green and blue LED lines.
type RealOutputs struct {
	lines [3]*gpiocdev.Line
}

// NewRealOutputs requests the three LED lines as outputs, initially low.
func NewRealOutputs(chipName string, pinRed, pinGreen, pinBlue int) (*RealOutputs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	defer chip.Close()

	o := &RealOutputs{}
	pins := [3]int{pinRed, pinGreen, pinBlue}
	for i, pin := range pins {
		l, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			o.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", Output(i), pin, err)
		}
		o.lines[i] = l
	}
	return o, nil
}

// Set drives out high when on is true.
func (o *RealOutputs) Set(out Output, on bool) error {
	if int(out) >= len(o.lines) || o.lines[out] == nil {
		return fmt.Errorf("gpio: unknown output %s", out)
	}
	v := 0
	if on {
		v = 1
	}
	if err := o.lines[out].SetValue(v); err != nil {
		return fmt.Errorf("set %s: %w", out, err)
	}
	return nil
}

// Close switches the LEDs off and releases the lines.
// Lines are reconfigured as inputs so the LEDs are left undriven.
func (o *RealOutputs) Close() error {
	var errs []error
	for i, l := range o.lines {
		if l == nil {
			continue
		}
		if err := l.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", Output(i), err))
		}
		if err := l.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s: %w", Output(i), err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", Output(i), err))
		}
		o.lines[i] = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
