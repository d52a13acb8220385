// Package render pushes the selection state to the peripherals: the LED
// matrix, the character display and the LED outputs.
package render

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/pattern-gallery/internal/display"
	"github.com/sweeney/pattern-gallery/internal/gpio"
	"github.com/sweeney/pattern-gallery/internal/logic"
	"github.com/sweeney/pattern-gallery/internal/matrix"
)

// Stats counts render activity.
type Stats struct {
	Renders       uint64
	MatrixErrors  uint64
	DisplayErrors uint64
	OutputErrors  uint64
}

// Errors returns the total number of peripheral failures.
func (s Stats) Errors() uint64 {
	return s.MatrixErrors + s.DisplayErrors + s.OutputErrors
}

// Dispatcher draws snapshots. Render calls are serialised, so each
// clear/draw/flush sequence on the display is never interleaved with another.
//
// Peripheral failures are logged and counted, never returned: the matrix and
// outputs are retried on the next render, and the display keeps its stale
// content until then.
type Dispatcher struct {
	mu        sync.Mutex
	matrix    matrix.Matrix
	display   display.Display
	outputs   gpio.Outputs
	intensity float32
	stats     Stats
}

// NewDispatcher creates a Dispatcher. outputs may be nil when no LED lines
// are wired.
func NewDispatcher(m matrix.Matrix, d display.Display, outputs gpio.Outputs, intensity float32) *Dispatcher {
	return &Dispatcher{
		matrix:    m,
		display:   d,
		outputs:   outputs,
		intensity: intensity,
	}
}

// Render shows snap on every peripheral.
func (d *Dispatcher) Render(snap logic.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.Renders++

	if err := d.matrix.DrawPattern(snap.Index, d.intensity, d.intensity, d.intensity); err != nil {
		d.stats.MatrixErrors++
		log.Warnf("render: matrix: %v", err)
	}

	if d.outputs != nil {
		if err := d.setOutputs(snap); err != nil {
			d.stats.OutputErrors++
			log.Warnf("render: outputs: %v", err)
		}
	}

	if err := d.drawLabel(Label(snap)); err != nil {
		d.stats.DisplayErrors++
		log.Warnf("render: display: %v", err)
	}
}

func (d *Dispatcher) setOutputs(snap logic.Snapshot) error {
	if err := d.outputs.Set(gpio.OutputGreen, snap.Green); err != nil {
		return err
	}
	return d.outputs.Set(gpio.OutputBlue, snap.Blue)
}

func (d *Dispatcher) drawLabel(lines []string) error {
	if err := d.display.Clear(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	for i, line := range lines {
		if err := d.display.DrawText(line, 0, (i+1)*display.LineHeight); err != nil {
			return fmt.Errorf("draw %q: %w", line, err)
		}
	}
	if err := d.display.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Stats returns a copy of the counters.
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Label returns the display text for snap.
func Label(snap logic.Snapshot) []string {
	switch snap.Mode {
	case logic.ModeToggle:
		return []string{
			"Green: " + string(snap.GreenState()),
			"Blue: " + string(snap.BlueState()),
			fmt.Sprintf("Pattern %d", snap.Index),
		}
	default:
		return []string{
			fmt.Sprintf("Pattern %d", snap.Index),
		}
	}
}
