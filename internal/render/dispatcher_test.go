package render

import (
	"errors"
	"testing"

	"github.com/sweeney/pattern-gallery/internal/display"
	"github.com/sweeney/pattern-gallery/internal/gpio"
	"github.com/sweeney/pattern-gallery/internal/logic"
	"github.com/sweeney/pattern-gallery/internal/matrix"
)

func newDispatcher() (*Dispatcher, *matrix.FakeMatrix, *display.FakeDisplay, *gpio.FakeOutputs) {
	m := matrix.NewFakeMatrix()
	d := display.NewFakeDisplay()
	o := gpio.NewFakeOutputs()
	return NewDispatcher(m, d, o, matrix.DefaultIntensity), m, d, o
}

func TestRenderCounterMode(t *testing.T) {
	disp, m, d, _ := newDispatcher()
	disp.Render(logic.Snapshot{Mode: logic.ModeCounter, Index: 4})

	draws := m.Draws()
	if len(draws) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(draws))
	}
	if draws[0].Index != 4 {
		t.Errorf("pattern: got %d, want 4", draws[0].Index)
	}
	if draws[0].R != matrix.DefaultIntensity || draws[0].G != matrix.DefaultIntensity || draws[0].B != matrix.DefaultIntensity {
		t.Errorf("intensity: got %v/%v/%v", draws[0].R, draws[0].G, draws[0].B)
	}

	ops := d.Ops()
	want := []string{"clear", `text "Pattern 4" @0,12`, "flush"}
	if len(ops) != len(want) {
		t.Fatalf("ops: got %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d: got %q, want %q", i, ops[i], want[i])
		}
	}

	if s := disp.Stats(); s.Renders != 1 || s.Errors() != 0 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestRenderToggleModeDrivesOutputs(t *testing.T) {
	disp, _, d, o := newDispatcher()
	disp.Render(logic.Snapshot{Mode: logic.ModeToggle, Green: true})

	if !o.Level(gpio.OutputGreen) {
		t.Error("green output should be on")
	}
	if o.Level(gpio.OutputBlue) {
		t.Error("blue output should be off")
	}

	frames := d.Frames()
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0][0] != "Green: ON" || frames[0][1] != "Blue: OFF" {
		t.Errorf("unexpected label: %v", frames[0])
	}
}

func TestRenderMatrixErrorIsNonFatal(t *testing.T) {
	disp, m, d, _ := newDispatcher()
	m.DrawError = errors.New("bus busy")

	disp.Render(logic.Snapshot{Mode: logic.ModeCounter, Index: 2})

	if len(d.Frames()) != 1 {
		t.Error("display should still be drawn after a matrix error")
	}
	s := disp.Stats()
	if s.Renders != 1 || s.MatrixErrors != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}

	// Next render retries the matrix.
	m.DrawError = nil
	disp.Render(logic.Snapshot{Mode: logic.ModeCounter, Index: 3})
	if len(m.Draws()) != 1 || m.Draws()[0].Index != 3 {
		t.Errorf("retry draw: %+v", m.Draws())
	}
}

func TestRenderDisplayErrorAbortsSequence(t *testing.T) {
	disp, m, d, _ := newDispatcher()
	d.ClearError = errors.New("nack")

	disp.Render(logic.Snapshot{Mode: logic.ModeCounter, Index: 1})

	if len(d.Ops()) != 1 {
		t.Errorf("expected only the failed clear, got %v", d.Ops())
	}
	if len(m.Draws()) != 1 {
		t.Error("matrix should still be drawn")
	}
	if disp.Stats().DisplayErrors != 1 {
		t.Errorf("unexpected stats: %+v", disp.Stats())
	}
}

func TestRenderOutputErrorCounted(t *testing.T) {
	disp, _, _, o := newDispatcher()
	o.SetError = errors.New("line busy")

	disp.Render(logic.Snapshot{Mode: logic.ModeToggle, Blue: true})
	if disp.Stats().OutputErrors != 1 {
		t.Errorf("unexpected stats: %+v", disp.Stats())
	}
}

func TestRenderWithoutOutputs(t *testing.T) {
	m := matrix.NewFakeMatrix()
	d := display.NewFakeDisplay()
	disp := NewDispatcher(m, d, nil, 1)

	disp.Render(logic.Snapshot{Mode: logic.ModeToggle, Green: true})
	if disp.Stats().Errors() != 0 {
		t.Errorf("unexpected errors: %+v", disp.Stats())
	}
}

func TestLabel(t *testing.T) {
	got := Label(logic.Snapshot{Mode: logic.ModeCounter, Index: 9})
	if len(got) != 1 || got[0] != "Pattern 9" {
		t.Errorf("counter label: %v", got)
	}
	got = Label(logic.Snapshot{Mode: logic.ModeToggle, Blue: true, Index: 2})
	if len(got) != 3 || got[1] != "Blue: ON" || got[2] != "Pattern 2" {
		t.Errorf("toggle label: %v", got)
	}
}

func TestRenderDrawsLabelPixels(t *testing.T) {
	disp, _, d, _ := newDispatcher()
	disp.Render(logic.Snapshot{Mode: logic.ModeToggle, Green: true, Index: 2})

	c := d.Canvas()
	lit := 0
	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			if c.Lit(x, y) {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("expected label pixels on the canvas")
	}
	// Three label lines end well above the bottom row.
	for x := 0; x < display.Width; x++ {
		if c.Lit(x, display.Height-1) {
			t.Errorf("pixel lit on the bottom row at x=%d", x)
		}
	}
}
