package internal

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/pattern-gallery/internal/clock"
	"github.com/sweeney/pattern-gallery/internal/display"
	"github.com/sweeney/pattern-gallery/internal/gpio"
	"github.com/sweeney/pattern-gallery/internal/logic"
	"github.com/sweeney/pattern-gallery/internal/matrix"
	"github.com/sweeney/pattern-gallery/internal/mqtt"
	"github.com/sweeney/pattern-gallery/internal/render"
)

type rig struct {
	buttons    *gpio.FakeButtons
	matrix     *matrix.FakeMatrix
	display    *display.FakeDisplay
	outputs    *gpio.FakeOutputs
	publisher  *mqtt.FakePublisher
	state      *logic.SharedState
	filter     *logic.EdgeFilter
	dispatcher *render.Dispatcher
}

func newRig(t *testing.T, mode logic.Mode) *rig {
	t.Helper()
	r := &rig{
		buttons:   gpio.NewFakeButtons(),
		matrix:    matrix.NewFakeMatrix(),
		display:   display.NewFakeDisplay(),
		outputs:   gpio.NewFakeOutputs(),
		publisher: mqtt.NewFakePublisher(),
		state:     logic.NewSharedState(mode),
		filter:    logic.NewEdgeFilter(logic.DefaultDebounce),
	}
	r.dispatcher = render.NewDispatcher(r.matrix, r.display, r.outputs, matrix.DefaultIntensity)
	handler := logic.NewInputHandler(r.filter, r.state)
	if err := r.buttons.Watch(func(e logic.Edge) { handler.HandleEdge(e) }); err != nil {
		t.Fatalf("watch: %v", err)
	}
	return r
}

// drain does what the foreground loop does after a wake-up.
func (r *rig) drain(t *testing.T, now time.Time) int {
	t.Helper()
	updates := r.state.Drain()
	if len(updates) == 0 {
		return 0
	}
	for _, u := range updates {
		r.dispatcher.Render(u.Snapshot)
	}
	final := updates[len(updates)-1]
	if err := r.publisher.Publish(logic.Event{Timestamp: now, Action: final.Action, Snapshot: final.Snapshot, Coalesced: len(updates)}); err != nil {
		t.Errorf("publish: %v", err)
	}
	return len(updates)
}

// TestIntegrationCounterFlow drives presses through the filter, the state and
// the dispatcher, with a render after every edge.
func TestIntegrationCounterFlow(t *testing.T) {
	r := newRig(t, logic.ModeCounter)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	presses := []struct {
		line logic.Line
		ms   int
	}{
		{logic.LineButton2, 1000}, // decrement at 0: clamped, still rendered
		{logic.LineButton1, 1500},
		{logic.LineButton1, 1550}, // bounce
		{logic.LineButton1, 1900},
		{logic.LineButton2, 1950}, // other line has its own window
		{logic.LineButton1, 2100}, // 200ms after 1900: still inside the window
	}
	for i, p := range presses {
		r.buttons.Press(p.line, clock.Micros(p.ms)*1000)
		r.drain(t, start.Add(time.Duration(i)*time.Second))
	}

	want := []int{0, 1, 2, 1}
	draws := r.matrix.Draws()
	if len(draws) != len(want) {
		t.Fatalf("draws: got %d, want %d", len(draws), len(want))
	}
	for i, d := range draws {
		if d.Index != want[i] {
			t.Errorf("draw %d: got pattern %d, want %d", i, d.Index, want[i])
		}
		if d.R != matrix.DefaultIntensity {
			t.Errorf("draw %d: intensity %v", i, d.R)
		}
	}

	if got := r.filter.Stats(logic.LineButton1); got.Rejected != 2 || got.Accepted != 2 {
		t.Errorf("button1 stats: %+v", got)
	}

	var p mqtt.Payload
	if err := json.Unmarshal(r.publisher.Payloads[len(r.publisher.Payloads)-1], &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.Gallery.Index != 1 || p.Gallery.Event != "DECREMENT" || p.Gallery.Mode != "counter" {
		t.Errorf("last payload: %+v", p.Gallery)
	}
}

// TestIntegrationToggleFlow checks the LED outputs and display label follow
// the toggle flags.
func TestIntegrationToggleFlow(t *testing.T) {
	r := newRig(t, logic.ModeToggle)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	r.buttons.Press(logic.LineButton1, 1_000_000)
	r.buttons.Press(logic.LineButton2, 1_010_000)
	r.drain(t, now)

	if !r.outputs.Level(gpio.OutputGreen) || !r.outputs.Level(gpio.OutputBlue) {
		t.Error("expected both outputs on")
	}

	r.buttons.Press(logic.LineButton2, 1_300_000)
	r.drain(t, now)

	if !r.outputs.Level(gpio.OutputGreen) || r.outputs.Level(gpio.OutputBlue) {
		t.Error("expected green on, blue off")
	}
	frames := r.display.Frames()
	last := frames[len(frames)-1]
	if last[0] != "Green: ON" || last[1] != "Blue: OFF" {
		t.Errorf("last frame: %v", last)
	}
	if len(frames) != 3 {
		t.Errorf("frames: got %d, want 3", len(frames))
	}
}

// TestIntegrationConcurrentSources presses both buttons and sets the index
// from the console at the same time as the foreground loop drains. Every
// accepted update must produce exactly one render.
func TestIntegrationConcurrentSources(t *testing.T) {
	r := newRig(t, logic.ModeCounter)
	const presses = 200

	var wg sync.WaitGroup
	for _, line := range logic.Lines {
		wg.Add(1)
		go func(line logic.Line) {
			defer wg.Done()
			for i := 1; i <= presses; i++ {
				r.buttons.Press(line, clock.Micros(i)*300_000)
			}
		}(line)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < presses; i++ {
			if err := r.state.Set(i % 10); err != nil {
				t.Errorf("set: %v", err)
			}
		}
	}()

	stop := make(chan struct{})
	done := make(chan int)
	go func() {
		total := 0
		for {
			select {
			case <-r.state.Pending():
				total += r.drain(t, time.Now())
			case <-stop:
				total += r.drain(t, time.Now())
				done <- total
				return
			}
		}
	}()

	wg.Wait()
	close(stop)
	total := <-done

	want := 3 * presses
	if total != want {
		t.Errorf("renders counted by loop: got %d, want %d", total, want)
	}
	if got := int(r.dispatcher.Stats().Renders); got != want {
		t.Errorf("dispatcher renders: got %d, want %d", got, want)
	}
	idx := r.state.Snapshot().Index
	if idx < logic.MinIndex || idx > logic.MaxIndex {
		t.Errorf("index out of range: %d", idx)
	}
}
