// Package status provides a thread-safe status tracker for the pattern-gallery
// daemon. It is read by HTTP handlers and by the heartbeat publisher.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/pattern-gallery/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Mode        string
	DebounceMs  int64
	HeartbeatMs int64
	Intensity   float64
	Broker      string
	WSBroker    string // websocket URL for live page updates; empty disables
	HTTPAddr    string
	Hardware    bool
}

// Counters holds the diagnostic counters gathered by the foreground loop.
type Counters struct {
	Button1       logic.LineStats
	Button2       logic.LineStats
	Renders       uint64
	RenderErrors  uint64
	InvalidInputs uint64
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Selection     logic.Snapshot
	Counters      Counters
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	MQTTBuffered  int
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Selection: logic.Snapshot{Mode: logic.Mode(cfg.Mode)},
		},
		now: time.Now,
	}
}

// Update sets the selection state and counters.
// Called from the foreground loop after each render and on every tick.
func (t *Tracker) Update(sel logic.Snapshot, counters Counters) {
	t.mu.Lock()
	t.snap.Selection = sel
	t.snap.Counters = counters
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetMQTTBuffered sets the number of messages waiting for a broker connection.
func (t *Tracker) SetMQTTBuffered(n int) {
	t.mu.Lock()
	t.snap.MQTTBuffered = n
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
