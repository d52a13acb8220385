package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Mode          string       `json:"mode"`
	Index         int          `json:"index"`
	Green         string       `json:"green"`
	Blue          string       `json:"blue"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counters      CountersJSON `json:"counters"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
	Buffered  int    `json:"buffered"`
}

// LineJSON is the JSON representation of one button's counters.
type LineJSON struct {
	Seen     uint64 `json:"seen"`
	Accepted uint64 `json:"accepted"`
	Rejected uint64 `json:"rejected"`
}

// CountersJSON is the JSON representation of the diagnostic counters.
type CountersJSON struct {
	Button1       LineJSON `json:"button1"`
	Button2       LineJSON `json:"button2"`
	Renders       uint64   `json:"renders"`
	RenderErrors  uint64   `json:"render_errors"`
	InvalidInputs uint64   `json:"invalid_inputs"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	DebounceMs  int64   `json:"debounce_ms"`
	HeartbeatMs int64   `json:"heartbeat_ms"`
	Intensity   float64 `json:"intensity"`
	Broker      string  `json:"broker"`
	HTTPAddr    string  `json:"http_addr"`
	Hardware    bool    `json:"hardware"`
}

func buildInner(snap Snapshot) StatusInner {
	sel := snap.Selection
	c := snap.Counters
	return StatusInner{
		Mode:          string(sel.Mode),
		Index:         sel.Index,
		Green:         string(sel.GreenState()),
		Blue:          string(sel.BlueState()),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker, Buffered: snap.MQTTBuffered},
		Counters: CountersJSON{
			Button1:       LineJSON(c.Button1),
			Button2:       LineJSON(c.Button2),
			Renders:       c.Renders,
			RenderErrors:  c.RenderErrors,
			InvalidInputs: c.InvalidInputs,
		},
		Config: ConfigJSON{
			DebounceMs:  snap.Config.DebounceMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Intensity:   snap.Config.Intensity,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			Hardware:    snap.Config.Hardware,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
