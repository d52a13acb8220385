// Package mqtt mirrors selection changes to an MQTT broker, with abstraction
// for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/pattern-gallery/internal/logic"
)

// Topic is the MQTT topic for selection events.
const Topic = "gallery/selection/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "gallery/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a selection event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports the state of the MQTT connection.
type ConnectionStatus interface {
	IsConnected() bool
	// Buffered returns the number of messages waiting for a connection.
	Buffered() int
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT", "CONSOLE" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Gallery GalleryPayload `json:"gallery"`
}

// GalleryPayload contains the selection event details.
type GalleryPayload struct {
	Timestamp string      `json:"timestamp"`
	Event     string      `json:"event"`
	Mode      string      `json:"mode"`
	Index     int         `json:"index"`
	Green     OutputState `json:"green"`
	Blue      OutputState `json:"blue"`
	Coalesced int         `json:"coalesced"`
}

// OutputState represents a single toggle output's state.
type OutputState struct {
	State string `json:"state"`
}

// FormatPayload creates the JSON payload for a selection event.
func FormatPayload(event logic.Event) ([]byte, error) {
	snap := event.Snapshot
	payload := Payload{
		Gallery: GalleryPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Action.String(),
			Mode:      string(snap.Mode),
			Index:     snap.Index,
			Green:     OutputState{State: string(snap.GreenState())},
			Blue:      OutputState{State: string(snap.BlueState())},
			Coalesced: event.Coalesced,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// NopPublisher discards everything. Used when no broker is configured.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(logic.Event) error { return nil }

// PublishSystem discards the event.
func (NopPublisher) PublishSystem(SystemEvent) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }

// IsConnected always reports false.
func (NopPublisher) IsConnected() bool { return false }

// Buffered always reports zero.
func (NopPublisher) Buffered() int { return 0 }
