package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/pattern-gallery/internal/logic"
)

func sampleEvent() logic.Event {
	return logic.Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Action:    logic.ActionIncrement,
		Snapshot:  logic.Snapshot{Mode: logic.ModeCounter, Index: 3, Green: true},
		Coalesced: 1,
	}
}

func TestFormatPayload(t *testing.T) {
	payload, err := FormatPayload(sampleEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Gallery.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Gallery.Timestamp)
	}
	if parsed.Gallery.Event != "INCREMENT" {
		t.Errorf("unexpected event: %s", parsed.Gallery.Event)
	}
	if parsed.Gallery.Index != 3 {
		t.Errorf("unexpected index: %d", parsed.Gallery.Index)
	}
	if parsed.Gallery.Green.State != "ON" {
		t.Errorf("unexpected green state: %s", parsed.Gallery.Green.State)
	}
	if parsed.Gallery.Blue.State != "OFF" {
		t.Errorf("unexpected blue state: %s", parsed.Gallery.Blue.State)
	}
}

func TestFormatPayloadExactJSON(t *testing.T) {
	payload, err := FormatPayload(sampleEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `{"gallery":{"timestamp":"2026-02-02T22:18:12Z","event":"INCREMENT","mode":"counter","index":3,"green":{"state":"ON"},"blue":{"state":"OFF"},"coalesced":1}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatPayloadAllActions(t *testing.T) {
	tests := []struct {
		action    logic.Action
		wantEvent string
	}{
		{logic.ActionIncrement, "INCREMENT"},
		{logic.ActionDecrement, "DECREMENT"},
		{logic.ActionSet, "SET"},
		{logic.ActionToggleGreen, "TOGGLE_GREEN"},
		{logic.ActionToggleBlue, "TOGGLE_BLUE"},
	}

	for _, tt := range tests {
		t.Run(tt.wantEvent, func(t *testing.T) {
			ev := sampleEvent()
			ev.Action = tt.action
			payload, err := FormatPayload(ev)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var parsed Payload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if parsed.Gallery.Event != tt.wantEvent {
				t.Errorf("event: got %s, want %s", parsed.Gallery.Event, tt.wantEvent)
			}
		})
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	ev := sampleEvent()
	ev.Timestamp = time.Date(2026, 2, 2, 19, 18, 12, 0, loc)

	payload, _ := FormatPayload(ev)
	var parsed Payload
	json.Unmarshal(payload, &parsed)
	if parsed.Gallery.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("expected UTC timestamp, got %s", parsed.Gallery.Timestamp)
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	payload, _ := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC),
		Event:     "HEARTBEAT",
	})
	expected := `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"HEARTBEAT"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", payload)
	}
}

func TestTopics(t *testing.T) {
	if Topic != "gallery/selection/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "gallery/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	if err := f.Publish(sampleEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].Action != logic.ActionIncrement {
		t.Errorf("unexpected action: %s", f.Events[0].Action)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")

	if err := f.Publish(sampleEvent()); err == nil {
		t.Error("expected error")
	}
	if len(f.Events) != 0 {
		t.Errorf("expected no events recorded on error, got %d", len(f.Events))
	}
}

func TestFakePublisherPublishSystem(t *testing.T) {
	f := NewFakePublisher()
	err := f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "STARTUP", Retained: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.SystemEvents) != 1 || !f.SystemEvents[0].Retained {
		t.Errorf("unexpected system events: %+v", f.SystemEvents)
	}

	f.PublishSystemError = errors.New("broker down")
	if err := f.PublishSystem(SystemEvent{Event: "HEARTBEAT"}); err == nil {
		t.Error("expected error")
	}
	if len(f.SystemEvents) != 1 {
		t.Errorf("failed publish should not be recorded")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(sampleEvent())
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Close()
	f.Connected = true
	f.Backlog = 3
	f.PublishError = errors.New("error")

	if f.Buffered() != 3 {
		t.Errorf("Buffered: got %d, want 3", f.Buffered())
	}

	f.Reset()

	if len(f.Events) != 0 || len(f.Payloads) != 0 {
		t.Error("events should be cleared")
	}
	if len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("system events should be cleared")
	}
	if f.Closed || f.IsConnected() || f.Buffered() != 0 {
		t.Error("flags should be reset")
	}
	if f.PublishError != nil {
		t.Error("error should be cleared")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(sampleEvent()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	var cs ConnectionStatus = NopPublisher{}
	if cs.IsConnected() {
		t.Error("nop publisher should never be connected")
	}
	if cs.Buffered() != 0 {
		t.Error("nop publisher should never buffer")
	}
}
