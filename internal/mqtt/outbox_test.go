package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/pattern-gallery/internal/logic"
)

func selectionMsg(t *testing.T, index int) outboxMsg {
	t.Helper()
	payload, err := FormatPayload(logic.Event{
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Action:    logic.ActionSet,
		Snapshot:  logic.Snapshot{Mode: logic.ModeCounter, Index: index},
		Coalesced: 1,
	})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	return outboxMsg{topic: Topic, payload: payload}
}

func systemMsg(event string) outboxMsg {
	return outboxMsg{topic: TopicSystem, payload: []byte(event), qos: 1, retained: true}
}

func indexOf(t *testing.T, m outboxMsg) int {
	t.Helper()
	var p Payload
	if err := json.Unmarshal(m.payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	return p.Gallery.Index
}

func TestOutboxEmptyTake(t *testing.T) {
	o := newOutbox(4)
	if got := o.take(); got != nil {
		t.Errorf("expected nil from empty outbox, got %d messages", len(got))
	}
}

func TestOutboxReplaysSelectionsInOrder(t *testing.T) {
	o := newOutbox(10)
	for i := 1; i <= 3; i++ {
		o.add(selectionMsg(t, i))
	}
	if o.size() != 3 {
		t.Errorf("size: got %d, want 3", o.size())
	}

	got := o.take()
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	for i, m := range got {
		if idx := indexOf(t, m); idx != i+1 {
			t.Errorf("message %d: got index %d, want %d", i, idx, i+1)
		}
	}
	if o.size() != 0 || o.take() != nil {
		t.Error("outbox should be empty after take")
	}
}

func TestOutboxEvictsOldestSelection(t *testing.T) {
	o := newOutbox(3)
	o.add(systemMsg("STARTUP"))
	for i := 1; i <= 4; i++ {
		o.add(selectionMsg(t, i))
	}

	got := o.take()
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	if got[0].topic != TopicSystem || string(got[0].payload) != "STARTUP" {
		t.Errorf("lifecycle message evicted: %+v", got[0])
	}
	if indexOf(t, got[1]) != 3 || indexOf(t, got[2]) != 4 {
		t.Errorf("expected selections 3 and 4 to survive, got %d and %d", indexOf(t, got[1]), indexOf(t, got[2]))
	}
}

func TestOutboxEvictsLifecycleWhenNoSelectionsLeft(t *testing.T) {
	o := newOutbox(2)
	o.add(systemMsg("STARTUP"))
	o.add(systemMsg("HEARTBEAT"))
	o.add(systemMsg("SHUTDOWN"))

	got := o.take()
	if len(got) != 2 || string(got[0].payload) != "HEARTBEAT" || string(got[1].payload) != "SHUTDOWN" {
		t.Errorf("unexpected messages: %+v", got)
	}
}

func TestOutboxPreservesFields(t *testing.T) {
	o := newOutbox(1)
	o.add(systemMsg("STARTUP"))

	got := o.take()
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	if got[0].qos != 1 || !got[0].retained {
		t.Errorf("qos/retained lost: %+v", got[0])
	}
}

func TestOutboxZeroLimitDropsEverything(t *testing.T) {
	o := newOutbox(0)
	o.add(selectionMsg(t, 1))
	if o.size() != 0 {
		t.Errorf("size: got %d, want 0", o.size())
	}
}
