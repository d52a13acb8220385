package mqtt

import log "github.com/sirupsen/logrus"

// outboxMsg is a publish held back while the broker is unreachable.
type outboxMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox holds publishes made while disconnected, oldest first, for replay on
// reconnect. When full it evicts the oldest selection event; lifecycle
// messages are only evicted once no selection events remain.
// Not safe for concurrent use; the caller must synchronize.
type outbox struct {
	msgs    []outboxMsg
	limit   int
	dropped int
}

func newOutbox(limit int) *outbox {
	return &outbox{limit: limit}
}

func (o *outbox) add(m outboxMsg) {
	if o.limit <= 0 {
		o.dropped++
		return
	}
	if len(o.msgs) >= o.limit {
		o.evict()
	}
	o.msgs = append(o.msgs, m)
}

func (o *outbox) evict() {
	victim := 0
	for i, m := range o.msgs {
		if m.topic == Topic {
			victim = i
			break
		}
	}
	if o.dropped == 0 {
		log.Warnf("mqtt: outbox full (%d messages), dropping oldest", o.limit)
	}
	o.dropped++
	o.msgs = append(o.msgs[:victim], o.msgs[victim+1:]...)
}

// take empties the outbox and returns its messages in publish order.
func (o *outbox) take() []outboxMsg {
	if o.dropped > 0 {
		log.Warnf("mqtt: %d message(s) dropped while offline", o.dropped)
		o.dropped = 0
	}
	out := o.msgs
	o.msgs = nil
	return out
}

func (o *outbox) size() int {
	return len(o.msgs)
}
