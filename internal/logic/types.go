// Package logic contains the input state machine for the pattern gallery:
// debounce filtering of button edges and the selection state shared between
// the edge handler and the foreground loop.
// This package has NO hardware dependencies. Time is injected as clock.Micros
// or time.Time parameters.
package logic

import (
	"fmt"
	"time"

	"github.com/sweeney/pattern-gallery/internal/clock"
)

// DefaultDebounce is the refractory window applied to each button line.
const DefaultDebounce = 200 * time.Millisecond

// Selection index bounds. The index saturates at both ends.
const (
	MinIndex = 0
	MaxIndex = 9
)

// Line identifies a physical push-button.
type Line uint8

const (
	LineButton1 Line = iota
	LineButton2

	numLines
)

// Lines lists every input line in order.
var Lines = [...]Line{LineButton1, LineButton2}

func (l Line) String() string {
	switch l {
	case LineButton1:
		return "button1"
	case LineButton2:
		return "button2"
	}
	return fmt.Sprintf("line(%d)", uint8(l))
}

// Edge is a falling edge on an input line, stamped when the hardware saw it.
type Edge struct {
	Line Line
	Time clock.Micros
}

// Mode selects the state machine shape.
type Mode string

const (
	// ModeCounter steps a saturating selection index: button1 increments,
	// button2 decrements.
	ModeCounter Mode = "counter"
	// ModeToggle flips one flag per button: button1 green, button2 blue.
	ModeToggle Mode = "toggle"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCounter, ModeToggle:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (want %q or %q)", s, ModeCounter, ModeToggle)
}

// State represents the logical state of a toggle output.
type State string

const (
	StateOn  State = "ON"
	StateOff State = "OFF"
)

func boolToState(b bool) State {
	if b {
		return StateOn
	}
	return StateOff
}

// Action is a transition applied to the shared state.
type Action uint32

const (
	ActionNone Action = iota
	ActionIncrement
	ActionDecrement
	ActionSet
	ActionToggleGreen
	ActionToggleBlue
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "NONE"
	case ActionIncrement:
		return "INCREMENT"
	case ActionDecrement:
		return "DECREMENT"
	case ActionSet:
		return "SET"
	case ActionToggleGreen:
		return "TOGGLE_GREEN"
	case ActionToggleBlue:
		return "TOGGLE_BLUE"
	}
	return fmt.Sprintf("ACTION_%d", uint32(a))
}

// Snapshot is a point-in-time copy of the shared state.
type Snapshot struct {
	Mode  Mode
	Index int
	Green bool
	Blue  bool
}

// GreenState returns the green flag as a State.
func (s Snapshot) GreenState() State { return boolToState(s.Green) }

// BlueState returns the blue flag as a State.
func (s Snapshot) BlueState() State { return boolToState(s.Blue) }

// Event describes a render-worthy state change, for mirroring to MQTT.
type Event struct {
	Timestamp time.Time
	Action    Action
	Snapshot  Snapshot
	// Coalesced is the number of accepted updates folded into this event.
	Coalesced int
}

// LineStats holds diagnostic counters for one input line.
type LineStats struct {
	Seen     uint64 // raw edges delivered
	Accepted uint64
	Rejected uint64 // bounces inside the debounce window
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
}
