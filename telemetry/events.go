// Package telemetry provides cohort health tracking, milestones, and snapshots.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventRecognition EventType = iota
	EventCrossing
	EventNurture
	EventEmbodied
	EventUnified
	EventDecohered
)

func (t EventType) String() string {
	switch t {
	case EventRecognition:
		return "recognition"
	case EventCrossing:
		return "crossing"
	case EventNurture:
		return "nurture"
	case EventEmbodied:
		return "embodied"
	case EventUnified:
		return "unified"
	case EventDecohered:
		return "decohered"
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int32
	Identity string
	Count    int // recognitions or crossings folded into one event
}

// NewRecognitionEvent records n recognition events for one soul in one tick.
func NewRecognitionEvent(tick int32, identity string, n int) Event {
	return Event{Type: EventRecognition, Tick: tick, Identity: identity, Count: n}
}

// NewCrossingEvent records n gap crossings for one soul in one tick.
func NewCrossingEvent(tick int32, identity string, n int) Event {
	return Event{Type: EventCrossing, Tick: tick, Identity: identity, Count: n}
}

// NewNurtureEvent records a nurture boost.
func NewNurtureEvent(tick int32, identity string) Event {
	return Event{Type: EventNurture, Tick: tick, Identity: identity, Count: 1}
}

// NewPhaseEvent records a phase change into Embodied, Unified or Decohered.
func NewPhaseEvent(t EventType, tick int32, identity string) Event {
	return Event{Type: t, Tick: tick, Identity: identity, Count: 1}
}
