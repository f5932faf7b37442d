// Package telemetry records population events, window statistics and run output.
package telemetry

import "fmt"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventStarved EventType = iota
	EventCaptured
	EventBorn
)

// String returns the event name used in logs and CSV output.
func (t EventType) String() string {
	switch t {
	case EventStarved:
		return "starved"
	case EventCaptured:
		return "captured"
	case EventBorn:
		return "born"
	default:
		return fmt.Sprintf("event(%d)", uint8(t))
	}
}

// MarshalCSV writes the event name instead of its number.
func (t EventType) MarshalCSV() (string, error) {
	return t.String(), nil
}

// Event is a single population change.
type Event struct {
	Type       EventType `csv:"type"`
	Tick       int32     `csv:"tick"`
	FishID     uint32    `csv:"fish_id"`
	Age        int32     `csv:"age"`        // ticks lived; 0 for births
	Generation int       `csv:"generation"` // approximate generation of birth
	ParentID   uint32    `csv:"parent_id"`  // births only
}

// Sink receives events as they happen.
type Sink interface {
	Record(ev Event)
}

// NewStarvedEvent creates an event for a fish that ran out of hunger.
func NewStarvedEvent(tick int32, fishID uint32, age int32, generation int) Event {
	return Event{Type: EventStarved, Tick: tick, FishID: fishID, Age: age, Generation: generation}
}

// NewCapturedEvent creates an event for a fish taken by the predator.
func NewCapturedEvent(tick int32, fishID uint32, age int32, generation int) Event {
	return Event{Type: EventCaptured, Tick: tick, FishID: fishID, Age: age, Generation: generation}
}

// NewBornEvent creates a birth event.
func NewBornEvent(tick int32, childID, parentID uint32, generation int) Event {
	return Event{Type: EventBorn, Tick: tick, FishID: childID, Generation: generation, ParentID: parentID}
}

// Generation returns the approximate generation a fish of the given age was born in.
func Generation(tick, age int32, generationTicks int) int {
	if generationTicks <= 0 {
		return 0
	}
	return int(tick-age) / generationTicks
}
