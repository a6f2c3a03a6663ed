package sim

// EventType classifies loop events. Events sharing a timestamp are ordered
// by the priority of their type, then by event ID.
type EventType string

const (
	EventTypeTimer   EventType = "Timer"
	EventTypeTick    EventType = "Tick"
	EventTypeArrival EventType = "Arrival"
)

// EventTypePriority defines ordering for simultaneous events.
// Lower values are processed first: a task whose delay elapses at the same
// instant a new source event arrives frees its slot before the arrival is seen.
var EventTypePriority = map[EventType]int{
	EventTypeTimer:   1,
	EventTypeTick:    2,
	EventTypeArrival: 3,
}

// Event defines the interface for all loop events.
// Each event has a Timestamp (in virtual milliseconds) and an Execute method
// that advances state when invoked.
type Event interface {
	Timestamp() int64
	EventID() uint64
	Type() EventType
	Execute(*Loop)
}

// BaseEvent provides common event fields
type BaseEvent struct {
	timestamp int64
	eventID   uint64
	eventType EventType
}

func (e *BaseEvent) Timestamp() int64 {
	return e.timestamp
}

func (e *BaseEvent) EventID() uint64 {
	return e.eventID
}

func (e *BaseEvent) Type() EventType {
	return e.eventType
}

// TimerEvent runs a callback once its delay has elapsed.
// It backs every Timer handed out by Loop.AfterFunc.
type TimerEvent struct {
	BaseEvent
	timer *Timer
}

func (e *TimerEvent) Execute(loop *Loop) {
	e.timer.fire()
}

// TickEvent is one tick of a Clock.
type TickEvent struct {
	BaseEvent
	clock *Clock
	Index int64
}

func (e *TickEvent) Execute(loop *Loop) {
	e.clock.handleTick(e)
}

// ArrivalEvent delivers a scripted source event at its timestamp.
type ArrivalEvent struct {
	BaseEvent
	Source  SourceEvent
	deliver func(SourceEvent)
}

func (e *ArrivalEvent) Execute(loop *Loop) {
	e.deliver(e.Source)
}
