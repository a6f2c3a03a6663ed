// sim/loop.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Loop is the single logical thread of control: it holds virtual time and
// executes events in deterministic order. Every delay in the system is a
// Timer on a Loop; nothing blocks.
type Loop struct {
	Clock   int64
	Horizon int64

	queue       *EventHeap
	nextEventID uint64 // per-loop counter for deterministic event ordering
	stopped     bool
	executed    int
}

// NewLoop creates a loop starting at time 0.
// A non-positive horizon means no horizon.
func NewLoop(horizon int64) *Loop {
	if horizon <= 0 {
		horizon = math.MaxInt64
	}
	return &Loop{
		Clock:   0,
		Horizon: horizon,
		queue:   NewEventHeap(),
	}
}

// Now returns the current virtual time in milliseconds.
func (l *Loop) Now() int64 {
	return l.Clock
}

// Pending returns the number of queued events.
func (l *Loop) Pending() int {
	return l.queue.Len()
}

// Executed returns the number of events executed so far.
func (l *Loop) Executed() int {
	return l.executed
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool {
	return l.stopped
}

func (l *Loop) newBaseEvent(timestamp int64, eventType EventType) BaseEvent {
	l.nextEventID++
	return BaseEvent{
		timestamp: timestamp,
		eventID:   l.nextEventID,
		eventType: eventType,
	}
}

// Schedule pushes an event onto the queue. Scheduling into the past is a
// programming error. After Stop, events are discarded.
func (l *Loop) Schedule(e Event) bool {
	if l.stopped {
		logrus.Debugf("[t %07d] loop stopped, discarding %s event %d", l.Clock, e.Type(), e.EventID())
		return false
	}
	if e.Timestamp() < l.Clock {
		panic(fmt.Sprintf("event scheduled in the past: %d < %d", e.Timestamp(), l.Clock))
	}
	l.queue.Schedule(e)
	return true
}

// Cancel removes a queued event. Returns false if it is not queued.
func (l *Loop) Cancel(eventID uint64) bool {
	return l.queue.Remove(eventID)
}

// AfterFunc schedules fn to run delay milliseconds from now.
// The returned Timer can be stopped before it fires.
func (l *Loop) AfterFunc(delay int64, fn func()) *Timer {
	if delay < 0 {
		panic(fmt.Sprintf("AfterFunc: negative delay %d", delay))
	}
	t := &Timer{loop: l, fn: fn}
	ev := &TimerEvent{BaseEvent: l.newBaseEvent(l.Clock+delay, EventTypeTimer), timer: t}
	t.eventID = ev.EventID()
	t.when = ev.Timestamp()
	if !l.Schedule(ev) {
		t.stopped = true
	}
	return t
}

// ScheduleArrival delivers src to deliver at src.Timestamp.
func (l *Loop) ScheduleArrival(src SourceEvent, deliver func(SourceEvent)) {
	l.Schedule(&ArrivalEvent{
		BaseEvent: l.newBaseEvent(src.Timestamp, EventTypeArrival),
		Source:    src,
		deliver:   deliver,
	})
}

func (l *Loop) step() {
	ev := l.queue.PopNext()

	// Clock monotonicity
	if ev.Timestamp() < l.Clock {
		panic(fmt.Sprintf("clock went backwards: %d < %d", ev.Timestamp(), l.Clock))
	}
	l.Clock = ev.Timestamp()
	logrus.Tracef("[t %07d] executing %s event %d", l.Clock, ev.Type(), ev.EventID())
	ev.Execute(l)
	l.executed++
}

// Run executes events until the queue drains, the horizon is passed, or the
// loop is stopped. Returns the final clock.
func (l *Loop) Run() int64 {
	for !l.stopped && l.queue.Len() > 0 {
		if l.queue.Peek().Timestamp() > l.Horizon {
			break
		}
		l.step()
	}
	logrus.Debugf("[t %07d] loop idle after %d events", l.Clock, l.executed)
	return l.Clock
}

// RunUntil executes every event due at or before t and then advances the
// clock to t. Used to drive the loop from wall-clock time.
func (l *Loop) RunUntil(t int64) {
	for !l.stopped && l.queue.Len() > 0 && l.queue.Peek().Timestamp() <= t {
		l.step()
	}
	if !l.stopped && t > l.Clock {
		l.Clock = t
	}
}

// Stop cancels every pending event and refuses new ones. Idempotent.
func (l *Loop) Stop() {
	if l.stopped {
		return
	}
	n := l.queue.Clear()
	l.stopped = true
	logrus.Debugf("[t %07d] loop stopped, %d pending events canceled", l.Clock, n)
}

// Timer is a cancellable delay on a Loop.
type Timer struct {
	loop    *Loop
	fn      func()
	eventID uint64
	when    int64
	fired   bool
	stopped bool
}

// When returns the virtual time at which the timer fires.
func (t *Timer) When() int64 {
	return t.when
}

// Stop prevents the timer from firing and releases its queue slot.
// Returns false if the timer already fired or was stopped.
func (t *Timer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	t.loop.Cancel(t.eventID)
	return true
}

func (t *Timer) fire() {
	if t.stopped {
		return
	}
	t.fired = true
	t.fn()
}
