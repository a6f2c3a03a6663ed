package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pulse-sim/pulse-sim/sim/pulse"
)

// Position is a normalized coordinate in percent of the viewport.
type Position = pulse.Position

// SourceEvent is a timestamped, position-bearing stimulus fed to a
// Dispatcher. Immutable once created.
type SourceEvent struct {
	ID        int64    `json:"id"`
	Timestamp int64    `json:"timestamp"`
	Position  Position `json:"position"`
}

func (e SourceEvent) String() string {
	return fmt.Sprintf("SourceEvent: (ID: %d, Timestamp: %d, Position: %.1f%%,%.1f%%)", e.ID, e.Timestamp, e.Position.X, e.Position.Y)
}

// MomentSource derives a coarser moment sequence from a Clock: one moment
// every ticksPerMoment ticks, halting after limit moments. The moment index
// is the source event ID.
type MomentSource struct {
	loop           *Loop
	clock          *Clock
	ticksPerMoment int64
	limit          int64

	emitted     int64
	latest      SourceEvent
	subscribers []func(SourceEvent)
	onComplete  []func()
	completed   bool
}

// NewMomentSource subscribes a moment source to clock.
// Panics if ticksPerMoment or limit is not positive.
func NewMomentSource(loop *Loop, clock *Clock, ticksPerMoment, limit int64) *MomentSource {
	if ticksPerMoment <= 0 {
		panic(fmt.Sprintf("NewMomentSource: ticksPerMoment must be positive, got %d", ticksPerMoment))
	}
	if limit <= 0 {
		panic(fmt.Sprintf("NewMomentSource: limit must be positive, got %d", limit))
	}
	m := &MomentSource{
		loop:           loop,
		clock:          clock,
		ticksPerMoment: ticksPerMoment,
		limit:          limit,
	}
	clock.Subscribe(m.handleTick)
	return m
}

// MomentPosition places moment n of limit along the horizontal axis.
func MomentPosition(moment, limit int64) Position {
	if limit <= 1 {
		return Position{X: 0, Y: 0}
	}
	return Position{X: 100 * float64(moment) / float64(limit-1), Y: 0}
}

// Subscribe registers fn for every moment, in subscription order.
func (m *MomentSource) Subscribe(fn func(SourceEvent)) {
	m.subscribers = append(m.subscribers, fn)
}

// OnComplete registers fn to run once the limit is reached.
func (m *MomentSource) OnComplete(fn func()) {
	m.onComplete = append(m.onComplete, fn)
}

// Latest returns the most recent moment, if any.
func (m *MomentSource) Latest() (SourceEvent, bool) {
	return m.latest, m.emitted > 0
}

// Emitted returns the number of moments produced.
func (m *MomentSource) Emitted() int64 {
	return m.emitted
}

// Completed reports whether the limit has been reached.
func (m *MomentSource) Completed() bool {
	return m.completed
}

// Detach drops all subscribers; no further moments are delivered.
func (m *MomentSource) Detach() {
	m.subscribers = nil
	m.onComplete = nil
}

func (m *MomentSource) handleTick(tick int64) {
	if m.completed || tick%m.ticksPerMoment != 0 {
		return
	}
	moment := tick / m.ticksPerMoment
	ev := SourceEvent{
		ID:        moment,
		Timestamp: m.loop.Now(),
		Position:  MomentPosition(moment, m.limit),
	}
	m.latest = ev
	m.emitted++
	logrus.Debugf("[t %07d] moment %d", ev.Timestamp, moment)
	for _, fn := range m.subscribers {
		fn(ev)
	}
	if m.emitted >= m.limit {
		m.completed = true
		m.clock.Stop()
		for _, fn := range m.onComplete {
			fn()
		}
	}
}

// ControlPredicate reports whether the element identified by target is a
// control (policy selector, button). Clicks on controls are not source events.
type ControlPredicate func(target string) bool

// LiveSource turns pointer clicks into source events, normalizing device
// coordinates against the current viewport extent.
type LiveSource struct {
	loop          *Loop
	width, height int
	isControl     ControlPredicate

	nextID      int64
	subscribers []func(SourceEvent)
	detached    bool
}

// NewLiveSource creates a live source. A nil predicate treats no element as
// a control.
func NewLiveSource(loop *Loop, isControl ControlPredicate) *LiveSource {
	if isControl == nil {
		isControl = func(string) bool { return false }
	}
	return &LiveSource{loop: loop, isControl: isControl}
}

// Normalize converts device coordinates to percent of a w×h viewport.
// A zero extent maps to 0.
func Normalize(x, y, w, h int) Position {
	var pos Position
	if w > 0 {
		pos.X = 100 * float64(x) / float64(w)
	}
	if h > 0 {
		pos.Y = 100 * float64(y) / float64(h)
	}
	return pos
}

// Resize records the current viewport extent.
func (s *LiveSource) Resize(width, height int) {
	s.width, s.height = width, height
}

// Subscribe registers fn for every accepted click.
func (s *LiveSource) Subscribe(fn func(SourceEvent)) {
	s.subscribers = append(s.subscribers, fn)
}

// Click emits a source event for a click at (x, y) on target, stamped with
// the loop's current time. Clicks on controls, or after Detach, are dropped
// and reported as not accepted.
func (s *LiveSource) Click(x, y int, target string) (SourceEvent, bool) {
	if s.detached {
		return SourceEvent{}, false
	}
	if s.isControl(target) {
		logrus.Debugf("[t %07d] click on control %q ignored", s.loop.Now(), target)
		return SourceEvent{}, false
	}
	s.nextID++
	ev := SourceEvent{
		ID:        s.nextID,
		Timestamp: s.loop.Now(),
		Position:  Normalize(x, y, s.width, s.height),
	}
	for _, fn := range s.subscribers {
		fn(ev)
	}
	return ev, true
}

// Detach drops all subscribers and refuses further clicks. Idempotent.
func (s *LiveSource) Detach() {
	s.detached = true
	s.subscribers = nil
}
