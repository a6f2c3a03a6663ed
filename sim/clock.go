package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Clock emits a monotonically increasing tick index at a fixed interval on
// a Loop. Tick 0 fires at the instant Start is called.
type Clock struct {
	loop     *Loop
	interval int64

	next        int64  // index of the next tick to schedule
	pendingID   uint64 // event ID of the queued tick, valid while running
	running     bool
	subscribers []func(tick int64)
	started     int64
}

// NewClock creates a stopped clock. Panics if interval is not positive.
func NewClock(loop *Loop, interval int64) *Clock {
	if loop == nil {
		panic("NewClock: loop must not be nil")
	}
	if interval <= 0 {
		panic(fmt.Sprintf("NewClock: interval must be positive, got %d", interval))
	}
	return &Clock{loop: loop, interval: interval}
}

// Interval returns the tick interval in milliseconds.
func (c *Clock) Interval() int64 {
	return c.interval
}

// Subscribe registers fn to be called with every tick index.
func (c *Clock) Subscribe(fn func(tick int64)) {
	c.subscribers = append(c.subscribers, fn)
}

// Start schedules tick 0 at the current loop time. Starting a running clock
// is a no-op.
func (c *Clock) Start() {
	if c.running {
		return
	}
	c.running = true
	c.started = c.loop.Now()
	c.schedule()
}

// Stop cancels the pending tick. Idempotent.
func (c *Clock) Stop() {
	if !c.running {
		return
	}
	c.running = false
	c.loop.Cancel(c.pendingID)
	logrus.Debugf("[t %07d] clock stopped after %d ticks", c.loop.Now(), c.next)
}

// Running reports whether ticks are still being produced.
func (c *Clock) Running() bool {
	return c.running
}

// Ticks returns the number of ticks emitted so far.
func (c *Clock) Ticks() int64 {
	return c.next
}

func (c *Clock) schedule() {
	ev := &TickEvent{
		BaseEvent: c.loop.newBaseEvent(c.started+c.next*c.interval, EventTypeTick),
		clock:     c,
		Index:     c.next,
	}
	c.pendingID = ev.EventID()
	if !c.loop.Schedule(ev) {
		c.running = false
	}
}

func (c *Clock) handleTick(e *TickEvent) {
	if !c.running {
		return
	}
	c.next = e.Index + 1
	// Queue the next tick before notifying, so a subscriber that stops the
	// clock also cancels it.
	c.schedule()
	for _, fn := range c.subscribers {
		fn(e.Index)
	}
}
