package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_TicksAtFixedInterval(t *testing.T) {
	loop := NewLoop(0)
	clock := NewClock(loop, 50)
	var at []int64
	var ticks []int64
	clock.Subscribe(func(tick int64) {
		ticks = append(ticks, tick)
		at = append(at, loop.Now())
		if tick == 3 {
			clock.Stop()
		}
	})

	clock.Start()
	loop.Run()

	assert.Equal(t, []int64{0, 1, 2, 3}, ticks)
	assert.Equal(t, []int64{0, 50, 100, 150}, at)
	assert.False(t, clock.Running())
	assert.Equal(t, int64(4), clock.Ticks())
	assert.Equal(t, 0, loop.Pending(), "stop cancels the queued tick")
}

func TestClock_StartedLate_TicksFromStart(t *testing.T) {
	loop := NewLoop(0)
	loop.RunUntil(120)
	clock := NewClock(loop, 100)
	var at []int64
	clock.Subscribe(func(tick int64) {
		at = append(at, loop.Now())
		if tick == 1 {
			clock.Stop()
		}
	})

	clock.Start()
	clock.Start()
	loop.Run()

	assert.Equal(t, []int64{120, 220}, at)
}

func TestClock_StopIsIdempotent(t *testing.T) {
	loop := NewLoop(0)
	clock := NewClock(loop, 10)
	clock.Start()
	clock.Stop()
	assert.NotPanics(t, clock.Stop)
	assert.Equal(t, 0, loop.Pending())
}

func TestNewClock_NonPositiveInterval_Panics(t *testing.T) {
	assert.Panics(t, func() { NewClock(NewLoop(0), 0) })
	assert.Panics(t, func() { NewClock(nil, 10) })
}
