package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoop_AfterFunc_FiresInTimeOrder(t *testing.T) {
	loop := NewLoop(0)
	var order []int64
	loop.AfterFunc(300, func() { order = append(order, loop.Now()) })
	loop.AfterFunc(100, func() { order = append(order, loop.Now()) })
	loop.AfterFunc(200, func() { order = append(order, loop.Now()) })

	end := loop.Run()

	assert.Equal(t, []int64{100, 200, 300}, order)
	assert.Equal(t, int64(300), end)
	assert.Equal(t, 3, loop.Executed())
}

func TestLoop_TimerStop_PreventsFiring(t *testing.T) {
	loop := NewLoop(0)
	fired := false
	timer := loop.AfterFunc(100, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports nothing to stop")
	assert.Equal(t, 0, loop.Pending())

	loop.Run()
	assert.False(t, fired)
}

func TestLoop_TimerStop_AfterFire_ReturnsFalse(t *testing.T) {
	loop := NewLoop(0)
	timer := loop.AfterFunc(0, func() {})
	loop.Run()
	assert.False(t, timer.Stop())
}

func TestLoop_RunUntil_AdvancesClock(t *testing.T) {
	loop := NewLoop(0)
	var fired []int64
	loop.AfterFunc(100, func() { fired = append(fired, 100) })
	loop.AfterFunc(500, func() { fired = append(fired, 500) })

	loop.RunUntil(250)
	assert.Equal(t, []int64{100}, fired)
	assert.Equal(t, int64(250), loop.Now())

	// Timers armed now are relative to the advanced clock
	timer := loop.AfterFunc(100, func() {})
	assert.Equal(t, int64(350), timer.When())

	loop.RunUntil(500)
	assert.Equal(t, []int64{100, 500}, fired, "events due exactly at t run")
}

func TestLoop_Horizon_StopsRun(t *testing.T) {
	loop := NewLoop(150)
	fired := 0
	loop.AfterFunc(100, func() { fired++ })
	loop.AfterFunc(200, func() { fired++ })

	loop.Run()

	assert.Equal(t, 1, fired)
	assert.Equal(t, 1, loop.Pending())
}

func TestLoop_Stop_DiscardsPendingAndNewEvents(t *testing.T) {
	loop := NewLoop(0)
	fired := false
	loop.AfterFunc(100, func() { fired = true })

	loop.Stop()
	loop.Stop()
	late := loop.AfterFunc(10, func() { fired = true })
	loop.Run()

	assert.False(t, fired)
	assert.True(t, loop.Stopped())
	assert.Equal(t, 0, loop.Pending())
	assert.False(t, late.Stop(), "timer created on a stopped loop is already stopped")
}

func TestLoop_ScheduleInPast_Panics(t *testing.T) {
	loop := NewLoop(0)
	loop.RunUntil(100)
	assert.Panics(t, func() {
		loop.ScheduleArrival(SourceEvent{Timestamp: 50}, func(SourceEvent) {})
	})
	assert.Panics(t, func() { loop.AfterFunc(-1, func() {}) })
}
