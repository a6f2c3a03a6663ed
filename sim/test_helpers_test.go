package sim

// dispatchAt schedules one source event per timestamp, delivered to d.
// Source IDs start at 1 in the given order.
func dispatchAt(loop *Loop, d Dispatcher, times ...int64) {
	for i, at := range times {
		loop.ScheduleArrival(SourceEvent{
			ID:        int64(i + 1),
			Timestamp: at,
			Position:  Position{X: float64(10 * i), Y: 50},
		}, d.Dispatch)
	}
}

// runPolicy replays times into a fresh dispatcher and runs the loop dry.
func runPolicy(policy Policy, delay int64, times ...int64) (Dispatcher, *Loop) {
	loop := NewLoop(0)
	d := NewDispatcher(policy, loop, delay)
	dispatchAt(loop, d, times...)
	loop.Run()
	return d, loop
}

// completionTimes returns the end time of every completion, in emission order.
func completionTimes(d Dispatcher) []int64 {
	out := []int64{}
	for c := range d.Completions() {
		out = append(out, c.EndTime)
	}
	return out
}

// completedSources returns the source event ID of every completion.
func completedSources(d Dispatcher) []int64 {
	out := []int64{}
	for c := range d.Completions() {
		out = append(out, c.SourceEventID)
	}
	return out
}
