// Tracks per-dispatcher counters such as started, canceled and dropped tasks.

package sim

import (
	"fmt"
	"io"
)

// DispatchMetrics aggregates what a dispatcher did with its source events.
// Every source event either creates a task or is dropped; every task ends
// completed or canceled, or is still active.
type DispatchMetrics struct {
	SourceEvents int   `json:"source_events"` // events passed to Dispatch
	Started      int   `json:"started"`       // tasks that reached Running
	Enqueued     int   `json:"enqueued"`      // events that waited in the Concat queue
	Dropped      int   `json:"dropped"`       // events ignored by Exhaust or after teardown
	Canceled     int   `json:"canceled"`      // tasks canceled by Switch or teardown
	Completed    int   `json:"completed"`     // completion events emitted
	PeakActive   int   `json:"peak_active"`   // max simultaneously running tasks
	PeakQueued   int   `json:"peak_queued"`   // max Concat queue depth
	TotalLatency int64 `json:"total_latency"` // sum of (end - arrival) over completions
	LastEnd      int64 `json:"last_end"`      // time of the last completion
}

// MeanLatency returns the mean arrival-to-completion time, 0 with no completions.
func (m *DispatchMetrics) MeanLatency() float64 {
	if m.Completed == 0 {
		return 0
	}
	return float64(m.TotalLatency) / float64(m.Completed)
}

// Print writes the counters for one policy.
func (m *DispatchMetrics) Print(w io.Writer, policy Policy) {
	_, _ = fmt.Fprintf(w, "=== %s (%s) ===\n", policy.Label(), policy.Color())
	_, _ = fmt.Fprintf(w, "Source Events        : %d\n", m.SourceEvents)
	_, _ = fmt.Fprintf(w, "Started Tasks        : %d\n", m.Started)
	_, _ = fmt.Fprintf(w, "Enqueued Events      : %d\n", m.Enqueued)
	_, _ = fmt.Fprintf(w, "Dropped Events       : %d\n", m.Dropped)
	_, _ = fmt.Fprintf(w, "Canceled Tasks       : %d\n", m.Canceled)
	_, _ = fmt.Fprintf(w, "Completed Tasks      : %d\n", m.Completed)
	if m.Completed > 0 {
		_, _ = fmt.Fprintf(w, "Mean Latency         : %.2f ms\n", m.MeanLatency())
		_, _ = fmt.Fprintf(w, "Last Completion      : %d ms\n", m.LastEnd)
	}
	_, _ = fmt.Fprintf(w, "Peak Active / Queued : %d / %d\n", m.PeakActive, m.PeakQueued)
}
