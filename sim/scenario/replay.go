package scenario

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pulse-sim/pulse-sim/sim"
	"github.com/pulse-sim/pulse-sim/sim/pulse"
)

// Result is the outcome of a scenario replay.
type Result struct {
	RunID    string           `json:"run_id"`
	Name     string           `json:"name"`
	Duration int64            `json:"duration"`
	TornDown bool             `json:"torn_down"`
	Lanes    []sim.LaneResult `json:"lanes"`
	Pulses   []pulse.Record   `json:"pulses"`
	Summary  *pulse.Summary   `json:"summary"`
}

// Lane returns the result for p, or nil.
func (r *Result) Lane(p sim.Policy) *sim.LaneResult {
	for i := range r.Lanes {
		if r.Lanes[i].Policy == p {
			return &r.Lanes[i]
		}
	}
	return nil
}

// Print writes a per-lane report.
func (r *Result) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, "=== Scenario Results ===")
	_, _ = fmt.Fprintf(w, "Run ID               : %s\n", r.RunID)
	_, _ = fmt.Fprintf(w, "Scenario             : %s\n", r.Name)
	_, _ = fmt.Fprintf(w, "Duration             : %d ms\n", r.Duration)
	_, _ = fmt.Fprintf(w, "Torn Down            : %v\n", r.TornDown)
	for _, lane := range r.Lanes {
		lane.Metrics.Print(w, lane.Policy)
		_, _ = fmt.Fprintf(w, "Completion Times     : %v\n", lane.CompletionTimes())
	}
}

// Replay runs the scenario on a fresh loop. defaultDelay is used when the
// scenario does not set task_delay_ms. The scenario must be valid.
func (s *Scenario) Replay(defaultDelay int64) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	policies, _ := sim.ParsePolicies(s.Policies)
	delay := s.TaskDelayMs
	if delay == 0 {
		delay = defaultDelay
	}
	if delay <= 0 {
		return nil, fmt.Errorf("task delay must be positive, got %d", delay)
	}

	loop := sim.NewLoop(0)
	registry := pulse.NewRegistry(loop.Now)
	lifecycle := sim.NewLifecycle()

	dispatchers := make([]sim.Dispatcher, 0, len(policies))
	for _, p := range policies {
		d := sim.NewDispatcher(p, loop, delay)
		d.OnComplete(func(c sim.CompletionEvent) {
			registry.Append(pulse.Record{
				Position:  c.StartPosition,
				Color:     p.Color(),
				CreatedAt: c.EndTime,
				Policy:    p.String(),
				Kind:      pulse.KindCompletion,
				TaskID:    c.TaskID,
			})
		})
		dispatchers = append(dispatchers, d)
		lifecycle.Register("dispatcher "+p.String(), d.Teardown)
	}
	lifecycle.Register("loop", loop.Stop)
	lifecycle.Register("pulse registry", registry.Seal)

	deliver := func(ev sim.SourceEvent) {
		for i, d := range dispatchers {
			registry.Append(pulse.Record{
				Position:  ev.Position,
				Color:     sim.DefaultColor,
				CreatedAt: ev.Timestamp,
				Policy:    policies[i].String(),
				Kind:      pulse.KindSource,
			})
			d.Dispatch(ev)
		}
	}

	events := s.Timeline()
	for i, e := range events {
		loop.ScheduleArrival(sim.SourceEvent{
			ID:        int64(i + 1),
			Timestamp: e.AtMs,
			Position:  sim.Position{X: e.X, Y: e.Y},
		}, deliver)
	}
	last := events[len(events)-1].AtMs
	// Queued after every scripted arrival at the same instant: the source is
	// complete once the last one has been delivered.
	loop.ScheduleArrival(sim.SourceEvent{Timestamp: last}, func(sim.SourceEvent) {
		for _, d := range dispatchers {
			d.Complete()
		}
	})
	if s.TeardownAtMs != nil {
		loop.AfterFunc(*s.TeardownAtMs, lifecycle.Teardown)
	}

	runID := uuid.NewString()
	logrus.Infof("scenario %q (%s): %d events, %d lanes, delay=%dms", s.Name, runID, len(events), len(dispatchers), delay)
	end := loop.Run()

	res := &Result{
		RunID:    runID,
		Name:     s.Name,
		Duration: end,
		TornDown: lifecycle.Done(),
		Pulses:   registry.Snapshot(),
		Summary:  pulse.Summarize(registry),
	}
	for _, d := range dispatchers {
		res.Lanes = append(res.Lanes, sim.NewLaneResult(d))
	}
	lifecycle.Teardown()
	return res, nil
}
