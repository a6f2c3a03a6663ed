package sim

import (
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pulse-sim/pulse-sim/sim/pulse"
)

// Lane is one policy's dispatcher inside a comparative run.
type Lane struct {
	Policy     Policy
	Dispatcher Dispatcher
}

// LaneResult is what one lane produced.
type LaneResult struct {
	Policy      Policy            `json:"policy"`
	Color       string            `json:"color"`
	Completions []CompletionEvent `json:"completions"`
	Metrics     DispatchMetrics   `json:"metrics"`
	Finished    bool              `json:"finished"`
}

// NewLaneResult snapshots a dispatcher's output.
func NewLaneResult(d Dispatcher) LaneResult {
	return LaneResult{
		Policy:      d.Policy(),
		Color:       d.Policy().Color(),
		Completions: slices.Collect(d.Completions()),
		Metrics:     *d.Metrics(),
		Finished:    d.Finished(),
	}
}

// CompletionTimes returns the end time of every completion, in emission order.
func (lr LaneResult) CompletionTimes() []int64 {
	out := make([]int64, len(lr.Completions))
	for i, c := range lr.Completions {
		out[i] = c.EndTime
	}
	return out
}

// Demo replays one synthetic moment sequence into one dispatcher per policy
// so their behavior can be compared against the same stimulus.
type Demo struct {
	RunID     string
	Config    Config
	Loop      *Loop
	Clock     *Clock
	Source    *MomentSource
	Lanes     []*Lane
	Registry  *pulse.Registry
	Lifecycle *Lifecycle

	result *DemoResult
}

// NewDemo wires a demo for the given policies (all four when empty).
func NewDemo(cfg Config, policies []Policy) (*Demo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid demo config: %w", err)
	}
	if len(policies) == 0 {
		policies = Policies
	}

	loop := NewLoop(0)
	clock := NewClock(loop, cfg.TickIntervalMs)
	d := &Demo{
		RunID:     uuid.NewString(),
		Config:    cfg,
		Loop:      loop,
		Clock:     clock,
		Source:    NewMomentSource(loop, clock, cfg.TicksPerMoment, cfg.MomentLimit),
		Registry:  pulse.NewRegistry(loop.Now),
		Lifecycle: NewLifecycle(),
	}
	for _, p := range policies {
		d.Lanes = append(d.Lanes, d.wireLane(p))
	}
	d.Source.OnComplete(func() {
		for _, lane := range d.Lanes {
			lane.Dispatcher.Complete()
		}
	})

	d.Lifecycle.Register("clock", clock.Stop)
	d.Lifecycle.Register("moment source", d.Source.Detach)
	for _, lane := range d.Lanes {
		d.Lifecycle.Register("dispatcher "+lane.Policy.String(), lane.Dispatcher.Teardown)
	}
	d.Lifecycle.Register("loop", loop.Stop)
	d.Lifecycle.Register("pulse registry", d.Registry.Seal)
	return d, nil
}

func (d *Demo) wireLane(p Policy) *Lane {
	lane := &Lane{Policy: p, Dispatcher: NewDispatcher(p, d.Loop, d.Config.TaskDelayMs)}
	lane.Dispatcher.ResolveEndWith(func() Position {
		latest, _ := d.Source.Latest()
		return latest.Position
	})
	d.Source.Subscribe(func(ev SourceEvent) {
		d.Registry.Append(pulse.Record{
			Position:  ev.Position,
			Color:     DefaultColor,
			CreatedAt: ev.Timestamp,
			Policy:    p.String(),
			Kind:      pulse.KindSource,
		})
		lane.Dispatcher.Dispatch(ev)
	})
	lane.Dispatcher.OnComplete(func(c CompletionEvent) {
		d.Registry.Append(pulse.Record{
			Position:  c.StartPosition,
			Color:     p.Color(),
			CreatedAt: c.EndTime,
			Policy:    p.String(),
			Kind:      pulse.KindCompletion,
			TaskID:    c.TaskID,
		})
	})
	return lane
}

// Lane returns the lane for p, or nil.
func (d *Demo) Lane(p Policy) *Lane {
	for _, lane := range d.Lanes {
		if lane.Policy == p {
			return lane
		}
	}
	return nil
}

// Finished reports whether every lane has drained after the source completed.
func (d *Demo) Finished() bool {
	for _, lane := range d.Lanes {
		if !lane.Dispatcher.Finished() {
			return false
		}
	}
	return true
}

// Run starts the clock and executes the loop until every lane has drained,
// then tears everything down. A second call returns the first result.
func (d *Demo) Run() *DemoResult {
	if d.result != nil {
		return d.result
	}
	logrus.Infof("demo %s: %d lanes, tick=%dms, moment every %d ticks, limit=%d, delay=%dms",
		d.RunID, len(d.Lanes), d.Config.TickIntervalMs, d.Config.TicksPerMoment, d.Config.MomentLimit, d.Config.TaskDelayMs)

	d.Clock.Start()
	end := d.Loop.Run()
	if !d.Finished() {
		logrus.Warnf("demo %s: loop idle at %dms with unfinished lanes", d.RunID, end)
	}
	d.result = d.collect(end)
	d.Lifecycle.Teardown()

	logrus.Infof("demo %s complete at %dms: %d pulses", d.RunID, end, d.Registry.Len())
	return d.result
}

// Teardown stops the demo early. Idempotent.
func (d *Demo) Teardown() {
	d.Lifecycle.Teardown()
}

func (d *Demo) collect(end int64) *DemoResult {
	res := &DemoResult{
		RunID:    d.RunID,
		Config:   d.Config,
		Duration: end,
		Moments:  d.Source.Emitted(),
		Pulses:   d.Registry.Snapshot(),
		Summary:  pulse.Summarize(d.Registry),
	}
	for _, lane := range d.Lanes {
		res.Lanes = append(res.Lanes, NewLaneResult(lane.Dispatcher))
	}
	return res
}

// DemoResult is the outcome of a demo run.
type DemoResult struct {
	RunID    string         `json:"run_id"`
	Config   Config         `json:"config"`
	Duration int64          `json:"duration"`
	Moments  int64          `json:"moments"`
	Lanes    []LaneResult   `json:"lanes"`
	Pulses   []pulse.Record `json:"pulses"`
	Summary  *pulse.Summary `json:"summary"`
}

// Lane returns the result for p, or nil.
func (r *DemoResult) Lane(p Policy) *LaneResult {
	for i := range r.Lanes {
		if r.Lanes[i].Policy == p {
			return &r.Lanes[i]
		}
	}
	return nil
}

// Print writes a per-lane report.
func (r *DemoResult) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, "=== Demo Results ===")
	_, _ = fmt.Fprintf(w, "Run ID               : %s\n", r.RunID)
	_, _ = fmt.Fprintf(w, "Moments              : %d\n", r.Moments)
	_, _ = fmt.Fprintf(w, "Duration             : %d ms\n", r.Duration)
	_, _ = fmt.Fprintf(w, "Pulses               : %d\n", len(r.Pulses))
	for _, lane := range r.Lanes {
		lane.Metrics.Print(w, lane.Policy)
		_, _ = fmt.Fprintf(w, "Completion Times     : %v\n", lane.CompletionTimes())
	}
}
