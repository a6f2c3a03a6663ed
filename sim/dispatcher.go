package sim

import (
	"fmt"
	"iter"

	"github.com/sirupsen/logrus"
)

// Dispatcher decides, for each incoming source event, whether to start a
// task, cancel an in-flight one, drop the event, or queue it. Each task is a
// pure delay of a fixed length; completions are delivered to listeners and
// kept for replay.
type Dispatcher interface {
	// Policy returns the fixed scheduling policy.
	Policy() Policy
	// Dispatch handles one source event at the loop's current time.
	Dispatch(ev SourceEvent)
	// Complete marks the upstream source finished.
	Complete()
	// Finished reports whether the source is complete and no task is active.
	Finished() bool
	// OnComplete registers a completion listener.
	OnComplete(fn func(CompletionEvent))
	// Completions iterates every completion emitted so far, in emission order.
	Completions() iter.Seq[CompletionEvent]
	// ResolveEndWith sets how a completion's end position is resolved.
	ResolveEndWith(fn func() Position)
	// Active returns the number of running plus queued tasks.
	Active() int
	// Teardown cancels all pending and running tasks without emitting
	// completions and refuses further events. Idempotent.
	Teardown()
	// Metrics returns the dispatcher's counters.
	Metrics() *DispatchMetrics
}

// NewDispatcher creates a Dispatcher for policy on loop with a task delay in
// milliseconds. Panics on a non-positive delay or an unknown policy.
func NewDispatcher(policy Policy, loop *Loop, delay int64) Dispatcher {
	if loop == nil {
		panic("NewDispatcher: loop must not be nil")
	}
	if delay <= 0 {
		panic(fmt.Sprintf("NewDispatcher: delay must be positive, got %d", delay))
	}
	base := newTaskRunner(policy, loop, delay)
	switch policy {
	case PolicyMerge:
		return &MergeDispatcher{taskRunner: base}
	case PolicySwitch:
		return &SwitchDispatcher{taskRunner: base}
	case PolicyExhaust:
		return &ExhaustDispatcher{taskRunner: base}
	case PolicyConcat:
		return &ConcatDispatcher{taskRunner: base}
	default:
		panic(fmt.Sprintf("unhandled policy %v", policy))
	}
}

// taskRunner holds the task lifecycle shared by every policy: creating,
// starting, completing and canceling delay tasks. The policies differ only
// in what they do when an event arrives while a task is active.
type taskRunner struct {
	policy Policy
	loop   *Loop
	delay  int64

	nextTaskID  int64
	running     map[int64]*Task
	emitted     []CompletionEvent
	listeners   []func(CompletionEvent)
	endPosition func() Position
	sourceDone  bool
	torndown    bool
	metrics     DispatchMetrics
}

func newTaskRunner(policy Policy, loop *Loop, delay int64) *taskRunner {
	return &taskRunner{
		policy:  policy,
		loop:    loop,
		delay:   delay,
		running: make(map[int64]*Task),
	}
}

func (r *taskRunner) Policy() Policy {
	return r.policy
}

func (r *taskRunner) Delay() int64 {
	return r.delay
}

func (r *taskRunner) OnComplete(fn func(CompletionEvent)) {
	r.listeners = append(r.listeners, fn)
}

func (r *taskRunner) ResolveEndWith(fn func() Position) {
	r.endPosition = fn
}

func (r *taskRunner) Completions() iter.Seq[CompletionEvent] {
	return func(yield func(CompletionEvent) bool) {
		for _, c := range r.emitted {
			if !yield(c) {
				return
			}
		}
	}
}

func (r *taskRunner) Metrics() *DispatchMetrics {
	return &r.metrics
}

func (r *taskRunner) Complete() {
	r.sourceDone = true
}

func (r *taskRunner) Active() int {
	return len(r.running)
}

func (r *taskRunner) Finished() bool {
	return r.sourceDone && len(r.running) == 0
}

// accept counts an incoming event and reports whether it may be handled.
func (r *taskRunner) accept(ev SourceEvent) bool {
	r.metrics.SourceEvents++
	if r.torndown {
		r.metrics.Dropped++
		logrus.Debugf("[t %07d] %s: torn down, dropping source %d", r.loop.Now(), r.policy, ev.ID)
		return false
	}
	return true
}

func (r *taskRunner) newTask(ev SourceEvent) *Task {
	r.nextTaskID++
	return newTask(r.nextTaskID, ev, r.policy, r.loop.Now())
}

// start moves t to Running and arms its delay timer. onDone runs after the
// completion has been emitted.
func (r *taskRunner) start(t *Task, onDone func(*Task)) {
	t.transition(TaskRunning)
	t.StartTime = r.loop.Now()
	r.running[t.ID] = t
	r.metrics.Started++
	r.metrics.PeakActive = max(r.metrics.PeakActive, len(r.running))
	logrus.Debugf("[t %07d] %s: start task %d (source %d), due at %d", t.StartTime, r.policy, t.ID, t.SourceEventID, t.StartTime+r.delay)
	t.timer = r.loop.AfterFunc(r.delay, func() {
		r.finish(t)
		if onDone != nil {
			onDone(t)
		}
	})
}

func (r *taskRunner) finish(t *Task) {
	t.transition(TaskCompleted)
	t.EndTime = r.loop.Now()
	delete(r.running, t.ID)

	end := t.Source.Position
	if r.endPosition != nil {
		end = r.endPosition()
	}
	c := CompletionEvent{
		TaskID:        t.ID,
		SourceEventID: t.SourceEventID,
		StartPosition: t.Source.Position,
		EndPosition:   end,
		Label:         r.policy.Label(),
		Policy:        r.policy,
		ArrivalTime:   t.CreatedTime,
		StartTime:     t.StartTime,
		EndTime:       t.EndTime,
	}
	r.emitted = append(r.emitted, c)
	r.metrics.Completed++
	r.metrics.TotalLatency += c.EndTime - c.ArrivalTime
	r.metrics.LastEnd = c.EndTime
	logrus.Debugf("[t %07d] %s: complete task %d (source %d)", c.EndTime, r.policy, t.ID, t.SourceEventID)
	for _, fn := range r.listeners {
		fn(c)
	}
}

// cancel stops t's timer and marks it Canceled. No completion is emitted.
func (r *taskRunner) cancel(t *Task) {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.transition(TaskCanceled)
	t.EndTime = r.loop.Now()
	delete(r.running, t.ID)
	r.metrics.Canceled++
	logrus.Debugf("[t %07d] %s: cancel task %d (source %d)", t.EndTime, r.policy, t.ID, t.SourceEventID)
}

// teardown cancels every running task. Returns false if already torn down.
func (r *taskRunner) teardown() bool {
	if r.torndown {
		return false
	}
	r.torndown = true
	for _, t := range r.runningInOrder() {
		r.cancel(t)
	}
	return true
}

// runningInOrder returns running tasks by ascending ID, for deterministic
// cancellation order.
func (r *taskRunner) runningInOrder() []*Task {
	out := make([]*Task, 0, len(r.running))
	for id := int64(1); id <= r.nextTaskID && len(out) < len(r.running); id++ {
		if t, ok := r.running[id]; ok {
			out = append(out, t)
		}
	}
	return out
}
