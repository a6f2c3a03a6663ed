package sim

import "github.com/sirupsen/logrus"

// ExhaustDispatcher keeps at most one task. Source events arriving while a
// task runs are dropped without creating a task.
type ExhaustDispatcher struct {
	*taskRunner
	current *Task
}

func (d *ExhaustDispatcher) Dispatch(ev SourceEvent) {
	if !d.accept(ev) {
		return
	}
	if d.current != nil {
		d.metrics.Dropped++
		logrus.Debugf("[t %07d] %s: task %d busy until %d, dropping source %d",
			d.loop.Now(), d.policy, d.current.ID, d.current.timer.When(), ev.ID)
		return
	}
	t := d.newTask(ev)
	d.current = t
	d.start(t, func(*Task) {
		d.current = nil
	})
}

// Current returns the active task, or nil.
func (d *ExhaustDispatcher) Current() *Task {
	return d.current
}

func (d *ExhaustDispatcher) Teardown() {
	if d.teardown() {
		d.current = nil
	}
}
