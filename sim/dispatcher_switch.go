package sim

// SwitchDispatcher keeps at most one task. A new source event cancels the
// active task, releasing its timer, before starting its own; only the task
// of the most recent uncanceled event ever completes.
type SwitchDispatcher struct {
	*taskRunner
	current *Task
}

func (d *SwitchDispatcher) Dispatch(ev SourceEvent) {
	if !d.accept(ev) {
		return
	}
	if d.current != nil {
		d.cancel(d.current)
		d.current = nil
	}
	t := d.newTask(ev)
	d.current = t
	d.start(t, func(done *Task) {
		if d.current == done {
			d.current = nil
		}
	})
}

// Current returns the active task, or nil.
func (d *SwitchDispatcher) Current() *Task {
	return d.current
}

func (d *SwitchDispatcher) Teardown() {
	if d.teardown() {
		d.current = nil
	}
}
