package sim

// MergeDispatcher starts a task for every source event. Tasks run
// concurrently without bound and each completes its own delay after it
// started, so completions may arrive out of creation order.
type MergeDispatcher struct {
	*taskRunner
}

func (d *MergeDispatcher) Dispatch(ev SourceEvent) {
	if !d.accept(ev) {
		return
	}
	d.start(d.newTask(ev), nil)
}

func (d *MergeDispatcher) Teardown() {
	d.teardown()
}
