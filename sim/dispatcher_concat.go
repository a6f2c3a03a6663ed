package sim

import "github.com/sirupsen/logrus"

// ConcatDispatcher runs one task at a time and queues the rest in arrival
// order. Task n+1 starts at the completion instant of task n.
type ConcatDispatcher struct {
	*taskRunner
	current *Task
	queue   TaskQueue
}

func (d *ConcatDispatcher) Dispatch(ev SourceEvent) {
	if !d.accept(ev) {
		return
	}
	t := d.newTask(ev)
	if d.current != nil {
		d.queue.Enqueue(t)
		d.metrics.Enqueued++
		d.metrics.PeakQueued = max(d.metrics.PeakQueued, d.queue.Len())
		logrus.Debugf("[t %07d] %s: task %d queued behind %d (depth %d)", d.loop.Now(), d.policy, t.ID, d.current.ID, d.queue.Len())
		return
	}
	d.run(t)
}

func (d *ConcatDispatcher) run(t *Task) {
	d.current = t
	d.start(t, d.next)
}

// next starts the head of the queue, if any.
func (d *ConcatDispatcher) next(*Task) {
	d.current = nil
	if t := d.queue.Dequeue(); t != nil {
		d.run(t)
	}
}

// Queued returns the number of tasks waiting to start.
func (d *ConcatDispatcher) Queued() int {
	return d.queue.Len()
}

func (d *ConcatDispatcher) Active() int {
	return len(d.running) + d.queue.Len()
}

func (d *ConcatDispatcher) Finished() bool {
	return d.sourceDone && len(d.running) == 0 && d.queue.Len() == 0
}

func (d *ConcatDispatcher) Teardown() {
	if !d.teardown() {
		return
	}
	d.current = nil
	for t := d.queue.Dequeue(); t != nil; t = d.queue.Dequeue() {
		t.transition(TaskCanceled)
		t.EndTime = d.loop.Now()
		d.metrics.Canceled++
		logrus.Debugf("[t %07d] %s: cancel queued task %d (source %d)", t.EndTime, d.policy, t.ID, t.SourceEventID)
	}
}
