// Implements the TaskQueue, which holds Concat tasks waiting for the running
// task to finish. Tasks are enqueued on arrival.

package sim

import (
	"fmt"
	"strings"
)

// TaskQueue represents a FIFO queue of pending tasks.
type TaskQueue struct {
	queue []*Task // FIFO queue of tasks
}

// Enqueue adds a task to the back of the queue.
func (q *TaskQueue) Enqueue(t *Task) {
	if t == nil {
		panic("Enqueue: task must not be nil")
	}
	q.queue = append(q.queue, t)
}

func (q *TaskQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range q.queue {
		sb.WriteString(fmt.Sprint(val))
		if i < len(q.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of tasks in the queue.
func (q *TaskQueue) Len() int {
	return len(q.queue)
}

// Peek returns the task at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (q *TaskQueue) Peek() *Task {
	if len(q.queue) == 0 {
		return nil
	}
	return q.queue[0]
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage -- callers MUST NOT
// append to or reslice it.
func (q *TaskQueue) Items() []*Task {
	return q.queue
}

// Dequeue removes the task at the front of the queue.
// Returns nil if the queue is empty.
func (q *TaskQueue) Dequeue() *Task {
	if len(q.queue) == 0 {
		return nil
	}
	t := q.queue[0]
	q.queue[0] = nil
	q.queue = q.queue[1:]
	return t
}
