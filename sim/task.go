// Defines the Task struct that models one delayed unit of work triggered by a
// source event, and the CompletionEvent it produces.

package sim

import (
	"fmt"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskCanceled  TaskStatus = "canceled"
)

// validTransitions lists the statuses reachable from each status.
// Pending → Canceled covers a queued task torn down before it starts.
var validTransitions = map[TaskStatus]map[TaskStatus]bool{
	TaskPending: {TaskRunning: true, TaskCanceled: true},
	TaskRunning: {TaskCompleted: true, TaskCanceled: true},
}

// Task is owned by the dispatcher that created it and is never shared.
type Task struct {
	ID            int64
	SourceEventID int64
	Source        SourceEvent
	Policy        Policy
	CreatedTime   int64 // when the source event was dispatched
	StartTime     int64 // when the task began running; valid once Running
	EndTime       int64 // completion or cancellation time
	Status        TaskStatus

	timer *Timer
}

func newTask(id int64, src SourceEvent, policy Policy, now int64) *Task {
	return &Task{
		ID:            id,
		SourceEventID: src.ID,
		Source:        src,
		Policy:        policy,
		CreatedTime:   now,
		Status:        TaskPending,
	}
}

// transition moves the task to status to. Revisiting a status, or skipping
// Running on the way to Completed, is a programming error.
func (t *Task) transition(to TaskStatus) {
	if !validTransitions[t.Status][to] {
		panic(fmt.Sprintf("task %d: invalid transition %s -> %s", t.ID, t.Status, to))
	}
	t.Status = to
}

// Active reports whether the task is pending or running.
func (t *Task) Active() bool {
	return t.Status == TaskPending || t.Status == TaskRunning
}

func (t Task) String() string {
	return fmt.Sprintf("Task: (ID: %d, Source: %d, Policy: %s, Status: %s, StartTime: %d)", t.ID, t.SourceEventID, t.Policy, t.Status, t.StartTime)
}

// CompletionEvent is emitted exactly once for every task that completes.
// Canceled tasks never produce one.
type CompletionEvent struct {
	TaskID        int64    `json:"task_id"`
	SourceEventID int64    `json:"source_event_id"`
	StartPosition Position `json:"start_position"`
	EndPosition   Position `json:"end_position"`
	Label         string   `json:"label"`
	Policy        Policy   `json:"policy"`
	ArrivalTime   int64    `json:"arrival_time"`
	StartTime     int64    `json:"start_time"`
	EndTime       int64    `json:"end_time"`
}
