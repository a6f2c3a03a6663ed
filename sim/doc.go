// Package sim provides the policy dispatchers and the deterministic event
// loop that drives them.
//
// # Reading Guide
//
// Start with these files:
//   - loop.go: the single-threaded event loop over virtual milliseconds and its cancellable Timers
//   - dispatcher.go: the Dispatcher interface and the task lifecycle shared by all policies
//   - dispatcher_{merge,switch,exhaust,concat}.go: one task-state machine per policy
//   - demo.go: four dispatchers fed by one synthetic moment sequence
//
// # Ordering
//
// Events are ordered by timestamp, then by type priority, then by event ID.
// Timer events (task completions) sort before clock ticks and arrivals at the
// same instant, so an event arriving exactly when a task completes sees the
// slot already free.
//
// # Sub-packages
//   - sim/pulse/: the append-only pulse registry used for rendering
//   - sim/scenario/: YAML-scripted source-event timelines
package sim
