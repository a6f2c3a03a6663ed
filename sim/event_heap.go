package sim

import "container/heap"

// EventHeap implements a priority queue with deterministic ordering
// Ordering: timestamp → type priority → event ID
//
// It also tracks the heap index of every queued event so that a pending
// event can be removed by ID (timer cancellation).
type EventHeap struct {
	events []Event
	index  map[uint64]int
}

// NewEventHeap creates a new event heap
func NewEventHeap() *EventHeap {
	h := &EventHeap{
		events: make([]Event, 0),
		index:  make(map[uint64]int),
	}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *EventHeap) Len() int {
	return len(h.events)
}

// Less implements heap.Interface with deterministic ordering
// Order by: timestamp → type priority → event ID
func (h *EventHeap) Less(i, j int) bool {
	ei, ej := h.events[i], h.events[j]

	// Primary: timestamp (lower first)
	if ei.Timestamp() != ej.Timestamp() {
		return ei.Timestamp() < ej.Timestamp()
	}

	// Secondary: type priority (lower priority value = processed first)
	priI := EventTypePriority[ei.Type()]
	priJ := EventTypePriority[ej.Type()]
	if priI != priJ {
		return priI < priJ
	}

	// Tertiary: event ID (lower first, deterministic tie-breaker)
	return ei.EventID() < ej.EventID()
}

// Swap implements heap.Interface
func (h *EventHeap) Swap(i, j int) {
	h.events[i], h.events[j] = h.events[j], h.events[i]
	h.index[h.events[i].EventID()] = i
	h.index[h.events[j].EventID()] = j
}

// Push implements heap.Interface
func (h *EventHeap) Push(x any) {
	e := x.(Event)
	h.index[e.EventID()] = len(h.events)
	h.events = append(h.events, e)
}

// Pop implements heap.Interface
func (h *EventHeap) Pop() any {
	old := h.events
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	h.events = old[0 : n-1]
	delete(h.index, item.EventID())
	return item
}

// Schedule adds an event to the heap
func (h *EventHeap) Schedule(e Event) {
	heap.Push(h, e)
}

// PopNext removes and returns the next event
func (h *EventHeap) PopNext() Event {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(Event)
}

// Peek returns the next event without removing it
func (h *EventHeap) Peek() Event {
	if h.Len() == 0 {
		return nil
	}
	return h.events[0]
}

// Remove drops the queued event with the given ID.
// Returns false if no such event is queued (already executed or removed).
func (h *EventHeap) Remove(id uint64) bool {
	i, ok := h.index[id]
	if !ok {
		return false
	}
	heap.Remove(h, i)
	return true
}

// Clear drops every queued event and returns how many there were.
func (h *EventHeap) Clear() int {
	n := len(h.events)
	h.events = make([]Event, 0)
	h.index = make(map[uint64]int)
	return n
}
