package sim

import (
	"fmt"
	"iter"

	"github.com/sirupsen/logrus"
)

// SelectableDispatcher runs one dispatcher per policy and routes each source
// event to the dispatcher of the policy selected at dispatch time. Changing
// the selection never affects tasks already in flight: they finish under the
// policy they started with.
type SelectableDispatcher struct {
	lanes    map[Policy]Dispatcher
	selected Policy
}

// NewSelectableDispatcher creates one dispatcher per policy on loop.
// Panics on a non-positive delay or an unknown initial policy.
func NewSelectableDispatcher(loop *Loop, delay int64, initial Policy) *SelectableDispatcher {
	if !initial.Valid() {
		panic(fmt.Sprintf("NewSelectableDispatcher: unknown policy %d", int(initial)))
	}
	s := &SelectableDispatcher{
		lanes:    make(map[Policy]Dispatcher, len(Policies)),
		selected: initial,
	}
	for _, p := range Policies {
		s.lanes[p] = NewDispatcher(p, loop, delay)
	}
	return s
}

// Select changes the policy applied to subsequent events.
// Panics on an unknown policy.
func (s *SelectableDispatcher) Select(p Policy) {
	if !p.Valid() {
		panic(fmt.Sprintf("Select: unknown policy %d", int(p)))
	}
	if p != s.selected {
		logrus.Debugf("policy selection %s -> %s", s.selected, p)
	}
	s.selected = p
}

// Selected returns the policy currently in effect.
func (s *SelectableDispatcher) Selected() Policy {
	return s.selected
}

// Color returns the completion color of the selected policy, for labeling.
func (s *SelectableDispatcher) Color() string {
	return s.selected.Color()
}

// Lane returns the dispatcher for p.
func (s *SelectableDispatcher) Lane(p Policy) Dispatcher {
	return s.lanes[p]
}

// Dispatch routes ev to the dispatcher of the currently selected policy.
func (s *SelectableDispatcher) Dispatch(ev SourceEvent) {
	s.lanes[s.selected].Dispatch(ev)
}

// OnComplete registers fn on every lane.
func (s *SelectableDispatcher) OnComplete(fn func(CompletionEvent)) {
	for _, p := range Policies {
		s.lanes[p].OnComplete(fn)
	}
}

// Completions iterates completions lane by lane, in policy declaration order.
func (s *SelectableDispatcher) Completions() iter.Seq[CompletionEvent] {
	return func(yield func(CompletionEvent) bool) {
		for _, p := range Policies {
			for c := range s.lanes[p].Completions() {
				if !yield(c) {
					return
				}
			}
		}
	}
}

// Active returns the number of running plus queued tasks across lanes.
func (s *SelectableDispatcher) Active() int {
	n := 0
	for _, d := range s.lanes {
		n += d.Active()
	}
	return n
}

// Teardown tears down every lane.
func (s *SelectableDispatcher) Teardown() {
	for _, p := range Policies {
		s.lanes[p].Teardown()
	}
}
