// Package pulse provides the append-only pulse registry used for rendering.
// This package has no dependencies on sim/. It stores pure data types.
package pulse

// Position is a normalized 2-D coordinate, in percent of the viewport.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Kind tells a source pulse from a completion pulse.
type Kind string

const (
	KindSource     Kind = "source"
	KindCompletion Kind = "completion"
)

// Record is one rendered pulse.
type Record struct {
	Seq       int      `json:"seq"`        // position in the registry, assigned on append
	Position  Position `json:"position"`
	Color     string   `json:"color"`
	CreatedAt int64    `json:"created_at"` // virtual ms
	Policy    string   `json:"policy,omitempty"`
	Kind      Kind     `json:"kind,omitempty"`
	TaskID    int64    `json:"task_id,omitempty"`
}
