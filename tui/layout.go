package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulse-sim/pulse-sim/sim"
)

// Element IDs of the fixed screen regions.
const (
	RootID     = "app"
	CanvasID   = "canvas"
	ControlsID = "controls"
	StatusID   = "status"

	policyButtonPrefix = "policy-"
)

// controlsHeight is the button row plus the status line.
const controlsHeight = 2

// Element is a rectangular screen region. Children lie inside their parent.
type Element struct {
	ID       string
	X, Y     int
	W, H     int
	Parent   *Element
	Children []*Element
}

// Contains reports whether the cell (x, y) lies inside e.
func (e *Element) Contains(x, y int) bool {
	return x >= e.X && x < e.X+e.W && y >= e.Y && y < e.Y+e.H
}

func (e *Element) add(child *Element) *Element {
	child.Parent = e
	e.Children = append(e.Children, child)
	return child
}

// Layout is the element tree for one terminal size.
type Layout struct {
	Root     *Element
	Canvas   *Element
	Controls *Element
	byID     map[string]*Element
}

// NewLayout splits a width×height terminal into the canvas and, below it,
// the control bar holding one button per policy and the status line.
func NewLayout(width, height int) *Layout {
	width, height = max(width, 0), max(height, 0)
	canvasH := max(height-controlsHeight, 0)

	root := &Element{ID: RootID, W: width, H: height}
	l := &Layout{Root: root, byID: make(map[string]*Element)}
	l.Canvas = root.add(&Element{ID: CanvasID, W: width, H: canvasH})
	l.Controls = root.add(&Element{ID: ControlsID, Y: canvasH, W: width, H: height - canvasH})

	x := 0
	for _, p := range sim.Policies {
		w := lipgloss.Width(buttonLabel(p)) + 2 // button padding
		l.Controls.add(&Element{ID: PolicyButtonID(p), X: x, Y: canvasH, W: w, H: 1})
		x += w + 1
	}
	l.Controls.add(&Element{ID: StatusID, Y: canvasH + 1, W: width, H: 1})

	l.index(root)
	return l
}

func (l *Layout) index(e *Element) {
	l.byID[e.ID] = e
	for _, c := range e.Children {
		l.index(c)
	}
}

// ElementByID returns the element with the given ID, or nil.
func (l *Layout) ElementByID(id string) *Element {
	return l.byID[id]
}

// HitTest returns the innermost element containing (x, y), or nil when the
// point is off screen.
func (l *Layout) HitTest(x, y int) *Element {
	if !l.Root.Contains(x, y) {
		return nil
	}
	e := l.Root
	for {
		var next *Element
		for _, c := range e.Children {
			if c.Contains(x, y) {
				next = c
				break
			}
		}
		if next == nil {
			return e
		}
		e = next
	}
}

// IsControl reports whether the element id is, or sits inside, the control
// bar or a policy button. Unknown IDs are not controls.
func (l *Layout) IsControl(id string) bool {
	for e := l.byID[id]; e != nil; e = e.Parent {
		if e.ID == ControlsID || strings.HasPrefix(e.ID, policyButtonPrefix) {
			return true
		}
	}
	return false
}

// PolicyButtonID is the element ID of the selector button for p.
func PolicyButtonID(p sim.Policy) string {
	return policyButtonPrefix + p.String()
}

// PolicyForButton maps a button ID back to its policy.
func PolicyForButton(id string) (sim.Policy, bool) {
	name, ok := strings.CutPrefix(id, policyButtonPrefix)
	if !ok {
		return 0, false
	}
	p, err := sim.ParsePolicy(name)
	if err != nil {
		return 0, false
	}
	return p, true
}

func buttonLabel(p sim.Policy) string {
	for i, q := range sim.Policies {
		if q == p {
			return string(rune('1'+i)) + " " + p.Label()
		}
	}
	return p.Label()
}
