package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-sim/pulse-sim/sim"
)

func TestNewLayout_Regions(t *testing.T) {
	l := NewLayout(80, 24)

	assert.Equal(t, 22, l.Canvas.H)
	assert.Equal(t, 80, l.Canvas.W)
	assert.Equal(t, 22, l.Controls.Y)

	first := l.ElementByID(PolicyButtonID(sim.PolicyMerge))
	require.NotNil(t, first)
	assert.Equal(t, 0, first.X)
	assert.Equal(t, 22, first.Y)

	second := l.ElementByID(PolicyButtonID(sim.PolicySwitch))
	require.NotNil(t, second)
	assert.Equal(t, first.X+first.W+1, second.X, "buttons are separated by one cell")
}

func TestLayout_HitTest(t *testing.T) {
	l := NewLayout(80, 24)
	merge := l.ElementByID(PolicyButtonID(sim.PolicyMerge))

	tests := []struct {
		name string
		x, y int
		want string
	}{
		{"canvas", 40, 10, CanvasID},
		{"merge button", merge.X + 1, merge.Y, PolicyButtonID(sim.PolicyMerge)},
		{"status line", 5, 23, StatusID},
		{"gap right of buttons", 79, 22, ControlsID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := l.HitTest(tt.x, tt.y)
			require.NotNil(t, el)
			assert.Equal(t, tt.want, el.ID)
		})
	}
	assert.Nil(t, l.HitTest(80, 0), "off screen")
	assert.Nil(t, l.HitTest(-1, 0), "off screen")
}

func TestLayout_IsControl_WalksAncestry(t *testing.T) {
	l := NewLayout(80, 24)

	assert.True(t, l.IsControl(ControlsID))
	assert.True(t, l.IsControl(StatusID), "inside the control bar")
	assert.True(t, l.IsControl(PolicyButtonID(sim.PolicyConcat)))
	assert.False(t, l.IsControl(CanvasID))
	assert.False(t, l.IsControl(RootID))
	assert.False(t, l.IsControl("nonexistent"))
}

func TestPolicyForButton(t *testing.T) {
	for _, p := range sim.Policies {
		got, ok := PolicyForButton(PolicyButtonID(p))
		assert.True(t, ok)
		assert.Equal(t, p, got)
	}
	_, ok := PolicyForButton(CanvasID)
	assert.False(t, ok)
	_, ok = PolicyForButton("policy-flatmap")
	assert.False(t, ok)
}

func TestNewLayout_TinyTerminal(t *testing.T) {
	l := NewLayout(10, 1)
	assert.Equal(t, 0, l.Canvas.H)
	assert.NotPanics(t, func() { l.HitTest(0, 0) })
}
