package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-sim/pulse-sim/sim"
)

func TestRenderDemo_OneBlockPerLane(t *testing.T) {
	d, err := sim.NewDemo(sim.DefaultConfig(), []sim.Policy{sim.PolicySwitch, sim.PolicyExhaust})
	require.NoError(t, err)
	res := d.Run()

	out := RenderDemo(res, 80)

	assert.Contains(t, out, "SWITCH_MAP  7 in / 1 out")
	assert.Contains(t, out, "EXHAUST_MAP  7 in / 4 out")
	assert.Equal(t, 2, strings.Count(out, "\nin   "))
	assert.Equal(t, 2, strings.Count(out, "\nout  "))
	assert.Contains(t, out, "7000ms")
}

func TestRenderDemo_NarrowWidth_UsesMinimum(t *testing.T) {
	d, err := sim.NewDemo(sim.DefaultConfig(), []sim.Policy{sim.PolicyMerge})
	require.NoError(t, err)

	assert.NotPanics(t, func() { RenderDemo(d.Run(), 0) })
}

func TestColumn_Clamped(t *testing.T) {
	assert.Equal(t, 0, column(0, 1000, 50))
	assert.Equal(t, 49, column(1000, 1000, 50))
	assert.Equal(t, 49, column(5000, 1000, 50))
}
