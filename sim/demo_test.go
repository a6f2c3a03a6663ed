package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-sim/pulse-sim/sim/pulse"
)

func newTestDemo(t *testing.T, policies ...Policy) *Demo {
	t.Helper()
	d, err := NewDemo(DefaultConfig(), policies)
	require.NoError(t, err)
	return d
}

func TestDemo_DefaultRun_CompletionTimesPerPolicy(t *testing.T) {
	// GIVEN the stock demo: 7 moments 500ms apart, 1000ms tasks
	res := newTestDemo(t).Run()

	// THEN each policy shows its characteristic completion pattern
	tests := []struct {
		policy Policy
		want   []int64
	}{
		{PolicyMerge, []int64{1000, 1500, 2000, 2500, 3000, 3500, 4000}},
		{PolicySwitch, []int64{4000}},
		{PolicyExhaust, []int64{1000, 2000, 3000, 4000}},
		{PolicyConcat, []int64{1000, 2000, 3000, 4000, 5000, 6000, 7000}},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			lane := res.Lane(tt.policy)
			require.NotNil(t, lane)
			assert.Equal(t, tt.want, lane.CompletionTimes())
			assert.True(t, lane.Finished)
			assert.Equal(t, tt.policy.Color(), lane.Color)
		})
	}
	assert.Equal(t, int64(7000), res.Duration)
	assert.Equal(t, int64(7), res.Moments)
}

func TestDemo_DefaultRun_PulseCounts(t *testing.T) {
	res := newTestDemo(t).Run()

	assert.Len(t, res.Pulses, 47)
	assert.Equal(t, 28, res.Summary.Sources)
	assert.Equal(t, 19, res.Summary.Completions)
	assert.Equal(t, map[string]int{"merge": 7, "switch": 1, "exhaust": 4, "concat": 7}, res.Summary.ByPolicy)
	assert.Equal(t, 28, res.Summary.ByColor[DefaultColor])
	assert.Equal(t, int64(7000), res.Summary.LastAt)
}

func TestDemo_CompletionPulsesSitAtStartPosition(t *testing.T) {
	res := newTestDemo(t, PolicyConcat).Run()

	var xs []float64
	for _, rec := range res.Pulses {
		if rec.Kind == pulse.KindCompletion {
			assert.Equal(t, ConcatColor, rec.Color)
			xs = append(xs, rec.Position.X)
		}
	}
	require.Len(t, xs, 7)
	for i, x := range xs {
		assert.InDelta(t, MomentPosition(int64(i), 7).X, x, 1e-9)
	}
}

func TestDemo_EndPositionIsLatestMomentAtCompletion(t *testing.T) {
	res := newTestDemo(t, PolicyMerge).Run()
	lane := res.Lane(PolicyMerge)
	require.Len(t, lane.Completions, 7)

	// The task started at moment 0 completes at 1000ms, before tick 20
	// produces moment 2, so its end is moment 1.
	first := lane.Completions[0]
	assert.Equal(t, float64(0), first.StartPosition.X)
	assert.InDelta(t, 100.0/6, first.EndPosition.X, 1e-9)

	// After the source completes the end is pinned to the last moment.
	last := lane.Completions[6]
	assert.InDelta(t, 100.0, last.EndPosition.X, 1e-9)
}

func TestDemo_RegistryIsAppendOnly(t *testing.T) {
	d := newTestDemo(t)
	d.Clock.Start()
	d.Loop.RunUntil(1600)
	before := d.Registry.Snapshot()
	require.NotEmpty(t, before)

	res := d.Run()

	require.GreaterOrEqual(t, len(res.Pulses), len(before))
	assert.Equal(t, before, res.Pulses[:len(before)], "earlier pulses unchanged")
	for i, rec := range res.Pulses {
		assert.Equal(t, i, rec.Seq)
		if i > 0 {
			assert.GreaterOrEqual(t, rec.CreatedAt, res.Pulses[i-1].CreatedAt)
		}
	}
}

func TestDemo_TeardownMidRun_StopsEverything(t *testing.T) {
	// GIVEN a demo partway through
	d := newTestDemo(t)
	d.Clock.Start()
	d.Loop.RunUntil(1200)
	pulses := d.Registry.Len()

	// WHEN torn down, twice
	d.Teardown()
	d.Teardown()
	d.Loop.Run()

	// THEN no further pulses, ticks, or completions appear
	assert.Equal(t, pulses, d.Registry.Len())
	assert.True(t, d.Registry.Sealed())
	assert.False(t, d.Clock.Running())
	assert.True(t, d.Loop.Stopped())
	assert.Equal(t, 0, d.Loop.Pending())
	for _, lane := range d.Lanes {
		assert.Equal(t, 0, lane.Dispatcher.Active(), lane.Policy.String())
	}
}

func TestDemo_RunTwice_ReturnsFirstResult(t *testing.T) {
	d := newTestDemo(t, PolicySwitch)
	first := d.Run()
	second := d.Run()
	assert.Same(t, first, second)
	assert.True(t, d.Lifecycle.Done())
}

func TestDemo_InvalidConfig_ReturnsError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TaskDelayMs = 0
	_, err := NewDemo(cfg, nil)
	assert.Error(t, err)
}

func TestDemoResult_Print(t *testing.T) {
	res := newTestDemo(t, PolicyExhaust).Run()
	var buf bytes.Buffer
	res.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "=== Demo Results ===")
	assert.Contains(t, out, "=== EXHAUST_MAP (blue) ===")
	assert.Contains(t, out, "[1000 2000 3000 4000]")
}
