package scenario

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-sim/pulse-sim/sim"
)

func events(times ...int64) []EventSpec {
	out := make([]EventSpec, len(times))
	for i, at := range times {
		out[i] = EventSpec{AtMs: at, X: float64(i * 10), Y: 50}
	}
	return out
}

func TestReplay_Exhaust_DropsOverlapping(t *testing.T) {
	s := &Scenario{Version: "1", Policies: []string{"exhaust"}, Events: events(0, 100, 200, 1100)}

	res, err := s.Replay(1000)

	require.NoError(t, err)
	lane := res.Lane(sim.PolicyExhaust)
	require.NotNil(t, lane)
	assert.Equal(t, []int64{1000, 2100}, lane.CompletionTimes())
	assert.Equal(t, 2, lane.Metrics.Dropped)
	assert.True(t, lane.Finished)
	assert.False(t, res.TornDown)
	assert.Equal(t, int64(2100), res.Duration)
}

func TestReplay_AllPolicies_SameStimulus(t *testing.T) {
	// GIVEN events given out of order, at 0, 100 and 200
	s := &Scenario{Version: "1", Events: []EventSpec{{AtMs: 200}, {AtMs: 0}, {AtMs: 100}}}

	res, err := s.Replay(1000)
	require.NoError(t, err)

	want := map[sim.Policy][]int64{
		sim.PolicyMerge:   {1000, 1100, 1200},
		sim.PolicySwitch:  {1200},
		sim.PolicyExhaust: {1000},
		sim.PolicyConcat:  {1000, 2000, 3000},
	}
	require.Len(t, res.Lanes, 4)
	for p, times := range want {
		assert.Equal(t, times, res.Lane(p).CompletionTimes(), p.String())
	}
	assert.Equal(t, 12, res.Summary.Sources, "one source pulse per lane per event")
	assert.Equal(t, 8, res.Summary.Completions)
}

func TestReplay_ScenarioDelayOverridesDefault(t *testing.T) {
	s := &Scenario{Version: "1", TaskDelayMs: 250, Policies: []string{"merge"}, Events: events(0)}

	res, err := s.Replay(1000)

	require.NoError(t, err)
	assert.Equal(t, []int64{250}, res.Lane(sim.PolicyMerge).CompletionTimes())
}

func TestReplay_TeardownMidFlight_NoCompletions(t *testing.T) {
	// GIVEN tasks in flight when teardown fires at 500
	at := int64(500)
	s := &Scenario{Version: "1", Events: events(0, 100, 200), TeardownAtMs: &at}

	res, err := s.Replay(1000)

	// THEN no lane completes anything and every pulse predates teardown
	require.NoError(t, err)
	assert.True(t, res.TornDown)
	for _, lane := range res.Lanes {
		assert.Empty(t, lane.Completions, lane.Policy.String())
	}
	assert.Equal(t, 0, res.Summary.Completions)
	for _, rec := range res.Pulses {
		assert.LessOrEqual(t, rec.CreatedAt, at)
	}
}

func TestReplay_TeardownAtCompletionInstant_WinsTie(t *testing.T) {
	at := int64(1000)
	s := &Scenario{Version: "1", Policies: []string{"merge"}, Events: events(0), TeardownAtMs: &at}

	res, err := s.Replay(1000)

	require.NoError(t, err)
	assert.Empty(t, res.Lane(sim.PolicyMerge).Completions)
}

func TestReplay_InvalidScenario_ReturnsError(t *testing.T) {
	_, err := (&Scenario{Version: "1"}).Replay(1000)
	assert.Error(t, err)

	_, err = (&Scenario{Version: "1", Events: events(0)}).Replay(0)
	assert.ErrorContains(t, err, "task delay")
}

func TestResult_Print(t *testing.T) {
	s := &Scenario{Version: "1", Name: "one", Policies: []string{"concat"}, Events: events(0, 0)}
	res, err := s.Replay(1000)
	require.NoError(t, err)

	var buf bytes.Buffer
	res.Print(&buf)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "=== Scenario Results ==="))
	assert.Contains(t, out, "Scenario             : one")
	assert.Contains(t, out, "[1000 2000]")
}
