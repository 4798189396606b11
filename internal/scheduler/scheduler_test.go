package scheduler

import (
	"testing"

	"github.com/smoliakoff/rload/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s *Scheduler) []Tick {
	var ticks []Tick
	for {
		tick, ok := s.Next()
		if !ok {
			break
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

func TestSingleStage_2sx5rps(t *testing.T) {
	w := scenario.Workload{Stages: []scenario.Stage{{DurationSec: 2, RPS: 5}}}
	ticks := drain(New(w))
	require.Len(t, ticks, 10)
	for i, tick := range ticks {
		assert.EqualValues(t, i*200, tick.PlannedAtMs)
		assert.Equal(t, 0, tick.StageIndex)
	}
	assert.True(t, ticks[0].IsNewStage)
	for _, tick := range ticks[1:] {
		assert.False(t, tick.IsNewStage)
	}
}

func TestTwoStages(t *testing.T) {
	w := scenario.Workload{Stages: []scenario.Stage{
		{DurationSec: 2, RPS: 5},
		{DurationSec: 1, RPS: 3},
	}}
	ticks := drain(New(w))
	require.Len(t, ticks, 13)

	assert.True(t, ticks[10].IsNewStage)
	assert.EqualValues(t, 2000, ticks[10].PlannedAtMs)
	assert.Equal(t, 1, ticks[10].StageIndex)

	assert.EqualValues(t, 2333, ticks[11].PlannedAtMs)
	assert.EqualValues(t, 2666, ticks[12].PlannedAtMs)
}

func TestPlannedAtMs_NonDecreasing(t *testing.T) {
	w := scenario.Workload{Stages: []scenario.Stage{
		{DurationSec: 5, RPS: 7},
		{DurationSec: 3, RPS: 11},
		{DurationSec: 10, RPS: 1},
	}}
	s := New(w)
	var prev int64 = -1
	for {
		tick, ok := s.Next()
		if !ok {
			break
		}
		assert.GreaterOrEqual(t, tick.PlannedAtMs, prev)
		prev = tick.PlannedAtMs
	}
}

func TestWithinStage_ConstantDelta(t *testing.T) {
	w := scenario.Workload{Stages: []scenario.Stage{{DurationSec: 10, RPS: 3}}}
	ticks := drain(New(w))
	want := int64(1000 / 3)
	for i := 1; i < len(ticks); i++ {
		assert.Equal(t, want, ticks[i].PlannedAtMs-ticks[i-1].PlannedAtMs)
	}
}

func TestFirstTick_ZeroAndNewStage(t *testing.T) {
	w := scenario.Workload{Stages: []scenario.Stage{{DurationSec: 10, RPS: 5}}}
	s := New(w)
	tick, ok := s.Next()
	require.True(t, ok)
	assert.EqualValues(t, 0, tick.PlannedAtMs)
	assert.True(t, tick.IsNewStage)
}

func TestExhaustedScheduler_ReturnsFalse(t *testing.T) {
	w := scenario.Workload{Stages: []scenario.Stage{{DurationSec: 10, RPS: 100}}}
	s := New(w)
	drain(s)
	_, ok := s.Next()
	assert.False(t, ok)
}

func TestTotalTicksAndDuration(t *testing.T) {
	w := scenario.Workload{Stages: []scenario.Stage{
		{DurationSec: 2, RPS: 5},
		{DurationSec: 1, RPS: 3},
	}}
	s := New(w)
	assert.Equal(t, 13, s.TotalTicks())
	assert.EqualValues(t, 3000, s.PlannedDurationMs())
}
