package vu

import (
	"testing"

	"github.com/smoliakoff/rload/internal/plan"
	"github.com/smoliakoff/rload/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sleepThenRequestPlan() *plan.ExecutionPlan {
	s := scenario.Default()
	s.Journeys = []scenario.Journey{{
		Name:   "j",
		Weight: 1,
		Steps: []scenario.Step{
			{Kind: scenario.StepSleep, DurationMs: 50},
			{Kind: scenario.StepRequest, Method: scenario.MethodGET, Path: "/ok"},
		},
	}}
	return plan.New(&s)
}

func TestNext_NotReadyWhenParked(t *testing.T) {
	p := sleepThenRequestPlan()
	v := &State{NextReadyAtMs: 500}
	action, err := Next(p, v, 100)
	require.NoError(t, err)
	assert.Equal(t, ActionNotReady, action.Kind)
	assert.EqualValues(t, 500, action.NotReadyAt)
}

func TestNext_WalksSleepThenReturnsReady(t *testing.T) {
	p := sleepThenRequestPlan()
	v := &State{}
	action, err := Next(p, v, 0)
	require.NoError(t, err)
	require.Equal(t, ActionReady, action.Kind)
	assert.Equal(t, "GET /ok", action.Request.EndpointKey)
	assert.EqualValues(t, 50, v.TotalSleepMs)
	assert.EqualValues(t, infinity, v.NextReadyAtMs, "VU must park while its request is in flight")
}

func TestOnRequestExecuted_RollsOverIteration(t *testing.T) {
	p := sleepThenRequestPlan()
	v := &State{}
	_, err := Next(p, v, 0)
	require.NoError(t, err)

	require.NoError(t, OnRequestExecuted(p, v, 120))
	assert.EqualValues(t, 120, v.NextReadyAtMs)
	assert.Equal(t, 0, v.StepIndex, "journey has 2 steps; after the request step it should roll over")
	assert.EqualValues(t, 1, v.IterationCount)
}

func TestNext_CompletedIterationWhenJourneyHasNoRequestStep(t *testing.T) {
	s := scenario.Default()
	s.Journeys = []scenario.Journey{{
		Name: "sleep-only", Weight: 1,
		Steps: []scenario.Step{{Kind: scenario.StepSleep, DurationMs: 10}},
	}}
	p := plan.New(&s)
	v := &State{}
	action, err := Next(p, v, 0)
	require.NoError(t, err)
	assert.Equal(t, ActionCompletedIteration, action.Kind)
}

func TestPool_PickReadyVU(t *testing.T) {
	p := sleepThenRequestPlan().WithSeed("seed")
	pool := NewPool(p, 4)
	pool.Get(0).NextReadyAtMs = 1000
	pool.Get(1).NextReadyAtMs = 0
	pool.Get(2).NextReadyAtMs = 500

	idx, ok := pool.PickReadyVU(500)
	require.True(t, ok)
	assert.Equal(t, 1, idx, "pool order wins ties: VU 1 is ready before VU 2 is scanned")
}

func TestPool_PickReadyVU_NoneReady(t *testing.T) {
	p := sleepThenRequestPlan().WithSeed("seed")
	pool := NewPool(p, 2)
	pool.Get(0).NextReadyAtMs = infinity
	pool.Get(1).NextReadyAtMs = infinity
	_, ok := pool.PickReadyVU(0)
	assert.False(t, ok)
}
