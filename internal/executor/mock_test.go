package executor

import (
	"context"
	"testing"

	"github.com/smoliakoff/rload/internal/plan"
	"github.com/smoliakoff/rload/internal/scenario"
	"github.com/smoliakoff/rload/internal/vu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan(t *testing.T) *plan.ExecutionPlan {
	t.Helper()
	s := scenario.Default()
	return plan.New(&s)
}

func TestMock_DeterministicAcrossRepeatedCalls(t *testing.T) {
	p := testPlan(t)
	m := NewMock()
	req := vu.RequestSpec{Method: scenario.MethodGET, Path: "/ok", EndpointKey: "GET /ok"}

	first, err := m.Execute(context.Background(), p, req, 7)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		got, err := m.Execute(context.Background(), p, req, 7)
		require.NoError(t, err)
		assert.Equal(t, first.LatencyMs, got.LatencyMs)
	}
}

func TestMock_AlwaysSucceeds(t *testing.T) {
	p := testPlan(t)
	m := NewMock()
	req := vu.RequestSpec{Method: scenario.MethodGET, Path: "/ok", EndpointKey: "GET /ok"}
	res, err := m.Execute(context.Background(), p, req, 1)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.GreaterOrEqual(t, res.LatencyMs, int64(0))
	assert.Less(t, res.LatencyMs, int64(100))
}

func TestMock_DiffersAcrossTickIndex(t *testing.T) {
	p := testPlan(t)
	m := NewMock()
	req := vu.RequestSpec{Method: scenario.MethodGET, Path: "/ok", EndpointKey: "GET /ok"}

	latencies := map[int64]bool{}
	for tick := int64(0); tick < 20; tick++ {
		res, err := m.Execute(context.Background(), p, req, tick)
		require.NoError(t, err)
		latencies[res.LatencyMs] = true
	}
	assert.Greater(t, len(latencies), 1, "20 distinct tick indices should not all hash to the same latency")
}
