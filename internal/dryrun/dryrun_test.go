package dryrun

import (
	"testing"

	"github.com/smoliakoff/rload/internal/plan"
	"github.com/smoliakoff/rload/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_TalliesStepsAndEndpoints(t *testing.T) {
	s := scenario.Default()
	p := plan.New(&s)

	report, err := Run(p, "12345", 100)
	require.NoError(t, err)

	assert.Equal(t, 100, report.Iterations)
	assert.Equal(t, 100, report.Journeys, "single journey scenario: every iteration picks it")
	assert.Equal(t, 100, report.Steps.RequestCount)
	assert.Equal(t, 100, report.Steps.SleepCount)
	assert.Equal(t, 100, report.Endpoints["GET /"])
}

func TestRun_ZeroIterations(t *testing.T) {
	s := scenario.Default()
	p := plan.New(&s)
	report, err := Run(p, "seed", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Journeys)
	assert.Empty(t, report.Endpoints)
}
