package plan

import (
	"testing"

	"github.com/smoliakoff/rload/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScenario() *scenario.Scenario {
	s := scenario.Default()
	s.Journeys = append(s.Journeys, scenario.Journey{Name: "second", Weight: 2, Steps: s.Journeys[0].Steps})
	return &s
}

func TestNew_BuildsSamplerFromJourneyWeights(t *testing.T) {
	p := New(testScenario())
	assert.Equal(t, "default_scenario", p.ScenarioName)
	assert.EqualValues(t, 3, p.Sampler.TotalWeight)
	assert.Equal(t, []uint64{1, 3}, p.Sampler.CumulativeEnds)
}

func TestGetJourney_ValidAndInvalid(t *testing.T) {
	p := New(testScenario())
	j, err := p.GetJourney(1)
	require.NoError(t, err)
	assert.Equal(t, "second", j.Name)

	_, err = p.GetJourney(5)
	require.Error(t, err)
	var invalidErr *InvalidJourneyIDError
	require.ErrorAs(t, err, &invalidErr)
}

func TestWithSeed_DoesNotMutateOriginal(t *testing.T) {
	p := New(testScenario())
	seeded := p.WithSeed("abc")
	assert.Equal(t, "", p.Sampler.Seed)
	assert.Equal(t, "abc", seeded.Sampler.Seed)
}
