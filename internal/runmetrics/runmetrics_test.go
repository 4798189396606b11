package runmetrics

import (
	"testing"

	"github.com/smoliakoff/rload/internal/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFold_TalliesEndpointAndOverall(t *testing.T) {
	agg := New()
	agg.Fold(executor.Result{OK: true, LatencyUs: 5000, EndpointKey: "GET /ok", JourneyName: "j", StageIndex: 0}, 0)
	agg.Fold(executor.Result{OK: false, LatencyUs: 9000, EndpointKey: "GET /ok", JourneyName: "j", StageIndex: 0}, 100)

	require.Contains(t, agg.ByEndpoint, "GET /ok")
	ep := agg.ByEndpoint["GET /ok"]
	assert.EqualValues(t, 2, ep.Total)
	assert.EqualValues(t, 1, ep.OK)
	assert.EqualValues(t, 1, ep.Error)
	assert.EqualValues(t, 2, agg.TotalRequests)
	assert.EqualValues(t, 1, agg.ErrorRequests)
}

func TestErrorRate_ZeroWhenNoRequests(t *testing.T) {
	agg := New()
	assert.Equal(t, float64(0), agg.ErrorRate())
}

func TestErrorRate_ComputesRoundedPercentage(t *testing.T) {
	agg := New()
	for i := 0; i < 3; i++ {
		agg.Fold(executor.Result{OK: true, LatencyUs: 1000, EndpointKey: "GET /ok"}, 0)
	}
	agg.Fold(executor.Result{OK: false, LatencyUs: 1000, EndpointKey: "GET /ok"}, 0)
	assert.Equal(t, 25.0, agg.ErrorRate())
}

func TestEndpointStats_AchievedRPS(t *testing.T) {
	agg := New()
	agg.Fold(executor.Result{OK: true, LatencyUs: 1000, EndpointKey: "GET /ok"}, 0)
	agg.Fold(executor.Result{OK: true, LatencyUs: 1000, EndpointKey: "GET /ok"}, 1000)
	ep := agg.ByEndpoint["GET /ok"]
	// 2 requests over a 1000ms span -> 2 rps.
	assert.Equal(t, 2.0, ep.AchievedRPS())
}

func TestByJourney_CountsPerJourney(t *testing.T) {
	agg := New()
	agg.Fold(executor.Result{OK: true, LatencyUs: 1000, EndpointKey: "GET /a", JourneyName: "checkout", JourneyID: 2}, 0)
	agg.Fold(executor.Result{OK: true, LatencyUs: 1000, EndpointKey: "GET /a", JourneyName: "checkout", JourneyID: 2}, 0)
	jt := agg.ByJourney["checkout"]
	require.NotNil(t, jt)
	assert.EqualValues(t, 2, jt.Count)
	assert.Equal(t, 2, jt.JourneyID)
}
