package executor

import (
	"context"

	"github.com/smoliakoff/rload/internal/plan"
	"github.com/smoliakoff/rload/internal/vu"
)

// Mock is the deterministic Executor used by Deterministic-mode runs and
// by `rload run-mock`: it never touches the network, and its latency is
// a pure function of (path, scenario name, tick index).
type Mock struct{}

// NewMock returns a ready-to-use Mock executor.
func NewMock() *Mock { return &Mock{} }

// Execute always succeeds; latency comes from mockLatencyMs so repeated
// runs with the same scenario and tick sequence are bit-identical.
func (m *Mock) Execute(_ context.Context, p *plan.ExecutionPlan, req vu.RequestSpec, tickIdx int64) (Result, error) {
	latency := mockLatencyMs(req.Path, p.ScenarioName, tickIdx)
	return Result{
		OK:          true,
		LatencyMs:   latency,
		LatencyUs:   latency * 1000,
		ErrorKind:   ErrorNone,
		EndpointKey: req.EndpointKey,
		JourneyID:   req.JourneyID,
		JourneyName: journeyName(p, req.JourneyID),
		StageIndex:  req.StageIndex,
	}, nil
}

func journeyName(p *plan.ExecutionPlan, journeyID int) string {
	j, err := p.GetJourney(journeyID)
	if err != nil {
		return ""
	}
	return j.Name
}
