// Package plan builds the immutable ExecutionPlan a run is driven from: a
// frozen view of the scenario's journeys plus the weight sampler,
// decoupled from the mutable VU/tick state around it.
package plan

import (
	"fmt"

	"github.com/smoliakoff/rload/internal/sampler"
	"github.com/smoliakoff/rload/internal/scenario"
)

// InvalidJourneyIDError is returned by GetJourney for an id outside the
// plan's journey slice — an engine-internal invariant violation, since the
// sampler only ever emits ids it was built from.
type InvalidJourneyIDError struct {
	ID int
}

func (e *InvalidJourneyIDError) Error() string {
	return fmt.Sprintf("invalid journey id: %d", e.ID)
}

// ExecutionPlan is the read-only contract the scheduler/VU pool/executor
// consult; it never changes once built, including its WeightSampler,
// whose seed is stamped once right after construction with the run's
// configured seed (the CLI's --seed flag, in both modes).
type ExecutionPlan struct {
	ScenarioName string
	Version      int
	BaseURL      string
	Journeys     []scenario.Journey
	Sampler      *sampler.WeightSampler
}

// New builds an ExecutionPlan from a validated Scenario. The sampler is
// seeded with an empty seed; call WithSeed to stamp the run's actual seed.
func New(s *scenario.Scenario) *ExecutionPlan {
	ids := make([]int, len(s.Journeys))
	weights := make([]int, len(s.Journeys))
	for i, j := range s.Journeys {
		ids[i] = i
		weights[i] = j.Weight
	}
	return &ExecutionPlan{
		ScenarioName: s.Name,
		Version:      s.Version,
		BaseURL:      s.Target.BaseURL,
		Journeys:     s.Journeys,
		Sampler:      sampler.New(ids, weights, ""),
	}
}

// WithSeed returns a new plan identical to p but with the sampler seeded;
// the plan itself stays immutable, only a fresh sampler is swapped in.
func (p *ExecutionPlan) WithSeed(seed string) *ExecutionPlan {
	clone := *p
	clone.Sampler = p.Sampler.WithSeed(seed)
	return &clone
}

// GetJourney resolves a journey id produced by the sampler back to its
// full definition. An out-of-range id signals an internal invariant
// violation: the sampler is built from exactly this plan's journeys, so it
// should never emit an id GetJourney can't resolve.
func (p *ExecutionPlan) GetJourney(id int) (*scenario.Journey, error) {
	if id < 0 || id >= len(p.Journeys) {
		return nil, &InvalidJourneyIDError{ID: id}
	}
	return &p.Journeys[id], nil
}
