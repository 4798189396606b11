// Package dryrun implements a simpler, external dry-run planner: a fixed
// number of sampler iterations with no pacing and no network I/O, which
// tallies planned requests per endpoint (plus journey and step counts) so
// an operator can sanity-check a scenario before spending a real run on it.
package dryrun

import (
	"fmt"

	"github.com/smoliakoff/rload/internal/plan"
)

// StepCounts tallies how many sleep vs. request steps a dry run walked.
type StepCounts struct {
	RequestCount int `json:"request_count"`
	SleepCount   int `json:"sleep_count"`
}

// Report is the tally a dry run produces.
type Report struct {
	Iterations int            `json:"iterations"`
	Seed       string         `json:"seed"`
	Journeys   int            `json:"journeys"`
	Steps      StepCounts     `json:"steps"`
	Endpoints  map[string]int `json:"endpoints"`
}

// Run walks the plan's sampler `iterations` times using stable key
// "{scenario_name}-{seed}-{iteration}", tallying the steps of whichever
// journey each iteration resolves to. It never dispatches a request or
// sleeps — the tally is purely a count of what a real run would do.
func Run(p *plan.ExecutionPlan, seed string, iterations int) (*Report, error) {
	seeded := p.WithSeed(seed)
	report := &Report{
		Iterations: iterations,
		Seed:       seed,
		Endpoints:  make(map[string]int),
	}

	for i := 1; i <= iterations; i++ {
		key := fmt.Sprintf("%s-%s-%d", seeded.ScenarioName, seed, i)
		journeyID, ok := seeded.Sampler.Peek(key)
		if !ok {
			continue
		}
		journey, err := seeded.GetJourney(journeyID)
		if err != nil {
			return nil, err
		}
		report.Journeys++
		for _, step := range journey.Steps {
			if step.IsRequest() {
				report.Steps.RequestCount++
				report.Endpoints[step.EndpointKey()]++
			} else {
				report.Steps.SleepCount++
			}
		}
	}

	return report, nil
}
