// Package vu implements the virtual user state machine and pool: each VU
// walks its assigned journey's steps repeatedly, sleeping between some and
// dispatching HTTP requests for others.
package vu

import (
	"fmt"
	"math"

	"github.com/smoliakoff/rload/internal/plan"
	"github.com/smoliakoff/rload/internal/scenario"
)

// State is one virtual user's mutable cursor through its journey.
type State struct {
	VUID           int
	JourneyID      int
	StepIndex      int
	NextReadyAtMs  int64
	IterationCount int64
	TotalSleepMs   int64
}

// infinity parks a VU while its one outstanding request is in flight,
// guaranteeing pick_ready_vu never double-dispatches onto it.
const infinity = math.MaxInt64

// Pool owns a fixed-size, ordered sequence of VU states.
type Pool struct {
	vus []*State
}

// NewPool assigns each VU a journey via the plan's sampler, using the
// stable key "{vu_index}-{seed}", and returns the pool.
func NewPool(p *plan.ExecutionPlan, size int) *Pool {
	vus := make([]*State, size)
	for i := 0; i < size; i++ {
		key := fmt.Sprintf("%d-%s", i, p.Sampler.Seed)
		journeyID, ok := p.Sampler.Peek(key)
		if !ok {
			journeyID = 0
		}
		vus[i] = &State{VUID: i, JourneyID: journeyID}
	}
	return &Pool{vus: vus}
}

// Size returns the number of VUs in the pool.
func (pool *Pool) Size() int { return len(pool.vus) }

// Get returns the VU at idx for the engine to mutate directly.
func (pool *Pool) Get(idx int) *State { return pool.vus[idx] }

// PickReadyVU returns the index of the first VU (in pool order) whose
// NextReadyAtMs <= nowMs, or ok=false if none are ready.
func (pool *Pool) PickReadyVU(nowMs int64) (int, bool) {
	for idx, v := range pool.vus {
		if v.NextReadyAtMs <= nowMs {
			return idx, true
		}
	}
	return 0, false
}

// TotalSleepMs sums every VU's accumulated sleep time.
func (pool *Pool) TotalSleepMs() int64 {
	var total int64
	for _, v := range pool.vus {
		total += v.TotalSleepMs
	}
	return total
}

// ActionKind tags the variant returned by NextAction.
type ActionKind int

const (
	ActionNotReady ActionKind = iota
	ActionReady
	ActionCompletedIteration
)

// NextAction is the tagged result of walking a VU's steps from its
// current cursor. Only RequestSpec is populated when Kind == ActionReady;
// NotReadyAt is populated when Kind == ActionNotReady.
type NextAction struct {
	Kind       ActionKind
	NotReadyAt int64
	Request    RequestSpec
}

// RequestSpec is the internal description of one dispatched request.
type RequestSpec struct {
	Method      scenario.Method
	Path        string
	EndpointKey string
	Headers     map[string]string
	Body        string
	TimeoutMs   int64
	JourneyID   int
	StageIndex  int
}

// Next walks v's steps starting at its current StepIndex, advancing
// through Sleep steps inline and stopping at the first Request step.
func Next(p *plan.ExecutionPlan, v *State, nowMs int64) (NextAction, error) {
	if v.NextReadyAtMs > nowMs {
		return NextAction{Kind: ActionNotReady, NotReadyAt: v.NextReadyAtMs}, nil
	}

	journey, err := p.GetJourney(v.JourneyID)
	if err != nil {
		return NextAction{}, err
	}

	if v.StepIndex >= len(journey.Steps) {
		v.StepIndex = 0
		v.IterationCount++
	}

	for v.StepIndex < len(journey.Steps) {
		step := journey.Steps[v.StepIndex]
		if step.IsSleep() {
			base := v.NextReadyAtMs
			if nowMs > base {
				base = nowMs
			}
			v.NextReadyAtMs = base + int64(step.DurationMs)
			v.TotalSleepMs += int64(step.DurationMs)
			v.StepIndex++
			continue
		}

		// Request step: park the VU until its completion is folded back
		// in via OnRequestExecuted, per the exclusivity invariant.
		v.NextReadyAtMs = infinity
		timeout := int64(0)
		if step.TimeoutMs.Valid {
			timeout = step.TimeoutMs.Int64
		}
		body := ""
		if step.Body.Valid {
			body = step.Body.String
		}
		return NextAction{
			Kind: ActionReady,
			Request: RequestSpec{
				Method:      step.Method,
				Path:        step.Path,
				EndpointKey: step.EndpointKey(),
				Headers:     step.Headers,
				Body:        body,
				TimeoutMs:   timeout,
				JourneyID:   v.JourneyID,
			},
		}, nil
	}

	return NextAction{Kind: ActionCompletedIteration}, nil
}

// OnRequestExecuted releases a parked VU once its in-flight request has
// completed, advancing the cursor and rolling over the journey if needed.
func OnRequestExecuted(p *plan.ExecutionPlan, v *State, finishedMs int64) error {
	v.StepIndex++
	v.NextReadyAtMs = finishedMs

	journey, err := p.GetJourney(v.JourneyID)
	if err != nil {
		return err
	}
	if v.StepIndex >= len(journey.Steps) {
		v.StepIndex = 0
		v.IterationCount++
	}
	return nil
}
