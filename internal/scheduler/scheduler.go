// Package scheduler implements a lazy, non-restartable, finite sequence of
// evenly spaced ticks across a scenario's staged workload.
package scheduler

import "github.com/smoliakoff/rload/internal/scenario"

// Tick is one planned dispatch point. PlannedAtMs is monotonically
// non-decreasing across the whole sequence; within a stage, consecutive
// ticks differ by exactly floor(1000/TargetRPS).
type Tick struct {
	TickIndex   int
	StageIndex  int
	PlannedAtMs int64
	TargetRPS   int
	IsNewStage  bool
}

// Scheduler walks a Workload's stages in order, emitting one Tick per
// call to Next until the last stage is exhausted. It is single-use: once
// exhausted it always returns (Tick{}, false).
type Scheduler struct {
	stages []scenario.Stage

	stageMaxTicks []int
	currentStage  int
	currentStep   int
	stageOffsetMs int64
	done          bool
}

// New builds a Scheduler from the workload's stages. Stages with rps <= 0
// never occur in a validated scenario (validation enforces rps >= 1), so
// the tick delta division is always well-defined.
func New(w scenario.Workload) *Scheduler {
	maxTicks := make([]int, len(w.Stages))
	for i, s := range w.Stages {
		maxTicks[i] = s.DurationSec * s.RPS
	}
	return &Scheduler{
		stages:        w.Stages,
		stageMaxTicks: maxTicks,
	}
}

// TotalTicks returns the total number of ticks the whole sequence will
// ever emit, precomputed from the stage durations/RPS.
func (s *Scheduler) TotalTicks() int {
	total := 0
	for _, n := range s.stageMaxTicks {
		total += n
	}
	return total
}

// PlannedDurationMs returns the sum of every stage's duration in ms.
func (s *Scheduler) PlannedDurationMs() int64 {
	var total int64
	for _, stage := range s.stages {
		total += int64(stage.DurationSec) * 1000
	}
	return total
}

// Next advances the scheduler and returns the next Tick, or ok=false once
// every stage has been exhausted.
func (s *Scheduler) Next() (Tick, bool) {
	if s.done {
		return Tick{}, false
	}

	if s.currentStage < len(s.stages) && s.currentStep >= s.stageMaxTicks[s.currentStage] {
		s.stageOffsetMs += int64(s.stages[s.currentStage].DurationSec) * 1000
		s.currentStep = 0
		s.currentStage++
	}

	if s.currentStage >= len(s.stages) {
		s.done = true
		return Tick{}, false
	}

	stage := s.stages[s.currentStage]
	tickIndex := s.currentStep
	// delta must be computed once per stage and then multiplied, not
	// divided per-tick-index: floor(1000/rps)*tickIndex keeps every
	// consecutive delta exactly floor(1000/rps), where
	// floor(tickIndex*1000/rps) would drift by a millisecond at some
	// indices once rps doesn't divide 1000 evenly.
	delta := int64(1000) / int64(stage.RPS)
	plannedAt := s.stageOffsetMs + int64(tickIndex)*delta

	tick := Tick{
		TickIndex:   tickIndex,
		StageIndex:  s.currentStage,
		PlannedAtMs: plannedAt,
		TargetRPS:   stage.RPS,
		IsNewStage:  tickIndex == 0,
	}
	s.currentStep++
	return tick, true
}
