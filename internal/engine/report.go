package engine

import (
	"github.com/google/uuid"
	"github.com/smoliakoff/rload/internal/plan"
	"github.com/smoliakoff/rload/internal/runmetrics"
	"github.com/smoliakoff/rload/internal/scenario"
	"github.com/smoliakoff/rload/internal/scheduler"
)

// RunReport is the structured result of a run. Field names are chosen for
// clean JSON output via the explicit lower_snake_case tags below.
type RunReport struct {
	Run       RunInfo          `json:"run"`
	Scenario  ScenarioInfo     `json:"scenario"`
	Time      Time             `json:"time"`
	Ticks     TicksArrival     `json:"ticks_arrival"`
	RPS       RPS              `json:"rps"`
	ByEndpoint map[string]EndpointReport `json:"by_endpoint"`
	ByStage   []StageReport    `json:"by_stage"`
	ByJourney []JourneyReport  `json:"by_journey"`
	Latency   runmetrics.LatencySummary `json:"latency_overall_summary"`
	Errors    ErrorAndQuality  `json:"error_and_quality"`
	VUs       VUUtilization    `json:"vus"`
}

// RunInfo is the small header supplementing the core report: the run's
// mode, seed, and planned shape, plus a uuid-stamped run id.
type RunInfo struct {
	RunID              string `json:"run_id"`
	Mode               string `json:"mode"`
	Seed               string `json:"seed"`
	TotalTicks         int    `json:"total_ticks"`
	DurationSecPlanned int    `json:"duration_sec_planned"`
}

// ScenarioInfo names the scenario the report belongs to.
type ScenarioInfo struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// Time carries the planned timeline alongside the observed wall time.
type Time struct {
	PlannedDurationMs    int64   `json:"planned_duration_ms"`
	PlannedDurationSec   float64 `json:"planned_duration_sec"`
	RealTimeDurationSec  float64 `json:"real_time_duration_sec"`
}

// TicksArrival.Missed counts every tick that dispatched nothing: ticks with
// no ready VU in the pool (pool exhaustion) plus ticks whose picked VU was
// not ready. VUs.NoReadyTicks counts only the latter, pool-wide.
type TicksArrival struct {
	Total       int     `json:"total"`
	Executed    int64   `json:"executed"`
	Missed      int     `json:"missed"`
	MissedRatio float64 `json:"missed_ratio"`
}

// RPS carries the planned vs. achieved throughput, overall and per stage.
type RPS struct {
	PlannedAvg                float64          `json:"planned_avg"`
	AchievedAvg                float64          `json:"achieved_avg"`
	AchievedAvgIncludingDrain  float64          `json:"achieved_avg_including_drain"`
	ByStage                    []StageRPS       `json:"by_stage"`
}

// StageRPS is one stage's achieved throughput.
type StageRPS struct {
	StageIndex  int     `json:"stage_index"`
	AchievedRPS float64 `json:"achieved_rps"`
}

// EndpointReport is one endpoint's request/latency summary.
type EndpointReport struct {
	Total       int64                     `json:"total"`
	OK          int64                     `json:"ok"`
	Error       int64                     `json:"error"`
	AchievedRPS float64                   `json:"achieved_rps"`
	FirstAtMs   int64                     `json:"first_at_ms"`
	LastAtMs    int64                     `json:"last_at_ms"`
	Latency     runmetrics.LatencySummary `json:"latency_summary"`
}

// StageReport is one stage's request/latency summary.
type StageReport struct {
	StageIndex    int                       `json:"stage_index"`
	RequestCount  int64                     `json:"request_count"`
	StageStartMs  int64                     `json:"stage_started_ms"`
	StageDuration int64                     `json:"stage_duration_ms"`
	AchievedRPS   float64                   `json:"achieved_rps"`
	Latency       runmetrics.LatencySummary `json:"latency_summary"`
}

// JourneyReport carries both the planned weight share and the achieved
// pick share, so a reader can see sampler drift at a glance.
type JourneyReport struct {
	JourneyID    int     `json:"journey_id"`
	Name         string  `json:"name"`
	PlannedShare float64 `json:"planned_share"`
	AchievedShare float64 `json:"achieved_share"`
	Count        int64   `json:"count"`
}

// ErrorAndQuality carries the scenario-level error rate.
type ErrorAndQuality struct {
	HTTPErrorRate float64 `json:"http_error_rate"`
}

// VUUtilization reports how saturated the VU pool was.
type VUUtilization struct {
	Count         int     `json:"count"`
	NoReadyTicks  int64   `json:"no_ready_ticks"`
	NoReadyRatio  float64 `json:"no_ready_ratio"`
}

func newRunID() string {
	return uuid.NewString()
}

func journeyPlannedShare(j scenario.Journey, totalWeight int) float64 {
	if totalWeight == 0 {
		return 0
	}
	return float64(j.Weight) / float64(totalWeight)
}

// reportInputs bundles the numbers the engine loop accumulated that
// aren't already captured by the plan, scheduler, or aggregator.
type reportInputs struct {
	mode            Mode
	seed            string
	totalTicks      int
	missedTicks     int
	noReadyTicks    int64
	realDurationSec float64
	poolSize        int
}

func assembleReport(
	s *scenario.Scenario,
	p *plan.ExecutionPlan,
	sched *scheduler.Scheduler,
	agg *runmetrics.Aggregator,
	vuJourneyCounts map[int]int64,
	in reportInputs,
) *RunReport {
	report := &RunReport{
		Run: RunInfo{
			RunID:              newRunID(),
			Mode:               string(in.mode),
			Seed:               in.seed,
			TotalTicks:         in.totalTicks,
			DurationSecPlanned: int(sched.PlannedDurationMs() / 1000),
		},
		Scenario: ScenarioInfo{Name: s.Name, Version: s.Version},
		Time: Time{
			PlannedDurationMs:   sched.PlannedDurationMs(),
			PlannedDurationSec:  float64(sched.PlannedDurationMs()) / 1000,
			RealTimeDurationSec: in.realDurationSec,
		},
		Latency: runmetrics.Summarize(agg.Overall),
		Errors:  ErrorAndQuality{HTTPErrorRate: agg.ErrorRate()},
	}

	missedRatio := 0.0
	if in.totalTicks > 0 {
		missedRatio = float64(in.missedTicks) / float64(in.totalTicks)
	}
	report.Ticks = TicksArrival{
		Total:       in.totalTicks,
		Executed:    agg.TotalRequests,
		Missed:      in.missedTicks,
		MissedRatio: missedRatio,
	}

	plannedAvgRPS := 0.0
	if len(s.Workload.Stages) > 0 {
		var sum int
		for _, st := range s.Workload.Stages {
			sum += st.RPS
		}
		plannedAvgRPS = float64(sum) / float64(len(s.Workload.Stages))
	}
	achievedAvg := 0.0
	if report.Time.PlannedDurationSec > 0 {
		achievedAvg = float64(agg.TotalRequests) / report.Time.PlannedDurationSec
	}
	achievedIncludingDrain := 0.0
	if in.realDurationSec > 0 {
		achievedIncludingDrain = float64(agg.TotalRequests) / in.realDurationSec
	}

	byStage := make([]StageReport, 0, len(s.Workload.Stages))
	stageRPS := make([]StageRPS, 0, len(s.Workload.Stages))
	cumMs := int64(0)
	for i, st := range s.Workload.Stages {
		durationMs := int64(st.DurationSec) * 1000
		agg.SetStageDuration(i, durationMs)
		stats := agg.ByStage[i]
		var req int64
		var startMs int64
		var achieved float64
		var lat runmetrics.LatencySummary
		if stats != nil {
			req = stats.RequestCount
			startMs = stats.StageStartMs
			achieved = stats.AchievedRPS()
			lat = runmetrics.Summarize(stats.Histogram)
		}
		byStage = append(byStage, StageReport{
			StageIndex: i, RequestCount: req, StageStartMs: startMs,
			StageDuration: durationMs, AchievedRPS: achieved, Latency: lat,
		})
		stageRPS = append(stageRPS, StageRPS{StageIndex: i, AchievedRPS: achieved})
		cumMs += durationMs
	}
	report.ByStage = byStage
	report.RPS = RPS{
		PlannedAvg:               plannedAvgRPS,
		AchievedAvg:               achievedAvg,
		AchievedAvgIncludingDrain: achievedIncludingDrain,
		ByStage:                   stageRPS,
	}

	byEndpoint := make(map[string]EndpointReport, len(agg.ByEndpoint))
	for key, stats := range agg.ByEndpoint {
		byEndpoint[key] = EndpointReport{
			Total: stats.Total, OK: stats.OK, Error: stats.Error,
			AchievedRPS: stats.AchievedRPS(), FirstAtMs: stats.FirstAtMs, LastAtMs: stats.LastAtMs,
			Latency: runmetrics.Summarize(stats.Histogram),
		}
	}
	report.ByEndpoint = byEndpoint

	totalWeight := s.TotalWeight()
	byJourney := make([]JourneyReport, 0, len(p.Journeys))
	for id, j := range p.Journeys {
		count := int64(0)
		if tally, ok := agg.ByJourney[j.Name]; ok {
			count = tally.Count
		}
		achievedShare := 0.0
		if in.poolSize > 0 {
			achievedShare = float64(vuJourneyCounts[id]) / float64(in.poolSize)
		}
		byJourney = append(byJourney, JourneyReport{
			JourneyID: id, Name: j.Name,
			PlannedShare: journeyPlannedShare(j, totalWeight),
			AchievedShare: achievedShare,
			Count: count,
		})
	}
	report.ByJourney = byJourney

	noReadyRatio := 0.0
	if in.totalTicks > 0 {
		noReadyRatio = float64(in.noReadyTicks) / float64(in.totalTicks)
	}
	report.VUs = VUUtilization{
		Count: in.poolSize, NoReadyTicks: in.noReadyTicks, NoReadyRatio: noReadyRatio,
	}

	return report
}
