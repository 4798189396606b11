// Package runmetrics implements a single-owner structure the run engine
// folds every completed request into, producing the overall/per-stage/
// per-endpoint latency histograms and counters the final RunReport is
// built from.
package runmetrics

import (
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/smoliakoff/rload/internal/executor"
)

const (
	histMin     = 1
	histMax     = 60_000_000
	histSigFigs = 3
)

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(histMin, histMax, histSigFigs)
}

// EndpointStats tallies one endpoint's requests.
type EndpointStats struct {
	Total      int64
	OK         int64
	Error      int64
	FirstAtMs  int64
	LastAtMs   int64
	Histogram  *hdrhistogram.Histogram
	hasFirst   bool
}

// AchievedRPS computes total / max(1, last-first) * 1000.
func (e *EndpointStats) AchievedRPS() float64 {
	span := e.LastAtMs - e.FirstAtMs
	if span < 1 {
		span = 1
	}
	return float64(e.Total) / float64(span) * 1000
}

// StageStats tallies one stage's requests.
type StageStats struct {
	StageIndex    int
	RequestCount  int64
	StageStartMs  int64
	hasStart      bool
	StageDuration int64
	Histogram     *hdrhistogram.Histogram
}

// AchievedRPS for a stage uses the configured stage duration as its span,
// since a stage's wall-clock window is known up front (unlike an
// endpoint's, which only exists across however long it was actually hit).
func (s *StageStats) AchievedRPS() float64 {
	span := s.StageDuration
	if span < 1 {
		span = 1
	}
	return float64(s.RequestCount) / float64(span) * 1000
}

// JourneyTally counts how many requests a journey produced.
type JourneyTally struct {
	JourneyID int
	Count     int64
}

// Aggregator is the engine's single-owner metrics sink.
type Aggregator struct {
	Overall       *hdrhistogram.Histogram
	ByEndpoint    map[string]*EndpointStats
	ByStage       map[int]*StageStats
	ByJourney     map[string]*JourneyTally
	TotalRequests int64
	ErrorRequests int64
}

// New constructs an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		Overall:    newHistogram(),
		ByEndpoint: make(map[string]*EndpointStats),
		ByStage:    make(map[int]*StageStats),
		ByJourney:  make(map[string]*JourneyTally),
	}
}

// Fold records one completed request's ResponseResult into every
// applicable histogram/counter. startedMs is the request's started
// timestamp, used to seed first/last-at windows; res.StageStartMs is
// non-zero only when this completion's tick was the first of its stage.
func (a *Aggregator) Fold(res executor.Result, startedMs int64) {
	a.TotalRequests++
	if !res.OK {
		a.ErrorRequests++
	}

	_ = a.Overall.RecordValue(res.LatencyUs)

	ep := a.ByEndpoint[res.EndpointKey]
	if ep == nil {
		ep = &EndpointStats{Histogram: newHistogram()}
		a.ByEndpoint[res.EndpointKey] = ep
	}
	ep.Total++
	if res.OK {
		ep.OK++
	} else {
		ep.Error++
	}
	if !ep.hasFirst {
		ep.FirstAtMs = startedMs
		ep.hasFirst = true
	}
	ep.LastAtMs = startedMs
	_ = ep.Histogram.RecordValue(res.LatencyUs)

	st := a.ByStage[res.StageIndex]
	if st == nil {
		st = &StageStats{StageIndex: res.StageIndex, Histogram: newHistogram()}
		a.ByStage[res.StageIndex] = st
	}
	st.RequestCount++
	if res.StageStartMs != 0 && !st.hasStart {
		st.StageStartMs = res.StageStartMs
		st.hasStart = true
	}
	_ = st.Histogram.RecordValue(res.LatencyUs)

	jt := a.ByJourney[res.JourneyName]
	if jt == nil {
		jt = &JourneyTally{JourneyID: res.JourneyID}
		a.ByJourney[res.JourneyName] = jt
	}
	jt.Count++
}

// SetStageDuration stamps a stage's configured planned duration, used by
// StageStats.AchievedRPS; called once per stage during report assembly.
func (a *Aggregator) SetStageDuration(stageIndex int, durationMs int64) {
	st := a.ByStage[stageIndex]
	if st == nil {
		st = &StageStats{StageIndex: stageIndex, Histogram: newHistogram()}
		a.ByStage[stageIndex] = st
	}
	st.StageDuration = durationMs
}

// ErrorRate returns round(error/total*100), zero when total is zero.
func (a *Aggregator) ErrorRate() float64 {
	if a.TotalRequests == 0 {
		return 0
	}
	return math.Round(float64(a.ErrorRequests) / float64(a.TotalRequests) * 100)
}
