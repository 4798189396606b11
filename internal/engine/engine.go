// Package engine implements the top-level run loop binding the scheduler,
// VU pool, executor and metrics aggregator under a concurrency bound, with
// a completion channel and a drain phase, emitting lifecycle events to an
// event sink.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/smoliakoff/rload/internal/event"
	"github.com/smoliakoff/rload/internal/executor"
	"github.com/smoliakoff/rload/internal/plan"
	"github.com/smoliakoff/rload/internal/runmetrics"
	"github.com/smoliakoff/rload/internal/scenario"
	"github.com/smoliakoff/rload/internal/scheduler"
	"github.com/smoliakoff/rload/internal/vu"
)

// Mode selects how time advances during a run.
type Mode string

const (
	ModeReal          Mode = "real"
	ModeDeterministic Mode = "deterministic"
)

// Config holds the engine's run-time knobs. DefaultConfig fills in the
// pool and drain constants; Mode and Seed are set by the caller per run.
type Config struct {
	Mode        Mode
	Seed        string
	VUs         int
	MaxInFlight int
	GraceMs     int64
}

// DefaultConfig returns the engine's fixed constants (vus=1000,
// max_in_flight=1000, grace_ms=10000), with Mode/Seed left for the caller.
func DefaultConfig() Config {
	return Config{VUs: 1000, MaxInFlight: 1000, GraceMs: 10_000}
}

// InvariantViolation is a programmer-bug-class failure: it is never
// expected in a correctly wired engine and is surfaced as an error the
// caller should treat as fatal, not retried.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("internal invariant violation: %s", e.Reason)
}

// Engine runs one scenario to completion and returns its RunReport.
type Engine struct {
	cfg  Config
	exec executor.Executor
	sink *event.Sink
	log  *logrus.Logger
}

// New builds an Engine. sink may be event.Noop() and log may be
// logrus.StandardLogger() when the caller doesn't care about either.
func New(cfg Config, exec executor.Executor, sink *event.Sink, log *logrus.Logger) *Engine {
	return &Engine{cfg: cfg, exec: exec, sink: sink, log: log}
}

type completion struct {
	vuIdx     int
	res       executor.Result
	startedMs int64
}

// Run drives s to completion and assembles its RunReport. It never
// returns an error for a transport failure (those are folded into
// results); it only returns an error for an InvariantViolation.
func (e *Engine) Run(ctx context.Context, s *scenario.Scenario) (*RunReport, error) {
	p := plan.New(s).WithSeed(e.cfg.Seed)
	sched := scheduler.New(s.Workload)
	pool := vu.NewPool(p, e.cfg.VUs)
	agg := runmetrics.New()

	vuJourneyCounts := make(map[int]int64)
	for i := 0; i < pool.Size(); i++ {
		vuJourneyCounts[pool.Get(i).JourneyID]++
	}

	origin := time.Now()
	realStart := time.Now()

	sem := semaphore.NewWeighted(int64(e.cfg.MaxInFlight))
	completions := make(chan completion, e.cfg.MaxInFlight*4)
	var wg sync.WaitGroup
	var inFlight int64
	relax := rate.NewLimiter(rate.Every(300*time.Millisecond), 1)

	totalTicks := 0
	missedTicks := 0
	var noReadyTicks int64
	plannedDurationMs := sched.PlannedDurationMs()

	drainOne := func() bool {
		select {
		case c := <-completions:
			agg.Fold(c.res, c.startedMs)
			v := pool.Get(c.vuIdx)
			finishedMs := c.startedMs + c.res.LatencyMs
			if err := vu.OnRequestExecuted(p, v, finishedMs); err != nil {
				e.log.WithError(err).Warn("on_request_executed failed for completed request")
			}
			e.sink.Send(event.Event{Kind: event.KindRequestFinished, OK: c.res.OK, LatencyMs: c.res.LatencyMs, EndpointKey: c.res.EndpointKey})
			return true
		default:
			return false
		}
	}

loop:
	for {
		tick, ok := sched.Next()
		if !ok {
			break
		}
		totalTicks++
		e.sink.Send(event.Event{Kind: event.KindTickExecuted, TickIndex: tick.TickIndex, StageIndex: tick.StageIndex, PlannedAtMs: tick.PlannedAtMs})

		var now int64
		if e.cfg.Mode == ModeReal {
			target := origin.Add(time.Duration(tick.PlannedAtMs) * time.Millisecond)
			if d := time.Until(target); d > 0 {
				select {
				case <-ctx.Done():
					break loop
				case <-time.After(d):
				}
			}
			now = time.Since(origin).Milliseconds()
		} else {
			now = tick.PlannedAtMs
		}

		if now > plannedDurationMs+1 {
			break
		}

		if e.cfg.Mode == ModeReal {
			for drainOne() {
			}
		}

		vuIdx, ready := pool.PickReadyVU(now)
		if !ready {
			missedTicks++
			if e.cfg.Mode == ModeReal {
				_ = relax.Wait(ctx)
			}
			continue
		}

		v := pool.Get(vuIdx)
		action, err := vu.Next(p, v, now)
		if err != nil {
			return nil, &InvariantViolation{Reason: err.Error()}
		}

		switch action.Kind {
		case vu.ActionNotReady:
			missedTicks++
			noReadyTicks++
		case vu.ActionCompletedIteration:
			// no-op: VU becomes eligible next tick.
		case vu.ActionReady:
			req := action.Request
			req.StageIndex = tick.StageIndex

			if e.cfg.Mode == ModeDeterministic {
				startedMs := tick.PlannedAtMs
				res, execErr := e.exec.Execute(ctx, p, req, int64(totalTicks))
				if execErr != nil {
					res = executor.Result{OK: false, ErrorKind: executor.ErrorConnection, EndpointKey: req.EndpointKey, JourneyID: req.JourneyID, StageIndex: req.StageIndex}
				}
				if tick.IsNewStage {
					res.StageStartMs = tick.PlannedAtMs
				}
				finishedMs := startedMs + res.LatencyMs
				agg.Fold(res, startedMs)
				if err := vu.OnRequestExecuted(p, v, finishedMs); err != nil {
					return nil, &InvariantViolation{Reason: err.Error()}
				}
				e.sink.Send(event.Event{Kind: event.KindRequestFinished, OK: res.OK, LatencyMs: res.LatencyMs, EndpointKey: res.EndpointKey})
			} else {
				if err := sem.Acquire(ctx, 1); err != nil {
					break loop
				}
				lastStarted := time.Since(origin).Milliseconds()
				isNewStage := tick.IsNewStage
				tickIdx := int64(totalTicks)
				atomic.AddInt64(&inFlight, 1)
				wg.Add(1)
				go func(vuIdx int, req vu.RequestSpec, startedMs int64, isNewStage bool) {
					defer wg.Done()
					defer sem.Release(1)
					defer atomic.AddInt64(&inFlight, -1)
					res, execErr := e.exec.Execute(ctx, p, req, tickIdx)
					if execErr != nil {
						res = executor.Result{OK: false, ErrorKind: executor.ErrorConnection, EndpointKey: req.EndpointKey, JourneyID: req.JourneyID, StageIndex: req.StageIndex}
					}
					if isNewStage {
						res.StageStartMs = startedMs
					}
					completions <- completion{vuIdx: vuIdx, res: res, startedMs: startedMs}
				}(vuIdx, req, lastStarted, isNewStage)
				e.sink.Send(event.Event{Kind: event.KindInFlight, InFlight: int(atomic.LoadInt64(&inFlight)), EndpointKey: req.EndpointKey})
			}
		}
	}

	if e.cfg.Mode == ModeReal {
		drainCtx, cancel := context.WithTimeout(context.Background(), time.Duration(e.cfg.GraceMs)*time.Millisecond)
		if err := sem.Acquire(drainCtx, int64(e.cfg.MaxInFlight)); err != nil {
			e.log.Warn("drain grace period expired; outstanding requests were not all observed completing")
		} else {
			sem.Release(int64(e.cfg.MaxInFlight))
		}
		cancel()
		wg.Wait()
		for drainOne() {
		}
	}

	realDurationSec := time.Since(realStart).Seconds()

	report := assembleReport(s, p, sched, agg, vuJourneyCounts, reportInputs{
		mode:             e.cfg.Mode,
		seed:             e.cfg.Seed,
		totalTicks:       totalTicks,
		missedTicks:      missedTicks,
		noReadyTicks:     noReadyTicks,
		realDurationSec:  realDurationSec,
		poolSize:         pool.Size(),
	})
	e.sink.Send(event.Event{Kind: event.KindRunFinished, RunReport: report})
	e.sink.Close()
	return report, nil
}
