package engine

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/smoliakoff/rload/internal/event"
	"github.com/smoliakoff/rload/internal/executor"
	"github.com/smoliakoff/rload/internal/scenario"
)

// TestMain verifies the drain phase leaves no VU or sink goroutine behind
// once Run returns, across every test in this package.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func singleStageScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Version: scenario.CurrentVersion,
		Name:    "single-stage",
		Target:  scenario.Target{BaseURL: "http://example.invalid"},
		Workload: scenario.Workload{Stages: []scenario.Stage{
			{DurationSec: 2, RPS: 5},
		}},
		Journeys: []scenario.Journey{{
			Name: "default", Weight: 1,
			Steps: []scenario.Step{
				{Kind: scenario.StepRequest, Method: scenario.MethodGET, Path: "/ok"},
			},
		}},
	}
}

func TestRun_Deterministic_SingleStage_MatchesTickCount(t *testing.T) {
	s := singleStageScenario()
	eng := New(DefaultConfig(), executor.NewMock(), event.Noop(), logrus.StandardLogger())
	eng.cfg.Mode = ModeDeterministic
	eng.cfg.VUs = 10

	report, err := eng.Run(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, 10, report.Run.TotalTicks)
	require.Contains(t, report.ByEndpoint, "GET /ok")
	assert.EqualValues(t, 10, report.ByEndpoint["GET /ok"].Total)
}

func TestRun_Deterministic_TwoStages_TotalTicksAndStageBoundary(t *testing.T) {
	s := singleStageScenario()
	s.Workload.Stages = append(s.Workload.Stages, scenario.Stage{DurationSec: 1, RPS: 3})

	eng := New(DefaultConfig(), executor.NewMock(), event.Noop(), logrus.StandardLogger())
	eng.cfg.Mode = ModeDeterministic
	eng.cfg.VUs = 10

	report, err := eng.Run(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, 13, report.Run.TotalTicks)
	require.Len(t, report.ByStage, 2)
	assert.EqualValues(t, 10, report.ByStage[0].RequestCount)
	assert.EqualValues(t, 3, report.ByStage[1].RequestCount)
	assert.EqualValues(t, 2000, report.ByStage[1].StageStartMs)
}

func TestRun_Deterministic_AllSucceedWithMockExecutor(t *testing.T) {
	s := singleStageScenario()
	eng := New(DefaultConfig(), executor.NewMock(), event.Noop(), logrus.StandardLogger())
	eng.cfg.Mode = ModeDeterministic
	eng.cfg.VUs = 10

	report, err := eng.Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Errors.HTTPErrorRate)
}

func TestRun_Deterministic_ReportHasRunID(t *testing.T) {
	s := singleStageScenario()
	eng := New(DefaultConfig(), executor.NewMock(), event.Noop(), logrus.StandardLogger())
	eng.cfg.Mode = ModeDeterministic

	report, err := eng.Run(context.Background(), s)
	require.NoError(t, err)
	assert.NotEmpty(t, report.Run.RunID)
	assert.Equal(t, "deterministic", report.Run.Mode)
}
