package cmd

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoliakoff/rload/internal/state"
)

func execute(ts *state.TestState, args ...string) error {
	ts.Args = append([]string{"rload"}, args...)
	root := newRootCommand(ts.State)
	return root.cmd.Execute()
}

func TestGenerate_PrintsValidScenario(t *testing.T) {
	ts := state.NewTestState(t)
	require.NoError(t, execute(ts, "generate"))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(ts.Stdout.Bytes(), &doc))
	assert.EqualValues(t, 1, doc["version"])
	assert.NotEmpty(t, doc["journeys"])
}

func TestSchema_PrintsJSONSchema(t *testing.T) {
	ts := state.NewTestState(t)
	require.NoError(t, execute(ts, "schema"))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(ts.Stdout.Bytes(), &doc))
	assert.Contains(t, doc, "properties")
}

func TestValidate_ValidScenario(t *testing.T) {
	ts := state.NewTestState(t)
	require.NoError(t, execute(ts, "generate", "-o", "/test/scenario.json"))
	require.NoError(t, execute(ts, "validate", "/test/scenario.json"))
}

func TestValidate_MissingFileIsIOError(t *testing.T) {
	ts := state.NewTestState(t)
	err := execute(ts, "validate", "/test/does-not-exist.json")
	require.Error(t, err)

	var ecerr interface{ ExitCode() int }
	require.ErrorAs(t, err, &ecerr)
	assert.Equal(t, 2, ecerr.ExitCode())
}

func TestValidate_InvalidScenarioExitsThree(t *testing.T) {
	ts := state.NewTestState(t)
	require.NoError(t, afero.WriteFile(ts.FS, "/test/bad.json", []byte(`{
		"version": 1, "name": "bad",
		"target": {"base_url": "http://x"},
		"workload": {"stages": [{"duration_sec": 1, "rps": 5}]},
		"journeys": [{"name": "j", "weight": 1, "steps": [{"type": "request", "method": "GET", "path": "/"}]}]
	}`), 0o644))

	err := execute(ts, "validate", "/test/bad.json")
	require.Error(t, err)

	var ecerr interface{ ExitCode() int }
	require.ErrorAs(t, err, &ecerr)
	assert.Equal(t, 3, ecerr.ExitCode())
}

func TestDryRun_TalliesAgainstGeneratedScenario(t *testing.T) {
	ts := state.NewTestState(t)
	require.NoError(t, execute(ts, "generate", "-o", "/test/scenario.json"))
	require.NoError(t, execute(ts, "dry-run", "/test/scenario.json", "-n", "50"))

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(ts.Stdout.Bytes(), &report))
	assert.EqualValues(t, 50, report["iterations"])
}

func TestRunMock_ProducesAReport(t *testing.T) {
	ts := state.NewTestState(t)
	require.NoError(t, execute(ts, "generate", "-o", "/test/scenario.json"))
	require.NoError(t, execute(ts, "run-mock", "/test/scenario.json", "--vus", "5"))

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(ts.Stdout.Bytes(), &report))
	run, ok := report["run"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "deterministic", run["mode"])
}
