// Package scenario holds the declarative scenario document: targets, a
// staged workload, and weighted user journeys made of sleep/request steps.
// It is the external "scenario loader and validator" collaborator from the
// spec — the run engine only ever sees a fully validated Scenario.
package scenario

import (
	"fmt"

	null "gopkg.in/guregu/null.v3"
)

// CurrentVersion is the only scenario schema version this build accepts.
const CurrentVersion = 1

// Scenario is the root document loaded from JSON or YAML.
type Scenario struct {
	Version     int               `json:"version" yaml:"version"`
	Name        string            `json:"name" yaml:"name"`
	Target      Target            `json:"target" yaml:"target"`
	Workload    Workload          `json:"workload" yaml:"workload"`
	Journeys    []Journey         `json:"journeys" yaml:"journeys"`
	Description null.String       `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Thresholds  []Threshold       `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Target describes where requests are sent.
type Target struct {
	BaseURL        string            `json:"base_url" yaml:"base_url"`
	DefaultHeaders map[string]string `json:"default_headers,omitempty" yaml:"default_headers,omitempty"`
	InsecureTLS    null.Bool         `json:"insecure_tls,omitempty" yaml:"insecure_tls,omitempty"`
	// Protocol selects the executor transport. Empty/"http" is the default;
	// "grpc" routes through the optional executor.GRPC transport.
	Protocol string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
}

// Workload is the ordered list of constant-RPS stages.
type Workload struct {
	Stages []Stage `json:"stages" yaml:"stages"`
}

// Stage is a contiguous window of constant target RPS.
type Stage struct {
	DurationSec int `json:"duration_sec" yaml:"duration_sec"`
	RPS         int `json:"rps" yaml:"rps"`
}

// Journey is a named, weighted sequence of steps a VU walks repeatedly.
type Journey struct {
	Name   string `json:"name" yaml:"name"`
	Weight int    `json:"weight" yaml:"weight"`
	Steps  []Step `json:"steps" yaml:"steps"`
}

// StepKind tags the variant held by a Step.
type StepKind string

const (
	StepSleep   StepKind = "sleep"
	StepRequest StepKind = "request"
)

// Method is one of the HTTP verbs a Request step may use.
type Method string

const (
	MethodGET    Method = "GET"
	MethodPOST   Method = "POST"
	MethodPUT    Method = "PUT"
	MethodPATCH  Method = "PATCH"
	MethodDELETE Method = "DELETE"
)

// ValidMethods lists the methods accepted by the semantic validator.
var ValidMethods = map[Method]bool{
	MethodGET: true, MethodPOST: true, MethodPUT: true, MethodPATCH: true, MethodDELETE: true,
}

// Step is a tagged union: exactly one of Sleep or Request fields applies,
// selected by Kind. JSON/YAML encode it as {"type": "sleep"|"request", ...}.
type Step struct {
	Kind StepKind `json:"type" yaml:"type"`

	// Sleep fields.
	DurationMs int `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`

	// Request fields.
	Method    Method            `json:"method,omitempty" yaml:"method,omitempty"`
	Path      string            `json:"path,omitempty" yaml:"path,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      null.String       `json:"body,omitempty" yaml:"body,omitempty"`
	TimeoutMs null.Int          `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
}

// IsSleep reports whether the step is the Sleep variant.
func (s Step) IsSleep() bool { return s.Kind == StepSleep }

// IsRequest reports whether the step is the Request variant.
func (s Step) IsRequest() bool { return s.Kind == StepRequest }

// EndpointKey returns the canonical "METHOD path" metrics grouping key.
func (s Step) EndpointKey() string {
	return fmt.Sprintf("%s %s", s.Method, s.Path)
}

// ThresholdOperator is the comparison used by a Threshold.
type ThresholdOperator string

const (
	OpLT  ThresholdOperator = "lt"
	OpGT  ThresholdOperator = "gt"
	OpLTE ThresholdOperator = "lte"
	OpGTE ThresholdOperator = "gte"
	OpEQ  ThresholdOperator = "eq"
)

// Threshold is an optional pass/fail assertion on a report metric. Thresholds
// are loaded with the scenario and carried on it; nothing in the engine or
// the CLI evaluates them against a RunReport.
type Threshold struct {
	Metric string            `json:"metric" yaml:"metric"`
	Op     ThresholdOperator `json:"op" yaml:"op"`
	Value  float64           `json:"value" yaml:"value"`
	Scope  *ThresholdScope   `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// ThresholdScope narrows a Threshold to one endpoint and/or journey.
type ThresholdScope struct {
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Journey  string `json:"journey,omitempty" yaml:"journey,omitempty"`
}

// TotalWeight sums the weight of every journey; used for the planned
// journey shares in the run report.
func (s *Scenario) TotalWeight() int {
	total := 0
	for _, j := range s.Journeys {
		total += j.Weight
	}
	return total
}

// Default returns a minimal, valid scenario used by `rload generate`.
func Default() Scenario {
	return Scenario{
		Version: CurrentVersion,
		Name:    "default_scenario",
		Target: Target{
			BaseURL:        "http://localhost:8080",
			DefaultHeaders: map[string]string{"Content-Type": "application/json"},
		},
		Workload: Workload{Stages: []Stage{{DurationSec: 10, RPS: 100}}},
		Journeys: []Journey{
			{
				Name:   "default",
				Weight: 1,
				Steps: []Step{
					{Kind: StepSleep, DurationMs: 1},
					{Kind: StepRequest, Method: MethodGET, Path: "/"},
				},
			},
		},
		Thresholds: []Threshold{
			{Metric: "http.error_rate", Op: OpGT, Value: 10},
		},
	}
}
