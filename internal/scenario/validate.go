package scenario

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Validate runs a JSON-Schema-shaped structural pass followed by a
// semantic rule pass: a hand-written check of required fields and their
// types, then a handful of business Rule implementations.
//
// raw is the exact bytes that were loaded, used for schema-shape and path
// reporting via gjson so error paths point at the offending field even
// when the typed decode above already filled in zero values.
func Validate(s *Scenario, raw []byte) error {
	var errs []ValidationError

	if !json.Valid(raw) {
		line, col, msg := locateSyntaxError(raw)
		return &ValidationErrors{Items: []ValidationError{{
			Path: "", Code: CodeJSONParse,
			Message: fmt.Sprintf("invalid json at line %d, column %d: %s", line, col, msg),
		}}}
	}

	root := gjson.ParseBytes(raw)
	checkShape(root, &errs)

	for _, rule := range defaultRules() {
		rule.Validate(s, &errs)
	}

	if len(errs) > 0 {
		return &ValidationErrors{Items: errs}
	}
	return nil
}

// checkShape performs the JSON-Schema-equivalent structural checks: field
// presence and gross type, independent of the semantic bounds checked by
// the rules below. Violations here use CodeSchemaViolate.
func checkShape(root gjson.Result, errs *[]ValidationError) {
	shape := []struct {
		path string
		kind gjson.Type
	}{
		{"version", gjson.Number},
		{"name", gjson.String},
		{"target", gjson.JSON},
		{"target.base_url", gjson.String},
		{"workload", gjson.JSON},
		{"workload.stages", gjson.JSON},
		{"journeys", gjson.JSON},
	}
	for _, field := range shape {
		v := root.Get(field.path)
		if !v.Exists() {
			*errs = append(*errs, ValidationError{
				Path: "/" + strings.ReplaceAll(field.path, ".", "/"), Code: CodeSchemaViolate,
				Message: "required field is missing",
			})
			continue
		}
		if field.kind == gjson.JSON {
			if !v.IsArray() && !v.IsObject() {
				*errs = append(*errs, ValidationError{
					Path: "/" + strings.ReplaceAll(field.path, ".", "/"), Code: CodeSchemaViolate,
					Message: "expected an array or object",
				})
			}
			continue
		}
		if v.Type != field.kind {
			*errs = append(*errs, ValidationError{
				Path: "/" + strings.ReplaceAll(field.path, ".", "/"), Code: CodeSchemaViolate,
				Message: fmt.Sprintf("expected %s", typeName(field.kind)),
			})
		}
	}

	if !root.Get("workload.stages").IsArray() {
		return
	}
	root.Get("workload.stages").ForEach(func(idx, stage gjson.Result) bool {
		for _, f := range []string{"duration_sec", "rps"} {
			v := stage.Get(f)
			if !v.Exists() || v.Type != gjson.Number {
				*errs = append(*errs, ValidationError{
					Path: fmt.Sprintf("/workload/stages/%d/%s", idx.Int(), f), Code: CodeSchemaViolate,
					Message: "expected a number",
				})
			}
		}
		return true
	})
}

func typeName(t gjson.Type) string {
	switch t {
	case gjson.String:
		return "a string"
	case gjson.Number:
		return "a number"
	case gjson.True, gjson.False:
		return "a boolean"
	default:
		return "a value"
	}
}

// locateSyntaxError turns an encoding/json.SyntaxError offset into a
// line/column pair, the way the Rust serde_json front-end reported
// JsonError{line, col, msg}.
func locateSyntaxError(raw []byte) (line, col int, msg string) {
	var v interface{}
	err := json.Unmarshal(raw, &v)
	if err == nil {
		return 0, 0, "unknown parse error"
	}
	se, ok := err.(*json.SyntaxError)
	if !ok {
		return 0, 0, err.Error()
	}
	offset := se.Offset
	line = 1
	lastNL := int64(-1)
	for i := int64(0); i < offset && i < int64(len(raw)); i++ {
		if raw[i] == '\n' {
			line++
			lastNL = i
		}
	}
	col = int(offset - lastNL)
	return line, col, se.Error()
}

// Rule validates one business constraint: small, composable, each owning
// exactly one invariant of a well-formed scenario.
type Rule interface {
	Validate(s *Scenario, errs *[]ValidationError)
}

func defaultRules() []Rule {
	return []Rule{
		versionRule{}, nameRule{}, webProtocolRule{}, stagesRule{},
		durationRule{}, rpsRule{}, journeysRule{}, stepRule{},
	}
}

type versionRule struct{}

func (versionRule) Validate(s *Scenario, errs *[]ValidationError) {
	if s.Version != CurrentVersion {
		*errs = append(*errs, ValidationError{
			Path: "/version", Code: CodeSemanticRule,
			Message: fmt.Sprintf("unsupported version: %d. supported: [%d]", s.Version, CurrentVersion),
		})
	}
}

type nameRule struct{}

func (nameRule) Validate(s *Scenario, errs *[]ValidationError) {
	if len(s.Name) == 0 {
		*errs = append(*errs, ValidationError{
			Path: "/name", Code: CodeSemanticRule, Message: "name required and must not be empty",
		})
	}
}

type webProtocolRule struct{}

func (webProtocolRule) Validate(s *Scenario, errs *[]ValidationError) {
	base := s.Target.BaseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		*errs = append(*errs, ValidationError{
			Path: "/target/base_url", Code: CodeSemanticRule, Message: "base_url must start with http or https",
		})
	}
}

type stagesRule struct{}

func (stagesRule) Validate(s *Scenario, errs *[]ValidationError) {
	if len(s.Workload.Stages) == 0 {
		*errs = append(*errs, ValidationError{
			Path: "/workload/stages", Code: CodeSemanticRule, Message: "stages must be a non-empty array",
		})
	}
}

type durationRule struct{}

func (durationRule) Validate(s *Scenario, errs *[]ValidationError) {
	for i, stage := range s.Workload.Stages {
		if stage.DurationSec < 10 || stage.DurationSec > 86400 {
			*errs = append(*errs, ValidationError{
				Path: fmt.Sprintf("/workload/stages/%d/duration_sec", i), Code: CodeSemanticRule,
				Message: "duration_sec must be >= 10 and <= 86400",
			})
		}
	}
}

type rpsRule struct{}

func (rpsRule) Validate(s *Scenario, errs *[]ValidationError) {
	for i, stage := range s.Workload.Stages {
		if stage.RPS < 1 || stage.RPS > 10000 {
			*errs = append(*errs, ValidationError{
				Path: fmt.Sprintf("/workload/stages/%d/rps", i), Code: CodeSemanticRule,
				Message: "rps must be >= 1 and <= 10000",
			})
		}
	}
}

type journeysRule struct{}

func (journeysRule) Validate(s *Scenario, errs *[]ValidationError) {
	if len(s.Journeys) == 0 {
		*errs = append(*errs, ValidationError{
			Path: "/journeys", Code: CodeSemanticRule, Message: "at least one journey is required",
		})
		return
	}
	total := 0
	for i, j := range s.Journeys {
		if j.Weight < 1 || j.Weight > 10000 {
			*errs = append(*errs, ValidationError{
				Path: fmt.Sprintf("/journeys/%d/weight", i), Code: CodeSemanticRule,
				Message: "weight must be in [1, 10000]",
			})
		}
		total += j.Weight
	}
	if total <= 0 {
		*errs = append(*errs, ValidationError{
			Path: "/journeys", Code: CodeSemanticRule, Message: "sum of journey weights must be > 0",
		})
	}
}

type stepRule struct{}

func (stepRule) Validate(s *Scenario, errs *[]ValidationError) {
	for ji, j := range s.Journeys {
		for si, step := range j.Steps {
			path := fmt.Sprintf("/journeys/%d/steps/%d", ji, si)
			switch step.Kind {
			case StepSleep:
				if step.DurationMs < 1 || step.DurationMs > 10000 {
					*errs = append(*errs, ValidationError{
						Path: path + "/duration_ms", Code: CodeSemanticRule,
						Message: "duration_ms must be in [1, 10000]",
					})
				}
			case StepRequest:
				if !ValidMethods[step.Method] {
					*errs = append(*errs, ValidationError{
						Path: path + "/method", Code: CodeSemanticRule,
						Message: "method must be one of GET, POST, PUT, PATCH, DELETE",
					})
				}
				if !strings.HasPrefix(step.Path, "/") {
					*errs = append(*errs, ValidationError{
						Path: path + "/path", Code: CodeSemanticRule, Message: "path must start with /",
					})
				}
				if step.Body.Valid && len(step.Body.String) > 10000 {
					*errs = append(*errs, ValidationError{
						Path: path + "/body", Code: CodeSemanticRule, Message: "body must be <= 10000 chars",
					})
				}
				if step.TimeoutMs.Valid && (step.TimeoutMs.Int64 < 1 || step.TimeoutMs.Int64 > 100000) {
					*errs = append(*errs, ValidationError{
						Path: path + "/timeout_ms", Code: CodeSemanticRule,
						Message: "timeout_ms must be in [1, 100000]",
					})
				}
			default:
				*errs = append(*errs, ValidationError{
					Path: path + "/type", Code: CodeSemanticRule, Message: "type must be sleep or request",
				})
			}
		}
	}
}
