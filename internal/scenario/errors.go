package scenario

import (
	"fmt"
	"strings"
)

// ValidationError is one violation found while loading a scenario. Path is
// a JSON Pointer into the document ("/workload/stages/0/duration_sec");
// Code groups errors into three families.
type ValidationError struct {
	Path    string
	Code    string
	Message string
}

// Code values for ValidationError.
const (
	CodeJSONParse     = "json_parse"
	CodeSchemaViolate = "schema_violation"
	CodeSemanticRule  = "semantic_rule"
)

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error at [%s] %s (%s)", e.Path, e.Message, e.Code)
}

// ValidationErrors collects every violation found during a single load, so
// `rload validate` can report everything in one pass instead of failing on
// the first problem.
type ValidationErrors struct {
	Items []ValidationError
}

func (e *ValidationErrors) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario is invalid (%d errors)\n", len(e.Items))
	for _, item := range e.Items {
		b.WriteString(item.Error())
		b.WriteByte('\n')
	}
	return b.String()
}

// ExitCode implements errext.HasExitCode: validation failures exit 3.
func (e *ValidationErrors) ExitCode() int { return 3 }

// JSONParseError wraps a malformed scenario document with its position.
type JSONParseError struct {
	Line, Col int
	Message   string
}

func (e *JSONParseError) Error() string {
	return fmt.Sprintf("invalid json at line %d, column %d: %s", e.Line, e.Col, e.Message)
}

// ExitCode implements errext.HasExitCode.
func (e *JSONParseError) ExitCode() int { return 3 }
