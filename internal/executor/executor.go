// Package executor implements a pluggable transport the run engine calls
// once per dispatched request, never touching net/http (or any other
// transport) directly.
package executor

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/smoliakoff/rload/internal/plan"
	"github.com/smoliakoff/rload/internal/vu"
)

// ErrorKind classifies a transport failure, folded into ResponseResult
// rather than ever escaping the engine loop.
type ErrorKind string

const (
	ErrorNone           ErrorKind = ""
	ErrorTimeout        ErrorKind = "timeout"
	ErrorConnection     ErrorKind = "connection_error"
	ErrorOther          ErrorKind = "other"
)

// Result is the outcome of one executed request.
type Result struct {
	OK          bool
	LatencyMs   int64
	LatencyUs   int64
	ErrorKind   ErrorKind
	EndpointKey string
	JourneyID   int
	JourneyName string
	StageIndex  int
	StageStartMs int64
}

// Executor is the capability the engine needs from any transport.
// Implementations fold expected transport failures into Result.OK/ErrorKind
// themselves; if Execute does return an error, the engine replaces the
// result with a failed one (ErrorConnection) and the run continues.
type Executor interface {
	Execute(ctx context.Context, p *plan.ExecutionPlan, req vu.RequestSpec, tickIdx int64) (Result, error)
}

// TransportError wraps a recoverable transport-layer failure; the engine
// synthesizes a failed Result from it and continues the run.
type TransportError struct {
	Kind ErrorKind
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error (%s): %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// mockLatencyMs derives a deterministic latency from the stable key
// "path-scenario-tick_idx", for the Mock executor variant.
func mockLatencyMs(path, scenarioName string, tickIdx int64) int64 {
	key := fmt.Sprintf("%s-%s-%d", path, scenarioName, tickIdx)
	digest := sha256.Sum256([]byte(key))
	n := binary.BigEndian.Uint64(digest[:8])
	return int64(n % 100)
}
