package executor

import (
	"context"
	"time"

	"github.com/smoliakoff/rload/internal/plan"
	"github.com/smoliakoff/rload/internal/vu"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPC is a second, optional transport demonstrating that new executors
// plug into the engine loop unmodified: every dispatched request becomes a
// health-check RPC against req.Path, treated as the service name.
type GRPC struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// NewGRPC dials target once; the connection is reused for every request,
// the same pooled-client shape as the HTTP executor.
func NewGRPC(target string) (*GRPC, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &GRPC{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Close releases the underlying connection.
func (g *GRPC) Close() error { return g.conn.Close() }

// Execute issues a Health/Check RPC; req.Path is used as the service
// name, and any RPC error is folded into a failed Result.
func (g *GRPC) Execute(ctx context.Context, p *plan.ExecutionPlan, req vu.RequestSpec, tickIdx int64) (Result, error) {
	base := result(req, journeyName(p, req.JourneyID))

	timeout := time.Duration(req.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.Check(reqCtx, &healthpb.HealthCheckRequest{Service: req.Path})
	latency := time.Since(start)
	if err != nil {
		kind := ErrorConnection
		if reqCtx.Err() == context.DeadlineExceeded {
			kind = ErrorTimeout
		}
		return fail(base, kind), nil
	}

	base.LatencyMs = latency.Milliseconds()
	base.LatencyUs = latency.Microseconds()
	base.OK = resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	if !base.OK {
		base.ErrorKind = ErrorOther
	}
	return base, nil
}
