package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/smoliakoff/rload/internal/plan"
	"github.com/smoliakoff/rload/internal/vu"
)

// HTTP is the real-transport Executor: one pooled *http.Client shared
// across every dispatched request.
type HTTP struct {
	client         *http.Client
	defaultHeaders map[string]string
}

// NewHTTP builds an HTTP executor with a 1000-idle-conns-per-host pool
// and a 10-hop redirect cap.
func NewHTTP(defaultHeaders map[string]string) *HTTP {
	transport := &http.Transport{
		MaxIdleConns:        1000,
		MaxIdleConnsPerHost: 1000,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	client := &http.Client{
		Transport: transport,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
	return &HTTP{client: client, defaultHeaders: defaultHeaders}
}

// Execute performs the request over HTTP, folding any transport failure
// into a failed Result rather than returning an error: a transport error
// never aborts the run.
func (h *HTTP) Execute(ctx context.Context, p *plan.ExecutionPlan, req vu.RequestSpec, tickIdx int64) (Result, error) {
	base := result(req, journeyName(p, req.JourneyID))

	timeout := time.Duration(req.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, string(req.Method), p.BaseURL+req.Path, bytes.NewReader([]byte(req.Body)))
	if err != nil {
		return fail(base, ErrorOther), nil
	}
	for k, v := range h.defaultHeaders {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := h.client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		kind := ErrorConnection
		if errors.Is(err, context.DeadlineExceeded) {
			kind = ErrorTimeout
		}
		return fail(base, kind), nil
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	base.LatencyMs = latency.Milliseconds()
	base.LatencyUs = latency.Microseconds()
	base.OK = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !base.OK {
		base.ErrorKind = ErrorOther
	}
	return base, nil
}

func result(req vu.RequestSpec, journeyName string) Result {
	return Result{
		EndpointKey: req.EndpointKey,
		JourneyID:   req.JourneyID,
		JourneyName: journeyName,
		StageIndex:  req.StageIndex,
	}
}

func fail(base Result, kind ErrorKind) Result {
	base.OK = false
	base.ErrorKind = kind
	base.LatencyMs = 0
	base.LatencyUs = 0
	return base
}
