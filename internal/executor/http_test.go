package executor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smoliakoff/rload/internal/plan"
	"github.com/smoliakoff/rload/internal/scenario"
	"github.com/smoliakoff/rload/internal/vu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan(baseURL string) *plan.ExecutionPlan {
	s := scenario.Default()
	s.Target.BaseURL = baseURL
	return plan.New(&s)
}

func TestHTTP_SuccessStatusIsOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	exec := NewHTTP(map[string]string{"X-Default": "1"})
	req := vu.RequestSpec{Method: scenario.MethodGET, Path: "/ok", EndpointKey: "GET /ok"}
	res, err := exec.Execute(context.Background(), testPlan(srv.URL), req, 1)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, ErrorNone, res.ErrorKind)
}

func TestHTTP_ServerErrorIsNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	exec := NewHTTP(nil)
	req := vu.RequestSpec{Method: scenario.MethodGET, Path: "/err", EndpointKey: "GET /err"}
	res, err := exec.Execute(context.Background(), testPlan(srv.URL), req, 1)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, ErrorOther, res.ErrorKind)
}

func TestHTTP_BodyAndHeadersAreSent(t *testing.T) {
	var gotBody string
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotHeader = r.Header.Get("X-Custom")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	exec := NewHTTP(nil)
	req := vu.RequestSpec{
		Method: scenario.MethodPOST, Path: "/echo", EndpointKey: "POST /echo",
		Body: `{"hello":"world"}`, Headers: map[string]string{"X-Custom": "yes"},
	}
	_, err := exec.Execute(context.Background(), testPlan(srv.URL), req, 1)
	require.NoError(t, err)
	assert.Equal(t, `{"hello":"world"}`, gotBody)
	assert.Equal(t, "yes", gotHeader)
}

func TestHTTP_ConnectionErrorIsFolded(t *testing.T) {
	exec := NewHTTP(nil)
	req := vu.RequestSpec{Method: scenario.MethodGET, Path: "/", EndpointKey: "GET /", TimeoutMs: 100}
	res, err := exec.Execute(context.Background(), testPlan("http://127.0.0.1:1"), req, 1)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.NotEqual(t, ErrorNone, res.ErrorKind)
}
