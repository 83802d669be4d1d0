package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/veldt-labs/scout/internal/usecase/health"
)

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

func newTestHandler(t *testing.T, pingErr error) http.Handler {
	t.Helper()
	checker := health.New(&fakePinger{err: pingErr}, nil)
	srv := New(Config{Addr: ":0"}, checker, zap.NewNop())
	return srv.srv.Handler
}

func TestHealthz_OK(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status ok, got %q", body.Status)
	}
	if body.Checks["database"] != "ok" {
		t.Errorf("expected database ok, got %q", body.Checks["database"])
	}
}

func TestHealthz_DatabaseDown(t *testing.T) {
	h := newTestHandler(t, errors.New("connection refused"))

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "degraded") {
		t.Errorf("expected degraded status in body, got %s", rr.Body.String())
	}
}

func TestHealthz_DegradedWarnsWithRequestScope(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	checker := health.New(&fakePinger{err: errors.New("connection refused")}, nil)
	srv := New(Config{Addr: ":0"}, checker, zap.New(core))

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rr, req)

	entries := logs.FilterMessage("health check degraded").All()
	if len(entries) != 1 {
		t.Fatalf("expected one degraded warning, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/healthz" {
		t.Errorf("expected request-scoped path field, got %v", fields["path"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Error("expected prometheus exposition format output")
	}
}
