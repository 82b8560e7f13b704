package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Jishaan-07/Employee-managment/internal/contacts"
)

func scrape(t *testing.T, metrics *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsHandlerExposesPrometheusMetrics(t *testing.T) {
	metrics := NewMetrics()
	metrics.SessionGauge().Set(3)

	body := scrape(t, metrics)
	if !strings.Contains(body, "empdir_directory_sessions 3") {
		t.Fatalf("expected body to contain session gauge, got: %s", body)
	}
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/test")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}

	metricsBody := scrape(t, metrics)
	if !strings.Contains(metricsBody, "empdir_http_requests_total{code=\"418\",route=\"/test\"} 1") {
		t.Fatalf("expected metrics to record request, got: %s", metricsBody)
	}
	if !strings.Contains(metricsBody, "empdir_http_request_duration_seconds_bucket{route=\"/test\"") {
		t.Fatalf("expected duration histogram to be present, got: %s", metricsBody)
	}
}

func TestObserveRemoteCallOutcomes(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveRemoteCall("list", nil, time.Millisecond)
	metrics.ObserveRemoteCall("create", &contacts.RemoteError{Op: "create", Status: http.StatusBadGateway}, time.Millisecond)
	metrics.ObserveRemoteCall("delete", &contacts.RemoteError{Op: "delete", Err: errors.New("dial")}, time.Millisecond)

	body := scrape(t, metrics)
	for _, want := range []string{
		`empdir_remote_calls_total{op="list",outcome="success"} 1`,
		`empdir_remote_calls_total{op="create",outcome="status_502"} 1`,
		`empdir_remote_calls_total{op="delete",outcome="error"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics, got: %s", want, body)
		}
	}
}

func TestRegistererExposesExtraCollectors(t *testing.T) {
	metrics := NewMetrics()
	metrics.Registerer().MustRegister(collectors.NewGoCollector())
	build := prometheus.NewGauge(prometheus.GaugeOpts{Name: "empdir_build_info", Help: "Build marker."})
	build.Set(1)
	metrics.Registerer().MustRegister(build)

	body := scrape(t, metrics)
	for _, want := range []string{"go_goroutines", "empdir_build_info 1"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics, got: %s", want, body)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveRemoteCall("list", nil, 0)
	if metrics.SessionGauge() != nil {
		t.Fatal("expected nil gauge")
	}
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
