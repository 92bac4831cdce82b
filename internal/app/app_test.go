package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/domain/gate"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		ServiceName:        "matchday-api-test",
		HTTPAddr:           "127.0.0.1:0",
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		ShutdownTimeout:    time.Second,
		CORSAllowedOrigins: []string{"*"},
		StoreBackend:       config.StoreMemory,
		SeedDemoData:       true,
		PersistenceTimeout: time.Second,
		RateLimitBackend:   config.RateLimitStore,
		CheckinLimit:       1,
		CheckinWindow:      30 * time.Second,
		EventsLimit:        5,
		EventsWindow:       10 * time.Second,
		ClockTickInterval:  time.Second,
		RebuildMaxWorkers:  2,
		LiveFeedBufferSize: 4,
		MetricsEnabled:     true,
	}
}

func TestNew_MemoryBackendServesSeededMatches(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "maestros-friendly-01") {
		t.Fatalf("expected seeded match in body: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics when enabled, got %d", rec.Code)
	}
}

func TestNew_WithoutSeedOrMetrics(t *testing.T) {
	cfg := testConfig()
	cfg.SeedDemoData = false
	cfg.MetricsEnabled = false

	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches/maestros-friendly-01", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without seed data, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code == http.StatusOK {
		t.Fatalf("expected /metrics to be unrouted when disabled")
	}
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""
	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty http addr")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("run did not stop after cancel")
	}
}

func TestPoliciesFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.CheckinLimit = 0

	policies := policiesFromConfig(cfg)
	if got := policies[gate.ClassEvents]; got.Limit != 5 || got.Window != 10*time.Second {
		t.Fatalf("unexpected events policy: %+v", got)
	}
	if got := policies[gate.ClassCheckIn]; got.Limit != 0 || got.Class != gate.ClassCheckIn {
		t.Fatalf("unexpected checkin policy: %+v", got)
	}
}

func TestCircuitFromConfig(t *testing.T) {
	got := circuitFromConfig(config.CircuitConfig{Enabled: true, FailureCount: 3, OpenTimeout: 5 * time.Second, HalfOpenMaxReqs: 2})
	if !got.Enabled || got.FailureThreshold != 3 || got.OpenTimeout != 5*time.Second || got.HalfOpenMaxReq != 2 {
		t.Fatalf("unexpected circuit config: %+v", got)
	}
}
