package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday/internal/domain/gate"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/usecase"
)

const testInternalToken = "internal-secret"

type recordedRequest struct {
	route  string
	method string
	status int
}

type fakeRequestMetrics struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (m *fakeRequestMetrics) HTTPRequest(route, method string, status int, _ time.Duration) {
	m.mu.Lock()
	m.requests = append(m.requests, recordedRequest{route: route, method: method, status: status})
	m.mu.Unlock()
}

type testServer struct {
	handler http.Handler
	metrics *fakeRequestMetrics
}

// newTestServer wires the full router on the seeded in-memory stores.
func newTestServer(t *testing.T, policies map[gate.Class]gate.Policy) *testServer {
	t.Helper()

	logger := logging.NewNop()
	matches := memory.NewMatchRepository(memory.SeedMatches())
	events := memory.NewEventRepository(matches)
	rosters := memory.NewRosterRepository(memory.SeedRosters())
	payments := memory.NewPaymentRepository()
	members := memory.NewMemberRepository(memory.SeedMembers())

	idempotency := usecase.NewIdempotencyGate(events, payments, logger)
	limiter := usecase.NewRateLimitGate(memory.NewRateLimiter(), policies, logger)
	projections := usecase.NewProjectionService(events, matches, logger)
	clocks := usecase.NewClockRegistry(matches, logger)

	handler := NewHandler(Services{
		Events:      usecase.NewMatchEventService(matches, events, rosters, idempotency, limiter, projections, clocks, logger),
		Matches:     usecase.NewMatchService(matches, rosters, nil),
		Projections: projections,
		Clocks:      clocks,
		CheckIns:    usecase.NewCheckInService(memory.NewCheckInRepository(), matches, rosters, limiter, nil, logger),
		Payments:    usecase.NewPaymentService(payments, idempotency, nil, logger),
		Members:     usecase.NewMemberService(members),
	}, HandlerOptions{RebuildWorkers: 2}, logger)

	metrics := &fakeRequestMetrics{}
	return &testServer{
		handler: NewRouter(handler, RouterOptions{
			Logger:             logger,
			CORSAllowedOrigins: []string{"*"},
			InternalToken:      testInternalToken,
			Metrics:            metrics,
		}),
		metrics: metrics,
	}
}

func generousTestPolicies() map[gate.Class]gate.Policy {
	return map[gate.Class]gate.Policy{
		gate.ClassEvents:  {Class: gate.ClassEvents, Limit: 1000, Window: time.Second},
		gate.ClassCheckIn: {Class: gate.ClassCheckIn, Limit: 1000, Window: time.Second},
	}
}

type requestOption func(*http.Request)

func asUser(userID string) requestOption {
	return func(r *http.Request) { r.Header.Set(headerUserID, userID) }
}

func withKey(key string) requestOption {
	return func(r *http.Request) { r.Header.Set(headerIdempotencyKey, key) }
}

func withHeader(name, value string) requestOption {
	return func(r *http.Request) { r.Header.Set(name, value) }
}

func (s *testServer) do(t *testing.T, method, path, body string, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) map[string]any {
	t.Helper()

	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, strings.TrimSpace(rec.Body.String()))
	}
	return decodeBody(t, rec)
}
