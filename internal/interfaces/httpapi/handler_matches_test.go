package httpapi

import (
	"net/http"
	"testing"

	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
)

func TestMatches_ListAndGet(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/v1/matches", "")
	body := expectStatus(t, rec, http.StatusOK)
	if body["count"] != float64(2) {
		t.Fatalf("expected 2 seeded matches, got %v", body["count"])
	}

	rec = srv.do(t, http.MethodGet, "/v1/matches/"+memory.MatchIDInternal, "")
	body = expectStatus(t, rec, http.StatusOK)
	if body["status"] != "scheduled" || body["home_team"] != "red" {
		t.Fatalf("unexpected match body: %v", body)
	}

	rec = srv.do(t, http.MethodGet, "/v1/matches/unknown-match", "")
	body = expectStatus(t, rec, http.StatusNotFound)
	if body["error"] != "not_found" {
		t.Fatalf("expected not_found, got %v", body["error"])
	}
}

func TestMatches_CreateRequiresClockCapability(t *testing.T) {
	srv := newTestServer(t, nil)
	payload := `{"home_team":"green","away_team":"white"}`

	rec := srv.do(t, http.MethodPost, "/v1/matches", payload, asUser("player-01"))
	expectStatus(t, rec, http.StatusForbidden)

	rec = srv.do(t, http.MethodPost, "/v1/matches", payload, asUser("admin-01"))
	body := expectStatus(t, rec, http.StatusCreated)
	id, _ := body["id"].(string)
	if id == "" || body["status"] != "scheduled" {
		t.Fatalf("unexpected created match: %v", body)
	}

	rec = srv.do(t, http.MethodGet, "/v1/matches/"+id+"/clock", "")
	clock := expectStatus(t, rec, http.StatusOK)
	if clock["state"] != "idle" || clock["elapsed_ms"] != float64(0) {
		t.Fatalf("unexpected clock for new match: %v", clock)
	}
}

func TestMatches_ClockFollowsStart(t *testing.T) {
	srv := newTestServer(t, nil)
	startFriendly(t, srv, "evt-kickoff")

	rec := srv.do(t, http.MethodGet, "/v1/matches/"+friendly+"/clock", "")
	clock := expectStatus(t, rec, http.StatusOK)
	if clock["state"] != "running" {
		t.Fatalf("expected running clock, got %v", clock["state"])
	}
	if clock["match_id"] != friendly {
		t.Fatalf("unexpected match_id: %v", clock["match_id"])
	}
}

func TestMatches_RosterRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/v1/matches/"+memory.MatchIDInternal+"/roster", "")
	body := expectStatus(t, rec, http.StatusOK)
	teams, _ := body["teams"].(map[string]any)
	if len(teams) != 2 {
		t.Fatalf("expected seeded red/blue roster, got %v", body["teams"])
	}

	rec = srv.do(t, http.MethodPut, "/v1/matches/"+friendly+"/roster",
		`{"teams":{"home":["p-1","p-2"],"away":["p-1"]}}`, asUser("staff-01"))
	body = expectStatus(t, rec, http.StatusBadRequest)
	if body["error"] != "invalid_input" {
		t.Fatalf("expected invalid_input for player on two teams, got %v", body["error"])
	}

	rec = srv.do(t, http.MethodPut, "/v1/matches/"+friendly+"/roster",
		`{"teams":{"home":["p-1","p-2"],"away":["p-3"]}}`, asUser("staff-01"))
	body = expectStatus(t, rec, http.StatusOK)
	teams, _ = body["teams"].(map[string]any)
	if home, _ := teams["home"].([]any); len(home) != 2 {
		t.Fatalf("unexpected roster after replace: %v", body["teams"])
	}

	rec = srv.do(t, http.MethodPost, "/api/events/start", `{"match_id":"`+friendly+`"}`, asUser("staff-01"), withKey("evt-s"))
	expectStatus(t, rec, http.StatusOK)
	rec = srv.do(t, http.MethodPost, "/api/events/goal", `{"match_id":"`+friendly+`","team":"home","player_id":"p-3"}`,
		asUser("staff-01"), withKey("evt-g"))
	body = expectStatus(t, rec, http.StatusBadRequest)
	if body["error"] != "precondition_failed" {
		t.Fatalf("expected precondition_failed for off-roster scorer, got %v", body["error"])
	}
}

func TestMatches_ProjectionUnknownMatch(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/v1/matches/nope/projection", "")
	expectStatus(t, rec, http.StatusNotFound)
}
