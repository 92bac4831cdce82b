package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/usecase"
)

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.matches.Create(ctx, usecase.CreateMatchInput{HomeTeam: req.HomeTeam, AwayTeam: req.AwayTeam})
	if err != nil {
		h.logFailure(ctx, "create match failed", err, "home_team", req.HomeTeam, "away_team", req.AwayTeam)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(m))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	items, err := h.matches.List(ctx)
	if err != nil {
		h.logFailure(ctx, "list matches failed", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, newListResponse(out))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	m, err := h.matches.Get(ctx, matchID)
	if err != nil {
		h.logFailure(ctx, "get match failed", err, "match_id", matchID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

func (h *Handler) ListMatchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchEvents")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	events, err := h.events.ListEvents(ctx, matchID)
	if err != nil {
		h.logFailure(ctx, "list match events failed", err, "match_id", matchID)
		writeError(ctx, w, err)
		return
	}

	out := make([]eventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, eventToDTO(e))
	}
	writeSuccess(ctx, w, http.StatusOK, newListResponse(out))
}

func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetProjection")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	projection, err := h.projections.Get(ctx, matchID)
	if err != nil {
		h.logFailure(ctx, "get projection failed", err, "match_id", matchID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, projectionResponse(projection))
}

func (h *Handler) GetClock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClock")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	snapshot, err := h.clocks.Snapshot(ctx, matchID)
	if err != nil {
		h.logFailure(ctx, "get clock failed", err, "match_id", matchID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, struct {
		MatchID string `json:"match_id"`
		clockBody
	}{MatchID: matchID, clockBody: clockBody{
		State:               string(snapshot.State),
		ElapsedMs:           snapshot.ElapsedMs,
		PausedAccumulatedMs: snapshot.PausedAccumulatedMs,
		Round:               snapshot.Round,
		ServerTime:          time.Now().UTC(),
	}})
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoster")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	ro, err := h.matches.Roster(ctx, matchID)
	if err != nil {
		h.logFailure(ctx, "get roster failed", err, "match_id", matchID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(ro))
}

func (h *Handler) ReplaceRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplaceRoster")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	var req rosterRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	ro, err := h.matches.ReplaceRoster(ctx, matchID, req.Teams)
	if err != nil {
		h.logFailure(ctx, "replace roster failed", err, "match_id", matchID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(ro))
}

func (h *Handler) ListCheckIns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCheckIns")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	items, err := h.checkins.List(ctx, matchID)
	if err != nil {
		h.logFailure(ctx, "list check-ins failed", err, "match_id", matchID)
		writeError(ctx, w, err)
		return
	}

	out := make([]checkInDTO, 0, len(items))
	for _, c := range items {
		out = append(out, checkInToDTO(c))
	}
	writeSuccess(ctx, w, http.StatusOK, newListResponse(out))
}

type clockBody struct {
	State               string    `json:"state"`
	ElapsedMs           int64     `json:"elapsed_ms"`
	PausedAccumulatedMs int64     `json:"paused_accumulated_ms"`
	Round               int       `json:"round"`
	ServerTime          time.Time `json:"server_time"`
}

type projectionBody struct {
	MatchID       string                           `json:"match_id"`
	ScoreByTeam   map[string]int                   `json:"score_by_team"`
	StatsByPlayer map[string]matchevent.PlayerStat `json:"stats_by_player"`
	Substitutions []matchevent.Substitution        `json:"substitutions"`
	EventCount    int                              `json:"event_count"`
}

func projectionResponse(p matchevent.Projection) projectionBody {
	body := projectionBody{
		MatchID:       p.MatchID,
		ScoreByTeam:   p.ScoreByTeam,
		StatsByPlayer: p.StatsByPlayer,
		Substitutions: p.Substitutions,
		EventCount:    p.EventCount,
	}
	if body.ScoreByTeam == nil {
		body.ScoreByTeam = map[string]int{}
	}
	if body.StatsByPlayer == nil {
		body.StatsByPlayer = map[string]matchevent.PlayerStat{}
	}
	if body.Substitutions == nil {
		body.Substitutions = []matchevent.Substitution{}
	}
	return body
}
