package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/matchday/internal/usecase"
)

type statusTransition func(ctx context.Context, sub usecase.Submission, matchID string) (usecase.StatusResult, error)

func (h *Handler) StartMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartMatch")
	defer span.End()

	h.handleTransition(ctx, w, r, "start", h.events.Start, func(res usecase.StatusResult) submissionResponse {
		return submissionResponse{Success: true, EventID: res.Event.ID, StartedAt: res.Match.StartedAt}
	})
}

func (h *Handler) PauseMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PauseMatch")
	defer span.End()

	h.handleTransition(ctx, w, r, "pause", h.events.Pause, func(res usecase.StatusResult) submissionResponse {
		pausedMs := res.Match.PausedMs
		return submissionResponse{Success: true, EventID: res.Event.ID, PausedMs: &pausedMs}
	})
}

func (h *Handler) ResumeMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResumeMatch")
	defer span.End()

	h.handleTransition(ctx, w, r, "resume", h.events.Resume, func(res usecase.StatusResult) submissionResponse {
		return submissionResponse{Success: true, EventID: res.Event.ID, StartedAt: res.Match.StartedAt}
	})
}

func (h *Handler) ResetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetMatch")
	defer span.End()

	h.handleTransition(ctx, w, r, "reset", h.events.Reset, func(res usecase.StatusResult) submissionResponse {
		return submissionResponse{Success: true, EventID: res.Event.ID}
	})
}

func (h *Handler) EndMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EndMatch")
	defer span.End()

	h.handleTransition(ctx, w, r, "end", h.events.End, func(res usecase.StatusResult) submissionResponse {
		pausedMs := res.Match.PausedMs
		round := res.Match.Round
		return submissionResponse{Success: true, EventID: res.Event.ID, PausedMs: &pausedMs, Round: &round}
	})
}

func (h *Handler) handleTransition(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	action string,
	transition statusTransition,
	respond func(usecase.StatusResult) submissionResponse,
) {
	sub, err := h.submission(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req matchIDRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := transition(ctx, sub, strings.TrimSpace(req.MatchID))
	if err != nil {
		h.logFailure(ctx, "match status transition failed", err,
			"action", action,
			"match_id", req.MatchID,
			"event_id", sub.EventID,
			"user_id", sub.UserID,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, respond(result))
}

func (h *Handler) SubmitGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitGoal")
	defer span.End()

	sub, err := h.submission(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req goalRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	event, err := h.events.Goal(ctx, sub, usecase.GoalInput{
		MatchID:  req.MatchID,
		Team:     req.Team,
		PlayerID: req.PlayerID,
		AssistID: req.AssistID,
	})
	if err != nil {
		h.logFailure(ctx, "submit goal failed", err, "match_id", req.MatchID, "event_id", sub.EventID, "user_id", sub.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionResponse{Success: true, EventID: event.ID})
}

func (h *Handler) SubmitCard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitCard")
	defer span.End()

	sub, err := h.submission(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req cardRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	event, err := h.events.Card(ctx, sub, usecase.CardInput{
		MatchID:  req.MatchID,
		Team:     req.Team,
		PlayerID: req.PlayerID,
		Color:    req.Color,
	})
	if err != nil {
		h.logFailure(ctx, "submit card failed", err, "match_id", req.MatchID, "event_id", sub.EventID, "user_id", sub.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionResponse{Success: true, EventID: event.ID})
}

func (h *Handler) SubmitSub(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitSub")
	defer span.End()

	sub, err := h.submission(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req subRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	event, err := h.events.Sub(ctx, sub, usecase.SubInput{
		MatchID:     req.MatchID,
		Team:        req.Team,
		OutPlayerID: req.OutPlayerID,
		InPlayerID:  req.InPlayerID,
	})
	if err != nil {
		h.logFailure(ctx, "submit substitution failed", err, "match_id", req.MatchID, "event_id", sub.EventID, "user_id", sub.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionResponse{Success: true, EventID: event.ID})
}

func (h *Handler) InvalidateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InvalidateEvent")
	defer span.End()

	userID, err := h.callerID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req invalidateRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	event, err := h.events.Invalidate(ctx, userID, req.EventID, *req.IsValid)
	if err != nil {
		h.logFailure(ctx, "set event validity failed", err, "event_id", req.EventID, "user_id", userID)
		writeError(ctx, w, err)
		return
	}

	isValid := event.IsValid
	writeSuccess(ctx, w, http.StatusOK, submissionResponse{
		Success:  true,
		EventID:  event.ID,
		IsValid:  &isValid,
		Revision: event.Revision,
	})
}

func (h *Handler) EditGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EditGoal")
	defer span.End()

	userID, err := h.callerID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	eventID := strings.TrimSpace(r.PathValue("eventID"))
	var req editGoalRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	event, err := h.events.EditGoal(ctx, userID, eventID, usecase.GoalEdit{
		Team:     req.Team,
		PlayerID: req.PlayerID,
		AssistID: req.AssistID,
		Revision: req.Revision,
	})
	if err != nil {
		h.logFailure(ctx, "edit goal failed", err, "event_id", eventID, "user_id", userID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionResponse{Success: true, EventID: event.ID, Revision: event.Revision})
}

func (h *Handler) RemoveGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveGoal")
	defer span.End()

	userID, err := h.callerID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	eventID := strings.TrimSpace(r.PathValue("eventID"))

	event, err := h.events.RemoveGoal(ctx, userID, eventID)
	if err != nil {
		h.logFailure(ctx, "remove goal failed", err, "event_id", eventID, "user_id", userID)
		writeError(ctx, w, err)
		return
	}

	isValid := event.IsValid
	writeSuccess(ctx, w, http.StatusOK, submissionResponse{
		Success:  true,
		EventID:  event.ID,
		IsValid:  &isValid,
		Revision: event.Revision,
	})
}

// EventsFallback answers every /api/events request no other route matched.
func (h *Handler) EventsFallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EventsFallback")
	defer span.End()

	if r.Method == http.MethodPost {
		writeError(ctx, w, fmt.Errorf("%w: no event route %s", usecase.ErrNotFound, r.URL.Path))
		return
	}
	writeMethodNotAllowed(ctx, w, http.MethodPost)
}
