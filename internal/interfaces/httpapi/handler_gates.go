package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/matchday/internal/domain/member"
	"github.com/riskibarqy/matchday/internal/usecase"
)

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckIn")
	defer span.End()

	userID, err := h.callerID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req checkInRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	c, err := h.checkins.CheckIn(ctx, userID, usecase.CheckInInput{MatchID: req.MatchID, PlayerID: req.PlayerID})
	if err != nil {
		h.logFailure(ctx, "check-in failed", err, "match_id", req.MatchID, "player_id", req.PlayerID, "user_id", userID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, checkInToDTO(c))
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePayment")
	defer span.End()

	userID, err := h.callerID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	key := strings.TrimSpace(r.Header.Get(headerIdempotencyKey))
	if key == "" {
		writeError(ctx, w, fmt.Errorf("%w: missing %s header", usecase.ErrInvalidInput, headerIdempotencyKey))
		return
	}
	var req paymentRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	intent, err := h.payments.CreateIntent(ctx, userID, key, usecase.CreatePaymentInput{
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		h.logFailure(ctx, "create payment intent failed", err, "user_id", userID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, paymentToDTO(intent))
}

// GetPayment serves the owner of the intent, or club staff.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPayment")
	defer span.End()

	caller, ok := memberFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: member is missing from request context", usecase.ErrUnauthorized))
		return
	}
	paymentID := strings.TrimSpace(r.PathValue("paymentID"))

	intent, err := h.payments.Get(ctx, paymentID)
	if err != nil {
		h.logFailure(ctx, "get payment intent failed", err, "payment_id", paymentID)
		writeError(ctx, w, err)
		return
	}
	if intent.UserID != caller.ID && caller.Role != member.RoleAdmin && caller.Role != member.RoleStaff {
		writeError(ctx, w, fmt.Errorf("%w: payment belongs to another member", usecase.ErrForbidden))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, paymentToDTO(intent))
}
