package httpapi

import (
	"net/http"

	"github.com/riskibarqy/matchday/internal/domain/member"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerEventRoutes(mux *http.ServeMux, handler *Handler) {
	clock := func(fn http.HandlerFunc) http.Handler {
		return RequireCapability(handler.members, member.CapManageClock, fn)
	}
	score := func(fn http.HandlerFunc) http.Handler {
		return RequireCapability(handler.members, member.CapScoreMatch, fn)
	}
	edit := func(fn http.HandlerFunc) http.Handler {
		return RequireCapability(handler.members, member.CapEditEvents, fn)
	}

	mux.Handle("POST /api/events/start", clock(handler.StartMatch))
	mux.Handle("POST /api/events/pause", clock(handler.PauseMatch))
	mux.Handle("POST /api/events/resume", clock(handler.ResumeMatch))
	mux.Handle("POST /api/events/reset", clock(handler.ResetMatch))
	mux.Handle("POST /api/events/end", clock(handler.EndMatch))
	mux.Handle("POST /api/events/goal", score(handler.SubmitGoal))
	mux.Handle("POST /api/events/card", score(handler.SubmitCard))
	mux.Handle("POST /api/events/sub", score(handler.SubmitSub))
	mux.Handle("POST /api/events/invalidate", edit(handler.InvalidateEvent))
	mux.Handle("PUT /api/events/{eventID}/goal", edit(handler.EditGoal))
	mux.Handle("DELETE /api/events/{eventID}/goal", edit(handler.RemoveGoal))
	// Anything else under /api/events, including GET on a write route.
	mux.HandleFunc("/api/events/", handler.EventsFallback)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler, liveFeed http.Handler) {
	manage := func(fn http.HandlerFunc) http.Handler {
		return RequireCapability(handler.members, member.CapManageClock, fn)
	}

	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.Handle("POST /v1/matches", manage(handler.CreateMatch))
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/events", handler.ListMatchEvents)
	mux.HandleFunc("GET /v1/matches/{matchID}/projection", handler.GetProjection)
	mux.HandleFunc("GET /v1/matches/{matchID}/clock", handler.GetClock)
	mux.HandleFunc("GET /v1/matches/{matchID}/roster", handler.GetRoster)
	mux.Handle("PUT /v1/matches/{matchID}/roster", manage(handler.ReplaceRoster))
	mux.HandleFunc("GET /v1/matches/{matchID}/checkins", handler.ListCheckIns)
	if liveFeed != nil {
		mux.Handle("GET /v1/matches/{matchID}/live", liveFeed)
	}
}

func registerGateRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("POST /api/checkins", RequireCapability(handler.members, member.CapCheckIn, http.HandlerFunc(handler.CheckIn)))
	mux.Handle("POST /api/payments", RequireCapability(handler.members, member.CapCreatePayment, http.HandlerFunc(handler.CreatePayment)))
	mux.Handle("GET /api/payments/{paymentID}", RequireCapability(handler.members, member.CapCreatePayment, http.HandlerFunc(handler.GetPayment)))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalToken string) {
	mux.Handle("POST /v1/internal/projections/rebuild", RequireInternalToken(internalToken, http.HandlerFunc(handler.RebuildProjections)))
}
