package httpapi

import (
	"time"

	"github.com/riskibarqy/matchday/internal/domain/checkin"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/domain/payment"
	"github.com/riskibarqy/matchday/internal/domain/roster"
)

type matchIDRequest struct {
	MatchID string `json:"match_id" validate:"required,max=128"`
}

type goalRequest struct {
	MatchID  string `json:"match_id" validate:"required,max=128"`
	Team     string `json:"team" validate:"required"`
	PlayerID string `json:"player_id" validate:"required,max=128"`
	AssistID string `json:"assist_id" validate:"omitempty,max=128"`
}

type cardRequest struct {
	MatchID  string `json:"match_id" validate:"required,max=128"`
	Team     string `json:"team" validate:"required"`
	PlayerID string `json:"player_id" validate:"required,max=128"`
	Color    string `json:"color" validate:"required"`
}

type subRequest struct {
	MatchID     string `json:"match_id" validate:"required,max=128"`
	Team        string `json:"team" validate:"required"`
	OutPlayerID string `json:"out_player_id" validate:"required,max=128"`
	InPlayerID  string `json:"in_player_id" validate:"required,max=128"`
}

type invalidateRequest struct {
	EventID string `json:"event_id" validate:"required,max=128"`
	IsValid *bool  `json:"is_valid" validate:"required"`
}

type editGoalRequest struct {
	Team     string `json:"team" validate:"required"`
	PlayerID string `json:"player_id" validate:"required,max=128"`
	AssistID string `json:"assist_id" validate:"omitempty,max=128"`
	Revision int    `json:"revision" validate:"gte=0"`
}

type createMatchRequest struct {
	HomeTeam string `json:"home_team" validate:"required"`
	AwayTeam string `json:"away_team" validate:"required"`
}

type rosterRequest struct {
	Teams map[string][]string `json:"teams" validate:"required,min=1"`
}

type checkInRequest struct {
	MatchID  string `json:"match_id" validate:"required,max=128"`
	PlayerID string `json:"player_id" validate:"required,max=128"`
}

type paymentRequest struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Currency    string `json:"currency" validate:"omitempty,len=3"`
	Description string `json:"description" validate:"omitempty,max=280"`
}

type rebuildRequest struct {
	MatchIDs   []string `json:"match_ids" validate:"omitempty,dive,required"`
	MaxWorkers int      `json:"max_workers" validate:"gte=0,lte=64"`
}

// submissionResponse is the flat body returned by every write on /api/events.
type submissionResponse struct {
	Success   bool       `json:"success"`
	EventID   string     `json:"event_id"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	PausedMs  *int64     `json:"paused_ms,omitempty"`
	Round     *int       `json:"round,omitempty"`
	IsValid   *bool      `json:"is_valid,omitempty"`
	Revision  int        `json:"revision,omitempty"`
}

type eventDTO struct {
	ID        string             `json:"id"`
	MatchID   string             `json:"match_id"`
	Type      matchevent.Type    `json:"type"`
	Payload   matchevent.Payload `json:"payload"`
	CreatedBy string             `json:"created_by"`
	IsValid   bool               `json:"is_valid"`
	Revision  int                `json:"revision"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type matchDTO struct {
	ID        string       `json:"id"`
	HomeTeam  string       `json:"home_team"`
	AwayTeam  string       `json:"away_team"`
	Status    match.Status `json:"status"`
	StartedAt *time.Time   `json:"started_at"`
	PausedMs  int64        `json:"paused_ms"`
	Round     int          `json:"round"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type rosterDTO struct {
	MatchID string              `json:"match_id"`
	Teams   map[string][]string `json:"teams"`
}

type checkInDTO struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"match_id"`
	PlayerID  string    `json:"player_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type paymentDTO struct {
	ID                string         `json:"id"`
	ExternalReference string         `json:"external_reference"`
	UserID            string         `json:"user_id"`
	AmountCents       int64          `json:"amount_cents"`
	Currency          string         `json:"currency"`
	Description       string         `json:"description,omitempty"`
	Status            payment.Status `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newListResponse[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Count: len(items)}
}

func eventToDTO(e matchevent.Event) eventDTO {
	return eventDTO{
		ID:        e.ID,
		MatchID:   e.MatchID,
		Type:      e.Type,
		Payload:   e.Payload,
		CreatedBy: e.CreatedBy,
		IsValid:   e.IsValid,
		Revision:  e.Revision,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:        m.ID,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		Status:    m.Status,
		StartedAt: m.StartedAt,
		PausedMs:  m.PausedMs,
		Round:     m.Round,
		UpdatedAt: m.UpdatedAt,
	}
}

func rosterToDTO(r roster.Roster) rosterDTO {
	teams := r.Teams
	if teams == nil {
		teams = map[string][]string{}
	}
	return rosterDTO{MatchID: r.MatchID, Teams: teams}
}

func checkInToDTO(c checkin.CheckIn) checkInDTO {
	return checkInDTO{
		ID:        c.ID,
		MatchID:   c.MatchID,
		PlayerID:  c.PlayerID,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
	}
}

func paymentToDTO(p payment.Intent) paymentDTO {
	return paymentDTO{
		ID:                p.ID,
		ExternalReference: p.ExternalReference,
		UserID:            p.UserID,
		AmountCents:       p.AmountCents,
		Currency:          p.Currency,
		Description:       p.Description,
		Status:            p.Status,
		CreatedAt:         p.CreatedAt,
	}
}
