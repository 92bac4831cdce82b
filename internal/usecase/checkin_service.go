package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/checkin"
	"github.com/riskibarqy/matchday/internal/domain/gate"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	"github.com/riskibarqy/matchday/internal/platform/id"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

type CheckInInput struct {
	MatchID  string
	PlayerID string
}

// CheckInService records match attendance behind the check-in rate class.
type CheckInService struct {
	persistence
	checkins checkin.Repository
	matches  match.Repository
	rosters  roster.Repository
	limiter  *RateLimitGate
	ids      id.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewCheckInService(
	checkins checkin.Repository,
	matches match.Repository,
	rosters roster.Repository,
	limiter *RateLimitGate,
	ids id.Generator,
	logger *logging.Logger,
) *CheckInService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CheckInService{
		checkins: checkins,
		matches:  matches,
		rosters:  rosters,
		limiter:  limiter,
		ids:      ids,
		logger:   logger.Named("checkin"),
		now:      time.Now,
	}
}

func (s *CheckInService) CheckIn(ctx context.Context, userID string, in CheckInInput) (checkin.CheckIn, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CheckInService.CheckIn")
	defer span.End()

	if err := s.limiter.Check(ctx, gate.ClassCheckIn, userID); err != nil {
		return checkin.CheckIn{}, err
	}

	matchID := strings.TrimSpace(in.MatchID)
	playerID := strings.TrimSpace(in.PlayerID)
	if matchID == "" || playerID == "" {
		return checkin.CheckIn{}, fmt.Errorf("%w: match_id and player_id are required", ErrInvalidInput)
	}

	callCtx, cancel := s.bound(ctx)
	m, err := s.matches.GetByID(callCtx, matchID)
	cancel()
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return checkin.CheckIn{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
		}
		return checkin.CheckIn{}, infraError("get match", err)
	}
	if m.Status == match.StatusFinished {
		return checkin.CheckIn{}, fmt.Errorf("%w: match %s is finished", ErrPreconditionFailed, matchID)
	}

	callCtx, cancel = s.bound(ctx)
	r, err := s.rosters.GetByMatch(callCtx, matchID)
	cancel()
	if err != nil {
		return checkin.CheckIn{}, infraError("get roster", err)
	}
	if !r.Empty() {
		if _, ok := r.TeamOf(playerID); !ok {
			return checkin.CheckIn{}, fmt.Errorf("%w: player %s is not on the roster", ErrPreconditionFailed, playerID)
		}
	}

	checkInID, err := s.ids.NewID()
	if err != nil {
		return checkin.CheckIn{}, fmt.Errorf("generate check-in id: %w", err)
	}
	item := checkin.CheckIn{
		ID:        checkInID,
		MatchID:   matchID,
		PlayerID:  playerID,
		UserID:    strings.TrimSpace(userID),
		CreatedAt: s.now(),
	}

	callCtx, cancel = s.bound(ctx)
	defer cancel()
	if err := s.checkins.Create(callCtx, item); err != nil {
		if errors.Is(err, checkin.ErrAlreadyCheckedIn) {
			return checkin.CheckIn{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		recordSpanError(span, err)
		return checkin.CheckIn{}, infraError("create check-in", err)
	}

	s.logger.InfoContext(ctx, "player checked in", "match_id", matchID, "player_id", playerID, "user_id", item.UserID)
	return item, nil
}

func (s *CheckInService) List(ctx context.Context, matchID string) ([]checkin.CheckIn, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CheckInService.List")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	items, err := s.checkins.ListByMatch(callCtx, matchID)
	if err != nil {
		return nil, infraError("list check-ins", err)
	}
	return items, nil
}
