package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	"github.com/riskibarqy/matchday/internal/platform/id"
)

type CreateMatchInput struct {
	HomeTeam string
	AwayTeam string
}

// MatchService manages match records and their team draws.
type MatchService struct {
	persistence
	matches match.Repository
	rosters roster.Repository
	ids     id.Generator
	now     func() time.Time
}

func NewMatchService(matches match.Repository, rosters roster.Repository, ids id.Generator) *MatchService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &MatchService{
		matches: matches,
		rosters: rosters,
		ids:     ids,
		now:     time.Now,
	}
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	m, err := s.matches.GetByID(callCtx, matchID)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return match.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
		}
		return match.Match{}, infraError("get match", err)
	}
	return m, nil
}

func (s *MatchService) List(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	items, err := s.matches.List(callCtx)
	if err != nil {
		return nil, infraError("list matches", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MatchService) Create(ctx context.Context, in CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	home := strings.TrimSpace(in.HomeTeam)
	away := strings.TrimSpace(in.AwayTeam)
	if home == "" || away == "" {
		return match.Match{}, fmt.Errorf("%w: home_team and away_team are required", ErrInvalidInput)
	}

	matchID, err := s.ids.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	m := match.Match{
		ID:        matchID,
		HomeTeam:  home,
		AwayTeam:  away,
		Status:    match.StatusScheduled,
		UpdatedAt: s.now(),
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.matches.Create(callCtx, m); err != nil {
		return match.Match{}, infraError("create match", err)
	}
	return m, nil
}

func (s *MatchService) Roster(ctx context.Context, matchID string) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Roster")
	defer span.End()

	if _, err := s.Get(ctx, matchID); err != nil {
		return roster.Roster{}, err
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	r, err := s.rosters.GetByMatch(callCtx, matchID)
	if err != nil {
		return roster.Roster{}, infraError("get roster", err)
	}
	return r, nil
}

// ReplaceRoster stores a new team draw. A player may appear on one team only.
func (s *MatchService) ReplaceRoster(ctx context.Context, matchID string, teams map[string][]string) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ReplaceRoster")
	defer span.End()

	if _, err := s.Get(ctx, matchID); err != nil {
		return roster.Roster{}, err
	}

	r := roster.Roster{MatchID: matchID, Teams: make(map[string][]string, len(teams))}
	seen := make(map[string]string)
	for rawTeam, players := range teams {
		team := matchevent.NormalizeTeam(rawTeam)
		if !matchevent.IsValidTeam(team) {
			return roster.Roster{}, fmt.Errorf("%w: %w: %q", ErrInvalidInput, matchevent.ErrInvalidTeam, rawTeam)
		}
		for _, raw := range players {
			playerID := strings.TrimSpace(raw)
			if playerID == "" {
				return roster.Roster{}, fmt.Errorf("%w: empty player id on team %s", ErrInvalidInput, team)
			}
			if other, ok := seen[playerID]; ok {
				return roster.Roster{}, fmt.Errorf("%w: player %s drawn for %s and %s", ErrInvalidInput, playerID, other, team)
			}
			seen[playerID] = team
			r.Teams[team] = append(r.Teams[team], playerID)
		}
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.rosters.Replace(callCtx, r); err != nil {
		return roster.Roster{}, infraError("replace roster", err)
	}
	return r, nil
}
