package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/gate"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxEventIDLength = 128

// Submission identifies who submits and under which client-generated id.
type Submission struct {
	EventID string
	UserID  string
	TTL     time.Duration
}

type StatusResult struct {
	Event matchevent.Event
	Match match.Match
}

type GoalInput struct {
	MatchID  string
	Team     string
	PlayerID string
	AssistID string
}

type CardInput struct {
	MatchID  string
	Team     string
	PlayerID string
	Color    string
}

type SubInput struct {
	MatchID     string
	Team        string
	OutPlayerID string
	InPlayerID  string
}

// GoalEdit replaces a goal's scoring fields. A non-zero Revision must match
// the stored revision.
type GoalEdit struct {
	Team     string
	PlayerID string
	AssistID string
	Revision int
}

type submission struct {
	matchID       string
	eventType     matchevent.Type
	payload       matchevent.Payload
	transition    func(match.Match, time.Time) (match.Match, error)
	requireStatus match.Status
	rosterPlayers []string
}

// MatchEventService is the ingestion path for match events: idempotency
// gate, rate-limit gate, validation, precondition, guarded append, then a
// full projection recompute.
type MatchEventService struct {
	persistence
	matches     match.Repository
	events      matchevent.Repository
	rosters     roster.Repository
	idempotency *IdempotencyGate
	limiter     *RateLimitGate
	projections *ProjectionService
	clocks      *ClockRegistry
	publisher   EventPublisher
	logger      *logging.Logger
	metrics     Metrics
	now         func() time.Time
}

func NewMatchEventService(
	matches match.Repository,
	events matchevent.Repository,
	rosters roster.Repository,
	idempotency *IdempotencyGate,
	limiter *RateLimitGate,
	projections *ProjectionService,
	clocks *ClockRegistry,
	logger *logging.Logger,
) *MatchEventService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchEventService{
		matches:     matches,
		events:      events,
		rosters:     rosters,
		idempotency: idempotency,
		limiter:     limiter,
		projections: projections,
		clocks:      clocks,
		publisher:   noopPublisher{},
		logger:      logger.Named("events"),
		metrics:     noopMetrics{},
		now:         time.Now,
	}
}

func (s *MatchEventService) SetPublisher(p EventPublisher) {
	if p != nil {
		s.publisher = p
	}
}

func (s *MatchEventService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

func (s *MatchEventService) Start(ctx context.Context, sub Submission, matchID string) (StatusResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.Start", attribute.String("match.id", matchID))
	defer span.End()

	return s.submit(ctx, sub, submission{
		matchID:    matchID,
		eventType:  matchevent.TypeStart,
		transition: match.Match.Start,
	})
}

func (s *MatchEventService) Pause(ctx context.Context, sub Submission, matchID string) (StatusResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.Pause", attribute.String("match.id", matchID))
	defer span.End()

	return s.submit(ctx, sub, submission{
		matchID:    matchID,
		eventType:  matchevent.TypePause,
		transition: match.Match.Pause,
	})
}

func (s *MatchEventService) Resume(ctx context.Context, sub Submission, matchID string) (StatusResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.Resume", attribute.String("match.id", matchID))
	defer span.End()

	return s.submit(ctx, sub, submission{
		matchID:    matchID,
		eventType:  matchevent.TypeResume,
		transition: match.Match.Resume,
	})
}

func (s *MatchEventService) Reset(ctx context.Context, sub Submission, matchID string) (StatusResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.Reset", attribute.String("match.id", matchID))
	defer span.End()

	return s.submit(ctx, sub, submission{
		matchID:   matchID,
		eventType: matchevent.TypeReset,
		transition: func(m match.Match, now time.Time) (match.Match, error) {
			return m.Reset(now), nil
		},
	})
}

func (s *MatchEventService) End(ctx context.Context, sub Submission, matchID string) (StatusResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.End", attribute.String("match.id", matchID))
	defer span.End()

	return s.submit(ctx, sub, submission{
		matchID:    matchID,
		eventType:  matchevent.TypeEnd,
		transition: match.Match.End,
	})
}

func (s *MatchEventService) Goal(ctx context.Context, sub Submission, in GoalInput) (matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.Goal", attribute.String("match.id", in.MatchID))
	defer span.End()

	payload := matchevent.Payload{
		Team:     matchevent.NormalizeTeam(in.Team),
		PlayerID: strings.TrimSpace(in.PlayerID),
		AssistID: strings.TrimSpace(in.AssistID),
	}
	res, err := s.submit(ctx, sub, submission{
		matchID:       in.MatchID,
		eventType:     matchevent.TypeGoal,
		payload:       payload,
		requireStatus: match.StatusLive,
		rosterPlayers: payload.Players(),
	})
	return res.Event, err
}

func (s *MatchEventService) Card(ctx context.Context, sub Submission, in CardInput) (matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.Card", attribute.String("match.id", in.MatchID))
	defer span.End()

	res, err := s.submit(ctx, sub, submission{
		matchID:   in.MatchID,
		eventType: matchevent.TypeCard,
		payload: matchevent.Payload{
			Team:     matchevent.NormalizeTeam(in.Team),
			PlayerID: strings.TrimSpace(in.PlayerID),
			Color:    strings.ToLower(strings.TrimSpace(in.Color)),
		},
	})
	return res.Event, err
}

func (s *MatchEventService) Sub(ctx context.Context, sub Submission, in SubInput) (matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.Sub", attribute.String("match.id", in.MatchID))
	defer span.End()

	payload := matchevent.Payload{
		Team:        matchevent.NormalizeTeam(in.Team),
		OutPlayerID: strings.TrimSpace(in.OutPlayerID),
		InPlayerID:  strings.TrimSpace(in.InPlayerID),
	}
	res, err := s.submit(ctx, sub, submission{
		matchID:       in.MatchID,
		eventType:     matchevent.TypeSub,
		payload:       payload,
		rosterPlayers: payload.Players(),
	})
	return res.Event, err
}

// Invalidate flips an event's validity. It is keyed by event id and skips
// the idempotency gate.
func (s *MatchEventService) Invalidate(ctx context.Context, userID, eventID string, isValid bool) (matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.Invalidate", attribute.String("event.id", eventID))
	defer span.End()

	if _, err := s.edit(ctx, userID, eventID); err != nil {
		recordSpanError(span, err)
		return matchevent.Event{}, err
	}

	updated, err := s.setValidity(ctx, eventID, isValid)
	if err != nil {
		recordSpanError(span, err)
		return matchevent.Event{}, err
	}
	s.afterWrite(ctx, updated, nil)
	return updated, nil
}

func (s *MatchEventService) EditGoal(ctx context.Context, userID, eventID string, in GoalEdit) (matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.EditGoal", attribute.String("event.id", eventID))
	defer span.End()

	current, err := s.edit(ctx, userID, eventID)
	if err != nil {
		recordSpanError(span, err)
		return matchevent.Event{}, err
	}
	if in.Revision != 0 && in.Revision != current.Revision {
		return matchevent.Event{}, fmt.Errorf("%w: event %s is at revision %d", ErrConflict, eventID, current.Revision)
	}

	edited, err := matchevent.EditGoal(current, matchevent.Payload{
		Team:     in.Team,
		PlayerID: strings.TrimSpace(in.PlayerID),
		AssistID: strings.TrimSpace(in.AssistID),
	}, s.now())
	if err != nil {
		if errors.Is(err, matchevent.ErrNotEditable) {
			return matchevent.Event{}, fmt.Errorf("%w: %w", ErrPreconditionFailed, err)
		}
		return matchevent.Event{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.checkRoster(ctx, current.MatchID, edited.Payload.Team, edited.Payload.Players()); err != nil {
		return matchevent.Event{}, err
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	updated, err := s.events.ReplacePayload(callCtx, eventID, current.Revision, edited.Payload, edited.UpdatedAt)
	if err != nil {
		err = mapEventWriteError(err)
		recordSpanError(span, err)
		return matchevent.Event{}, err
	}

	s.logger.InfoContext(ctx, "goal edited", "event_id", eventID, "revision", updated.Revision, "user_id", userID)
	s.afterWrite(ctx, updated, nil)
	return updated, nil
}

// RemoveGoal retracts a goal by marking it invalid.
func (s *MatchEventService) RemoveGoal(ctx context.Context, userID, eventID string) (matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.RemoveGoal", attribute.String("event.id", eventID))
	defer span.End()

	current, err := s.edit(ctx, userID, eventID)
	if err != nil {
		recordSpanError(span, err)
		return matchevent.Event{}, err
	}
	if current.Type != matchevent.TypeGoal {
		return matchevent.Event{}, fmt.Errorf("%w: %w", ErrPreconditionFailed, matchevent.ErrNotEditable)
	}

	updated, err := s.setValidity(ctx, eventID, false)
	if err != nil {
		recordSpanError(span, err)
		return matchevent.Event{}, err
	}
	s.afterWrite(ctx, updated, nil)
	return updated, nil
}

func (s *MatchEventService) ListEvents(ctx context.Context, matchID string) ([]matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.ListEvents")
	defer span.End()

	if _, err := s.loadMatch(ctx, matchID); err != nil {
		return nil, err
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	events, err := s.events.ListByMatch(callCtx, matchID)
	if err != nil {
		return nil, infraError("list match events", err)
	}
	return events, nil
}

func (s *MatchEventService) submit(ctx context.Context, sub Submission, in submission) (result StatusResult, err error) {
	started := s.now()
	defer func() {
		s.metrics.Submission(string(in.eventType), submissionOutcome(err), s.now().Sub(started))
		if err != nil {
			recordSpanError(trace.SpanFromContext(ctx), err)
		}
	}()

	if err := s.admit(ctx, sub); err != nil {
		return StatusResult{}, err
	}

	matchID := strings.TrimSpace(in.matchID)
	if matchID == "" {
		return StatusResult{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if err := matchevent.Validate(in.eventType, in.payload); err != nil {
		return StatusResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	current, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return StatusResult{}, err
	}

	now := s.now()
	next := current
	write := matchevent.Write{}
	switch {
	case in.transition != nil:
		next, err = in.transition(current, now)
		if err != nil {
			return StatusResult{}, fmt.Errorf("%w: %w", ErrPreconditionFailed, err)
		}
		write.RequireStatus = current.Status
		write.Next = &next
	case in.requireStatus != "":
		if current.Status != in.requireStatus {
			return StatusResult{}, fmt.Errorf("%w: match %s is %s, want %s", ErrPreconditionFailed, matchID, current.Status, in.requireStatus)
		}
		write.RequireStatus = in.requireStatus
	}

	if len(in.rosterPlayers) > 0 {
		if err := s.checkRoster(ctx, matchID, in.payload.Team, in.rosterPlayers); err != nil {
			return StatusResult{}, err
		}
	}

	payload := in.payload
	payload.MatchTimeMs = next.PlayedMs(now)
	if in.transition != nil {
		ts := now
		payload.Timestamp = &ts
		if in.eventType == matchevent.TypePause {
			pausedMs := next.PausedMs
			payload.PausedMs = &pausedMs
		}
	}

	event := matchevent.Event{
		ID:        strings.TrimSpace(sub.EventID),
		MatchID:   matchID,
		Type:      in.eventType,
		Payload:   payload,
		CreatedBy: strings.TrimSpace(sub.UserID),
		IsValid:   true,
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	write.Event = event

	callCtx, cancel := s.bound(ctx)
	err = s.events.Append(callCtx, write)
	cancel()
	if err != nil {
		return StatusResult{}, mapEventWriteError(err)
	}

	s.logger.InfoContext(ctx, "match event appended",
		"event_id", event.ID,
		"match_id", matchID,
		"type", event.Type,
		"user_id", event.CreatedBy,
	)

	if in.transition != nil {
		s.afterWrite(ctx, event, &next)
	} else {
		s.afterWrite(ctx, event, nil)
	}
	return StatusResult{Event: event, Match: next}, nil
}

// admit runs both gates. A duplicate or throttled submission never reaches
// validation or any write.
func (s *MatchEventService) admit(ctx context.Context, sub Submission) error {
	eventID := strings.TrimSpace(sub.EventID)
	if eventID == "" {
		return fmt.Errorf("%w: idempotency key is required", ErrInvalidInput)
	}
	if len(eventID) > maxEventIDLength {
		return fmt.Errorf("%w: idempotency key exceeds %d characters", ErrInvalidInput, maxEventIDLength)
	}
	if strings.TrimSpace(sub.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	if err := s.idempotency.Check(ctx, IdempotencyCheck{EventID: eventID, TTL: sub.TTL}); err != nil {
		return err
	}
	return s.limiter.Check(ctx, gate.ClassEvents, sub.UserID)
}

// edit rate-limits an id-keyed modification and loads the target event.
func (s *MatchEventService) edit(ctx context.Context, userID, eventID string) (matchevent.Event, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return matchevent.Event{}, fmt.Errorf("%w: event_id is required", ErrInvalidInput)
	}
	if err := s.limiter.Check(ctx, gate.ClassEvents, userID); err != nil {
		return matchevent.Event{}, err
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	current, err := s.events.GetByID(callCtx, eventID)
	if err != nil {
		if errors.Is(err, matchevent.ErrNotFound) {
			return matchevent.Event{}, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
		}
		return matchevent.Event{}, infraError("get match event", err)
	}
	return current, nil
}

func (s *MatchEventService) setValidity(ctx context.Context, eventID string, isValid bool) (matchevent.Event, error) {
	callCtx, cancel := s.bound(ctx)
	defer cancel()

	updated, err := s.events.SetValidity(callCtx, eventID, isValid, s.now())
	if err != nil {
		return matchevent.Event{}, mapEventWriteError(err)
	}
	return updated, nil
}

func (s *MatchEventService) loadMatch(ctx context.Context, matchID string) (match.Match, error) {
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

// checkRoster requires players to be drawn for team, when a draw exists.
func (s *MatchEventService) checkRoster(ctx context.Context, matchID, team string, players []string) error {
	if s.rosters == nil {
		return nil
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	r, err := s.rosters.GetByMatch(callCtx, matchID)
	if err != nil {
		return infraError("get roster", err)
	}
	if r.Empty() {
		return nil
	}
	if !r.OnTeam(team, players...) {
		return fmt.Errorf("%w: players %v are not rostered to team %s", ErrPreconditionFailed, players, team)
	}
	return nil
}

// afterWrite refreshes derived state. Failures here are logged: the event is
// already durable and the projection is recomputed on the next read.
func (s *MatchEventService) afterWrite(ctx context.Context, event matchevent.Event, next *match.Match) {
	if next != nil && s.clocks != nil {
		s.clocks.Apply(*next, event.Type)
	}
	if s.projections != nil {
		if _, err := s.projections.Refresh(ctx, event.MatchID, event.ID); err != nil {
			s.logger.WarnContext(ctx, "projection refresh failed", "match_id", event.MatchID, "error", err)
		}
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish match event failed", "event_id", event.ID, "error", err)
	}
}

func mapEventWriteError(err error) error {
	switch {
	case errors.Is(err, matchevent.ErrDuplicateEvent):
		return fmt.Errorf("%w: %w", ErrDuplicateSubmission, err)
	case errors.Is(err, match.ErrStatusConflict), errors.Is(err, matchevent.ErrRevisionConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, match.ErrNotFound), errors.Is(err, matchevent.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return infraError("write match event", err)
	}
}

func submissionOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeAccepted
	case errors.Is(err, ErrDuplicateSubmission):
		return OutcomeDuplicate
	default:
		return OutcomeRejected
	}
}
