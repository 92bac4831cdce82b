package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

const (
	defaultRebuildMaxWorkers = 4

	rebuildStatusSuccess = "success"
	rebuildStatusFailed  = "failed"
)

type RebuildInput struct {
	// MatchIDs narrows the rebuild; empty means every known match.
	MatchIDs   []string
	MaxWorkers int
}

type RebuildResult struct {
	MatchCount   int                  `json:"match_count"`
	SuccessCount int                  `json:"success_count"`
	FailedCount  int                  `json:"failed_count"`
	WorkerCount  int                  `json:"worker_count"`
	Matches      []RebuildMatchResult `json:"matches"`
}

type RebuildMatchResult struct {
	MatchID    string `json:"match_id"`
	Status     string `json:"status"`
	EventCount int    `json:"event_count"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// ProjectionService folds the full event log into score projections. Reads
// always fold the stored log so every replica agrees with it; writes fold
// again and push the result to live subscribers.
type ProjectionService struct {
	persistence
	events      matchevent.Repository
	matches     match.Repository
	broadcaster LiveBroadcaster
	logger      *logging.Logger
}

func NewProjectionService(
	events matchevent.Repository,
	matches match.Repository,
	logger *logging.Logger,
) *ProjectionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProjectionService{
		events:      events,
		matches:     matches,
		broadcaster: noopBroadcaster{},
		logger:      logger.Named("projection"),
	}
}

func (s *ProjectionService) SetBroadcaster(b LiveBroadcaster) {
	if b != nil {
		s.broadcaster = b
	}
}

func (s *ProjectionService) Get(ctx context.Context, matchID string) (matchevent.Projection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return matchevent.Projection{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	if err := s.ensureMatch(ctx, matchID); err != nil {
		return matchevent.Projection{}, err
	}

	projection, err := s.compute(ctx, matchID)
	if err != nil {
		recordSpanError(span, err)
		return matchevent.Projection{}, err
	}
	return projection, nil
}

// Refresh recomputes and broadcasts the projection of one match.
func (s *ProjectionService) Refresh(ctx context.Context, matchID, eventID string) (matchevent.Projection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.Refresh")
	defer span.End()

	projection, err := s.compute(ctx, matchID)
	if err != nil {
		recordSpanError(span, err)
		return matchevent.Projection{}, err
	}

	s.broadcaster.Broadcast(LiveUpdate{
		MatchID:    matchID,
		Kind:       LiveKindProjection,
		EventID:    eventID,
		Projection: &projection,
	})
	return projection, nil
}

// Rebuild refolds many matches on a bounded worker pool and re-pushes each
// projection to live subscribers.
func (s *ProjectionService) Rebuild(ctx context.Context, input RebuildInput) (RebuildResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.Rebuild")
	defer span.End()

	matchIDs, err := s.rebuildTargets(ctx, input.MatchIDs)
	if err != nil {
		recordSpanError(span, err)
		return RebuildResult{}, err
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultRebuildMaxWorkers
	}
	if workerCount > len(matchIDs) && len(matchIDs) > 0 {
		workerCount = len(matchIDs)
	}

	result := RebuildResult{
		MatchCount:  len(matchIDs),
		WorkerCount: workerCount,
		Matches:     make([]RebuildMatchResult, 0, len(matchIDs)),
	}
	if len(matchIDs) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	rows := make(chan RebuildMatchResult, len(matchIDs))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, matchID := range matchIDs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RebuildMatchResult{MatchID: matchID, Status: rebuildStatusSuccess}
			projection, err := s.Refresh(ctx, matchID, "")
			if err != nil {
				row.Status = rebuildStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
			} else {
				row.EventCount = projection.EventCount
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()
			rows <- row
		}); err != nil {
			workers.Done()
			return RebuildResult{}, fmt.Errorf("submit rebuild to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Matches = append(result.Matches, row)
	}
	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].MatchID < result.Matches[j].MatchID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	s.logger.InfoContext(ctx, "projection rebuild finished",
		"matches", result.MatchCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"workers", result.WorkerCount,
	)
	return result, nil
}

func (s *ProjectionService) rebuildTargets(ctx context.Context, requested []string) ([]string, error) {
	seen := make(map[string]struct{}, len(requested))
	out := make([]string, 0, len(requested))
	for _, id := range requested {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) > 0 {
		return out, nil
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	items, err := s.matches.List(callCtx)
	if err != nil {
		return nil, infraError("list matches", err)
	}
	for _, m := range items {
		out = append(out, m.ID)
	}
	return out, nil
}

func (s *ProjectionService) ensureMatch(ctx context.Context, matchID string) error {
	callCtx, cancel := s.bound(ctx)
	defer cancel()

	if _, err := s.matches.GetByID(callCtx, matchID); err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return fmt.Errorf("%w: match %s", ErrNotFound, matchID)
		}
		return infraError("get match", err)
	}
	return nil
}

func (s *ProjectionService) compute(ctx context.Context, matchID string) (matchevent.Projection, error) {
	callCtx, cancel := s.bound(ctx)
	defer cancel()

	events, err := s.events.ListByMatch(callCtx, matchID)
	if err != nil {
		return matchevent.Projection{}, infraError("list match events", err)
	}
	return matchevent.Project(matchID, events), nil
}
