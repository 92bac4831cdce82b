package match

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusPaused    Status = "paused"
	StatusFinished  Status = "finished"
)

var (
	ErrNotFound          = errors.New("match not found")
	ErrStatusConflict    = errors.New("match status changed concurrently")
	ErrInvalidTransition = errors.New("invalid match status transition")
)

// Match is the persisted status record shared by every staff client.
// PausedMs accumulates live play time and is folded in on each pause.
type Match struct {
	ID        string
	HomeTeam  string
	AwayTeam  string
	Status    Status
	StartedAt *time.Time
	PausedMs  int64
	Round     int
	UpdatedAt time.Time
}

func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case StatusScheduled, StatusLive, StatusPaused, StatusFinished:
		return status, nil
	case "":
		return StatusScheduled, nil
	default:
		return "", fmt.Errorf("unknown match status %q", value)
	}
}

func (m Match) Clone() Match {
	out := m
	if m.StartedAt != nil {
		startedAt := *m.StartedAt
		out.StartedAt = &startedAt
	}
	return out
}

// PlayedMs is the live play time at now, including the open interval while live.
func (m Match) PlayedMs(now time.Time) int64 {
	played := m.PausedMs
	if m.Status == StatusLive && m.StartedAt != nil {
		if delta := now.Sub(*m.StartedAt).Milliseconds(); delta > 0 {
			played += delta
		}
	}
	return played
}

func (m Match) Start(now time.Time) (Match, error) {
	if m.Status != StatusScheduled {
		return Match{}, fmt.Errorf("%w: start requires %s, got %s", ErrInvalidTransition, StatusScheduled, m.Status)
	}
	next := m.Clone()
	startedAt := now
	next.StartedAt = &startedAt
	next.PausedMs = 0
	next.Status = StatusLive
	next.UpdatedAt = now
	return next, nil
}

func (m Match) Pause(now time.Time) (Match, error) {
	if m.Status != StatusLive {
		return Match{}, fmt.Errorf("%w: pause requires %s, got %s", ErrInvalidTransition, StatusLive, m.Status)
	}
	next := m.Clone()
	next.PausedMs = m.PlayedMs(now)
	next.Status = StatusPaused
	next.UpdatedAt = now
	return next, nil
}

func (m Match) Resume(now time.Time) (Match, error) {
	if m.Status != StatusPaused {
		return Match{}, fmt.Errorf("%w: resume requires %s, got %s", ErrInvalidTransition, StatusPaused, m.Status)
	}
	next := m.Clone()
	startedAt := now
	next.StartedAt = &startedAt
	next.Status = StatusLive
	next.UpdatedAt = now
	return next, nil
}

// Reset is valid from any status.
func (m Match) Reset(now time.Time) Match {
	next := m.Clone()
	next.StartedAt = nil
	next.PausedMs = 0
	next.Status = StatusScheduled
	next.UpdatedAt = now
	return next
}

func (m Match) End(now time.Time) (Match, error) {
	if m.Status != StatusLive && m.Status != StatusPaused {
		return Match{}, fmt.Errorf("%w: end requires %s or %s, got %s", ErrInvalidTransition, StatusLive, StatusPaused, m.Status)
	}
	next := m.Clone()
	next.PausedMs = m.PlayedMs(now)
	next.Status = StatusFinished
	next.Round = m.Round + 1
	next.UpdatedAt = now
	return next, nil
}
