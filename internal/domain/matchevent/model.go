package matchevent

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	TypeStart  Type = "START"
	TypePause  Type = "PAUSE"
	TypeResume Type = "RESUME"
	TypeReset  Type = "RESET"
	TypeEnd    Type = "END"
	TypeGoal   Type = "GOAL"
	TypeCard   Type = "CARD"
	TypeSub    Type = "SUB"
)

const (
	CardYellow = "yellow"
	CardRed    = "red"
)

var (
	ErrNotFound         = errors.New("match event not found")
	ErrDuplicateEvent   = errors.New("match event already exists")
	ErrRevisionConflict = errors.New("match event was modified concurrently")
	ErrNotEditable      = errors.New("only goal events can be edited")

	ErrUnknownType    = errors.New("unknown event type")
	ErrInvalidTeam    = errors.New("invalid team")
	ErrInvalidColor   = errors.New("invalid card color")
	ErrMissingPlayer  = errors.New("player id is required")
	ErrAssistIsScorer = errors.New("assist player must differ from scorer")
	ErrSamePlayerSub  = errors.New("substituted players must differ")
)

// Teams accepted on GOAL/CARD/SUB: the two sides of a fixture, or one of the
// five club colours used for in-house matches.
var Teams = map[string]struct{}{
	"home":   {},
	"away":   {},
	"red":    {},
	"blue":   {},
	"green":  {},
	"yellow": {},
	"white":  {},
}

// Payload is the union of every event type's fields; only the fields of the
// event's Type are meaningful.
type Payload struct {
	Team        string     `json:"team,omitempty"`
	PlayerID    string     `json:"player_id,omitempty"`
	AssistID    string     `json:"assist_id,omitempty"`
	Color       string     `json:"color,omitempty"`
	OutPlayerID string     `json:"out_player_id,omitempty"`
	InPlayerID  string     `json:"in_player_id,omitempty"`
	MatchTimeMs int64      `json:"match_time_ms"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	PausedMs    *int64     `json:"paused_ms,omitempty"`
}

// Event is one entry of a match's append-only log. ID is supplied by the
// client and doubles as the idempotency key.
type Event struct {
	ID        string
	MatchID   string
	Type      Type
	Payload   Payload
	CreatedBy string
	IsValid   bool
	Revision  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ParseType(value string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(value)))
	switch t {
	case TypeStart, TypePause, TypeResume, TypeReset, TypeEnd, TypeGoal, TypeCard, TypeSub:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, value)
	}
}

func NormalizeTeam(team string) string {
	return strings.ToLower(strings.TrimSpace(team))
}

func IsValidTeam(team string) bool {
	_, ok := Teams[NormalizeTeam(team)]
	return ok
}

// Validate checks the payload shape for the event type. It does not look at
// match status or rosters.
func Validate(eventType Type, p Payload) error {
	switch eventType {
	case TypeGoal:
		if !IsValidTeam(p.Team) {
			return fmt.Errorf("%w: %q", ErrInvalidTeam, p.Team)
		}
		if strings.TrimSpace(p.PlayerID) == "" {
			return ErrMissingPlayer
		}
		if p.AssistID != "" && p.AssistID == p.PlayerID {
			return ErrAssistIsScorer
		}
	case TypeCard:
		if !IsValidTeam(p.Team) {
			return fmt.Errorf("%w: %q", ErrInvalidTeam, p.Team)
		}
		if strings.TrimSpace(p.PlayerID) == "" {
			return ErrMissingPlayer
		}
		if p.Color != CardYellow && p.Color != CardRed {
			return fmt.Errorf("%w: %q", ErrInvalidColor, p.Color)
		}
	case TypeSub:
		if !IsValidTeam(p.Team) {
			return fmt.Errorf("%w: %q", ErrInvalidTeam, p.Team)
		}
		if strings.TrimSpace(p.OutPlayerID) == "" || strings.TrimSpace(p.InPlayerID) == "" {
			return ErrMissingPlayer
		}
		if p.OutPlayerID == p.InPlayerID {
			return ErrSamePlayerSub
		}
	case TypeStart, TypePause, TypeResume, TypeReset, TypeEnd:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, eventType)
	}
	return nil
}

// Players returns the player ids referenced by the payload.
func (p Payload) Players() []string {
	out := make([]string, 0, 2)
	for _, id := range []string{p.PlayerID, p.AssistID, p.OutPlayerID, p.InPlayerID} {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (e Event) Clone() Event {
	out := e
	if e.Payload.Timestamp != nil {
		ts := *e.Payload.Timestamp
		out.Payload.Timestamp = &ts
	}
	if e.Payload.PausedMs != nil {
		pausedMs := *e.Payload.PausedMs
		out.Payload.PausedMs = &pausedMs
	}
	return out
}

// EditGoal replaces a goal's scoring fields in place. Position and CreatedAt
// are kept; Revision is bumped.
func EditGoal(e Event, p Payload, now time.Time) (Event, error) {
	if e.Type != TypeGoal {
		return Event{}, fmt.Errorf("%w: %s", ErrNotEditable, e.Type)
	}
	p.Team = NormalizeTeam(p.Team)
	if err := Validate(TypeGoal, p); err != nil {
		return Event{}, err
	}
	if p.MatchTimeMs == 0 {
		p.MatchTimeMs = e.Payload.MatchTimeMs
	}

	next := e.Clone()
	next.Payload = p
	next.Revision = e.Revision + 1
	next.UpdatedAt = now
	return next, nil
}
