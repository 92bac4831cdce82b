package member

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("member not found")

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RolePlayer Role = "player"
	RoleGuest  Role = "guest"
)

type Capability string

const (
	CapScoreMatch    Capability = "score_match"
	CapManageClock   Capability = "manage_clock"
	CapEditEvents    Capability = "edit_events"
	CapCheckIn       Capability = "check_in"
	CapCreatePayment Capability = "create_payment"
)

var capabilities = map[Role]map[Capability]struct{}{
	RoleAdmin: {
		CapScoreMatch: {}, CapManageClock: {}, CapEditEvents: {}, CapCheckIn: {}, CapCreatePayment: {},
	},
	RoleStaff: {
		CapScoreMatch: {}, CapManageClock: {}, CapEditEvents: {}, CapCheckIn: {}, CapCreatePayment: {},
	},
	RolePlayer: {
		CapCheckIn: {}, CapCreatePayment: {},
	},
	RoleGuest: {},
}

func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := capabilities[role]; !ok {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}

func (r Role) Can(c Capability) bool {
	_, ok := capabilities[r][c]
	return ok
}

// Member is a club account allowed to call the API. PlayerID links a member
// to the player id used in rosters, when the member plays.
type Member struct {
	ID        string
	Name      string
	Role      Role
	PlayerID  string
	CreatedAt time.Time
}

func (m Member) Can(c Capability) bool {
	return m.Role.Can(c)
}

type Repository interface {
	GetByID(ctx context.Context, id string) (Member, error)
	Upsert(ctx context.Context, m Member) error
}
