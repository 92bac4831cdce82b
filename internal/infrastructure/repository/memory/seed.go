package memory

import (
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/member"
	"github.com/riskibarqy/matchday/internal/domain/roster"
)

const (
	MatchIDFriendly = "maestros-friendly-01"
	MatchIDInternal = "maestros-internal-01"
)

func SeedMatches() []match.Match {
	return []match.Match{
		{ID: MatchIDFriendly, HomeTeam: "home", AwayTeam: "away", Status: match.StatusScheduled},
		{ID: MatchIDInternal, HomeTeam: "red", AwayTeam: "blue", Status: match.StatusScheduled},
	}
}

func SeedMembers() []member.Member {
	joined := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	return []member.Member{
		{ID: "admin-01", Name: "Club Admin", Role: member.RoleAdmin, CreatedAt: joined},
		{ID: "staff-01", Name: "Match Scorer", Role: member.RoleStaff, CreatedAt: joined},
		{ID: "player-01", Name: "Rafa", Role: member.RolePlayer, PlayerID: "p-rafa", CreatedAt: joined},
		{ID: "player-02", Name: "Duda", Role: member.RolePlayer, PlayerID: "p-duda", CreatedAt: joined},
		{ID: "guest-01", Name: "Visitor", Role: member.RoleGuest, CreatedAt: joined},
	}
}

func SeedRosters() []roster.Roster {
	return []roster.Roster{
		{
			MatchID: MatchIDInternal,
			Teams: map[string][]string{
				"red":  {"p-rafa", "p-bruno", "p-caio"},
				"blue": {"p-duda", "p-enzo", "p-gabi"},
			},
		},
	}
}
