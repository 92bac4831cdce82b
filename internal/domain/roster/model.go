package roster

import (
	"context"
	"sort"
)

// Roster maps each team side of a match to its players, as produced by the
// team draw.
type Roster struct {
	MatchID string
	Teams   map[string][]string
}

func (r Roster) Empty() bool {
	for _, players := range r.Teams {
		if len(players) > 0 {
			return false
		}
	}
	return true
}

func (r Roster) TeamOf(playerID string) (string, bool) {
	for team, players := range r.Teams {
		for _, id := range players {
			if id == playerID {
				return team, true
			}
		}
	}
	return "", false
}

// OnTeam reports whether every player id is rostered to team.
func (r Roster) OnTeam(team string, playerIDs ...string) bool {
	for _, id := range playerIDs {
		if got, ok := r.TeamOf(id); !ok || got != team {
			return false
		}
	}
	return true
}

func (r Roster) Clone() Roster {
	out := Roster{MatchID: r.MatchID, Teams: make(map[string][]string, len(r.Teams))}
	for team, players := range r.Teams {
		out.Teams[team] = append([]string(nil), players...)
	}
	return out
}

func (r Roster) TeamNames() []string {
	out := make([]string, 0, len(r.Teams))
	for team := range r.Teams {
		out = append(out, team)
	}
	sort.Strings(out)
	return out
}

// Repository returns an empty roster, not an error, when no draw exists.
type Repository interface {
	GetByMatch(ctx context.Context, matchID string) (Roster, error)
	Replace(ctx context.Context, r Roster) error
}
