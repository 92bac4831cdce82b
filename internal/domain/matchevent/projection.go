package matchevent

type PlayerStat struct {
	Goals       int `json:"goals"`
	Assists     int `json:"assists"`
	YellowCards int `json:"yellow_cards"`
	RedCards    int `json:"red_cards"`
}

type Substitution struct {
	EventID     string `json:"event_id"`
	Team        string `json:"team"`
	OutPlayerID string `json:"out_player_id"`
	InPlayerID  string `json:"in_player_id"`
	MatchTimeMs int64  `json:"match_time_ms"`
}

// Projection is derived from the log and never stored as the source of truth.
type Projection struct {
	MatchID       string                `json:"match_id"`
	ScoreByTeam   map[string]int        `json:"score_by_team"`
	StatsByPlayer map[string]PlayerStat `json:"stats_by_player"`
	Substitutions []Substitution        `json:"substitutions"`
	EventCount    int                   `json:"event_count"`
}

// Project folds every valid event of the log. Invalidated events contribute
// nothing.
func Project(matchID string, events []Event) Projection {
	p := Projection{
		MatchID:       matchID,
		ScoreByTeam:   make(map[string]int),
		StatsByPlayer: make(map[string]PlayerStat),
		Substitutions: []Substitution{},
	}

	for _, e := range events {
		if !e.IsValid {
			continue
		}
		p.EventCount++
		switch e.Type {
		case TypeGoal:
			p.ScoreByTeam[e.Payload.Team]++
			p.bump(e.Payload.PlayerID, func(s *PlayerStat) { s.Goals++ })
			if e.Payload.AssistID != "" {
				p.bump(e.Payload.AssistID, func(s *PlayerStat) { s.Assists++ })
			}
		case TypeCard:
			if e.Payload.Color == CardRed {
				p.bump(e.Payload.PlayerID, func(s *PlayerStat) { s.RedCards++ })
			} else {
				p.bump(e.Payload.PlayerID, func(s *PlayerStat) { s.YellowCards++ })
			}
		case TypeSub:
			p.Substitutions = append(p.Substitutions, Substitution{
				EventID:     e.ID,
				Team:        e.Payload.Team,
				OutPlayerID: e.Payload.OutPlayerID,
				InPlayerID:  e.Payload.InPlayerID,
				MatchTimeMs: e.Payload.MatchTimeMs,
			})
		}
	}

	return p
}

func (p Projection) bump(playerID string, fn func(*PlayerStat)) {
	if playerID == "" {
		return
	}
	stat := p.StatsByPlayer[playerID]
	fn(&stat)
	p.StatsByPlayer[playerID] = stat
}

func (p Projection) Score(team string) int {
	return p.ScoreByTeam[team]
}
