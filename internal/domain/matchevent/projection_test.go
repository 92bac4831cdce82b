package matchevent

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func goal(id, team, scorer, assist string) Event {
	return Event{ID: id, MatchID: "m1", Type: TypeGoal, IsValid: true, Payload: Payload{Team: team, PlayerID: scorer, AssistID: assist}}
}

func TestProject(t *testing.T) {
	events := []Event{
		{ID: "s", MatchID: "m1", Type: TypeStart, IsValid: true},
		goal("g1", "home", "p1", "p2"),
		goal("g2", "away", "p9", ""),
		{ID: "c1", MatchID: "m1", Type: TypeCard, IsValid: true, Payload: Payload{Team: "home", PlayerID: "p2", Color: CardYellow}},
		{ID: "c2", MatchID: "m1", Type: TypeCard, IsValid: true, Payload: Payload{Team: "away", PlayerID: "p9", Color: CardRed}},
		{ID: "sub", MatchID: "m1", Type: TypeSub, IsValid: true, Payload: Payload{Team: "home", OutPlayerID: "p1", InPlayerID: "p5"}},
	}
	retracted := goal("g3", "home", "p1", "")
	retracted.IsValid = false
	events = append(events, retracted)

	p := Project("m1", events)

	assert.Equal(t, 1, p.Score("home"))
	assert.Equal(t, 1, p.Score("away"))
	assert.Equal(t, PlayerStat{Goals: 1}, p.StatsByPlayer["p1"])
	assert.Equal(t, PlayerStat{Assists: 1, YellowCards: 1}, p.StatsByPlayer["p2"])
	assert.Equal(t, PlayerStat{Goals: 1, RedCards: 1}, p.StatsByPlayer["p9"])
	assert.Len(t, p.Substitutions, 1)
	assert.Equal(t, 6, p.EventCount)
}

func TestProject_EmptyLog(t *testing.T) {
	p := Project("m1", nil)
	assert.Empty(t, p.ScoreByTeam)
	assert.Empty(t, p.StatsByPlayer)
	assert.NotNil(t, p.Substitutions)
}

func TestProject_Properties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("score is independent of interleaving", prop.ForAll(
		func(homeGoals, awayGoals int, order []bool) bool {
			var a, b []Event
			for i := 0; i < homeGoals; i++ {
				a = append(a, goal(fmt.Sprintf("h%d", i), "home", "p1", ""))
			}
			for i := 0; i < awayGoals; i++ {
				b = append(b, goal(fmt.Sprintf("a%d", i), "away", "p2", ""))
			}

			sequential := Project("m1", append(append([]Event{}, a...), b...))

			interleaved := make([]Event, 0, len(a)+len(b))
			i, j := 0, 0
			for k := 0; i < len(a) || j < len(b); k++ {
				takeHome := j >= len(b) || (i < len(a) && k < len(order) && order[k])
				if takeHome {
					interleaved = append(interleaved, a[i])
					i++
				} else {
					interleaved = append(interleaved, b[j])
					j++
				}
			}
			mixed := Project("m1", interleaved)

			return mixed.Score("home") == homeGoals &&
				mixed.Score("away") == awayGoals &&
				reflect.DeepEqual(sequential.ScoreByTeam, mixed.ScoreByTeam) &&
				reflect.DeepEqual(sequential.StatsByPlayer, mixed.StatsByPlayer)
		},
		gen.IntRange(0, 12),
		gen.IntRange(0, 12),
		gen.SliceOf(gen.Bool()),
	))

	players := gen.IntRange(1, 5).Map(func(i int) string { return fmt.Sprintf("p%d", i) })

	properties.Property("editing a goal only moves that goal's contribution", prop.ForAll(
		func(scorers []string, idx int, newScorer, newAssist string) bool {
			if len(scorers) == 0 || newScorer == newAssist {
				return true
			}
			idx = idx % len(scorers)

			events := make([]Event, len(scorers))
			for i, s := range scorers {
				events[i] = goal(fmt.Sprintf("g%d", i), "home", s, "")
			}
			before := Project("m1", events)

			edited, err := EditGoal(events[idx], Payload{Team: "home", PlayerID: newScorer, AssistID: newAssist}, events[idx].CreatedAt)
			if err != nil {
				return false
			}
			events[idx] = edited
			after := Project("m1", events)

			want := make(map[string]PlayerStat, len(before.StatsByPlayer))
			for k, v := range before.StatsByPlayer {
				want[k] = v
			}
			old := want[scorers[idx]]
			old.Goals--
			want[scorers[idx]] = old
			ns := want[newScorer]
			ns.Goals++
			want[newScorer] = ns
			na := want[newAssist]
			na.Assists++
			want[newAssist] = na
			for k, v := range want {
				if v == (PlayerStat{}) {
					delete(want, k)
				}
			}

			return reflect.DeepEqual(want, after.StatsByPlayer) && after.Score("home") == before.Score("home")
		},
		gen.SliceOf(players),
		gen.IntRange(0, 100),
		players,
		players,
	))

	properties.TestingRun(t)
}
