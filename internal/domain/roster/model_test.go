package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoster_TeamOf(t *testing.T) {
	r := Roster{MatchID: "m1", Teams: map[string][]string{
		"red":  {"p1", "p2"},
		"blue": {"p3"},
	}}

	team, ok := r.TeamOf("p3")
	assert.True(t, ok)
	assert.Equal(t, "blue", team)

	_, ok = r.TeamOf("p9")
	assert.False(t, ok)

	assert.True(t, r.OnTeam("red", "p1", "p2"))
	assert.False(t, r.OnTeam("red", "p1", "p3"))
	assert.Equal(t, []string{"blue", "red"}, r.TeamNames())
	assert.False(t, r.Empty())
	assert.True(t, Roster{}.Empty())
}

func TestRoster_CloneIsDeep(t *testing.T) {
	r := Roster{MatchID: "m1", Teams: map[string][]string{"home": {"p1"}}}
	c := r.Clone()
	c.Teams["home"][0] = "p2"

	assert.Equal(t, "p1", r.Teams["home"][0])
}
