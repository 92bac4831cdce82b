package match

import (
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_StartPauseReset(t *testing.T) {
	now := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	m := Match{ID: "m1", Status: StatusScheduled}

	live, err := m.Start(now)
	require.NoError(t, err)
	assert.Equal(t, StatusLive, live.Status)
	require.NotNil(t, live.StartedAt)
	assert.Equal(t, now, *live.StartedAt)
	assert.Zero(t, live.PausedMs)

	paused, err := live.Pause(now.Add(125 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, StatusPaused, paused.Status)
	assert.Equal(t, int64(125000), paused.PausedMs)

	reset := paused.Reset(now.Add(130 * time.Second))
	assert.Equal(t, StatusScheduled, reset.Status)
	assert.Nil(t, reset.StartedAt)
	assert.Zero(t, reset.PausedMs)
}

func TestMatch_InvalidTransitions(t *testing.T) {
	now := time.Now()
	scheduled := Match{ID: "m1", Status: StatusScheduled}

	_, err := scheduled.Pause(now)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	_, err = scheduled.Resume(now)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	_, err = scheduled.End(now)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	live, err := scheduled.Start(now)
	require.NoError(t, err)
	_, err = live.Start(now)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestMatch_EndIncrementsRound(t *testing.T) {
	now := time.Now()
	live, err := Match{ID: "m1", Status: StatusScheduled, Round: 1}.Start(now)
	require.NoError(t, err)

	ended, err := live.End(now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, ended.Status)
	assert.Equal(t, 2, ended.Round)
	assert.Equal(t, int64(60000), ended.PausedMs)
}

func TestMatch_PausedMsSumsLiveIntervals(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("paused_ms equals the sum of live intervals", prop.ForAll(
		func(intervals []int64, gaps []int64) bool {
			now := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
			m := Match{ID: "m1", Status: StatusScheduled}
			var want int64

			for i, live := range intervals {
				var err error
				if i == 0 {
					m, err = m.Start(now)
				} else {
					gap := int64(1)
					if i-1 < len(gaps) {
						gap = gaps[i-1]
					}
					now = now.Add(time.Duration(gap) * time.Millisecond)
					m, err = m.Resume(now)
				}
				if err != nil {
					return false
				}
				now = now.Add(time.Duration(live) * time.Millisecond)
				if m, err = m.Pause(now); err != nil {
					return false
				}
				want += live
			}
			return m.PausedMs == want
		},
		gen.SliceOf(gen.Int64Range(0, 3_600_000)),
		gen.SliceOf(gen.Int64Range(1, 600_000)),
	))

	properties.TestingRun(t)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" LIVE ")
	require.NoError(t, err)
	assert.Equal(t, StatusLive, status)

	_, err = ParseStatus("abandoned")
	assert.Error(t, err)
}
