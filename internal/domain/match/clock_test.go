package match

import (
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var clockEpoch = time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)

func TestClock_Transitions(t *testing.T) {
	c := NewClock()
	now := clockEpoch

	if err := c.Pause(now); !errors.Is(err, ErrClockNotRunning) {
		t.Fatalf("expected pause from idle to fail, got %v", err)
	}
	if err := c.End(); !errors.Is(err, ErrClockIdle) {
		t.Fatalf("expected end from idle to fail, got %v", err)
	}

	if err := c.Start(now); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Start(now); !errors.Is(err, ErrClockRunning) {
		t.Fatalf("expected double start to fail, got %v", err)
	}

	now = now.Add(3 * time.Second)
	c.Tick(now)
	if c.Elapsed != 3*time.Second {
		t.Fatalf("expected 3s elapsed, got %s", c.Elapsed)
	}

	now = now.Add(500 * time.Millisecond)
	if err := c.Pause(now); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if c.Elapsed != 3500*time.Millisecond {
		t.Fatalf("pause must fold the last partial tick, got %s", c.Elapsed)
	}

	now = now.Add(10 * time.Second)
	c.Tick(now)
	if c.Elapsed != 3500*time.Millisecond {
		t.Fatalf("elapsed must be frozen while paused, got %s", c.Elapsed)
	}
	if c.PausedAccumulated != 10*time.Second {
		t.Fatalf("expected 10s paused, got %s", c.PausedAccumulated)
	}

	if err := c.Start(now.Add(time.Second)); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if c.PausedAccumulated != 11*time.Second {
		t.Fatalf("resume must fold the paused interval, got %s", c.PausedAccumulated)
	}

	if err := c.End(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if c.State != ClockIdle || c.Elapsed != 0 || c.Round != 1 {
		t.Fatalf("unexpected clock after end: %+v", c.Snapshot())
	}

	c.Reset()
	if c.Round != 1 {
		t.Fatalf("reset must keep the round counter, got %d", c.Round)
	}
}

func TestClock_TickIgnoresBackwardsTime(t *testing.T) {
	c := NewClock()
	_ = c.Start(clockEpoch)
	c.Tick(clockEpoch.Add(2 * time.Second))
	c.Tick(clockEpoch.Add(time.Second))
	c.Tick(clockEpoch.Add(3 * time.Second))

	if c.Elapsed != 3*time.Second {
		t.Fatalf("expected 3s, got %s", c.Elapsed)
	}
}

func TestClockFromMatch(t *testing.T) {
	startedAt := clockEpoch
	live := Match{ID: "m1", Status: StatusLive, StartedAt: &startedAt, PausedMs: 1000, Round: 2}

	c := ClockFromMatch(live, clockEpoch.Add(4*time.Second))
	if c.State != ClockRunning || c.Elapsed != 5*time.Second || c.Round != 2 {
		t.Fatalf("unexpected clock from live match: %+v", c.Snapshot())
	}
	if !c.Agrees(StatusLive) || c.Agrees(StatusPaused) {
		t.Fatalf("clock agreement mismatch")
	}

	paused := Match{ID: "m1", Status: StatusPaused, PausedMs: 7000}
	c = ClockFromMatch(paused, clockEpoch)
	if c.State != ClockPaused || c.Elapsed != 7*time.Second {
		t.Fatalf("unexpected clock from paused match: %+v", c.Snapshot())
	}
}

func TestClock_ElapsedOnlyGrowsWhileRunning(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// ops: 0 tick, 1 start, 2 pause; steps are milliseconds advanced before each op.
	properties.Property("elapsed never changes outside Running", prop.ForAll(
		func(ops []int, steps []int) bool {
			c := NewClock()
			now := clockEpoch
			for i, op := range ops {
				if i < len(steps) {
					now = now.Add(time.Duration(steps[i]) * time.Millisecond)
				}
				before := c.Elapsed
				wasRunning := c.State == ClockRunning
				switch op {
				case 1:
					_ = c.Start(now)
				case 2:
					_ = c.Pause(now)
				default:
					c.Tick(now)
				}
				if c.Elapsed < before {
					return false
				}
				if !wasRunning && c.Elapsed != before {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 2)),
		gen.SliceOf(gen.IntRange(0, 5000)),
	))

	properties.TestingRun(t)
}
