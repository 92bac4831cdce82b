package match

import (
	"errors"
	"time"
)

type ClockState string

const (
	ClockIdle    ClockState = "idle"
	ClockRunning ClockState = "running"
	ClockPaused  ClockState = "paused"
)

var (
	ErrClockRunning    = errors.New("clock is already running")
	ErrClockNotRunning = errors.New("clock is not running")
	ErrClockIdle       = errors.New("clock is idle")
)

// Clock tracks elapsed match time. It holds no timer of its own; the owner
// calls Tick periodically.
type Clock struct {
	State             ClockState
	Elapsed           time.Duration
	PausedAccumulated time.Duration
	Round             int

	lastTick time.Time
}

type ClockSnapshot struct {
	State               ClockState `json:"state"`
	ElapsedMs           int64      `json:"elapsed_ms"`
	PausedAccumulatedMs int64      `json:"paused_accumulated_ms"`
	Round               int        `json:"round"`
}

func NewClock() Clock {
	return Clock{State: ClockIdle}
}

// ClockFromMatch seeds a clock from the persisted record.
func ClockFromMatch(m Match, now time.Time) Clock {
	c := Clock{State: ClockIdle, Round: m.Round, lastTick: now}
	switch m.Status {
	case StatusLive:
		c.State = ClockRunning
		c.Elapsed = time.Duration(m.PlayedMs(now)) * time.Millisecond
	case StatusPaused:
		c.State = ClockPaused
		c.Elapsed = time.Duration(m.PausedMs) * time.Millisecond
	}
	return c
}

func (c *Clock) Start(now time.Time) error {
	switch c.State {
	case ClockRunning:
		return ErrClockRunning
	case ClockPaused:
		c.Tick(now)
	default:
		c.lastTick = now
	}
	c.State = ClockRunning
	return nil
}

func (c *Clock) Pause(now time.Time) error {
	if c.State != ClockRunning {
		return ErrClockNotRunning
	}
	c.Tick(now)
	c.State = ClockPaused
	return nil
}

func (c *Clock) Reset() {
	c.State = ClockIdle
	c.Elapsed = 0
	c.PausedAccumulated = 0
	c.lastTick = time.Time{}
}

func (c *Clock) End() error {
	if c.State == ClockIdle {
		return ErrClockIdle
	}
	c.Reset()
	c.Round++
	return nil
}

// Tick folds the time since the previous tick into Elapsed while running, or
// into PausedAccumulated while paused. Backwards steps are ignored.
func (c *Clock) Tick(now time.Time) {
	if c.State == ClockIdle {
		c.lastTick = now
		return
	}
	if c.lastTick.IsZero() {
		c.lastTick = now
		return
	}

	delta := now.Sub(c.lastTick)
	if delta <= 0 {
		return
	}
	if c.State == ClockRunning {
		c.Elapsed += delta
	} else {
		c.PausedAccumulated += delta
	}
	c.lastTick = now
}

// Agrees reports whether the clock state corresponds to a persisted status.
func (c Clock) Agrees(status Status) bool {
	switch status {
	case StatusLive:
		return c.State == ClockRunning
	case StatusPaused:
		return c.State == ClockPaused
	default:
		return c.State == ClockIdle
	}
}

func (c Clock) Snapshot() ClockSnapshot {
	return ClockSnapshot{
		State:               c.State,
		ElapsedMs:           c.Elapsed.Milliseconds(),
		PausedAccumulatedMs: c.PausedAccumulated.Milliseconds(),
		Round:               c.Round,
	}
}
