// Package srs holds the spaced-repetition and experience point rules applied to every answer.
package srs

import (
	"math"
	"time"
)

// Policy configures interval growth and XP rewards.
type Policy struct {
	// Multiplier applied to the interval after a correct answer.
	Multiplier float64
	// MaxIntervalDays caps the interval; 0 leaves it unbounded.
	MaxIntervalDays int
	// BaseXP is awarded for every correct answer.
	BaseXP int
	// StreakBonus is awarded per point of the post-answer streak.
	StreakBonus int
	// XPPerLevel is the width of one level bucket.
	XPPerLevel int
}

// DefaultPolicy returns the stock rules: x2.5 growth with no cap, 10 XP + 2 per streak, 100 XP per level.
func DefaultPolicy() Policy {
	return Policy{
		Multiplier:      2.5,
		MaxIntervalDays: 0,
		BaseXP:          10,
		StreakBonus:     2,
		XPPerLevel:      100,
	}
}

// State is the mastery of one question for one user.
type State struct {
	Streak   int
	Interval int
}

// Next computes the state after an answer. prev is nil for a first answer.
func (p Policy) Next(prev *State, correct bool) State {
	if prev == nil {
		streak := 0
		if correct {
			streak = 1
		}
		return State{Streak: streak, Interval: 1}
	}
	if !correct {
		return State{Streak: 0, Interval: 1}
	}

	interval := int(math.Round(float64(prev.Interval) * p.Multiplier))
	if interval < 1 {
		interval = 1
	}
	if p.MaxIntervalDays > 0 && interval > p.MaxIntervalDays {
		interval = p.MaxIntervalDays
	}
	return State{Streak: prev.Streak + 1, Interval: interval}
}

// NextReview is the moment the question becomes due again.
func (p Policy) NextReview(now time.Time, interval int) time.Time {
	return now.Add(time.Duration(interval) * 24 * time.Hour)
}

// XPFor returns the XP earned for an answer given the streak after the answer was applied.
func (p Policy) XPFor(streak int, correct bool) int {
	if !correct {
		return 0
	}
	return p.BaseXP + streak*p.StreakBonus
}

// LevelFor maps total XP to a level, starting at 1.
func (p Policy) LevelFor(xp int) int {
	if xp < 0 || p.XPPerLevel <= 0 {
		return 1
	}
	return xp/p.XPPerLevel + 1
}
