package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextFirstAnswer(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, State{Streak: 1, Interval: 1}, p.Next(nil, true))
	assert.Equal(t, State{Streak: 0, Interval: 1}, p.Next(nil, false))
}

func TestNextCorrectChain(t *testing.T) {
	p := DefaultPolicy()
	s := p.Next(nil, true)
	var intervals []int
	for i := 0; i < 4; i++ {
		s = p.Next(&s, true)
		intervals = append(intervals, s.Interval)
	}
	assert.Equal(t, []int{3, 8, 20, 50}, intervals)
	assert.Equal(t, 5, s.Streak)
}

func TestNextIncorrectResets(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, State{Streak: 0, Interval: 1}, p.Next(&State{Streak: 5, Interval: 50}, false))
}

func TestNextRespectsCap(t *testing.T) {
	p := DefaultPolicy()
	p.MaxIntervalDays = 30
	assert.Equal(t, 30, p.Next(&State{Streak: 4, Interval: 20}, true).Interval)
}

func TestXPFor(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 12, p.XPFor(1, true))
	assert.Equal(t, 14, p.XPFor(2, true))
	assert.Equal(t, 0, p.XPFor(5, false))
}

func TestLevelFor(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 1, p.LevelFor(0))
	assert.Equal(t, 1, p.LevelFor(99))
	assert.Equal(t, 2, p.LevelFor(108))
	assert.Equal(t, 11, p.LevelFor(1000))
}

func TestNextReview(t *testing.T) {
	p := DefaultPolicy()
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(72*time.Hour), p.NextReview(now, 3))
}
