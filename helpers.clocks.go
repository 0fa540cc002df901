package main

import (
	"time"

	"go.uber.org/zap/zapcore"
)

var _ zapcore.Clock = zapClock{}

// Clocker provides the current time.
type Clocker interface {
	Now() time.Time
}

// Clock reads the wall time in a fixed location: UTC in production and
// the local timezone otherwise.
type Clock struct {
	loc *time.Location
}

func NewClock(isProd bool) *Clock {
	loc := time.Local
	if isProd {
		loc = time.UTC
	}
	return &Clock{loc: loc}
}

func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}

// zapClock stamps log entries with a Clocker time.
type zapClock struct {
	Clocker
}

func (zapClock) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}
