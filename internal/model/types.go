// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	PatternID   int
	CatalogPath string
	MinDistance float64
	RowScale    float64
	// Rotated lays the strings out vertically and strums with sideways drags.
	Rotated     bool
	FocusWeak   bool
	WeakFactor  float64
	Timing      TimingConfig
}

// TimingConfig holds the engine delays.
type TimingConfig struct {
	Tick         time.Duration
	SuccessDelay time.Duration
	FailureDelay time.Duration
	TimeoutDelay time.Duration
}

// Attempt outcomes as stored in the attempt log.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
)

// Attempt captures one finished practice attempt.
type Attempt struct {
	SessionID        string
	PatternID        int
	PatternName      string
	Outcome          string
	Captured         string
	Points           int
	Speed            string
	AvgIntervalMs    float64
	HasAvgInterval   bool
	RemainingSeconds int
	StartedAt        time.Time
	EndedAt          time.Time
}

// Duration returns how long the attempt took.
func (a Attempt) Duration() time.Duration {
	if a.EndedAt.Before(a.StartedAt) {
		return 0
	}
	return a.EndedAt.Sub(a.StartedAt)
}

// AttemptAggregate summarizes one logged attempt for reporting.
type AttemptAggregate struct {
	AttemptID  int64
	PatternID  int
	Outcome    string
	Points     int
	DurationMs int64
	EndedAt    time.Time
}

// PatternAggregate aggregates attempts per pattern.
type PatternAggregate struct {
	PatternID      int
	PatternName    string
	Attempts       int
	Successes      int
	Timeouts       int
	BestPoints     int
	TotalPoints    int
	AvgIntervalSum float64
	AvgIntervalN   int
	FastestMs      int64
}
