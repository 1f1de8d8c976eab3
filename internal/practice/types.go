package practice

import (
	"time"

	"github.com/verte-zerg/tuistrum/internal/catalog"
)

// Phase is the state of a practice session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRecording
	PhaseEvaluating
	PhaseFeedback
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRecording:
		return "recording"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseFeedback:
		return "feedback"
	default:
		return "unknown"
	}
}

// Outcome is the result of a finished attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// SpeedRating grades the average strum interval against the pattern target.
type SpeedRating int

const (
	// SpeedUnrated is used when fewer than two strums were timed.
	SpeedUnrated SpeedRating = iota
	SpeedExcellent
	SpeedGood
	SpeedFair
	SpeedSlow
)

func (s SpeedRating) String() string {
	switch s {
	case SpeedExcellent:
		return "excellent"
	case SpeedGood:
		return "good"
	case SpeedFair:
		return "fair"
	case SpeedSlow:
		return "slow"
	default:
		return "unrated"
	}
}

// Feedback describes the last finished attempt. Display text is left to the
// presentation layer.
type Feedback struct {
	Outcome         Outcome
	Attempts        int
	Speed           SpeedRating
	Points          int
	AverageInterval time.Duration
	HasAverage      bool
	// Mismatch is the index of the first wrong strum, or -1 when the capture
	// matched. A capture that is a correct prefix mismatches at its length.
	Mismatch int
	Captured int
	Expected int
}

// Success reports whether the attempt matched the pattern.
func (f Feedback) Success() bool {
	return f.Outcome == OutcomeSuccess
}

// Snapshot is the read-only view of a session handed to the presentation layer.
type Snapshot struct {
	Pattern   *catalog.Pattern
	Phase     Phase
	Captured  []catalog.Direction
	Remaining int
	Score     int
	Attempts  int
	Feedback  *Feedback
	SessionID string
}

// EventKind identifies a scheduled engine callback.
type EventKind int

const (
	EventTick EventKind = iota
	EventRetry
)

func (k EventKind) String() string {
	switch k {
	case EventTick:
		return "tick"
	case EventRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// Event is a delayed callback requested by the engine. Epoch and Generation
// identify the session state that scheduled it; the engine discards events
// whose tokens no longer match.
type Event struct {
	Kind       EventKind
	Epoch      uint64
	Generation uint64
}

// Scheduler delivers events back to Engine.Deliver after a delay, on the same
// serialized path as every other engine call.
type Scheduler interface {
	Schedule(delay time.Duration, ev Event)
}

// Timing holds the engine delays.
type Timing struct {
	Tick         time.Duration
	SuccessDelay time.Duration
	FailureDelay time.Duration
	TimeoutDelay time.Duration
}

// DefaultTiming returns the standard tick interval and feedback delays.
func DefaultTiming() Timing {
	return Timing{
		Tick:         time.Second,
		SuccessDelay: 3500 * time.Millisecond,
		FailureDelay: 1500 * time.Millisecond,
		TimeoutDelay: 2000 * time.Millisecond,
	}
}

func (t Timing) withDefaults() Timing {
	def := DefaultTiming()
	if t.Tick <= 0 {
		t.Tick = def.Tick
	}
	if t.SuccessDelay <= 0 {
		t.SuccessDelay = def.SuccessDelay
	}
	if t.FailureDelay <= 0 {
		t.FailureDelay = def.FailureDelay
	}
	if t.TimeoutDelay <= 0 {
		t.TimeoutDelay = def.TimeoutDelay
	}
	return t
}
