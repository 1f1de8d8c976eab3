// Package practice implements the strumming practice session state machine.
//
// An Engine is not safe for concurrent use. All calls, including Deliver for
// scheduled events, must arrive on one serialized path: the Bubble Tea update
// loop, or a Runner.
package practice

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuistrum/internal/catalog"
	"github.com/verte-zerg/tuistrum/internal/model"
	"github.com/verte-zerg/tuistrum/internal/timer"
)

// ErrPatternLocked is returned when the pattern is changed outside the idle phase.
var ErrPatternLocked = errors.New("pattern cannot change while practicing")

// Observer is notified of every finished attempt.
type Observer interface {
	AttemptFinished(model.Attempt)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(model.Attempt)

// AttemptFinished implements Observer.
func (f ObserverFunc) AttemptFinished(a model.Attempt) {
	f(a)
}

// Options configures an Engine.
type Options struct {
	Timing    Timing
	Scheduler Scheduler
	Observer  Observer
	Logger    *slog.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
	// NewSessionID defaults to random UUIDs.
	NewSessionID func() string
}

// Engine owns one practice session.
type Engine struct {
	timing    Timing
	scheduler Scheduler
	observer  Observer
	logger    *slog.Logger
	clock     func() time.Time
	newID     func() string

	pattern   *catalog.Pattern
	phase     Phase
	captured  []catalog.Direction
	stamps    []time.Time
	attempts  int
	countdown *timer.Countdown
	score     int
	feedback  *Feedback
	sessionID string
	startedAt time.Time

	// epoch is advanced whenever pending callbacks must stop applying.
	epoch uint64
}

// NewEngine returns an idle engine with p selected.
func NewEngine(p *catalog.Pattern, opts Options) (*Engine, error) {
	if err := catalog.Validate(p); err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	e := &Engine{
		timing:    opts.Timing.withDefaults(),
		scheduler: opts.Scheduler,
		observer:  opts.Observer,
		logger:    opts.Logger,
		clock:     opts.Clock,
		newID:     opts.NewSessionID,
		pattern:   p,
		phase:     PhaseIdle,
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.newID == nil {
		e.newID = func() string { return uuid.NewString() }
	}
	e.countdown = timer.New(e.onTimerExpire)
	return e, nil
}

// Pattern returns the active pattern.
func (e *Engine) Pattern() *catalog.Pattern {
	return e.pattern
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Score returns the cumulative score.
func (e *Engine) Score() int {
	return e.score
}

// Snapshot returns a copy of the state the presentation layer may render.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Pattern:   e.pattern,
		Phase:     e.phase,
		Captured:  append([]catalog.Direction(nil), e.captured...),
		Remaining: e.countdown.Remaining(),
		Score:     e.score,
		Attempts:  e.attempts,
		SessionID: e.sessionID,
	}
	if e.feedback != nil {
		fb := *e.feedback
		s.Feedback = &fb
	}
	return s
}

// SelectPattern replaces the active pattern. It is only allowed while idle.
func (e *Engine) SelectPattern(p *catalog.Pattern) error {
	if e.phase != PhaseIdle {
		return ErrPatternLocked
	}
	if err := catalog.Validate(p); err != nil {
		return fmt.Errorf("failed to select pattern: %w", err)
	}
	e.epoch++
	e.pattern = p
	e.countdown.Reset()
	e.clearCapture()
	e.attempts = 0
	e.feedback = nil
	e.logger.Debug("pattern selected", "pattern", p.ID, "name", p.Name)
	return nil
}

// StartRecording begins an attempt from the idle phase. It returns false when
// the engine is not idle.
func (e *Engine) StartRecording() bool {
	if e.phase != PhaseIdle {
		return false
	}
	if e.sessionID == "" {
		e.sessionID = e.newID()
	}
	e.beginAttempt()
	return true
}

// RecordStrum appends a strum to the capture. A capture that reaches the
// pattern length is evaluated immediately. Strums outside the recording phase
// are dropped and reported as false.
func (e *Engine) RecordStrum(dir catalog.Direction, at time.Time) bool {
	if e.phase != PhaseRecording || !dir.Valid() {
		return false
	}
	e.captured = append(e.captured, dir)
	e.stamps = append(e.stamps, at)
	if len(e.captured) >= e.pattern.Len() {
		e.evaluate()
	}
	return true
}

// StopRecording ends the attempt early and evaluates the partial capture,
// which can only fail. Stopping before any strum abandons the attempt and
// returns to idle without counting it.
func (e *Engine) StopRecording() bool {
	if e.phase != PhaseRecording {
		return false
	}
	if len(e.captured) == 0 {
		e.epoch++
		e.countdown.Reset()
		e.phase = PhaseIdle
		e.logger.Debug("attempt abandoned", "pattern", e.pattern.ID)
		return true
	}
	e.evaluate()
	return true
}

// Exit ends the practice session from any phase. The pattern and cumulative
// score are kept; the next StartRecording opens a new session.
func (e *Engine) Exit() {
	e.resetAttemptState()
	e.feedback = nil
	if e.sessionID != "" {
		e.logger.Debug("session ended", "session", e.sessionID)
	}
	e.sessionID = ""
}

// ResetPractice clears attempt-local state and returns to idle, staying in
// the current session.
func (e *Engine) ResetPractice() {
	e.resetAttemptState()
	e.feedback = nil
}

// Deliver applies a scheduled event. Events from an earlier epoch or timer
// generation are discarded and reported as false.
func (e *Engine) Deliver(ev Event) bool {
	if ev.Epoch != e.epoch {
		e.logger.Debug("stale event dropped", "kind", ev.Kind.String(), "epoch", ev.Epoch, "current", e.epoch)
		return false
	}
	switch ev.Kind {
	case EventTick:
		if e.phase != PhaseRecording {
			return false
		}
		if !e.countdown.Tick(ev.Generation) {
			return false
		}
		if e.countdown.Running() {
			e.schedule(e.timing.Tick, Event{Kind: EventTick, Epoch: e.epoch, Generation: ev.Generation})
		}
		return true
	case EventRetry:
		if e.phase != PhaseFeedback {
			return false
		}
		e.beginAttempt()
		return true
	default:
		return false
	}
}

func (e *Engine) beginAttempt() {
	e.epoch++
	e.clearCapture()
	e.phase = PhaseRecording
	e.startedAt = e.clock()
	gen := e.countdown.Start(e.pattern.TimeLimitSeconds)
	e.schedule(e.timing.Tick, Event{Kind: EventTick, Epoch: e.epoch, Generation: gen})
	e.logger.Debug("recording", "pattern", e.pattern.ID, "limit", e.pattern.TimeLimitSeconds, "epoch", e.epoch)
}

func (e *Engine) onTimerExpire() {
	if e.phase != PhaseRecording {
		return
	}
	fb := Feedback{
		Outcome:  OutcomeTimeout,
		Attempts: e.attempts,
		Speed:    SpeedUnrated,
		Mismatch: firstMismatch(e.captured, e.pattern.Sequence),
		Captured: len(e.captured),
		Expected: e.pattern.Len(),
	}
	e.finish(fb, e.timing.TimeoutDelay)
}

func (e *Engine) evaluate() {
	e.phase = PhaseEvaluating
	e.countdown.Stop()
	e.attempts++

	fb := Feedback{
		Outcome:  OutcomeFailure,
		Attempts: e.attempts,
		Speed:    SpeedUnrated,
		Mismatch: firstMismatch(e.captured, e.pattern.Sequence),
		Captured: len(e.captured),
		Expected: e.pattern.Len(),
	}
	if fb.Mismatch >= 0 {
		e.finish(fb, e.timing.FailureDelay)
		return
	}

	avg, ok := AverageInterval(e.stamps)
	breakdown := Score(e.pattern, avg, ok, e.countdown.Remaining())
	fb.Outcome = OutcomeSuccess
	fb.Speed = breakdown.Speed
	fb.Points = breakdown.Total()
	fb.AverageInterval = avg
	fb.HasAverage = ok
	e.score += fb.Points
	e.finish(fb, e.timing.SuccessDelay)
}

func (e *Engine) finish(fb Feedback, retryAfter time.Duration) {
	e.countdown.Stop()
	e.phase = PhaseFeedback
	e.feedback = &fb
	e.logger.Debug("attempt finished",
		"pattern", e.pattern.ID,
		"outcome", fb.Outcome.String(),
		"points", fb.Points,
		"attempts", fb.Attempts,
	)
	e.notify(fb)
	e.schedule(retryAfter, Event{Kind: EventRetry, Epoch: e.epoch})
}

func (e *Engine) notify(fb Feedback) {
	if e.observer == nil {
		return
	}
	a := model.Attempt{
		SessionID:        e.sessionID,
		PatternID:        e.pattern.ID,
		PatternName:      e.pattern.Name,
		Outcome:          fb.Outcome.String(),
		Captured:         joinDirections(e.captured),
		Points:           fb.Points,
		Speed:            fb.Speed.String(),
		HasAvgInterval:   fb.HasAverage,
		RemainingSeconds: e.countdown.Remaining(),
		StartedAt:        e.startedAt,
		EndedAt:          e.clock(),
	}
	if fb.HasAverage {
		a.AvgIntervalMs = float64(fb.AverageInterval) / float64(time.Millisecond)
	}
	e.observer.AttemptFinished(a)
}

func (e *Engine) schedule(delay time.Duration, ev Event) {
	if e.scheduler == nil {
		return
	}
	e.scheduler.Schedule(delay, ev)
}

func (e *Engine) resetAttemptState() {
	e.epoch++
	e.countdown.Reset()
	e.clearCapture()
	e.attempts = 0
	e.phase = PhaseIdle
}

func (e *Engine) clearCapture() {
	e.captured = nil
	e.stamps = nil
}

func joinDirections(seq []catalog.Direction) string {
	parts := make([]string, len(seq))
	for i, d := range seq {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}
