package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern is the sentinel wrapped by every catalog validation error.
var ErrInvalidPattern = errors.New("invalid pattern")

// ValidationError describes a pattern that violates a catalog invariant.
type ValidationError struct {
	PatternID int
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.PatternID != 0 {
		return fmt.Sprintf("pattern %d: %s: %s", e.PatternID, e.Field, e.Reason)
	}
	return fmt.Sprintf("catalog %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidPattern
}

// Validate checks a single pattern against the catalog invariants.
func Validate(p *Pattern) error {
	if p == nil {
		return &ValidationError{Field: "pattern", Reason: "missing"}
	}
	invalid := func(field, reason string) error {
		return &ValidationError{PatternID: p.ID, Field: field, Reason: reason}
	}
	if p.ID <= 0 {
		return &ValidationError{Field: "id", Reason: fmt.Sprintf("must be positive, got %d", p.ID)}
	}
	if p.Name == "" {
		return invalid("name", "must not be empty")
	}
	if len(p.Sequence) == 0 {
		return invalid("sequence", "must contain at least one strum")
	}
	for i, d := range p.Sequence {
		if !d.Valid() {
			return invalid("sequence", fmt.Sprintf("unknown direction %q at position %d", d, i))
		}
	}
	if p.Difficulty < MinDifficulty || p.Difficulty > MaxDifficulty {
		return invalid("difficulty", fmt.Sprintf("must be between %d and %d, got %d", MinDifficulty, MaxDifficulty, p.Difficulty))
	}
	if want := DifficultyLabel(p.Difficulty); p.DifficultyLabel != want {
		return invalid("difficulty-label", fmt.Sprintf("%q does not match difficulty %d (want %q)", p.DifficultyLabel, p.Difficulty, want))
	}
	if p.BPM <= 0 {
		return invalid("bpm", "must be positive")
	}
	if p.TimeLimitSeconds <= 0 {
		return invalid("time-limit", "must be positive")
	}
	if p.TargetSpeedMillis <= 0 {
		return invalid("target-speed-ms", "must be positive")
	}
	return nil
}
