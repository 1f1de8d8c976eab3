package tui

import (
	"fmt"
	"time"

	"github.com/verte-zerg/tuistrum/internal/catalog"
	"github.com/verte-zerg/tuistrum/internal/practice"
)

// feedbackText formats the result of an attempt for display.
func feedbackText(fb practice.Feedback, p *catalog.Pattern) string {
	switch fb.Outcome {
	case practice.OutcomeSuccess:
		text := fmt.Sprintf("%s +%d points", successTitle(fb.Speed), fb.Points)
		if fb.HasAverage {
			text += fmt.Sprintf(" · %s speed, %dms between strums", fb.Speed, fb.AverageInterval.Round(time.Millisecond).Milliseconds())
		}
		return text
	case practice.OutcomeTimeout:
		return "Time's up! Get ready to try again."
	default:
		if fb.Mismatch >= 0 && fb.Mismatch < fb.Captured && fb.Mismatch < p.Len() {
			want := p.Sequence[fb.Mismatch]
			return fmt.Sprintf("Not quite: strum %d should be %s %s (attempt %d)", fb.Mismatch+1, want.Arrow(), want, fb.Attempts)
		}
		return fmt.Sprintf("Not quite: %d of %d strums played (attempt %d)", fb.Captured, fb.Expected, fb.Attempts)
	}
}

func successTitle(speed practice.SpeedRating) string {
	switch speed {
	case practice.SpeedExcellent:
		return "Perfect timing!"
	case practice.SpeedGood:
		return "Great job!"
	case practice.SpeedFair:
		return "Nice!"
	case practice.SpeedSlow:
		return "Correct, now speed it up!"
	default:
		return "Correct!"
	}
}
