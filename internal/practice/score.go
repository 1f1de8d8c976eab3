package practice

import (
	"time"

	"github.com/verte-zerg/tuistrum/internal/catalog"
)

const (
	basePointsPerDifficulty = 10
	excellentBonus          = 20
	goodBonus               = 10
	timeBonus               = 10
)

// ScoreBreakdown is the points awarded for a successful attempt.
type ScoreBreakdown struct {
	Base       int
	SpeedBonus int
	TimeBonus  int
	Speed      SpeedRating
}

// Total returns the sum of all components.
func (b ScoreBreakdown) Total() int {
	return b.Base + b.SpeedBonus + b.TimeBonus
}

// AverageInterval returns the mean gap between consecutive strums. It needs at
// least two timestamps.
func AverageInterval(stamps []time.Time) (time.Duration, bool) {
	if len(stamps) < 2 {
		return 0, false
	}
	var sum time.Duration
	for i := 1; i < len(stamps); i++ {
		d := stamps[i].Sub(stamps[i-1])
		if d < 0 {
			d = 0
		}
		sum += d
	}
	return sum / time.Duration(len(stamps)-1), true
}

// RateSpeed maps an average interval onto the four speed tiers.
func RateSpeed(avg time.Duration, targetMillis float64) SpeedRating {
	ms := float64(avg) / float64(time.Millisecond)
	switch {
	case ms <= targetMillis:
		return SpeedExcellent
	case ms <= targetMillis*1.2:
		return SpeedGood
	case ms <= targetMillis*1.5:
		return SpeedFair
	default:
		return SpeedSlow
	}
}

// Score computes the points for a successful attempt of p.
func Score(p *catalog.Pattern, avg time.Duration, hasAvg bool, remainingSeconds int) ScoreBreakdown {
	b := ScoreBreakdown{
		Base:  p.Difficulty * basePointsPerDifficulty,
		Speed: SpeedUnrated,
	}
	if hasAvg {
		b.Speed = RateSpeed(avg, p.TargetSpeedMillis)
		switch b.Speed {
		case SpeedExcellent:
			b.SpeedBonus = excellentBonus
		case SpeedGood:
			b.SpeedBonus = goodBonus
		}
	}
	// More than half of the time limit left.
	if remainingSeconds*2 > p.TimeLimitSeconds {
		b.TimeBonus = timeBonus
	}
	return b
}

// firstMismatch returns the first index where captured diverges from want,
// or -1 when they are identical.
func firstMismatch(captured, want []catalog.Direction) int {
	n := len(captured)
	if len(want) < n {
		n = len(want)
	}
	for i := 0; i < n; i++ {
		if captured[i] != want[i] {
			return i
		}
	}
	if len(captured) != len(want) {
		return n
	}
	return -1
}
