package stats

import (
	"time"

	"github.com/verte-zerg/tuistrum/internal/model"
)

const (
	explorerPatterns = 5
	// A speedster success takes at most this share of the pattern time limit.
	speedsterDivisor = 3
)

// Achievement is a milestone unlocked during the run.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Unlocked    bool
}

// Achievements evaluates the milestones against per-pattern aggregates.
// timeLimits maps every pattern available in the run to its time limit in
// seconds.
func Achievements(aggs []model.PatternAggregate, timeLimits map[int]int) []Achievement {
	learned := map[int]bool{}
	speedster := false
	for _, agg := range aggs {
		if agg.Successes == 0 {
			continue
		}
		learned[agg.PatternID] = true
		if isSpeedster(agg, timeLimits) {
			speedster = true
		}
	}

	master := len(timeLimits) > 0
	for id := range timeLimits {
		if !learned[id] {
			master = false
			break
		}
	}

	return []Achievement{
		{
			ID:          "first-strum",
			Title:       "First Strum",
			Description: "Complete your first pattern",
			Unlocked:    len(learned) > 0,
		},
		{
			ID:          "explorer",
			Title:       "Explorer",
			Description: "Learn 5 different patterns",
			Unlocked:    len(learned) >= explorerPatterns,
		},
		{
			ID:          "speedster",
			Title:       "Speedster",
			Description: "Complete a pattern in under a third of its time limit",
			Unlocked:    speedster,
		},
		{
			ID:          "rhythm-master",
			Title:       "Rhythm Master",
			Description: "Learn every pattern in the catalog",
			Unlocked:    master,
		},
	}
}

func isSpeedster(agg model.PatternAggregate, timeLimits map[int]int) bool {
	limit, ok := timeLimits[agg.PatternID]
	if !ok || limit <= 0 || agg.FastestMs <= 0 {
		return false
	}
	fastest := time.Duration(agg.FastestMs) * time.Millisecond
	return fastest*speedsterDivisor < time.Duration(limit)*time.Second
}

// UnlockedCount returns how many achievements are unlocked.
func UnlockedCount(list []Achievement) int {
	n := 0
	for _, a := range list {
		if a.Unlocked {
			n++
		}
	}
	return n
}
