package stats

import (
	"sort"

	"github.com/verte-zerg/tuistrum/internal/model"
)

// TopPatternsByAttempts returns the ids of the N most practiced patterns.
func TopPatternsByAttempts(aggs []model.PatternAggregate, n int) []int {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.PatternAggregate, len(aggs))
	copy(items, aggs)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Attempts == items[j].Attempts {
			return items[i].PatternID < items[j].PatternID
		}
		return items[i].Attempts > items[j].Attempts
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].PatternID)
	}
	return out
}
