package stats

import (
	"sort"

	"github.com/verte-zerg/tuistrum/internal/model"
)

// SelectWeakPatterns selects the attempted patterns with the lowest success rate.
func SelectWeakPatterns(aggs []model.PatternAggregate, top int) map[int]struct{} {
	weakSet := map[int]struct{}{}
	candidates := make([]model.PatternAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Attempts > 0 {
			candidates = append(candidates, agg)
		}
	}
	if len(candidates) == 0 {
		return weakSet
	}
	sort.Slice(candidates, func(i, j int) bool {
		ri := SuccessRate(candidates[i])
		rj := SuccessRate(candidates[j])
		if ri == rj {
			return candidates[i].PatternID < candidates[j].PatternID
		}
		return ri < rj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	// Patterns that always succeed are never weak.
	for i := 0; i < top; i++ {
		if SuccessRate(candidates[i]) >= 1 {
			break
		}
		weakSet[candidates[i].PatternID] = struct{}{}
	}
	return weakSet
}
