package stats

import (
	"context"

	"github.com/verte-zerg/tuistrum/internal/model"
	"github.com/verte-zerg/tuistrum/internal/store"
)

// ReportConfig selects the data for a report.
type ReportConfig struct {
	Filter store.Filter
	// TimeLimits maps catalog pattern ids to their time limit in seconds.
	TimeLimits       map[int]int
	CurveWindow      int
	WeakTop          int
	MostPracticedTop int
}

// Report contains precomputed data for progress rendering.
type Report struct {
	Attempts    []model.AttemptAggregate
	Patterns    []model.PatternAggregate
	Summary     Summary
	PointsCurve []float64
	Weak        map[int]struct{}
	// MostPracticed lists pattern ids by attempt count, highest first.
	MostPracticed []int
	Achievements  []Achievement
}

// BuildReport loads and prepares data for progress rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg ReportConfig) (Report, error) {
	attempts, err := st.ListAttempts(ctx, cfg.Filter)
	if err != nil {
		return Report{}, err
	}
	patterns, err := st.PatternAggregates(ctx, cfg.Filter)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Attempts:      attempts,
		Patterns:      patterns,
		Summary:       Summarize(patterns),
		PointsCurve:   PointsSeries(attempts, cfg.CurveWindow),
		Weak:          SelectWeakPatterns(patterns, cfg.WeakTop),
		MostPracticed: TopPatternsByAttempts(patterns, cfg.MostPracticedTop),
		Achievements:  Achievements(patterns, cfg.TimeLimits),
	}, nil
}
