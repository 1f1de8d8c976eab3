package stats

import (
	"context"
	"testing"
	"time"

	"github.com/verte-zerg/tuistrum/internal/model"
	"github.com/verte-zerg/tuistrum/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	outcomes := []string{model.OutcomeFailure, model.OutcomeSuccess, model.OutcomeSuccess}
	for i, outcome := range outcomes {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		points := 0
		if outcome == model.OutcomeSuccess {
			points = 60
		}
		a := model.Attempt{
			SessionID:   "run",
			PatternID:   3,
			PatternName: "Classic Rock",
			Outcome:     outcome,
			Captured:    "down",
			Points:      points,
			Speed:       "excellent",
			StartedAt:   start,
			EndedAt:     start.Add(10 * time.Second),
		}
		if _, err := st.InsertAttempt(ctx, a); err != nil {
			t.Fatalf("insert attempt: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, ReportConfig{
		Filter:      store.Filter{SessionID: "run"},
		TimeLimits:       map[int]int{3: 40},
		CurveWindow:      2,
		MostPracticedTop: 2,
	})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(report.Attempts))
	}
	if len(report.Patterns) != 1 || report.Patterns[0].Successes != 2 {
		t.Fatalf("unexpected pattern aggregates: %+v", report.Patterns)
	}
	if report.Summary.TotalPoints != 120 {
		t.Fatalf("total points = %d", report.Summary.TotalPoints)
	}
	if len(report.PointsCurve) != 3 || report.PointsCurve[1] != 30 || report.PointsCurve[2] != 60 {
		t.Fatalf("unexpected curve: %v", report.PointsCurve)
	}
	if _, ok := report.Weak[3]; !ok {
		t.Fatalf("pattern with failures should be weak: %v", report.Weak)
	}
	if len(report.MostPracticed) != 1 || report.MostPracticed[0] != 3 {
		t.Fatalf("unexpected most practiced: %v", report.MostPracticed)
	}
	if UnlockedCount(report.Achievements) != 3 {
		t.Fatalf("expected first-strum, speedster and rhythm-master: %+v", report.Achievements)
	}
}
