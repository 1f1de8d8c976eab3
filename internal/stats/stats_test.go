package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/tuistrum/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{10, 20, 30, 40}, 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MovingAverage[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 50, 100}); got != " +@" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{5, 5}); got != "++" {
		t.Fatalf("flat sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]model.PatternAggregate{
		{PatternID: 1, Attempts: 3, Successes: 1, Timeouts: 1, TotalPoints: 30, BestPoints: 30},
		{PatternID: 2, Attempts: 1, Successes: 0, Timeouts: 0},
		{PatternID: 3, Attempts: 2, Successes: 2, TotalPoints: 120, BestPoints: 60},
	})
	if s.Attempts != 6 || s.Successes != 3 || s.Timeouts != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.TotalPoints != 150 || s.BestPoints != 60 || s.PatternsLearned != 2 {
		t.Fatalf("unexpected points: %+v", s)
	}
	if s.SuccessRate() != 0.5 {
		t.Fatalf("success rate = %v", s.SuccessRate())
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, Summary{}); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	if buf.String() != "No attempts yet.\n" {
		t.Fatalf("unexpected empty summary %q", buf.String())
	}
	buf.Reset()
	if err := RenderSummary(&buf, Summary{Attempts: 4, Successes: 1, TotalPoints: 60, PatternsLearned: 1}); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	if !strings.Contains(buf.String(), "Successes: 1 (25%)") {
		t.Fatalf("unexpected summary:\n%s", buf.String())
	}
}

func TestSelectWeakPatterns(t *testing.T) {
	aggs := []model.PatternAggregate{
		{PatternID: 1, Attempts: 4, Successes: 4},
		{PatternID: 2, Attempts: 4, Successes: 1},
		{PatternID: 3, Attempts: 2, Successes: 1},
		{PatternID: 4, Attempts: 0},
	}
	weak := SelectWeakPatterns(aggs, 0)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak patterns, got %v", weak)
	}
	if _, ok := weak[2]; !ok {
		t.Fatalf("pattern 2 should be weak: %v", weak)
	}
	if _, ok := weak[1]; ok {
		t.Fatalf("mastered pattern must not be weak: %v", weak)
	}

	top := SelectWeakPatterns(aggs, 1)
	if _, ok := top[2]; !ok || len(top) != 1 {
		t.Fatalf("unexpected top weak: %v", top)
	}
}

func TestAchievements(t *testing.T) {
	limits := map[int]int{1: 30, 2: 30, 3: 30, 4: 30, 5: 30}
	none := Achievements(nil, limits)
	if UnlockedCount(none) != 0 {
		t.Fatalf("expected nothing unlocked: %+v", none)
	}

	aggs := []model.PatternAggregate{
		{PatternID: 1, Attempts: 1, Successes: 1, FastestMs: 12000},
	}
	got := Achievements(aggs, limits)
	if !got[0].Unlocked || got[1].Unlocked || got[2].Unlocked || got[3].Unlocked {
		t.Fatalf("only first-strum expected: %+v", got)
	}

	for id := 2; id <= 5; id++ {
		aggs = append(aggs, model.PatternAggregate{PatternID: id, Attempts: 2, Successes: 1, FastestMs: 9000})
	}
	got = Achievements(aggs, limits)
	if UnlockedCount(got) != 4 {
		t.Fatalf("expected all achievements: %+v", got)
	}
	if got[3].ID != "rhythm-master" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestSpeedsterUsesPatternTimeLimit(t *testing.T) {
	cases := []struct {
		name    string
		limits  map[int]int
		fastest int64
		want    bool
	}{
		{name: "under a third", limits: map[int]int{1: 25}, fastest: 8000, want: true},
		{name: "exactly a third", limits: map[int]int{1: 24}, fastest: 8000, want: false},
		{name: "under thirty seconds only", limits: map[int]int{1: 25}, fastest: 20000, want: false},
		{name: "unknown pattern", limits: map[int]int{2: 25}, fastest: 1000, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			aggs := []model.PatternAggregate{{PatternID: 1, Attempts: 1, Successes: 1, FastestMs: tc.fastest}}
			got := Achievements(aggs, tc.limits)
			if got[2].ID != "speedster" || got[2].Unlocked != tc.want {
				t.Fatalf("speedster = %+v, want unlocked %v", got[2], tc.want)
			}
		})
	}
}
