package store

import (
	"context"
	"testing"
	"time"

	"github.com/verte-zerg/tuistrum/internal/model"
)

func attempt(session string, pattern int, outcome string, points int, dur time.Duration) model.Attempt {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return model.Attempt{
		SessionID:        session,
		PatternID:        pattern,
		PatternName:      "pattern",
		Outcome:          outcome,
		Captured:         "down,up",
		Points:           points,
		Speed:            "excellent",
		AvgIntervalMs:    400,
		HasAvgInterval:   outcome == model.OutcomeSuccess,
		RemainingSeconds: 20,
		StartedAt:        start,
		EndedAt:          start.Add(dur),
	}
}

func openMemory(t *testing.T) *Store {
	t.Helper()
	st, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return st
}

func TestInsertAndListAttempts(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	inputs := []model.Attempt{
		attempt("a", 3, model.OutcomeSuccess, 60, 3*time.Second),
		attempt("a", 3, model.OutcomeFailure, 0, 2*time.Second),
		attempt("b", 1, model.OutcomeTimeout, 0, 15*time.Second),
	}
	for _, a := range inputs {
		if _, err := st.InsertAttempt(ctx, a); err != nil {
			t.Fatalf("InsertAttempt: %v", err)
		}
	}

	all, err := st.ListAttempts(ctx, Filter{})
	if err != nil {
		t.Fatalf("ListAttempts: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(all))
	}
	if all[0].Points != 60 || all[0].DurationMs != 3000 {
		t.Fatalf("unexpected first attempt: %+v", all[0])
	}

	session, err := st.ListAttempts(ctx, Filter{SessionID: "b"})
	if err != nil {
		t.Fatalf("ListAttempts: %v", err)
	}
	if len(session) != 1 || session[0].Outcome != model.OutcomeTimeout {
		t.Fatalf("unexpected session attempts: %+v", session)
	}
}

func TestPatternAggregates(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	inputs := []model.Attempt{
		attempt("a", 3, model.OutcomeSuccess, 60, 5*time.Second),
		attempt("a", 3, model.OutcomeSuccess, 40, 4*time.Second),
		attempt("a", 3, model.OutcomeFailure, 0, 2*time.Second),
		attempt("a", 1, model.OutcomeTimeout, 0, 15*time.Second),
	}
	for _, a := range inputs {
		if _, err := st.InsertAttempt(ctx, a); err != nil {
			t.Fatalf("InsertAttempt: %v", err)
		}
	}

	aggs, err := st.PatternAggregates(ctx, Filter{})
	if err != nil {
		t.Fatalf("PatternAggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(aggs))
	}
	if aggs[0].PatternID != 1 || aggs[0].Timeouts != 1 || aggs[0].Successes != 0 || aggs[0].FastestMs != 0 {
		t.Fatalf("unexpected pattern 1 aggregate: %+v", aggs[0])
	}
	got := aggs[1]
	if got.Attempts != 3 || got.Successes != 2 || got.BestPoints != 60 || got.TotalPoints != 100 {
		t.Fatalf("unexpected pattern 3 aggregate: %+v", got)
	}
	if got.AvgIntervalN != 2 || got.AvgIntervalSum != 800 {
		t.Fatalf("unexpected interval sums: %+v", got)
	}
	if got.FastestMs != 4000 {
		t.Fatalf("fastest = %d, want 4000", got.FastestMs)
	}
}

func TestOpenMemoryIsPrivatePerStore(t *testing.T) {
	first := openMemory(t)
	second := openMemory(t)
	ctx := context.Background()
	if _, err := first.InsertAttempt(ctx, attempt("a", 1, model.OutcomeFailure, 0, time.Second)); err != nil {
		t.Fatalf("InsertAttempt: %v", err)
	}
	for i := 0; i < 3; i++ {
		got, err := first.ListAttempts(ctx, Filter{})
		if err != nil {
			t.Fatalf("ListAttempts: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected the attempt on every query, got %d", len(got))
		}
	}
	got, err := second.ListAttempts(ctx, Filter{})
	if err != nil {
		t.Fatalf("ListAttempts: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("second store should start empty, got %d", len(got))
	}
}
