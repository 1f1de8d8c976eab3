package progressui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuistrum/internal/model"
	"github.com/verte-zerg/tuistrum/internal/store"
)

var testLimits = map[int]int{1: 20, 2: 20, 3: 25}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	start := time.Unix(0, 0)
	attempts := []model.Attempt{
		{SessionID: "s", PatternID: 1, PatternName: "Basic Strum", Outcome: model.OutcomeSuccess, Points: 40, StartedAt: start, EndedAt: start.Add(5 * time.Second)},
		{SessionID: "s", PatternID: 3, PatternName: "Classic Rock", Outcome: model.OutcomeFailure, StartedAt: start, EndedAt: start.Add(3 * time.Second)},
	}
	for _, a := range attempts {
		if _, err := st.InsertAttempt(context.Background(), a); err != nil {
			t.Fatalf("insert attempt: %v", err)
		}
	}
	return st
}

func TestOverviewShowsSummary(t *testing.T) {
	m := NewModel(seededStore(t), Config{TimeLimits: testLimits, CurveWindow: 1})
	m.SetSize(100, 30)
	out := m.View()
	for _, want := range []string{"Overview", "Attempts", "50%", "1/3", "Needs practice", "Classic Rock"} {
		if !strings.Contains(out, want) {
			t.Fatalf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestOverviewListsMostPracticed(t *testing.T) {
	st := seededStore(t)
	start := time.Unix(0, 0)
	for i := 0; i < 2; i++ {
		a := model.Attempt{SessionID: "s", PatternID: 3, PatternName: "Classic Rock", Outcome: model.OutcomeFailure, StartedAt: start, EndedAt: start.Add(time.Second)}
		if _, err := st.InsertAttempt(context.Background(), a); err != nil {
			t.Fatalf("insert attempt: %v", err)
		}
	}
	m := NewModel(st, Config{TimeLimits: testLimits, CurveWindow: 1})
	m.SetSize(100, 60)
	out := m.View()
	for _, want := range []string{"Most practiced", "1. Classic Rock (3 attempts)", "2. Basic Strum (1 attempts)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestAchievementsTab(t *testing.T) {
	m := NewModel(seededStore(t), Config{TimeLimits: testLimits, CurveWindow: 1})
	m.SetSize(100, 30)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	out := m.View()
	if !strings.Contains(out, "2 of 4 unlocked") {
		t.Fatalf("expected first-strum and speedster unlocked:\n%s", out)
	}
}

func TestCloseKeyEmitsCloseMsg(t *testing.T) {
	m := NewModel(seededStore(t), Config{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	if _, ok := cmd().(CloseMsg); !ok {
		t.Fatalf("expected CloseMsg")
	}
}

func TestFilterByPattern(t *testing.T) {
	m := NewModel(seededStore(t), Config{TimeLimits: map[int]int{1: 20, 3: 25}, CurveWindow: 1})
	m.SetSize(100, 30)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("filter should be applied: %s", m.filterError)
	}
	if m.report.Summary.Attempts != 1 || m.report.Summary.Successes != 0 {
		t.Fatalf("unexpected filtered summary: %+v", m.report.Summary)
	}
}
