// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuistrum/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SuccessRate returns the share of successful attempts for a pattern.
func SuccessRate(agg model.PatternAggregate) float64 {
	if agg.Attempts <= 0 {
		return 0
	}
	return float64(agg.Successes) / float64(agg.Attempts)
}

// AvgInterval returns the mean strum interval over timed attempts.
func AvgInterval(agg model.PatternAggregate) (float64, bool) {
	if agg.AvgIntervalN <= 0 {
		return 0, false
	}
	return agg.AvgIntervalSum / float64(agg.AvgIntervalN), true
}

// Summary aggregates a run across all patterns.
type Summary struct {
	Attempts        int
	Successes       int
	Timeouts        int
	TotalPoints     int
	BestPoints      int
	PatternsLearned int
}

// SuccessRate returns the share of successful attempts in the run.
func (s Summary) SuccessRate() float64 {
	if s.Attempts <= 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Attempts)
}

// Summarize folds per-pattern aggregates into a run summary. A pattern counts
// as learned once it has at least one success.
func Summarize(aggs []model.PatternAggregate) Summary {
	var s Summary
	for _, agg := range aggs {
		s.Attempts += agg.Attempts
		s.Successes += agg.Successes
		s.Timeouts += agg.Timeouts
		s.TotalPoints += agg.TotalPoints
		if agg.BestPoints > s.BestPoints {
			s.BestPoints = agg.BestPoints
		}
		if agg.Successes > 0 {
			s.PatternsLearned++
		}
	}
	return s
}

// PointsSeries returns the points of each attempt, smoothed over window.
func PointsSeries(attempts []model.AttemptAggregate, window int) []float64 {
	values := make([]float64, len(attempts))
	for i, a := range attempts {
		values[i] = float64(a.Points)
	}
	return MovingAverage(values, window)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a run summary.
func RenderSummary(w io.Writer, s Summary) error {
	if s.Attempts == 0 {
		_, err := fmt.Fprintln(w, "No attempts yet.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", s.Attempts),
		fmt.Sprintf("Successes: %d (%.0f%%)", s.Successes, s.SuccessRate()*100),
		fmt.Sprintf("Timeouts: %d", s.Timeouts),
		fmt.Sprintf("Total points: %d", s.TotalPoints),
		fmt.Sprintf("Best attempt: %d", s.BestPoints),
		fmt.Sprintf("Patterns learned: %d", s.PatternsLearned),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PatternRows formats per-pattern aggregates as table cells.
func PatternRows(aggs []model.PatternAggregate) [][]string {
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		interval := "-"
		if avg, ok := AvgInterval(agg); ok {
			interval = fmt.Sprintf("%.0f", avg)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", agg.PatternID),
			agg.PatternName,
			fmt.Sprintf("%d", agg.Attempts),
			fmt.Sprintf("%.0f%%", SuccessRate(agg)*100),
			fmt.Sprintf("%d", agg.BestPoints),
			interval,
		})
	}
	return rows
}

// PatternHeaders are the column titles matching PatternRows.
var PatternHeaders = []string{"ID", "Pattern", "Attempts", "Success", "Best", "Avg ms"}

// RenderPatternTable prints per-pattern aggregates.
func RenderPatternTable(w io.Writer, aggs []model.PatternAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No pattern stats found.")
		return err
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(PatternHeaders, PatternRows(aggs), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
