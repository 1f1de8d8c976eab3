package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/tuistrum/internal/catalog"
	"github.com/verte-zerg/tuistrum/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Pattern", "Success", "Best"}
	rows := [][]string{
		{"Basic Down", "97%", "60"},
		{"Folk", "8%", "0"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Pattern    Success Best" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Basic Down     97%   60" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Folk            8%    0" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableCountsArrowWidth(t *testing.T) {
	lines := formatTable([]string{"Seq", "X"}, [][]string{{"↓ ↑", "1"}}, nil)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if displayWidth(lines[0]) != displayWidth(lines[1]) {
		t.Fatalf("misaligned rows: %q vs %q", lines[0], lines[1])
	}
}

func TestRenderCatalog(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCatalog(&buf, catalog.Default()); err != nil {
		t.Fatalf("RenderCatalog: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 11 {
		t.Fatalf("expected header plus 10 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID Name") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	found := false
	for _, line := range lines[1:] {
		if strings.Contains(line, "Classic Rock") && strings.HasSuffix(line, "↓ ↓ ↑ ↑ ↓ ↑") {
			found = true
		}
	}
	if !found {
		t.Fatalf("Classic Rock row not found:\n%s", buf.String())
	}
}

func TestRenderPatternTable(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.PatternAggregate{
		{PatternID: 3, PatternName: "Classic Rock", Attempts: 4, Successes: 3, BestPoints: 60, AvgIntervalSum: 900, AvgIntervalN: 3},
	}
	if err := RenderPatternTable(&buf, aggs); err != nil {
		t.Fatalf("RenderPatternTable: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "75%") || !strings.Contains(out, "300") {
		t.Fatalf("unexpected table:\n%s", out)
	}

	buf.Reset()
	if err := RenderPatternTable(&buf, nil); err != nil {
		t.Fatalf("RenderPatternTable: %v", err)
	}
	if buf.String() != "No pattern stats found.\n" {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}
}
