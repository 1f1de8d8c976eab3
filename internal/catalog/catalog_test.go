package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogInvariants(t *testing.T) {
	c := Default()
	require.Equal(t, 10, c.Len())

	seen := map[int]bool{}
	minDiff, maxDiff := MaxDifficulty, MinDifficulty
	for _, p := range c.All() {
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
		assert.GreaterOrEqual(t, p.Len(), 4, "pattern %d", p.ID)
		assert.LessOrEqual(t, p.Len(), 8, "pattern %d", p.ID)
		assert.Equal(t, DifficultyLabel(p.Difficulty), p.DifficultyLabel, "pattern %d", p.ID)
		assert.NotEmpty(t, p.Tips, "pattern %d", p.ID)
		if p.Difficulty < minDiff {
			minDiff = p.Difficulty
		}
		if p.Difficulty > maxDiff {
			maxDiff = p.Difficulty
		}
	}
	assert.Equal(t, MinDifficulty, minDiff)
	assert.Equal(t, MaxDifficulty, maxDiff)
}

func TestDefaultCatalogClassicRock(t *testing.T) {
	p, ok := Default().ByID(3)
	require.True(t, ok)
	assert.Equal(t, []Direction{Down, Down, Up, Up, Down, Up}, p.Sequence)
	assert.Equal(t, 3, p.Difficulty)
	assert.InDelta(t, 500, p.TargetSpeedMillis, 0.001)
}

func TestNewRejectsInvalidPatterns(t *testing.T) {
	valid := func() Pattern {
		return Pattern{
			ID:                1,
			Name:              "x",
			Sequence:          []Direction{Down},
			Difficulty:        1,
			DifficultyLabel:   "Beginner",
			BPM:               60,
			TimeLimitSeconds:  10,
			TargetSpeedMillis: 500,
		}
	}
	tests := []struct {
		name   string
		mutate func(p *Pattern)
		field  string
	}{
		{"empty sequence", func(p *Pattern) { p.Sequence = nil }, "sequence"},
		{"unknown direction", func(p *Pattern) { p.Sequence = []Direction{"sideways"} }, "sequence"},
		{"difficulty too high", func(p *Pattern) { p.Difficulty = 6 }, "difficulty"},
		{"label mismatch", func(p *Pattern) { p.DifficultyLabel = "Expert" }, "difficulty-label"},
		{"unknown label", func(p *Pattern) { p.DifficultyLabel = "Legendary" }, "difficulty-label"},
		{"zero time limit", func(p *Pattern) { p.TimeLimitSeconds = 0 }, "time-limit"},
		{"zero target", func(p *Pattern) { p.TargetSpeedMillis = 0 }, "target-speed-ms"},
		{"zero id", func(p *Pattern) { p.ID = 0 }, "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			_, err := New([]Pattern{p})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPattern))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	p := Pattern{ID: 7, Name: "a", Sequence: []Direction{Up}, Difficulty: 2, DifficultyLabel: "Easy", BPM: 90, TimeLimitSeconds: 5, TargetSpeedMillis: 300}
	_, err := New([]Pattern{p, p})
	require.ErrorIs(t, err, ErrInvalidPattern)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestCatalogDoesNotAliasInput(t *testing.T) {
	in := []Pattern{{ID: 1, Name: "a", Sequence: []Direction{Down, Up}, Difficulty: 1, DifficultyLabel: "Beginner", BPM: 80, TimeLimitSeconds: 5, TargetSpeedMillis: 500}}
	c, err := New(in)
	require.NoError(t, err)
	in[0].Sequence[0] = Up
	p, _ := c.ByID(1)
	assert.Equal(t, Down, p.Sequence[0])
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("patterns:\n  - id: 1\n    colour: red\n"))
	require.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	c, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), c.Len())

	path := filepath.Join(t.TempDir(), "patterns.yaml")
	doc := `patterns:
  - id: 42
    name: Two Downs
    sequence: [down, d]
    difficulty: 1
    difficulty-label: Beginner
    bpm: 60
    time-limit: 10
    target-speed-ms: 1000
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	_, err = LoadOrDefault(path)
	require.ErrorIs(t, err, ErrInvalidPattern, "short form 'd' is not a catalog direction")
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"d": Down, "DOWN": Down, " u ": Up, "up": Up} {
		got, ok := ParseDirection(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseDirection("left")
	assert.False(t, ok)
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", Stars(3))
	assert.Equal(t, "★★★★★", Stars(9))
}
