// Package catalog defines strumming patterns and the read-only pattern catalog.
package catalog

import "strings"

// Direction is a single strum direction.
type Direction string

const (
	Down Direction = "down"
	Up   Direction = "up"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Down || d == Up
}

// Arrow returns the glyph used to display the direction.
func (d Direction) Arrow() string {
	switch d {
	case Down:
		return "↓"
	case Up:
		return "↑"
	default:
		return "?"
	}
}

// ParseDirection accepts "down", "d", "up" and "u" (case-insensitive).
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "down", "d":
		return Down, true
	case "up", "u":
		return Up, true
	default:
		return "", false
	}
}

// FormatSequence renders a sequence as arrows separated by spaces.
func FormatSequence(seq []Direction) string {
	parts := make([]string, len(seq))
	for i, d := range seq {
		parts[i] = d.Arrow()
	}
	return strings.Join(parts, " ")
}

// MinDifficulty and MaxDifficulty bound Pattern.Difficulty.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

var difficultyLabels = [...]string{
	1: "Beginner",
	2: "Easy",
	3: "Intermediate",
	4: "Advanced",
	5: "Expert",
}

// DifficultyLabel returns the fixed label for a difficulty, or "" when out of range.
func DifficultyLabel(difficulty int) string {
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return ""
	}
	return difficultyLabels[difficulty]
}

// Stars renders a difficulty as filled and empty stars.
func Stars(difficulty int) string {
	if difficulty < 0 {
		difficulty = 0
	}
	if difficulty > MaxDifficulty {
		difficulty = MaxDifficulty
	}
	return strings.Repeat("★", difficulty) + strings.Repeat("☆", MaxDifficulty-difficulty)
}

// Pattern is an immutable strumming pattern definition.
type Pattern struct {
	ID                int         `yaml:"id"`
	Name              string      `yaml:"name"`
	Description       string      `yaml:"description"`
	Sequence          []Direction `yaml:"sequence"`
	Difficulty        int         `yaml:"difficulty"`
	DifficultyLabel   string      `yaml:"difficulty-label"`
	BPM               int         `yaml:"bpm"`
	TimeLimitSeconds  int         `yaml:"time-limit"`
	TargetSpeedMillis float64     `yaml:"target-speed-ms"`
	Instructions      string      `yaml:"instructions"`
	Tips              []string    `yaml:"tips"`
}

// Len returns the number of strums in the pattern.
func (p *Pattern) Len() int {
	return len(p.Sequence)
}

// Catalog is an ordered, read-only list of validated patterns.
type Catalog struct {
	patterns []*Pattern
	byID     map[int]*Pattern
}

// New validates the patterns and builds a catalog preserving their order.
func New(patterns []Pattern) (*Catalog, error) {
	if len(patterns) == 0 {
		return nil, &ValidationError{Field: "patterns", Reason: "catalog is empty"}
	}
	c := &Catalog{
		patterns: make([]*Pattern, 0, len(patterns)),
		byID:     make(map[int]*Pattern, len(patterns)),
	}
	for i := range patterns {
		p := clonePattern(patterns[i])
		if err := Validate(p); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, &ValidationError{PatternID: p.ID, Field: "id", Reason: "duplicate id"}
		}
		c.patterns = append(c.patterns, p)
		c.byID[p.ID] = p
	}
	return c, nil
}

// Len returns the number of patterns.
func (c *Catalog) Len() int {
	return len(c.patterns)
}

// At returns the pattern at index i in catalog order.
func (c *Catalog) At(i int) *Pattern {
	return c.patterns[i]
}

// All returns the patterns in catalog order. The slice is a copy; the
// patterns are shared and must not be modified.
func (c *Catalog) All() []*Pattern {
	out := make([]*Pattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}

// ByID looks up a pattern by id.
func (c *Catalog) ByID(id int) (*Pattern, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// IndexOf returns the catalog position of the pattern with the given id, or -1.
func (c *Catalog) IndexOf(id int) int {
	for i, p := range c.patterns {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func clonePattern(p Pattern) *Pattern {
	out := p
	out.Sequence = append([]Direction(nil), p.Sequence...)
	out.Tips = append([]string(nil), p.Tips...)
	return &out
}
