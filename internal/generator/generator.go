// Package generator picks the next practice pattern.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/tuistrum/internal/catalog"
)

// Generator produces randomized pattern choices.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick selects a pattern uniformly, avoiding currentID when another pattern
// is available. It returns nil for an empty list.
func (g *Generator) Pick(patterns []*catalog.Pattern, currentID int) *catalog.Pattern {
	return g.PickWeighted(patterns, currentID, nil, 0)
}

// PickWeighted selects a pattern with a bias toward weak patterns: each weak
// pattern weighs 1+factor, every other pattern 1.
func (g *Generator) PickWeighted(patterns []*catalog.Pattern, currentID int, weakSet map[int]struct{}, factor float64) *catalog.Pattern {
	candidates := make([]*catalog.Pattern, 0, len(patterns))
	for _, p := range patterns {
		if p.ID != currentID {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		candidates = patterns
	}
	if len(candidates) == 0 {
		return nil
	}

	weights := make([]float64, len(candidates))
	total := 0.0
	for i, p := range candidates {
		w := 1.0
		if _, ok := weakSet[p.ID]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}

	r := g.rnd.Float64() * total
	acc := 0.0
	idx := len(candidates) - 1
	for j, w := range weights {
		acc += w
		if r <= acc {
			idx = j
			break
		}
	}
	return candidates[idx]
}
