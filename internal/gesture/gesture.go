// Package gesture turns raw pointer gestures into strum directions.
package gesture

import (
	"math"

	"github.com/verte-zerg/tuistrum/internal/catalog"
)

// DefaultMinDistance is the vertical travel a gesture must exceed to count as a strum.
const DefaultMinDistance = 20.0

// Point is a position in gesture space. Y grows downward.
type Point struct {
	X float64
	Y float64
}

// Classify maps a gesture to a strum direction. Only the vertical component is
// used; a travel of at most minDistance is a tap and yields ok == false.
func Classify(start, end Point, minDistance float64) (dir catalog.Direction, ok bool) {
	delta := end.Y - start.Y
	if math.Abs(delta) <= minDistance {
		return "", false
	}
	if delta > 0 {
		return catalog.Down, true
	}
	return catalog.Up, true
}

// Tracker pairs pointer presses and releases and classifies the result.
// Screen coordinates are converted to gesture space with RowScale, so a view
// drawn in terminal cells can share the same threshold as any other surface.
type Tracker struct {
	MinDistance float64
	RowScale    float64
	// Rotated swaps the axes, for views whose strings run vertically.
	Rotated bool

	start   Point
	pressed bool
}

// NewTracker returns a tracker with the given threshold and row scale.
func NewTracker(minDistance, rowScale float64) *Tracker {
	if rowScale <= 0 {
		rowScale = 1
	}
	return &Tracker{MinDistance: minDistance, RowScale: rowScale}
}

// Press records the start of a gesture at screen cell (x, y).
func (t *Tracker) Press(x, y int) {
	t.start = t.toGesture(x, y)
	t.pressed = true
}

// Release ends the gesture at screen cell (x, y) and classifies it. A release
// without a matching press is ignored.
func (t *Tracker) Release(x, y int) (catalog.Direction, bool) {
	if !t.pressed {
		return "", false
	}
	t.pressed = false
	return Classify(t.start, t.toGesture(x, y), t.MinDistance)
}

// Cancel drops an in-progress gesture.
func (t *Tracker) Cancel() {
	t.pressed = false
}

func (t *Tracker) toGesture(x, y int) Point {
	scale := t.RowScale
	if scale <= 0 {
		scale = 1
	}
	if t.Rotated {
		return Point{X: float64(y) * scale, Y: float64(x) * scale}
	}
	return Point{X: float64(x), Y: float64(y) * scale}
}
