package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/tuistrum/internal/catalog"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		start  Point
		end    Point
		wantOK bool
		want   catalog.Direction
	}{
		{"down swipe", Point{0, 10}, Point{0, 50}, true, catalog.Down},
		{"up swipe", Point{0, 50}, Point{0, 10}, true, catalog.Up},
		{"tap", Point{0, 10}, Point{0, 15}, false, ""},
		{"exactly threshold down", Point{0, 0}, Point{0, 20}, false, ""},
		{"exactly threshold up", Point{0, 20}, Point{0, 0}, false, ""},
		{"just over threshold", Point{0, 0}, Point{0, 20.5}, true, catalog.Down},
		{"horizontal only", Point{0, 0}, Point{300, 0}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.start, tt.end, DefaultMinDistance)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	a, b := Point{3, 7}, Point{-4, 61}
	first, firstOK := Classify(a, b, 20)
	for i := 0; i < 10; i++ {
		got, ok := Classify(a, b, 20)
		assert.Equal(t, first, got)
		assert.Equal(t, firstOK, ok)
	}
}

func TestTrackerScalesRows(t *testing.T) {
	tr := NewTracker(DefaultMinDistance, 8)

	tr.Press(10, 2)
	dir, ok := tr.Release(40, 5) // 3 rows * 8 = 24 units
	assert.True(t, ok)
	assert.Equal(t, catalog.Down, dir)

	tr.Press(10, 5)
	_, ok = tr.Release(10, 3) // 2 rows * 8 = 16 units
	assert.False(t, ok)
}

func TestTrackerReleaseWithoutPress(t *testing.T) {
	tr := NewTracker(DefaultMinDistance, 8)
	_, ok := tr.Release(0, 30)
	assert.False(t, ok)

	tr.Press(0, 30)
	tr.Cancel()
	_, ok = tr.Release(0, 0)
	assert.False(t, ok)
}

func TestTrackerRotated(t *testing.T) {
	tr := NewTracker(DefaultMinDistance, 1)
	tr.Rotated = true
	tr.Press(50, 0)
	dir, ok := tr.Release(10, 0)
	assert.True(t, ok)
	assert.Equal(t, catalog.Up, dir)
}
