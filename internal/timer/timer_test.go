package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownExpiresOnce(t *testing.T) {
	fired := 0
	c := New(func() { fired++ })
	gen := c.Start(3)

	require.True(t, c.Tick(gen))
	require.True(t, c.Tick(gen))
	assert.Equal(t, 1, c.Remaining())
	assert.Equal(t, 0, fired)

	require.True(t, c.Tick(gen))
	assert.Equal(t, 0, c.Remaining())
	assert.Equal(t, 1, fired)
	assert.False(t, c.Running())

	assert.False(t, c.Tick(gen), "halted countdown must ignore ticks")
	assert.Equal(t, 0, c.Remaining())
	assert.Equal(t, 1, fired)
}

func TestCountdownRestartCancelsPreviousRun(t *testing.T) {
	fired := 0
	c := New(func() { fired++ })
	old := c.Start(1)
	fresh := c.Start(5)

	assert.False(t, c.Tick(old))
	assert.Equal(t, 5, c.Remaining())
	assert.True(t, c.Tick(fresh))
	assert.Equal(t, 4, c.Remaining())
	assert.Equal(t, 0, fired)
}

func TestCountdownStop(t *testing.T) {
	fired := 0
	c := New(func() { fired++ })
	gen := c.Start(1)
	c.Stop()

	assert.False(t, c.Tick(gen))
	assert.Equal(t, 0, fired)
	assert.Equal(t, 1, c.Remaining())

	c.Reset()
	assert.Equal(t, 0, c.Remaining())
}

func TestCountdownNonPositiveStart(t *testing.T) {
	c := New(nil)
	gen := c.Start(0)
	assert.False(t, c.Running())
	assert.False(t, c.Tick(gen))
}
