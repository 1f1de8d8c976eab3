// Package timer implements the per-session practice countdown.
package timer

// Countdown counts whole seconds down to zero. It does not own a clock: the
// caller delivers ticks, each tagged with the generation returned by Start.
// Restarting or stopping bumps the generation, so ticks scheduled for an
// earlier run are ignored.
type Countdown struct {
	remaining  int
	running    bool
	generation uint64
	onExpire   func()
}

// New returns a stopped countdown that calls onExpire when a run reaches zero.
func New(onExpire func()) *Countdown {
	return &Countdown{onExpire: onExpire}
}

// Start begins a new run of the given length, cancelling any previous run.
func (c *Countdown) Start(seconds int) uint64 {
	c.generation++
	if seconds <= 0 {
		c.remaining = 0
		c.running = false
		return c.generation
	}
	c.remaining = seconds
	c.running = true
	return c.generation
}

// Tick decrements the current run by one second. It returns false when the
// tick belongs to another generation or the countdown is not running. The
// expiry callback fires once, on the tick that reaches zero.
func (c *Countdown) Tick(generation uint64) bool {
	if !c.running || generation != c.generation {
		return false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.running = false
		if c.onExpire != nil {
			c.onExpire()
		}
	}
	return true
}

// Stop cancels the current run. Remaining time is kept for display.
func (c *Countdown) Stop() {
	if c.running {
		c.running = false
	}
	c.generation++
}

// Reset stops the countdown and clears the remaining time.
func (c *Countdown) Reset() {
	c.Stop()
	c.remaining = 0
}

// Remaining returns the seconds left in the current or last run.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Running reports whether a run is in progress.
func (c *Countdown) Running() bool {
	return c.running
}
