package realtime

// Countdown holds the whole-second timing state of one round. It does not own
// a timer; the caller drives it with Tick from whatever clock it uses and
// reacts to expiry by updating its own state.
type Countdown struct {
	Total int
	Left  int
}

// NewCountdown returns a countdown armed at total seconds.
func NewCountdown(total int) Countdown {
	if total < 0 {
		total = 0
	}
	return Countdown{Total: total, Left: total}
}

// Reset re-arms the countdown at its total.
func (c *Countdown) Reset() {
	c.Left = c.Total
}

// Tick removes one second. expired is true only on the tick that takes Left
// to zero; ticks on an already expired countdown leave it at zero and report
// false.
func (c *Countdown) Tick() (left int, expired bool) {
	if c.Left <= 0 {
		c.Left = 0
		return 0, false
	}
	if c.Left <= 1 {
		c.Left = 0
		return 0, true
	}
	c.Left--
	return c.Left, false
}

// Expired reports whether the countdown has reached zero.
func (c Countdown) Expired() bool {
	return c.Left <= 0
}
