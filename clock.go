package moonlight

// FixedStep is the simulated time added to the GlobalClock on every tick.
const FixedStep = 0.016

// GlobalClock is the single simulated-time scalar every phase-based motion
// derives from. It never goes backwards.
type GlobalClock struct {
	T     float64
	Ticks uint64
}

// Advance moves the clock forward by dt. Non-positive steps are ignored.
func (c *GlobalClock) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	c.T += dt
	c.Ticks++
}
