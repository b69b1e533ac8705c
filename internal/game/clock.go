package game

// frameClock holds the tick scheduled for the next ebiten update. Ebiten
// calls Update once per frame, so at most one tick is pending.
type frameClock struct {
	next func()
}

func (c *frameClock) Schedule(fn func()) { c.next = fn }

// run fires the pending tick, if any. The tick may schedule the next one.
func (c *frameClock) run() {
	fn := c.next
	c.next = nil
	if fn != nil {
		fn()
	}
}

func (c *frameClock) pending() bool { return c.next != nil }
