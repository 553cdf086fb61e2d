package mode

import (
	"time"

	"go.uber.org/zap"
)

// Attract runs attract mode as a loop stage: after IdleTime without
// input the wheel starts switching by itself every SwitchTime.
type Attract struct {
	c *Controller
}

// Attract returns the controller's attract mode stage
func (c *Controller) Attract() Attract { return Attract{c: c} }

// AttractActive reports whether attract mode is running
func (c *Controller) AttractActive() bool { return c.attract }

// Step implements loop.Stage
func (a Attract) Step(now time.Time) {
	c := a.c
	if !c.cfg.Attract.Enabled || c.Mode() != Wheel {
		return
	}

	if !c.attract {
		if now.Sub(c.lastInput) < c.cfg.Attract.IdleTime {
			return
		}
		if !c.events.Fire("attractmodestart", nil) {
			c.lastInput = now
			return
		}
		c.attract = true
		c.nextAttract = now.Add(c.cfg.Attract.SwitchTime)
		c.log.Debug("attract mode started")
		return
	}

	if now.Before(c.nextAttract) {
		return
	}
	c.nextAttract = now.Add(c.cfg.Attract.SwitchTime)
	c.SwitchGame(1)
}

// NextDeadline implements loop.Stage
func (a Attract) NextDeadline() (time.Time, bool) {
	c := a.c
	if !c.cfg.Attract.Enabled || c.Mode() != Wheel {
		return time.Time{}, false
	}
	if c.attract {
		return c.nextAttract, true
	}
	return c.lastInput.Add(c.cfg.Attract.IdleTime), true
}

func (c *Controller) stopAttract() {
	if !c.attract {
		return
	}
	c.attract = false
	c.lastInput = c.now()
	c.events.Fire("attractmodeend", nil)
	c.log.Debug("attract mode ended", zap.Time("at", c.lastInput))
}
