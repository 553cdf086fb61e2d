package types

import (
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/logging"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/monitoring"
)

// Context aggregates the collaborators the engine borrows from its host
type Context struct {
	Games    GameProvider
	Resolver MediaResolver
	Renderer Renderer
	Launcher Launcher
	Effects  EffectClient
	Commands CommandHandler

	Logger  *logging.Logger
	Metrics *monitoring.Metrics

	// Now is the engine clock. Tests substitute a manual clock.
	Now func() time.Time
}

// Clock returns Now, defaulting to the wall clock
func (c *Context) Clock() func() time.Time {
	if c == nil || c.Now == nil {
		return time.Now
	}
	return c.Now
}
