package mode

import (
	"fmt"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/media"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/running"
	"go.uber.org/zap"
)

// SwitchGame moves the selection by n games and animates the wheel.
// Repeated switches while the wheel is still sliding use fast timing.
func (c *Controller) SwitchGame(n int) {
	games := c.ctx.Games
	if n == 0 || games == nil || games.Count() == 0 || c.running.State() != running.None {
		return
	}

	now := c.now()
	c.fast = c.wheel.Animating()
	games.SetSelection(n)
	if c.wheel.Switch(n, c.fast, now) {
		c.log.Debug("wheel reseeded", zap.Int("distance", n))
	}
	if n > 0 {
		c.effects.Pulse("PBYWheelNext")
	} else {
		c.effects.Pulse("PBYWheelPrev")
	}
	c.clock.StartIfNeeded(now)

	c.loadPlayfield(now)
	c.loadWheelImages()
	c.events.Fire("gameselect", map[string]any{"game": games.CurrentSelection()})
}

// loadPlayfield starts the crossfade to the selection's playfield media
func (c *Controller) loadPlayfield(now time.Time) {
	if c.ctx.Games == nil || c.media == nil {
		return
	}
	game := c.ctx.Games.CurrentSelection()
	if game.IsZero() {
		return
	}

	seq := c.playfield.Request(game, now)
	c.clock.StartIfNeeded(now)
	c.media.AsyncLoad("playfield", media.Request{
		Game:   game,
		Kinds:  c.cfg.PlayfieldKinds,
		Width:  c.cfg.Width,
		Height: c.cfg.Height,
	}, func(m types.Media) {
		if c.playfield.Seq() != seq {
			return
		}
		now := c.now()
		c.playfield.SetMedia(m, now)
		c.clock.StartIfNeeded(now)
	})
}

// loadWheelImages loads wheel images for slots that don't have one yet.
// Each game gets its own slot so loads for different games don't
// supersede each other.
func (c *Controller) loadWheelImages() {
	if c.media == nil {
		return
	}
	for _, game := range c.wheel.MissingMedia() {
		if c.wheelLoading[game.ID] {
			continue
		}
		c.wheelLoading[game.ID] = true
		gameID := game.ID
		c.media.AsyncLoad("wheel/"+gameID, media.Request{
			Game:   game,
			Kinds:  c.cfg.WheelKinds,
			Width:  c.cfg.Width / 4,
			Height: c.cfg.Height / 8,
		}, func(m types.Media) {
			delete(c.wheelLoading, gameID)
			c.wheel.SetGameMedia(gameID, m)
		})
	}
}

// RequestLaunch launches the current selection. The prelaunch event can
// cancel it. Lifecycle notices from the launcher are posted back to the
// UI thread.
func (c *Controller) RequestLaunch() error {
	if c.running.State() != running.None {
		return ErrGameRunning
	}
	game := c.ctx.Games.CurrentSelection()
	if game.IsZero() {
		return ErrNoGame
	}
	if !c.events.Fire("prelaunch", map[string]any{"game": game}) {
		c.metrics.RecordCanceled("launch")
		return ErrCanceled
	}
	if c.running.State() != running.None {
		return ErrGameRunning
	}

	c.effects.Pulse("PBYLaunch")
	c.CloseMenusAndPopups()
	if c.ctx.Launcher == nil {
		return fmt.Errorf("launch %s: no launcher", game.ID)
	}

	err := c.ctx.Launcher.Launch(game, func(n types.LaunchNotice) {
		if c.post == nil {
			c.HandleLaunchNotice(n)
			return
		}
		if err := c.post(func() { c.HandleLaunchNotice(n) }); err != nil {
			c.log.Warn("launch notice lost", zap.Stringer("event", n.Event), zap.Error(err))
		}
	})
	if err != nil {
		c.ShowError(fmt.Sprintf("Unable to launch %s: %v", game.Title, err))
		return fmt.Errorf("launch %s: %w", game.ID, err)
	}
	c.log.Info("game launched", zap.String("game", game.ID))
	return nil
}

// HandleLaunchNotice applies a launcher lifecycle notice. Must run on the
// UI thread.
func (c *Controller) HandleLaunchNotice(n types.LaunchNotice) {
	now := c.now()
	switch n.Event {
	case types.LaunchStarting:
		if !c.running.Starting(n.Game, now) {
			return
		}
		c.incoming = nil
		c.dropMenu()
		c.dropPopup()
		c.wheel.FadeOut(now)
		c.stopAttract()
		c.effects.Set("PBYRunning", 1)
		c.clock.StartIfNeeded(now)
		c.fireClosed()
		c.events.Fire("gamestarted", map[string]any{"game": n.Game})
	case types.LaunchLoaded:
		c.running.Loaded()
	case types.LaunchExited:
		game := c.running.Game()
		if !c.running.Exited(now) {
			return
		}
		c.effects.Set("PBYRunning", 0)
		c.clock.StartIfNeeded(now)
		c.events.Fire("gameover", map[string]any{"game": game})
		if n.Err != nil {
			c.errors = append(c.errors, fmt.Sprintf("The game exited with an error: %v", n.Err))
		}
	}
	c.syncMode()
}

// gameOver restores the wheel once the overlay has faded out
func (c *Controller) gameOver(now time.Time) {
	c.lastInput = now
	c.wheel.Reset()
	c.wheel.FadeIn(now)
	c.clock.StartIfNeeded(now)
	c.loadPlayfield(now)
	c.loadWheelImages()
	c.showNextError()
}

// SetFilter applies a game filter. The filterselect event can cancel it.
func (c *Controller) SetFilter(id string) error {
	if c.running.State() != running.None {
		return ErrGameRunning
	}
	if !c.events.Fire("filterselect", map[string]any{"id": id}) {
		c.metrics.RecordCanceled("filter")
		return ErrCanceled
	}
	if err := c.ctx.Games.SetFilter(id); err != nil {
		return fmt.Errorf("set filter %q: %w", id, err)
	}

	now := c.now()
	c.wheel.Reset()
	c.loadPlayfield(now)
	c.loadWheelImages()
	c.events.Fire("gameselect", map[string]any{"game": c.ctx.Games.CurrentSelection()})
	return nil
}

// SaveSettings runs save between the settingspresave and
// settingspostsave events
func (c *Controller) SaveSettings(save func() error) error {
	c.events.Fire("settingspresave", nil)
	err := save()
	c.events.Fire("settingspostsave", map[string]any{"succeeded": err == nil})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
