package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/effects"
	"github.com/mjrgh/PinballY-sub000/internal/engine/clock"
	"github.com/mjrgh/PinballY-sub000/internal/engine/loop"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/config"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/monitoring"
	"github.com/mjrgh/PinballY-sub000/internal/media"
	"github.com/mjrgh/PinballY-sub000/internal/script"
	"github.com/mjrgh/PinballY-sub000/internal/shared/id"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/menu"
	"github.com/mjrgh/PinballY-sub000/internal/ui/mode"
	"github.com/mjrgh/PinballY-sub000/internal/ui/playfield"
	"github.com/mjrgh/PinballY-sub000/internal/ui/popup"
	"github.com/mjrgh/PinballY-sub000/internal/ui/running"
	"github.com/mjrgh/PinballY-sub000/internal/ui/wheel"
	"go.uber.org/zap"
)

// Engine wires the loop, clock, controller and bridges together
type Engine struct {
	cfg     *config.Config
	ctx     *types.Context
	log     *zap.Logger
	metrics *monitoring.Metrics

	loop     *loop.Loop
	clock    *clock.Clock
	ctrl     *mode.Controller
	bridge   *script.Bridge
	effects  *effects.Queue
	client   effects.Client
	media    *media.Orchestrator
	resolver *media.PatternResolver
	frame    *frameStage
}

// New builds an engine. ctx.Games is required; a missing resolver is
// replaced by a pattern resolver over cfg.Media.Root and a missing
// effect client by the one cfg.Effects names.
func New(cfg *config.Config, ctx *types.Context) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if ctx == nil || ctx.Games == nil {
		return nil, fmt.Errorf("engine: a game provider is required")
	}
	log := ctx.Logger.Component("engine")
	now := ctx.Clock()

	e := &Engine{
		cfg:     cfg,
		ctx:     ctx,
		log:     log,
		metrics: ctx.Metrics,
	}

	if ctx.Resolver == nil {
		e.resolver = media.NewResolver(cfg.Media.Root, cfg.Media.Patterns)
		ctx.Resolver = e.resolver
	}

	if ctx.Effects == nil {
		client, err := effects.NewClient(cfg.Effects, ctx.Logger.Component("effects"))
		if err != nil {
			log.Warn("effects device unavailable, pulses disabled", zap.Error(err))
			client = effects.Disabled{}
		}
		e.client = client
		ctx.Effects = client
	}
	e.effects = effects.NewQueue(effects.Config{
		Interval: cfg.Effects.Interval.Std(),
		Now:      now,
	}, ctx.Effects, ctx.Logger.Component("effects"), ctx.Metrics)

	e.clock = clock.New(cfg.Loop.TickInterval.Std(), ctx.Logger.Component("clock"), ctx.Metrics)
	e.bridge = script.New(script.Config{
		CallTimeout: cfg.Script.CallTimeout.Std(),
		Now:         now,
	}, nil, ctx.Logger.Component("script"), ctx.Metrics)

	// the loop is built last but the orchestrator and controller post
	// through it, so they get a forwarding closure
	post := func(fn func()) error { return e.loop.Post(fn) }

	e.media = media.New(media.Config{
		Workers:  cfg.Media.Workers,
		Defaults: cfg.Media.Defaults,
	}, media.FileLoader{}, ctx.Resolver, post, ctx.Logger.Component("media"), ctx.Metrics)

	e.ctrl = mode.New(controllerConfig(cfg), ctx, mode.Deps{
		Clock:   e.clock,
		Events:  e.bridge,
		Effects: e.effects,
		Media:   e.media,
		Post:    post,
	})
	e.bridge.SetHost(&host{ctrl: e.ctrl, games: ctx.Games, effects: e.effects})

	e.frame = &frameStage{ctrl: e.ctrl, renderer: ctx.Renderer}
	e.loop = loop.New(loop.Config{
		QueueSize: cfg.Loop.QueueSize,
		Now:       now,
	}, loop.Stages{
		Input:   e.ctrl.HandleInput,
		Clock:   e.clock,
		Tasks:   e.bridge,
		Timers:  e.ctrl.Attract(),
		Effects: e.effects,
		Frame:   e.frame,
	}, ctx.Logger.Component("loop"), ctx.Metrics)

	log.Info("engine initialized",
		zap.Int("games", ctx.Games.Count()),
		zap.Duration("tick", cfg.Loop.TickInterval.Std()),
		zap.Int("media_workers", cfg.Media.Workers))
	return e, nil
}

func controllerConfig(cfg *config.Config) mode.Config {
	bindings := make(map[string]types.Command, len(cfg.Input.Bindings))
	for key, cmd := range cfg.Input.Bindings {
		bindings[key] = types.Command(cmd)
	}
	timing := func(a config.AnimConfig) (open, shut, fast time.Duration) {
		return a.Open.Std(), a.Close.Std(), a.Fast.Std()
	}

	var c mode.Config
	c.Menu.Open, c.Menu.Close, c.Menu.Fast = timing(cfg.Menu)
	c.Popup.Open, c.Popup.Close, c.Popup.Fast = timing(cfg.Popup)
	c.Popup.LoadTimeout = cfg.Media.LoadTimeout.Std()
	c.Running = running.Timing{Open: cfg.Running.Open.Std(), Close: cfg.Running.Close.Std()}
	c.Wheel = wheel.Config{
		Step:            cfg.Wheel.Step.Std(),
		FastStep:        cfg.Wheel.FastStep.Std(),
		Fade:            cfg.Wheel.Fade.Std(),
		ReseedThreshold: cfg.Wheel.ReseedThreshold,
	}
	c.Playfield = playfield.Timing{
		Crossfade:   cfg.Playfield.Crossfade.Std(),
		LoadTimeout: cfg.Media.LoadTimeout.Std(),
	}
	c.Attract = mode.AttractConfig{
		Enabled:    cfg.Attract.Enabled,
		IdleTime:   cfg.Attract.IdleTime.Std(),
		SwitchTime: cfg.Attract.SwitchTime.Std(),
	}
	c.Bindings = bindings
	c.ExitKeySelectsExitMenu = cfg.Input.ExitKeySelectsExitMenu
	c.PageJump = cfg.Wheel.PageJump
	c.Filters = cfg.Games.Filters
	c.Width = cfg.Playfield.Width
	c.Height = cfg.Playfield.Height
	return c
}

// Start loads scripts, shows the initial selection and starts indexing
// the media root in the background. Script load failures are logged and
// recorded; they never stop the engine.
func (e *Engine) Start(ctx context.Context) {
	if e.cfg.Script.Enabled {
		for _, path := range e.cfg.Script.Files {
			if err := e.bridge.LoadFile(path); err != nil {
				e.log.Warn("script not loaded", zap.String("file", path), zap.Error(err))
			}
		}
	}
	e.ctrl.Start()

	if e.resolver != nil && e.cfg.Media.Root != "" {
		go e.buildIndex(ctx)
	}
}

func (e *Engine) buildIndex(ctx context.Context) {
	start := time.Now()
	ix, err := media.BuildIndex(ctx, e.cfg.Media.Root)
	if err != nil {
		e.log.Warn("media index not built, using file system lookups", zap.Error(err))
		return
	}
	err = e.loop.Post(func() {
		e.resolver.SetIndex(ix)
		e.log.Info("media index ready",
			zap.Int("files", ix.Len()),
			zap.Duration("took", time.Since(start)))
	})
	if err != nil {
		e.log.Debug("media index dropped", zap.Error(err))
	}
}

// Step runs one loop iteration. Call it from the UI thread only.
func (e *Engine) Step(now time.Time) { e.loop.Step(now) }

// Run drives the loop on its own timer until ctx ends
func (e *Engine) Run(ctx context.Context) error { return e.loop.Run(ctx) }

// PostInput queues an input event from any goroutine
func (e *Engine) PostInput(in types.Input) bool { return e.loop.PostInput(in) }

// Post runs fn on the UI thread
func (e *Engine) Post(fn func()) error { return e.loop.Post(fn) }

// Call runs fn on the UI thread and waits for it
func (e *Engine) Call(ctx context.Context, fn func()) error { return e.loop.Call(ctx, fn) }

// Pulse posts a device pulse request from any goroutine
func (e *Engine) Pulse(name string) error {
	return e.loop.Post(func() { e.effects.Pulse(name) })
}

// State reads a controller snapshot on the UI thread
func (e *Engine) State(ctx context.Context) (mode.State, error) {
	var s mode.State
	err := e.loop.Call(ctx, func() { s = e.ctrl.State() })
	return s, err
}

// Subscribe registers fn to observe every fired script event. fn runs on
// the UI thread and must not block. The returned func unsubscribes.
func (e *Engine) Subscribe(ctx context.Context, fn func(script.FiredEvent)) (func(), error) {
	var sid id.SubscriberID
	if err := e.loop.Call(ctx, func() { sid = e.bridge.OnFire(fn) }); err != nil {
		return nil, err
	}
	return func() {
		_ = e.loop.Post(func() { e.bridge.Unsubscribe(sid) })
	}, nil
}

// ShowMenu is the request API for collaborators on the UI thread
func (e *Engine) ShowMenu(desc menu.Descriptor, flags menu.Flags, page int) error {
	return e.ctrl.RequestShowMenu(desc, flags, page)
}

// ShowPopup is the request API for collaborators on the UI thread
func (e *Engine) ShowPopup(desc popup.Descriptor) error {
	return e.ctrl.RequestShowPopup(desc)
}

// ShowError queues an error message popup. UI thread only.
func (e *Engine) ShowError(msg string) { e.ctrl.ShowError(msg) }

// Accessors

func (e *Engine) Loop() *loop.Loop             { return e.loop }
func (e *Engine) Clock() *clock.Clock          { return e.clock }
func (e *Engine) Controller() *mode.Controller { return e.ctrl }
func (e *Engine) Bridge() *script.Bridge       { return e.bridge }
func (e *Engine) Effects() *effects.Queue      { return e.effects }
func (e *Engine) Media() *media.Orchestrator   { return e.media }

// Close stops the loop, cancels media loads and releases the script
// runtime and device.
func (e *Engine) Close() error {
	e.loop.Stop()
	e.media.Close()
	e.bridge.Close()
	if e.client != nil {
		if err := e.client.Close(); err != nil {
			return fmt.Errorf("close effects client: %w", err)
		}
	}
	e.log.Info("engine closed")
	return nil
}
