package mode

import (
	"errors"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/engine/clock"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/monitoring"
	"github.com/mjrgh/PinballY-sub000/internal/media"
	"github.com/mjrgh/PinballY-sub000/internal/shared/id"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/anim"
	"github.com/mjrgh/PinballY-sub000/internal/ui/menu"
	"github.com/mjrgh/PinballY-sub000/internal/ui/playfield"
	"github.com/mjrgh/PinballY-sub000/internal/ui/popup"
	"github.com/mjrgh/PinballY-sub000/internal/ui/running"
	"github.com/mjrgh/PinballY-sub000/internal/ui/surface"
	"github.com/mjrgh/PinballY-sub000/internal/ui/wheel"
	"go.uber.org/zap"
)

var (
	// ErrCanceled means a script listener vetoed the request
	ErrCanceled = errors.New("canceled by script")
	// ErrGameRunning means the request isn't allowed while a game runs
	ErrGameRunning = errors.New("game is running")
	// ErrNoSurface means there was nothing to close
	ErrNoSurface = errors.New("no menu or popup is open")
	// ErrNoGame means the game list is empty
	ErrNoGame = errors.New("no game selected")
)

// Mode is the authoritative top-level surface
type Mode int

const (
	Wheel Mode = iota
	Menu
	Popup
	Running
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case Wheel:
		return "wheel"
	case Menu:
		return "menu"
	case Popup:
		return "popup"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Events fires script events. Fire returns false when a listener
// canceled the pending action.
type Events interface {
	Fire(name string, detail map[string]any) bool
}

// Effects drives the feedback device
type Effects interface {
	Pulse(name string)
	Set(name string, value int)
}

// Media issues asynchronous media loads
type Media interface {
	AsyncLoad(slot string, req media.Request, onDone func(types.Media)) id.LoadID
}

// AttractConfig configures attract mode
type AttractConfig struct {
	Enabled    bool
	IdleTime   time.Duration
	SwitchTime time.Duration
}

// Config configures the controller and its surfaces
type Config struct {
	Menu      menu.Timing
	Popup     popup.Timing
	Wheel     wheel.Config
	Playfield playfield.Timing
	Running   running.Timing
	Attract   AttractConfig

	// Bindings maps key names to commands
	Bindings               map[string]types.Command
	ExitKeySelectsExitMenu bool
	PageJump               int
	// Filters lists the filter ids offered by the filter menu
	Filters []string

	PlayfieldKinds []string
	WheelKinds     []string
	Width          int
	Height         int
}

// Deps are the engine services the controller drives
type Deps struct {
	Clock   *clock.Clock
	Events  Events
	Effects Effects
	Media   Media
	// Post hands closures from other goroutines to the UI thread
	Post func(func()) error
}

// pending is a surface waiting for the outgoing one to finish closing
type pending struct {
	kind  surface.Kind
	menu  menu.Descriptor
	popup popup.Descriptor
}

func (p *pending) mode() Mode {
	if p.kind == surface.Menu {
		return Menu
	}
	return Popup
}

// Controller arbitrates the surfaces: at most one of menu and popup is
// ever active, and every surface change goes through its request API.
// All methods must be called on the UI thread.
type Controller struct {
	cfg     Config
	ctx     *types.Context
	now     func() time.Time
	log     *zap.Logger
	metrics *monitoring.Metrics

	clock   *clock.Clock
	events  Events
	effects Effects
	media   Media
	post    func(func()) error

	menu      *menu.Machine
	popup     *popup.Machine
	wheel     *wheel.Machine
	playfield *playfield.Machine
	running   *running.Machine

	mode     Mode
	incoming *pending
	closed   []closedEvent
	errors   []string
	fast     bool

	wheelLoading map[string]bool

	lastInput   time.Time
	attract     bool
	nextAttract time.Time
}

type closedEvent struct {
	name   string
	detail map[string]any
}

type noEvents struct{}

func (noEvents) Fire(string, map[string]any) bool { return true }

type noEffects struct{}

func (noEffects) Pulse(string)    {}
func (noEffects) Set(string, int) {}

// New creates a controller, its surface machines, and registers the
// machines with the clock back to front.
func New(cfg Config, ctx *types.Context, deps Deps) *Controller {
	if cfg.PageJump <= 0 {
		cfg.PageJump = 10
	}
	if len(cfg.PlayfieldKinds) == 0 {
		cfg.PlayfieldKinds = []string{"video", "playfield"}
	}
	if len(cfg.WheelKinds) == 0 {
		cfg.WheelKinds = []string{"wheel"}
	}
	if deps.Events == nil {
		deps.Events = noEvents{}
	}
	if deps.Effects == nil {
		deps.Effects = noEffects{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.New(0, nil, ctx.Metrics)
	}

	c := &Controller{
		cfg:          cfg,
		ctx:          ctx,
		now:          ctx.Clock(),
		log:          ctx.Logger.Component("mode"),
		metrics:      ctx.Metrics,
		clock:        deps.Clock,
		events:       deps.Events,
		effects:      deps.Effects,
		media:        deps.Media,
		post:         deps.Post,
		wheelLoading: make(map[string]bool),
	}

	c.playfield = playfield.New(cfg.Playfield, c.settled, func(g types.GameRef) {
		c.metrics.RecordMediaTimeout("playfield")
		c.log.Warn("playfield media timed out", zap.String("game", g.ID))
	})
	c.wheel = wheel.New(cfg.Wheel, ctx.Games, nil)
	c.running = running.New(cfg.Running, c.settled)
	c.popup = popup.New(cfg.Popup, c.settled, func(d popup.Descriptor) {
		c.metrics.RecordMediaTimeout("popup")
		c.log.Warn("popup media timed out", zap.String("popup", d.Key()))
	})
	c.menu = menu.New(cfg.Menu, c.settled)

	c.menu.Observe(c.observe("menu"))
	c.popup.Observe(c.observe("popup"))
	c.running.Observe(c.observe("running"))

	for _, a := range []clock.Animator{c.playfield, c.wheel, c.running, c.popup, c.menu} {
		c.clock.Register(a)
	}

	c.lastInput = c.now()
	return c
}

func (c *Controller) observe(kind string) func(from, to anim.Phase) {
	return func(_, to anim.Phase) {
		c.metrics.RecordSurfaceTransition(kind, to.String())
	}
}

// Start loads the initial selection's media
func (c *Controller) Start() {
	now := c.now()
	c.lastInput = now
	c.loadPlayfield(now)
	c.loadWheelImages()
}

// Mode returns the authoritative surface. A surface waiting for the
// outgoing one to close is already authoritative.
func (c *Controller) Mode() Mode {
	if c.running.State() != running.None {
		return Running
	}
	if c.incoming != nil {
		return c.incoming.mode()
	}
	if open(c.menu.Phase()) {
		return Menu
	}
	if open(c.popup.Phase()) {
		return Popup
	}
	return Wheel
}

// NotifyInputModeQuery reports the current mode to scripts
func (c *Controller) NotifyInputModeQuery() string {
	return c.Mode().String()
}

func open(p anim.Phase) bool {
	return p == anim.Opening || p == anim.Steady
}

// syncMode records mode transitions and mirrors surface visibility to
// the device state effects.
func (c *Controller) syncMode() {
	m := c.Mode()
	if m != c.mode {
		c.metrics.RecordModeTransition(c.mode.String(), m.String())
		c.log.Debug("mode changed", zap.Stringer("from", c.mode), zap.Stringer("to", m))
		c.mode = m
	}
	c.effects.Set("PBYMenu", boolInt(c.menu.Visible()))
	c.effects.Set("PBYPopup", boolInt(c.popup.Visible()))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Accessors for the engine and tests

func (c *Controller) Menu() *menu.Machine           { return c.menu }
func (c *Controller) Popup() *popup.Machine         { return c.popup }
func (c *Controller) Wheel() *wheel.Machine         { return c.wheel }
func (c *Controller) Playfield() *playfield.Machine { return c.playfield }
func (c *Controller) Running() *running.Machine     { return c.running }

// Pending returns the surface kind waiting to open
func (c *Controller) Pending() (surface.Kind, bool) {
	if c.incoming == nil {
		return 0, false
	}
	return c.incoming.kind, true
}

// QueuedErrors returns the error messages waiting to be shown
func (c *Controller) QueuedErrors() []string {
	return append([]string(nil), c.errors...)
}

// AppendVisuals implements surface.Drawable, back to front
func (c *Controller) AppendVisuals(dst []types.Visual) []types.Visual {
	for _, d := range []surface.Drawable{c.playfield, c.wheel, c.running, c.popup, c.menu} {
		dst = d.AppendVisuals(dst)
	}
	return dst
}

// Frozen reports whether background rendering can pause
func (c *Controller) Frozen() bool {
	return c.running.Frozen()
}

// State is a snapshot for diagnostics
type State struct {
	Mode         string        `json:"mode"`
	Menu         string        `json:"menu,omitempty"`
	MenuPhase    string        `json:"menu_phase"`
	Popup        string        `json:"popup,omitempty"`
	PopupPhase   string        `json:"popup_phase"`
	Pending      string        `json:"pending,omitempty"`
	Running      string        `json:"running"`
	Wheel        string        `json:"wheel"`
	Selection    types.GameRef `json:"selection"`
	Attract      bool          `json:"attract"`
	QueuedErrors int           `json:"queued_errors"`
	ClockArmed   bool          `json:"clock_armed"`
}

// State returns a snapshot of the controller
func (c *Controller) State() State {
	s := State{
		Mode:         c.Mode().String(),
		MenuPhase:    c.menu.Phase().String(),
		PopupPhase:   c.popup.Phase().String(),
		Running:      c.running.State().String(),
		Wheel:        c.wheel.State().String(),
		Attract:      c.attract,
		QueuedErrors: len(c.errors),
		ClockArmed:   c.clock.Armed(),
	}
	if d, ok := c.menu.Current(); ok {
		s.Menu = d.ID
	}
	if d, ok := c.popup.Current(); ok {
		s.Popup = d.Key()
	}
	if c.incoming != nil {
		s.Pending = c.incoming.kind.String()
	}
	if c.ctx.Games != nil {
		s.Selection = c.ctx.Games.CurrentSelection()
	}
	return s
}
