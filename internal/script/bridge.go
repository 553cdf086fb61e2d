package script

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/monitoring"
	"github.com/mjrgh/PinballY-sub000/internal/shared/id"
	"go.uber.org/zap"
)

var (
	// ErrNoEngine is returned once the bridge has been closed
	ErrNoEngine = errors.New("script engine not available")

	errWatchdog = errors.New("script call exceeded time limit")
)

const (
	maxFailures   = 100
	watchdogRetry = 50 * time.Millisecond
)

// cancelable lists the events whose native action a handler can veto
var cancelable = map[string]bool{
	"keydown":            true,
	"keyup":              true,
	"joystickbuttondown": true,
	"joystickbuttonup":   true,
	"command":            true,
	"menuopen":           true,
	"popupopen":          true,
	"prelaunch":          true,
	"filterselect":       true,
	"attractmodestart":   true,
}

// IsCancelable reports whether handlers can cancel the named event
func IsCancelable(name string) bool {
	return cancelable[name]
}

// Config configures the bridge
type Config struct {
	// CallTimeout bounds each top-level call into script code
	CallTimeout time.Duration
	Now         func() time.Time
}

// Failure records a script error caught at the bridge
type Failure struct {
	Source string    `json:"source"`
	Err    error     `json:"-"`
	Msg    string    `json:"message"`
	At     time.Time `json:"at"`
}

// FiredEvent describes one Fire call, for observers
type FiredEvent struct {
	Name     string         `json:"type"`
	Detail   map[string]any `json:"detail,omitempty"`
	Canceled bool           `json:"canceled"`
	At       time.Time      `json:"at"`
}

type listener struct {
	fn      goja.Callable
	value   goja.Value
	once    bool
	removed bool
}

// Bridge connects the engine to an embedded JavaScript runtime. It must
// only be used from the UI thread.
type Bridge struct {
	vm      *goja.Runtime
	host    Host
	cfg     Config
	log     *zap.Logger
	console *zap.Logger
	metrics *monitoring.Metrics

	mainWindow *goja.Object

	listeners map[string][]*listener
	tasks     map[int64]*task
	nextTask  int64
	depth     int

	failures  []Failure
	observers map[id.SubscriberID]func(FiredEvent)
}

// New creates a bridge with the script API installed
func New(cfg Config, host Host, log *zap.Logger, metrics *monitoring.Metrics) *Bridge {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}

	b := &Bridge{
		vm:        goja.New(),
		host:      host,
		cfg:       cfg,
		log:       log,
		console:   log.Named("console"),
		metrics:   metrics,
		listeners: make(map[string][]*listener),
		tasks:     make(map[int64]*task),
		observers: make(map[id.SubscriberID]func(FiredEvent)),
	}
	b.vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	b.vm.SetMaxCallStackSize(1024)
	b.install()
	return b
}

// SetHost attaches the native host
func (b *Bridge) SetHost(h Host) {
	b.host = h
}

// Fire dispatches a native event to script listeners. It returns false
// only when the event is cancelable and a listener canceled it. Script
// errors never cancel.
func (b *Bridge) Fire(name string, detail map[string]any) bool {
	if b.vm == nil {
		return true
	}

	canceled := false
	outcome := "unhandled"
	if ls := b.listeners[name]; len(ls) > 0 {
		outcome = "continued"
		evt := b.newEvent(name, cancelable[name], detail)
		for _, l := range append([]*listener(nil), ls...) {
			if l.removed {
				continue
			}
			if l.once {
				b.remove(name, l)
			}

			ret, err := b.call("event:"+name, func() (goja.Value, error) {
				return l.fn(b.mainWindow, evt.obj)
			})
			if err == nil && evt.cancelable && isFalse(b.vm, ret) {
				evt.preventDefault()
			}
			if evt.stopped {
				break
			}
		}
		canceled = evt.prevented
		if canceled {
			outcome = "canceled"
		}
	}

	b.metrics.RecordScriptEvent(name, outcome)
	if len(b.observers) > 0 {
		fired := FiredEvent{Name: name, Detail: detail, Canceled: canceled, At: b.cfg.Now()}
		for _, fn := range b.observers {
			fn(fired)
		}
	}
	return !canceled
}

// Listeners returns the number of listeners for an event
func (b *Bridge) Listeners(name string) int {
	return len(b.listeners[name])
}

// OnFire registers an observer called after every Fire
func (b *Bridge) OnFire(fn func(FiredEvent)) id.SubscriberID {
	sid := id.NewSubscriberID()
	b.observers[sid] = fn
	return sid
}

// Unsubscribe removes an observer
func (b *Bridge) Unsubscribe(sid id.SubscriberID) {
	delete(b.observers, sid)
}

// Failures returns the recorded script errors, oldest first
func (b *Bridge) Failures() []Failure {
	return append([]Failure(nil), b.failures...)
}

// LoadFile runs a script file
func (b *Bridge) LoadFile(path string) error {
	if b.vm == nil {
		return ErrNoEngine
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	if _, err := b.call("load", func() (goja.Value, error) {
		return b.vm.RunScript(path, string(src))
	}); err != nil {
		return fmt.Errorf("failed to run %s: %w", path, err)
	}
	b.log.Info("script loaded", zap.String("path", path))
	return nil
}

// Eval runs source text and exports its result
func (b *Bridge) Eval(src string) (any, error) {
	if b.vm == nil {
		return nil, ErrNoEngine
	}
	v, err := b.call("eval", func() (goja.Value, error) {
		return b.vm.RunString(src)
	})
	if err != nil {
		return nil, err
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	return v.Export(), nil
}

// Close drops listeners and tasks and releases the runtime
func (b *Bridge) Close() {
	b.listeners = make(map[string][]*listener)
	b.tasks = make(map[int64]*task)
	b.metrics.SetScriptTasks(0)
	b.vm = nil
}

// call runs fn as a call into script code. Top-level calls are bounded by
// the watchdog; errors are recorded and returned.
func (b *Bridge) call(source string, fn func() (goja.Value, error)) (goja.Value, error) {
	if b.depth == 0 && b.cfg.CallTimeout > 0 {
		stop := b.watch()
		defer stop()
	}

	b.depth++
	defer func() { b.depth-- }()

	v, err := fn()
	if err != nil {
		b.recordFailure(source, err)
	}
	return v, err
}

// watch arms the watchdog. Interrupts repeat until stopped so a runaway
// outer call is caught even if an inner call swallowed the first one.
func (b *Bridge) watch() func() {
	vm := b.vm
	var (
		mu    sync.Mutex
		done  bool
		timer *time.Timer
	)

	mu.Lock()
	timer = time.AfterFunc(b.cfg.CallTimeout, func() {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return
		}
		vm.Interrupt(errWatchdog)
		timer.Reset(watchdogRetry)
	})
	mu.Unlock()

	return func() {
		mu.Lock()
		done = true
		mu.Unlock()
		timer.Stop()
		vm.ClearInterrupt()
	}
}

func (b *Bridge) recordFailure(source string, err error) {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		b.metrics.RecordScriptTimeout()
		b.log.Warn("script call interrupted", zap.String("source", source), zap.Duration("limit", b.cfg.CallTimeout))
	} else {
		b.metrics.RecordScriptError(strings.SplitN(source, ":", 2)[0])
		b.log.Error("script error", zap.String("source", source), zap.Error(err))
	}

	b.failures = append(b.failures, Failure{Source: source, Err: err, Msg: err.Error(), At: b.cfg.Now()})
	if len(b.failures) > maxFailures {
		b.failures = b.failures[len(b.failures)-maxFailures:]
	}
}

func (b *Bridge) add(names string, fn goja.Value, once bool) {
	callable, ok := goja.AssertFunction(fn)
	if !ok {
		panic(b.vm.NewTypeError("listener is not a function"))
	}
	for _, name := range strings.Fields(strings.ToLower(names)) {
		b.listeners[name] = append(b.listeners[name], &listener{fn: callable, value: fn, once: once})
	}
}

func (b *Bridge) off(names string, fn goja.Value) {
	for _, name := range strings.Fields(strings.ToLower(names)) {
		if fn == nil || goja.IsUndefined(fn) {
			for _, l := range b.listeners[name] {
				l.removed = true
			}
			delete(b.listeners, name)
			continue
		}
		for _, l := range b.listeners[name] {
			if l.value.StrictEquals(fn) {
				b.remove(name, l)
			}
		}
	}
}

func (b *Bridge) remove(name string, target *listener) {
	target.removed = true
	ls := b.listeners[name]
	for i, l := range ls {
		if l == target {
			b.listeners[name] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(b.listeners[name]) == 0 {
		delete(b.listeners, name)
	}
}

// event is the object handed to listeners
type event struct {
	obj        *goja.Object
	cancelable bool
	prevented  bool
	stopped    bool
}

func (b *Bridge) newEvent(name string, cancelable bool, detail map[string]any) *event {
	e := &event{cancelable: cancelable}
	obj := b.vm.NewObject()

	keys := make([]string, 0, len(detail))
	for k := range detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_ = obj.Set(k, detail[k])
	}

	_ = obj.Set("type", name)
	_ = obj.Set("cancelable", cancelable)
	_ = obj.Set("defaultPrevented", false)
	_ = obj.Set("preventDefault", func(goja.FunctionCall) goja.Value {
		e.preventDefault()
		return goja.Undefined()
	})
	_ = obj.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
		e.stopped = true
		return goja.Undefined()
	})
	e.obj = obj
	return e
}

func (e *event) preventDefault() {
	if !e.cancelable || e.prevented {
		return
	}
	e.prevented = true
	_ = e.obj.Set("defaultPrevented", true)
}

func isFalse(vm *goja.Runtime, v goja.Value) bool {
	return v != nil && v.StrictEquals(vm.ToValue(false))
}
