package media

import (
	"context"
	"strings"
	"sync"

	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/monitoring"
	"github.com/mjrgh/PinballY-sub000/internal/shared/id"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Request identifies the media wanted for one slot
type Request struct {
	Game types.GameRef
	// Kinds are media types in fallback order ("video", "playfield")
	Kinds []string
	// Paths are explicit candidates tried before the resolver's
	Paths  []string
	Width  int
	Height int
}

// Loader loads one file in a worker goroutine
type Loader interface {
	Load(ctx context.Context, path string, width, height int) (types.Media, error)
}

// Poster hands a closure to the UI thread
type Poster func(fn func()) error

// Config configures the orchestrator
type Config struct {
	Workers int
	// Defaults maps a media type to a system default file
	Defaults map[string]string
}

// Orchestrator runs media loads off the UI thread and delivers results
// back through the Poster. Only the latest request per slot completes:
// an older request is canceled and its result, if it still arrives,
// is dropped.
type Orchestrator struct {
	loader   Loader
	resolver types.MediaResolver
	defaults map[string]string
	post     Poster
	sem      *semaphore.Weighted
	log      *zap.Logger
	metrics  *monitoring.Metrics

	root context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	// UI thread only
	seq     map[string]uint64
	cancels map[string]context.CancelFunc
}

// New creates an orchestrator
func New(cfg Config, loader Loader, resolver types.MediaResolver, post Poster, log *zap.Logger, metrics *monitoring.Metrics) *Orchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	root, stop := context.WithCancel(context.Background())
	return &Orchestrator{
		loader:   loader,
		resolver: resolver,
		defaults: cfg.Defaults,
		post:     post,
		sem:      semaphore.NewWeighted(int64(cfg.Workers)),
		log:      log,
		metrics:  metrics,
		root:     root,
		stop:     stop,
		seq:      make(map[string]uint64),
		cancels:  make(map[string]context.CancelFunc),
	}
}

// AsyncLoad starts a load for slot and calls onDone on the UI thread with
// the result. Must be called on the UI thread. A later AsyncLoad for the
// same slot suppresses this one's onDone.
func (o *Orchestrator) AsyncLoad(slot string, req Request, onDone func(types.Media)) id.LoadID {
	loadID := id.NewLoadID()

	o.seq[slot]++
	n := o.seq[slot]
	if cancel, ok := o.cancels[slot]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(o.root)
	o.cancels[slot] = cancel

	o.log.Debug("media load issued",
		zap.String("slot", slot),
		zap.String("load_id", loadID.String()),
		zap.String("game", req.Game.ID),
		zap.Strings("kinds", req.Kinds))

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		if err := o.sem.Acquire(ctx, 1); err != nil {
			return
		}
		timer := monitoring.NewTimer(o.metrics, slotLabel(slot))
		media, status := o.Resolve(ctx, req)
		o.sem.Release(1)

		if ctx.Err() != nil {
			timer.Stop("stale")
			return
		}

		err := o.post(func() {
			if o.seq[slot] != n {
				timer.Stop("stale")
				return
			}
			delete(o.cancels, slot)
			cancel()
			timer.Stop(status)
			onDone(media)
		})
		if err != nil {
			cancel()
		}
	}()

	return loadID
}

// Pending returns the number of slots with a load in flight. UI thread only.
func (o *Orchestrator) Pending() int {
	return len(o.cancels)
}

// Resolve walks the fallback chain: explicit paths, resolver candidates,
// system defaults, then a title card. It always returns renderable media.
func (o *Orchestrator) Resolve(ctx context.Context, req Request) (types.Media, string) {
	candidates := append([]string(nil), req.Paths...)
	if o.resolver != nil {
		for _, kind := range req.Kinds {
			candidates = append(candidates, o.resolver.Resolve(req.Game, kind)...)
		}
	}

	for _, path := range candidates {
		if ctx.Err() != nil {
			break
		}
		media, err := o.loader.Load(ctx, path, req.Width, req.Height)
		if err == nil {
			return media, "ok"
		}
		o.log.Debug("media candidate failed", zap.String("path", path), zap.Error(err))
	}

	for _, kind := range req.Kinds {
		path, ok := o.defaults[kind]
		if !ok || ctx.Err() != nil {
			continue
		}
		media, err := o.loader.Load(ctx, path, req.Width, req.Height)
		if err == nil {
			media.Fallback = true
			return media, "fallback"
		}
		o.log.Warn("default media failed", zap.String("kind", kind), zap.String("path", path), zap.Error(err))
	}

	return Placeholder(req.Game, req.Width, req.Height), "placeholder"
}

// slotLabel strips per-game suffixes ("wheel/game-01" -> "wheel") to keep
// metric cardinality bounded
func slotLabel(slot string) string {
	if i := strings.IndexByte(slot, '/'); i >= 0 {
		return slot[:i]
	}
	return slot
}

// Wait blocks until in-flight workers finish
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close cancels every load and waits for the workers
func (o *Orchestrator) Close() {
	o.stop()
	o.wg.Wait()
}
