package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Loop metrics
	LoopSteps        prometheus.Counter
	LoopStepDuration prometheus.Histogram
	LoopPosted       *prometheus.CounterVec

	// Clock metrics
	ClockTicks prometheus.Counter
	ClockArmed prometheus.Gauge

	// UI metrics
	ModeTransitions    *prometheus.CounterVec
	SurfaceTransitions *prometheus.CounterVec
	AnimationsActive   prometheus.Gauge
	SurfacesCanceled   *prometheus.CounterVec

	// Media metrics
	MediaLoads        *prometheus.CounterVec
	MediaLoadDuration *prometheus.HistogramVec
	MediaTimeouts     *prometheus.CounterVec

	// Script metrics
	ScriptEvents  *prometheus.CounterVec
	ScriptErrors  *prometheus.CounterVec
	ScriptTasks   prometheus.Gauge
	ScriptTimeout prometheus.Counter

	// Device effects metrics
	EffectsSent    *prometheus.CounterVec
	EffectsDropped *prometheus.CounterVec
	EffectsQueue   prometheus.Gauge

	// HTTP metrics (debug server)
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	WSConnections   prometheus.Gauge

	startTime time.Time

	// Snapshot for the JSON API
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	Steps         int64   `json:"steps"`
	MediaLoads    int64   `json:"media_loads"`
	MediaStale    int64   `json:"media_stale"`
	ScriptEvents  int64   `json:"script_events"`
	ScriptErrors  int64   `json:"script_errors"`
	EffectsSent   int64   `json:"effects_sent"`
	EffectsQueued int64   `json:"effects_queued"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector registered with reg. Passing a
// fresh prometheus.NewRegistry() keeps engines in tests independent.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		startTime: time.Now(),

		// Loop metrics
		LoopSteps: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pinfront_loop_steps_total",
				Help: "Total number of UI loop steps",
			},
		),
		LoopStepDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pinfront_loop_step_duration_seconds",
				Help:    "Time spent in one UI loop step",
				Buckets: []float64{.0001, .0005, .001, .002, .004, .008, .016, .033, .066, .1},
			},
		),
		LoopPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinfront_loop_posted_total",
				Help: "Total number of messages posted to the UI loop",
			},
			[]string{"kind"},
		),

		// Clock metrics
		ClockTicks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pinfront_clock_ticks_total",
				Help: "Total number of animation clock ticks",
			},
		),
		ClockArmed: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pinfront_clock_armed",
				Help: "1 while the animation clock is armed",
			},
		),

		// UI metrics
		ModeTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinfront_mode_transitions_total",
				Help: "Total number of UI mode transitions",
			},
			[]string{"from", "to"},
		),
		SurfaceTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinfront_surface_transitions_total",
				Help: "Total number of surface phase changes",
			},
			[]string{"kind", "phase"},
		),
		AnimationsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pinfront_animations_active",
				Help: "Number of animations currently ticking",
			},
		),
		SurfacesCanceled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinfront_surfaces_canceled_total",
				Help: "Total number of show requests canceled by script handlers",
			},
			[]string{"kind"},
		),

		// Media metrics
		MediaLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinfront_media_loads_total",
				Help: "Total number of media load completions",
			},
			[]string{"slot", "status"},
		),
		MediaLoadDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pinfront_media_load_duration_seconds",
				Help:    "Media load duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"slot"},
		),
		MediaTimeouts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinfront_media_timeouts_total",
				Help: "Total number of animations forced to complete without media",
			},
			[]string{"surface"},
		),

		// Script metrics
		ScriptEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinfront_script_events_total",
				Help: "Total number of script events fired",
			},
			[]string{"event", "outcome"},
		),
		ScriptErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinfront_script_errors_total",
				Help: "Total number of script exceptions",
			},
			[]string{"source"},
		),
		ScriptTasks: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pinfront_script_tasks",
				Help: "Number of scheduled script tasks",
			},
		),
		ScriptTimeout: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pinfront_script_timeouts_total",
				Help: "Total number of script calls interrupted by the watchdog",
			},
		),

		// Device effects metrics
		EffectsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinfront_effects_sent_total",
				Help: "Total number of device effect signals sent",
			},
			[]string{"kind"},
		),
		EffectsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinfront_effects_dropped_total",
				Help: "Total number of device effect signals dropped",
			},
			[]string{"reason"},
		),
		EffectsQueue: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pinfront_effects_queue_depth",
				Help: "Number of pending device effect signals",
			},
		),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinfront_http_requests_total",
				Help: "Total number of debug HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pinfront_http_request_duration_seconds",
				Help:    "Debug HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pinfront_ws_connections",
				Help: "Number of active event feed connections",
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "pinfront_uptime_seconds",
			Help: "Engine uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordStep records one loop step
func (m *Metrics) RecordStep(duration time.Duration, animating int) {
	if m == nil {
		return
	}
	m.LoopSteps.Inc()
	m.LoopStepDuration.Observe(duration.Seconds())
	m.AnimationsActive.Set(float64(animating))

	m.mu.Lock()
	m.snapshot.Steps++
	m.mu.Unlock()
}

// RecordPost records a message posted to the loop
func (m *Metrics) RecordPost(kind string) {
	if m == nil {
		return
	}
	m.LoopPosted.WithLabelValues(kind).Inc()
}

// RecordClockTick records one animation clock tick
func (m *Metrics) RecordClockTick() {
	if m == nil {
		return
	}
	m.ClockTicks.Inc()
}

// SetClockArmed mirrors the clock's armed state
func (m *Metrics) SetClockArmed(armed bool) {
	if m == nil {
		return
	}
	if armed {
		m.ClockArmed.Set(1)
		return
	}
	m.ClockArmed.Set(0)
}

// RecordSurfaceTransition records a surface entering phase
func (m *Metrics) RecordSurfaceTransition(kind, phase string) {
	if m == nil {
		return
	}
	m.SurfaceTransitions.WithLabelValues(kind, phase).Inc()
}

// RecordModeTransition records a UI mode change
func (m *Metrics) RecordModeTransition(from, to string) {
	if m == nil {
		return
	}
	m.ModeTransitions.WithLabelValues(from, to).Inc()
}

// RecordCanceled records a show request vetoed by a script handler
func (m *Metrics) RecordCanceled(kind string) {
	if m == nil {
		return
	}
	m.SurfacesCanceled.WithLabelValues(kind).Inc()
}

// RecordMediaLoad records a media load completion. Status is one of
// "ok", "fallback", "placeholder", "stale" or "error".
func (m *Metrics) RecordMediaLoad(slot, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.MediaLoads.WithLabelValues(slot, status).Inc()
	m.MediaLoadDuration.WithLabelValues(slot).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.MediaLoads++
	if status == "stale" {
		m.snapshot.MediaStale++
	}
	m.mu.Unlock()
}

// RecordMediaTimeout records an animation forced past its media gate
func (m *Metrics) RecordMediaTimeout(surface string) {
	if m == nil {
		return
	}
	m.MediaTimeouts.WithLabelValues(surface).Inc()
}

// RecordScriptEvent records a fired script event
func (m *Metrics) RecordScriptEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.ScriptEvents.WithLabelValues(event, outcome).Inc()
	m.mu.Lock()
	m.snapshot.ScriptEvents++
	m.mu.Unlock()
}

// RecordScriptError records a script exception
func (m *Metrics) RecordScriptError(source string) {
	if m == nil {
		return
	}
	m.ScriptErrors.WithLabelValues(source).Inc()
	m.mu.Lock()
	m.snapshot.ScriptErrors++
	m.mu.Unlock()
}

// RecordScriptTimeout records a watchdog interrupt
func (m *Metrics) RecordScriptTimeout() {
	if m == nil {
		return
	}
	m.ScriptTimeout.Inc()
}

// SetScriptTasks sets the number of scheduled script tasks
func (m *Metrics) SetScriptTasks(count int) {
	if m == nil {
		return
	}
	m.ScriptTasks.Set(float64(count))
}

// RecordEffectSent records a device signal delivered to the client
func (m *Metrics) RecordEffectSent(kind string) {
	if m == nil {
		return
	}
	m.EffectsSent.WithLabelValues(kind).Inc()
	m.mu.Lock()
	m.snapshot.EffectsSent++
	m.mu.Unlock()
}

// RecordEffectDropped records a device signal that was discarded
func (m *Metrics) RecordEffectDropped(reason string) {
	if m == nil {
		return
	}
	m.EffectsDropped.WithLabelValues(reason).Inc()
}

// SetEffectsQueue sets the pending device signal count
func (m *Metrics) SetEffectsQueue(depth int) {
	if m == nil {
		return
	}
	m.EffectsQueue.Set(float64(depth))
	m.mu.Lock()
	m.snapshot.EffectsQueued = int64(depth)
	m.mu.Unlock()
}

// RecordHTTPRequest records a debug server request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncWSConnections increments event feed connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
}

// DecWSConnections decrements event feed connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
}

// Snapshot returns the current JSON-friendly counters
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
