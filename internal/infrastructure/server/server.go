package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/config"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/middleware"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/monitoring"
	"github.com/mjrgh/PinballY-sub000/internal/script"
	"github.com/mjrgh/PinballY-sub000/internal/ui/mode"
)

// Engine is the engine surface the server needs. All methods are safe to
// call from any goroutine.
type Engine interface {
	State(ctx context.Context) (mode.State, error)
	Pulse(name string) error
	Subscribe(ctx context.Context, fn func(script.FiredEvent)) (func(), error)
}

// Server wraps the HTTP server and dependencies
type Server struct {
	cfg     config.DebugConfig
	router  *gin.Engine
	engine  Engine
	hub     *Hub
	log     *zap.Logger
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance. gatherer backs /metrics.
func NewServer(cfg config.DebugConfig, engine Engine, gatherer prometheus.Gatherer, log *zap.Logger, metrics *monitoring.Metrics, dev bool) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if !dev {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:     cfg,
		router:  gin.New(),
		engine:  engine,
		hub:     NewHub(log, metrics),
		log:     log,
		metrics: metrics,
	}

	router := s.router
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(cfg.AllowOrigins))

	router.GET("/health", s.health)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	api.GET("/state", s.state)
	api.GET("/events", s.hub.HandleConnection)

	limit := middleware.DefaultRateLimitConfig()
	if cfg.RequestsPerSecond > 0 {
		limit.RequestsPerSecond = cfg.RequestsPerSecond
	}
	if cfg.Burst > 0 {
		limit.Burst = cfg.Burst
	}
	api.POST("/pulse/:name", middleware.GlobalRateLimit(limit), s.pulse)

	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the event feed hub
func (s *Server) Hub() *Hub { return s.hub }

// Run subscribes the event feed and serves until ctx ends, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	unsubscribe, err := s.engine.Subscribe(ctx, s.hub.Publish)
	if err != nil {
		return err
	}
	defer unsubscribe()

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("debug server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down debug server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": s.hub.Clients()})
}

func (s *Server) state(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	st, err := s.engine.State(ctx)
	if err != nil {
		s.log.Warn("state read failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":   st,
		"metrics": s.metrics.Snapshot(),
	})
}

func (s *Server) pulse(c *gin.Context) {
	name := c.Param("name")
	if err := s.engine.Pulse(name); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": name})
}
