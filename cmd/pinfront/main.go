package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mjrgh/PinballY-sub000/internal/engine"
	"github.com/mjrgh/PinballY-sub000/internal/games"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/config"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/logging"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/monitoring"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/server"
	"github.com/mjrgh/PinballY-sub000/internal/launch"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
)

func main() {
	configPath := flag.String("config", "", "Config file (.toml, .yaml)")
	dev := flag.Bool("dev", false, "Development mode (debug logging)")
	headless := flag.Bool("headless", false, "Run without a window")
	flag.Parse()

	if err := run(*configPath, *dev, *headless); err != nil {
		fmt.Fprintln(os.Stderr, "pinfront:", err)
		os.Exit(1)
	}
}

func run(configPath string, dev, headless bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dev {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Development = cfg.Logging.Development
	logger, logErr := logging.New(logCfg)
	if logErr != nil {
		logger = logging.NewDefault()
	}
	defer logger.Sync()
	log := logger.Component("main")
	if logErr != nil {
		log.Warn("logging config rejected, using defaults", zap.Error(logErr))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(reg)

	list, err := games.Load(cfg.Games.File)
	if err != nil {
		return err
	}
	launcher := launch.New(launch.Config{
		Command:   cfg.Launch.Command,
		Args:      cfg.Launch.Args,
		LoadDelay: cfg.Launch.LoadDelay.Std(),
	}, logger.Component("launch"))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	rend := newRenderer()
	eng, err := engine.New(cfg, &types.Context{
		Games:    list,
		Renderer: rend,
		Launcher: launcher,
		Commands: &commands{quit: cancel, log: log},
		Logger:   logger,
		Metrics:  metrics,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	eng.Start(gctx)

	if cfg.Debug.Addr != "" {
		srv := server.NewServer(cfg.Debug, eng, reg, logger.Component("server"), metrics, dev)
		g.Go(func() error { return srv.Run(gctx) })
	}

	log.Info("front-end started",
		zap.Int("games", list.Count()),
		zap.Bool("headless", headless),
		zap.String("debug_addr", cfg.Debug.Addr))

	if headless {
		g.Go(func() error { return eng.Run(gctx) })
	} else {
		ebiten.SetWindowTitle("PinballY")
		ebiten.SetWindowSize(cfg.Playfield.Width/2, cfg.Playfield.Height/2)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		if err := ebiten.RunGame(newFrontend(gctx, eng, rend)); err != nil {
			log.Error("window closed with error", zap.Error(err))
		}
		cancel()
	}

	err = g.Wait()
	if kerr := launcher.Kill(); kerr != nil {
		log.Warn("game process not killed", zap.Error(kerr))
	}
	if cerr := eng.Close(); cerr != nil {
		log.Warn("engine close failed", zap.Error(cerr))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("front-end stopped")
	return nil
}

// commands handles the menu commands the engine leaves to the host
type commands struct {
	quit func()
	log  *zap.Logger
}

func (c *commands) HandleCommand(cmd string) bool {
	switch cmd {
	case "exitapp", "shutdown":
		c.log.Info("exit requested", zap.String("command", cmd))
		c.quit()
		return true
	default:
		return false
	}
}
