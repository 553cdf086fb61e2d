// Package launch runs games as external processes and reports their
// lifecycle to the engine.
package launch

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
)

var (
	// ErrBusy is returned when a game is already running
	ErrBusy = errors.New("a game is already running")
	// ErrNoCommand is returned when no launch command is configured
	ErrNoCommand = errors.New("no launch command configured")
)

// Config describes the command line. Args may contain {path}, {id} and
// {title}.
type Config struct {
	Command   string
	Args      []string
	LoadDelay time.Duration
}

// Exec launches games with os/exec
type Exec struct {
	cfg Config
	log *zap.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
}

// New creates a launcher
func New(cfg Config, log *zap.Logger) *Exec {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exec{cfg: cfg, log: log}
}

// Launch starts game. notify receives LaunchStarting before Launch
// returns, then LaunchLoaded after the load delay, then LaunchExited.
// LaunchLoaded is skipped if the process exits first.
func (e *Exec) Launch(game types.GameRef, notify func(types.LaunchNotice)) error {
	if e.cfg.Command == "" {
		return ErrNoCommand
	}

	e.mu.Lock()
	if e.cmd != nil {
		e.mu.Unlock()
		return ErrBusy
	}
	cmd := exec.Command(e.cfg.Command, Expand(e.cfg.Args, game)...)
	if err := cmd.Start(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("start %s: %w", e.cfg.Command, err)
	}
	e.cmd = cmd
	e.mu.Unlock()

	e.log.Info("game started",
		zap.String("game", game.ID),
		zap.Int("pid", cmd.Process.Pid))
	notify(types.LaunchNotice{Event: types.LaunchStarting, Game: game})

	go e.monitor(cmd, game, notify)
	return nil
}

func (e *Exec) monitor(cmd *exec.Cmd, game types.GameRef, notify func(types.LaunchNotice)) {
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(e.cfg.LoadDelay)
	defer timer.Stop()

	var err error
	select {
	case <-timer.C:
		notify(types.LaunchNotice{Event: types.LaunchLoaded, Game: game})
		err = <-done
	case err = <-done:
	}

	e.mu.Lock()
	e.cmd = nil
	e.mu.Unlock()

	if err != nil {
		e.log.Warn("game exited with error", zap.String("game", game.ID), zap.Error(err))
		err = fmt.Errorf("%s: %w", game.Title, err)
	} else {
		e.log.Info("game exited", zap.String("game", game.ID))
	}
	notify(types.LaunchNotice{Event: types.LaunchExited, Game: game, Err: err})
}

// Running reports whether a game process is alive
func (e *Exec) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cmd != nil
}

// Kill terminates the running game, if any
func (e *Exec) Kill() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil || e.cmd.Process == nil {
		return nil
	}
	return e.cmd.Process.Kill()
}

// Expand substitutes game fields into args
func Expand(args []string, game types.GameRef) []string {
	r := strings.NewReplacer(
		"{path}", game.Path,
		"{id}", game.ID,
		"{title}", game.Title,
	)
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}
