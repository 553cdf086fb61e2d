package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported config file format")
	ErrInvalid           = errors.New("invalid configuration")
)

// Config holds all front-end engine configuration.
type Config struct {
	Logging   LogConfig       `toml:"logging" yaml:"logging"`
	Loop      LoopConfig      `toml:"loop" yaml:"loop"`
	Menu      AnimConfig      `toml:"menu" yaml:"menu"`
	Popup     AnimConfig      `toml:"popup" yaml:"popup"`
	Running   AnimConfig      `toml:"running" yaml:"running"`
	Wheel     WheelConfig     `toml:"wheel" yaml:"wheel"`
	Playfield PlayfieldConfig `toml:"playfield" yaml:"playfield"`
	Media     MediaConfig     `toml:"media" yaml:"media"`
	Script    ScriptConfig    `toml:"script" yaml:"script"`
	Effects   EffectsConfig   `toml:"effects" yaml:"effects"`
	Attract   AttractConfig   `toml:"attract" yaml:"attract"`
	Input     InputConfig     `toml:"input" yaml:"input"`
	Games     GamesConfig     `toml:"games" yaml:"games"`
	Launch    LaunchConfig    `toml:"launch" yaml:"launch"`
	Debug     DebugConfig     `toml:"debug" yaml:"debug"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `toml:"level" yaml:"level" envconfig:"PINFRONT_LOG_LEVEL"`
	Development bool   `toml:"development" yaml:"development" envconfig:"PINFRONT_LOG_DEV"`
}

// LoopConfig holds UI loop tuning.
type LoopConfig struct {
	TickInterval Duration `toml:"tick_interval" yaml:"tick_interval" envconfig:"PINFRONT_TICK_INTERVAL"`
	QueueSize    int      `toml:"queue_size" yaml:"queue_size" envconfig:"PINFRONT_QUEUE_SIZE"`
}

// AnimConfig holds open/close timings for one surface type.
type AnimConfig struct {
	Open  Duration `toml:"open" yaml:"open"`
	Close Duration `toml:"close" yaml:"close"`
	// Fast is used when a transition is accelerated (auto-repeat, launch).
	Fast Duration `toml:"fast" yaml:"fast"`
}

// WheelConfig holds wheel animation tuning.
type WheelConfig struct {
	Step            Duration `toml:"step" yaml:"step" envconfig:"PINFRONT_WHEEL_STEP"`
	FastStep        Duration `toml:"fast_step" yaml:"fast_step" envconfig:"PINFRONT_WHEEL_FAST_STEP"`
	Fade            Duration `toml:"fade" yaml:"fade"`
	ReseedThreshold int      `toml:"reseed_threshold" yaml:"reseed_threshold" envconfig:"PINFRONT_WHEEL_RESEED"`
	PageJump        int      `toml:"page_jump" yaml:"page_jump"`
}

// PlayfieldConfig holds playfield media tuning.
type PlayfieldConfig struct {
	Crossfade Duration `toml:"crossfade" yaml:"crossfade" envconfig:"PINFRONT_CROSSFADE"`
	Width     int      `toml:"width" yaml:"width"`
	Height    int      `toml:"height" yaml:"height"`
}

// MediaConfig holds media loading configuration.
type MediaConfig struct {
	Root        string            `toml:"root" yaml:"root" envconfig:"PINFRONT_MEDIA_ROOT"`
	Workers     int               `toml:"workers" yaml:"workers" envconfig:"PINFRONT_MEDIA_WORKERS"`
	LoadTimeout Duration          `toml:"load_timeout" yaml:"load_timeout" envconfig:"PINFRONT_MEDIA_LOAD_TIMEOUT"`
	Patterns    map[string]string `toml:"patterns" yaml:"patterns"`
	Defaults    map[string]string `toml:"defaults" yaml:"defaults"`
}

// ScriptConfig holds script engine configuration.
type ScriptConfig struct {
	Enabled     bool     `toml:"enabled" yaml:"enabled" envconfig:"PINFRONT_SCRIPT_ENABLED"`
	Files       []string `toml:"files" yaml:"files" envconfig:"PINFRONT_SCRIPTS"`
	CallTimeout Duration `toml:"call_timeout" yaml:"call_timeout" envconfig:"PINFRONT_SCRIPT_TIMEOUT"`
}

// EffectsConfig holds device effects configuration.
type EffectsConfig struct {
	Enabled    bool           `toml:"enabled" yaml:"enabled" envconfig:"PINFRONT_EFFECTS_ENABLED"`
	Device     string         `toml:"device" yaml:"device" envconfig:"PINFRONT_EFFECTS_DEVICE"` // "log", "streamdeck", "none"
	Interval   Duration       `toml:"interval" yaml:"interval" envconfig:"PINFRONT_EFFECTS_INTERVAL"`
	Keys       map[string]int `toml:"keys" yaml:"keys"`
	Brightness int            `toml:"brightness" yaml:"brightness"`
}

// AttractConfig holds attract mode configuration.
type AttractConfig struct {
	Enabled    bool     `toml:"enabled" yaml:"enabled" envconfig:"PINFRONT_ATTRACT_ENABLED"`
	IdleTime   Duration `toml:"idle_time" yaml:"idle_time"`
	SwitchTime Duration `toml:"switch_time" yaml:"switch_time"`
}

// InputConfig holds key bindings.
type InputConfig struct {
	// Bindings maps a key name to a command name.
	Bindings               map[string]string `toml:"bindings" yaml:"bindings"`
	ExitKeySelectsExitMenu bool              `toml:"exit_key_selects_exit_menu" yaml:"exit_key_selects_exit_menu"`
}

// GamesConfig locates the game list.
type GamesConfig struct {
	File    string   `toml:"file" yaml:"file" envconfig:"PINFRONT_GAMES"`
	Filters []string `toml:"filters" yaml:"filters"`
}

// LaunchConfig describes how games are started. Args may contain the
// placeholders {path}, {id} and {title}.
type LaunchConfig struct {
	Command string   `toml:"command" yaml:"command" envconfig:"PINFRONT_LAUNCH_COMMAND"`
	Args    []string `toml:"args" yaml:"args"`
	// LoadDelay is how long after start the game counts as loaded.
	LoadDelay Duration `toml:"load_delay" yaml:"load_delay"`
}

// DebugConfig holds the optional debug HTTP server configuration.
type DebugConfig struct {
	Addr              string `toml:"addr" yaml:"addr" envconfig:"PINFRONT_DEBUG_ADDR"`
	RequestsPerSecond int    `toml:"requests_per_second" yaml:"requests_per_second"`
	Burst             int    `toml:"burst" yaml:"burst"`
	// AllowOrigins lists the browser origins allowed to call the API; "*"
	// allows all.
	AllowOrigins []string `toml:"allow_origins" yaml:"allow_origins"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Loop: LoopConfig{
			TickInterval: Duration(8 * time.Millisecond),
			QueueSize:    256,
		},
		Menu: AnimConfig{
			Open:  Duration(175 * time.Millisecond),
			Close: Duration(175 * time.Millisecond),
			Fast:  Duration(50 * time.Millisecond),
		},
		Popup: AnimConfig{
			Open:  Duration(200 * time.Millisecond),
			Close: Duration(200 * time.Millisecond),
			Fast:  Duration(50 * time.Millisecond),
		},
		Running: AnimConfig{
			Open:  Duration(250 * time.Millisecond),
			Close: Duration(250 * time.Millisecond),
			Fast:  Duration(50 * time.Millisecond),
		},
		Wheel: WheelConfig{
			Step:            Duration(240 * time.Millisecond),
			FastStep:        Duration(80 * time.Millisecond),
			Fade:            Duration(250 * time.Millisecond),
			ReseedThreshold: 5,
			PageJump:        10,
		},
		Playfield: PlayfieldConfig{
			Crossfade: Duration(120 * time.Millisecond),
			Width:     1920,
			Height:    1080,
		},
		Media: MediaConfig{
			Root:        "Media",
			Workers:     4,
			LoadTimeout: Duration(3 * time.Second),
			Patterns: map[string]string{
				"playfield": "Playfield Images/{title}.*",
				"video":     "Playfield Videos/{title}.*",
				"wheel":     "Wheel Images/{title}.*",
				"flyer":     "Flyer Images/**/{title}*",
				"instcard":  "Instruction Cards/{title}*",
				"audio":     "Table Audio/{title}.*",
			},
			Defaults: map[string]string{},
		},
		Script: ScriptConfig{
			Enabled:     true,
			Files:       []string{"Scripts/main.js"},
			CallTimeout: Duration(2 * time.Second),
		},
		Effects: EffectsConfig{
			Enabled:    true,
			Device:     "log",
			Interval:   Duration(30 * time.Millisecond),
			Keys:       map[string]int{},
			Brightness: 80,
		},
		Attract: AttractConfig{
			Enabled:    true,
			IdleTime:   Duration(60 * time.Second),
			SwitchTime: Duration(5 * time.Second),
		},
		Input: InputConfig{
			Bindings: map[string]string{
				"Right":     "next",
				"Left":      "prev",
				"Down":      "next",
				"Up":        "prev",
				"PageDown":  "nextpage",
				"PageUp":    "prevpage",
				"Enter":     "select",
				"Escape":    "exit",
				"Backspace": "exit",
				"L":         "launch",
				"I":         "info",
			},
		},
		Games: GamesConfig{
			File:    "games.yaml",
			Filters: []string{"all", "favorites"},
		},
		Launch: LaunchConfig{
			Args:      []string{"{path}"},
			LoadDelay: Duration(5 * time.Second),
		},
		Debug: DebugConfig{
			Addr:              "",
			RequestsPerSecond: 20,
			Burst:             40,
			AllowOrigins:      []string{"*"},
		},
	}
}

// Load builds the configuration: defaults, then the optional file at path,
// then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration or returns the defaults on any error.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
}

// MergeFile overlays the values found in a TOML or YAML file.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks ranges that would otherwise wedge the engine.
func (c *Config) Validate() error {
	durations := map[string]Duration{
		"loop.tick_interval":  c.Loop.TickInterval,
		"menu.open":           c.Menu.Open,
		"menu.close":          c.Menu.Close,
		"popup.open":          c.Popup.Open,
		"popup.close":         c.Popup.Close,
		"running.open":        c.Running.Open,
		"running.close":       c.Running.Close,
		"wheel.step":          c.Wheel.Step,
		"wheel.fast_step":     c.Wheel.FastStep,
		"playfield.crossfade": c.Playfield.Crossfade,
		"media.load_timeout":  c.Media.LoadTimeout,
		"effects.interval":    c.Effects.Interval,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalid, name)
		}
	}
	if c.Wheel.ReseedThreshold < 2 {
		return fmt.Errorf("%w: wheel.reseed_threshold must be at least 2", ErrInvalid)
	}
	if c.Media.Workers < 1 {
		return fmt.Errorf("%w: media.workers must be at least 1", ErrInvalid)
	}
	if c.Loop.QueueSize < 1 {
		return fmt.Errorf("%w: loop.queue_size must be at least 1", ErrInvalid)
	}
	return nil
}
