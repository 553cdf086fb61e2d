package effects

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/config"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"go.uber.org/zap"
	"rafaelmartins.com/p/streamdeck"
)

// Disabled is a client that is never ready
type Disabled struct{}

func (Disabled) Ready() bool                     { return false }
func (Disabled) SetNamedState(string, int) error { return nil }
func (Disabled) Close() error                    { return nil }

// LogClient writes effect changes to the log
type LogClient struct {
	log *zap.Logger
}

// NewLogClient creates a log client
func NewLogClient(log *zap.Logger) *LogClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogClient{log: log}
}

func (c *LogClient) Ready() bool { return true }

func (c *LogClient) SetNamedState(name string, value int) error {
	c.log.Info("effect", zap.String("name", name), zap.Int("value", value))
	return nil
}

func (c *LogClient) Close() error { return nil }

// DeckClient lights Stream Deck keys for named effects. Each configured
// effect name owns one key: ON paints it, OFF clears it.
type DeckClient struct {
	device *streamdeck.Device
	keys   map[string]streamdeck.KeyID
	on     color.Color
	log    *zap.Logger
	ready  bool
}

// OpenDeck opens the first attached Stream Deck (or the one with the given
// serial number).
func OpenDeck(serial string, keys map[string]int, brightness int, log *zap.Logger) (*DeckClient, error) {
	if log == nil {
		log = zap.NewNop()
	}

	device, err := streamdeck.GetDevice(serial)
	if err != nil {
		return nil, fmt.Errorf("failed to find stream deck: %w", err)
	}
	if err := device.Open(); err != nil {
		return nil, fmt.Errorf("failed to open stream deck: %w", err)
	}

	count := int(device.GetKeyCount())
	mapped := make(map[string]streamdeck.KeyID, len(keys))
	for name, idx := range keys {
		if idx < 0 || idx >= count {
			log.Warn("effect key out of range", zap.String("name", name), zap.Int("key", idx), zap.Int("keys", count))
			continue
		}
		mapped[name] = streamdeck.KEY_1 + streamdeck.KeyID(idx)
	}

	brightness = min(max(brightness, 0), 100)
	if err := device.SetBrightness(byte(brightness)); err != nil {
		log.Warn("failed to set brightness", zap.Error(err))
	}
	device.ForEachKey(func(key streamdeck.KeyID) error {
		return device.ClearKey(key)
	})

	log.Info("stream deck ready",
		zap.String("model", device.GetModelName()),
		zap.Strings("effects", sortedNames(mapped)))

	return &DeckClient{
		device: device,
		keys:   mapped,
		on:     color.RGBA{R: 0xff, G: 0x8c, B: 0x00, A: 0xff},
		log:    log,
		ready:  true,
	}, nil
}

func (c *DeckClient) Ready() bool { return c.ready }

func (c *DeckClient) SetNamedState(name string, value int) error {
	key, ok := c.keys[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEffect, name)
	}
	var err error
	if value != 0 {
		err = c.device.SetKeyColor(key, c.on)
	} else {
		err = c.device.ClearKey(key)
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", name, err)
	}
	return nil
}

// Close clears the keys and releases the device
func (c *DeckClient) Close() error {
	if !c.ready {
		return nil
	}
	c.ready = false
	for _, key := range c.keys {
		_ = c.device.ClearKey(key)
	}
	return c.device.Close()
}

// Client is a device client that can be released
type Client interface {
	types.EffectClient
	Close() error
}

// NewClient builds the client selected by cfg.Device
func NewClient(cfg config.EffectsConfig, log *zap.Logger) (Client, error) {
	if !cfg.Enabled {
		return Disabled{}, nil
	}
	switch cfg.Device {
	case "", "log":
		return NewLogClient(log), nil
	case "streamdeck":
		return OpenDeck("", cfg.Keys, cfg.Brightness, log)
	case "none":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown effects device %q", cfg.Device)
	}
}

func sortedNames(keys map[string]streamdeck.KeyID) []string {
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
