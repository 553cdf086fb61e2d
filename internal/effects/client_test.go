package effects

import (
	"testing"

	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewClientSelection(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.EffectsConfig
		ready   bool
		wantErr bool
	}{
		{name: "disabled", cfg: config.EffectsConfig{Enabled: false, Device: "log"}, ready: false},
		{name: "log", cfg: config.EffectsConfig{Enabled: true, Device: "log"}, ready: true},
		{name: "default", cfg: config.EffectsConfig{Enabled: true}, ready: true},
		{name: "none", cfg: config.EffectsConfig{Enabled: true, Device: "none"}, ready: false},
		{name: "unknown", cfg: config.EffectsConfig{Enabled: true, Device: "ledwiz"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ready, client.Ready())
			assert.NoError(t, client.Close())
		})
	}
}

func TestLogClientLogsEffects(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	client := NewLogClient(zap.New(core))

	require.NoError(t, client.SetNamedState("PBYLaunch", 1))

	entries := logs.FilterMessage("effect").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "PBYLaunch", entries[0].ContextMap()["name"])
	assert.Equal(t, int64(1), entries[0].ContextMap()["value"])
}
