package running

import (
	"testing"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/anim"
	"github.com/mjrgh/PinballY-sub000/internal/ui/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timing = Timing{Open: 200 * time.Millisecond, Close: 200 * time.Millisecond}

func TestLifecycle(t *testing.T) {
	var settled []anim.Phase
	m := New(timing, func(k surface.Kind, p anim.Phase) {
		assert.Equal(t, surface.Running, k)
		settled = append(settled, p)
	})
	base := time.Unix(0, 0)
	game := types.GameRef{ID: "mm", Title: "Medieval Madness"}

	require.True(t, m.Starting(game, base))
	assert.Equal(t, Starting, m.State())
	assert.False(t, m.Starting(game, base), "already starting")

	assert.True(t, m.Advance(200*time.Millisecond))
	m.OnComplete()
	assert.False(t, m.Frozen(), "not loaded yet")

	require.True(t, m.Loaded())
	assert.True(t, m.Frozen())
	assert.Equal(t, "Medieval Madness", m.AppendVisuals(nil)[0].Text)

	require.True(t, m.Exited(base.Add(time.Minute)))
	assert.Equal(t, Exiting, m.State())
	assert.False(t, m.Frozen())

	assert.True(t, m.Advance(200*time.Millisecond))
	m.OnComplete()
	assert.Equal(t, None, m.State())
	assert.Equal(t, []anim.Phase{anim.Steady, anim.Idle}, settled)
	assert.Empty(t, m.AppendVisuals(nil))
}

func TestExitWhileStarting(t *testing.T) {
	m := New(timing, nil)
	base := time.Unix(0, 0)

	m.Starting(types.GameRef{ID: "x"}, base)
	m.Advance(50 * time.Millisecond)

	require.True(t, m.Exited(base.Add(50*time.Millisecond)))
	assert.Equal(t, anim.Closing, m.Phase())
}

func TestIgnoresOutOfOrderNotices(t *testing.T) {
	m := New(timing, nil)
	assert.False(t, m.Loaded())
	assert.False(t, m.Exited(time.Unix(0, 0)))
}

func TestGameStateString(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "starting", Starting.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "exiting", Exiting.String())
}
