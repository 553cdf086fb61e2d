package popup

import (
	"testing"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/anim"
	"github.com/mjrgh/PinballY-sub000/internal/ui/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timing = Timing{
	Open:        100 * time.Millisecond,
	Close:       100 * time.Millisecond,
	Fast:        20 * time.Millisecond,
	LoadTimeout: time.Second,
}

func TestLinearFade(t *testing.T) {
	var settled []anim.Phase
	m := New(timing, func(k surface.Kind, p anim.Phase) {
		assert.Equal(t, surface.Popup, k)
		settled = append(settled, p)
	}, nil)
	base := time.Unix(0, 0)

	m.BeginOpen(Descriptor{Type: TypeInfo}, base, false)
	m.Advance(25 * time.Millisecond)
	assert.InDelta(t, 0.25, m.AppendVisuals(nil)[0].Alpha, 1e-9)

	require.True(t, m.Advance(100*time.Millisecond))
	m.OnComplete()
	assert.Equal(t, anim.Steady, m.Phase())

	m.BeginClose(base.Add(time.Second), false)
	m.Advance(75 * time.Millisecond)
	assert.InDelta(t, 0.25, m.AppendVisuals(nil)[0].Alpha, 1e-9)
	require.True(t, m.Advance(100*time.Millisecond))
	m.OnComplete()

	assert.Equal(t, []anim.Phase{anim.Steady, anim.Idle}, settled)
	assert.Empty(t, m.AppendVisuals(nil))
}

func TestMediaGateHoldsUntilMediaArrives(t *testing.T) {
	m := New(timing, nil, nil)
	base := time.Unix(0, 0)

	m.BeginOpen(Descriptor{Type: TypeFlyer, MediaKinds: []string{"flyer"}}, base, false)
	assert.True(t, m.Waiting())

	assert.False(t, m.Advance(500*time.Millisecond))
	assert.Equal(t, 0.0, m.AppendVisuals(nil)[0].Alpha)

	m.SetMedia(types.Media{Kind: types.MediaImage, Path: "flyer.png"}, base.Add(500*time.Millisecond))
	assert.False(t, m.Waiting())
	assert.Equal(t, base.Add(500*time.Millisecond), m.PhaseStart())

	assert.True(t, m.Advance(100*time.Millisecond))
	assert.Equal(t, "flyer.png", m.AppendVisuals(nil)[0].Media.Path)
}

func TestMediaGateTimesOut(t *testing.T) {
	var timedOut []Descriptor
	m := New(timing, nil, func(d Descriptor) { timedOut = append(timedOut, d) })
	base := time.Unix(0, 0)

	m.BeginOpen(Descriptor{Type: TypeInstructions, MediaKinds: []string{"instcard"}}, base, false)

	assert.False(t, m.Advance(time.Second))
	require.Len(t, timedOut, 1)
	assert.Equal(t, TypeInstructions, timedOut[0].Type)
	assert.False(t, m.Waiting())
	assert.Equal(t, base.Add(time.Second), m.PhaseStart())

	assert.True(t, m.Advance(100*time.Millisecond))
	assert.Equal(t, anim.Steady, m.Phase())
}

func TestSameKind(t *testing.T) {
	assert.True(t, Descriptor{Type: TypeFlyer, Page: 1}.SameKind(Descriptor{Type: TypeFlyer, Page: 2}))
	assert.False(t, Descriptor{Type: TypeFlyer}.SameKind(Descriptor{Type: TypeInfo}))
	assert.True(t, Descriptor{Type: TypeUser, Name: "a"}.SameKind(Descriptor{Type: TypeUser, Name: "a"}))
	assert.False(t, Descriptor{Type: TypeUser, Name: "a"}.SameKind(Descriptor{Type: TypeUser, Name: "b"}))
}

func TestVolumeAdjustClamps(t *testing.T) {
	m := New(timing, nil, nil)
	m.BeginOpen(Descriptor{Type: TypeVolume, Value: 99}, time.Unix(0, 0), false)

	assert.True(t, m.HandleCommand(types.CmdNext))
	assert.True(t, m.HandleCommand(types.CmdNext))
	desc, _ := m.Current()
	assert.Equal(t, 100, desc.Value)

	assert.False(t, m.HandleCommand(types.CmdSelect))
}

func TestInfoIgnoresNavigation(t *testing.T) {
	m := New(timing, nil, nil)
	m.BeginOpen(Descriptor{Type: TypeInfo}, time.Unix(0, 0), false)
	assert.False(t, m.HandleCommand(types.CmdNext))
}

func TestSetMediaIgnoredWhenIdle(t *testing.T) {
	m := New(timing, nil, nil)
	m.SetMedia(types.Media{Kind: types.MediaImage}, time.Unix(0, 0))
	assert.Empty(t, m.AppendVisuals(nil))
}

func TestReplaceKeepsPhase(t *testing.T) {
	m := New(timing, nil, nil)
	m.BeginOpen(Descriptor{Type: TypeFlyer, Page: 0}, time.Unix(0, 0), false)
	m.Advance(100 * time.Millisecond)
	first := m.ID()

	second := m.Replace(Descriptor{Type: TypeFlyer, Page: 1})
	assert.NotEqual(t, first, second)
	assert.Equal(t, anim.Steady, m.Phase())
	desc, _ := m.Current()
	assert.Equal(t, 1, desc.Page)
}
