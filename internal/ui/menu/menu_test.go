package menu

import (
	"testing"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/ui/anim"
	"github.com/mjrgh/PinballY-sub000/internal/ui/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timing = Timing{Open: 100 * time.Millisecond, Close: 100 * time.Millisecond, Fast: 20 * time.Millisecond}

func mainMenu() Descriptor {
	return Descriptor{
		ID: "main",
		Items: []Item{
			{Label: "Play", Command: "play"},
			{Label: ""},
			{Label: "Flyer", Command: "flyer", Flags: ItemSelected},
			{Label: "Exit", Command: "exit"},
		},
	}
}

type settleLog struct {
	kinds  []surface.Kind
	phases []anim.Phase
}

func (s *settleLog) record(kind surface.Kind, phase anim.Phase) {
	s.kinds = append(s.kinds, kind)
	s.phases = append(s.phases, phase)
}

func TestOpenReachesSteady(t *testing.T) {
	var log settleLog
	m := New(timing, log.record)
	base := time.Unix(0, 0)

	id := m.BeginOpen(mainMenu(), base, false)
	assert.NotEmpty(t, id)
	assert.Equal(t, anim.Opening, m.Phase())
	assert.True(t, m.Animating())

	assert.False(t, m.Advance(50*time.Millisecond))
	assert.True(t, m.Advance(100*time.Millisecond))
	m.OnComplete()

	assert.Equal(t, anim.Steady, m.Phase())
	assert.False(t, m.Animating())
	assert.Equal(t, []anim.Phase{anim.Steady}, log.phases)
	assert.Equal(t, []surface.Kind{surface.Menu}, log.kinds)
}

func TestInitialSelectionHonorsFlag(t *testing.T) {
	m := New(timing, nil)
	m.BeginOpen(mainMenu(), time.Unix(0, 0), false)

	item, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "flyer", item.Command)
}

func TestMoveSkipsSeparatorsAndWraps(t *testing.T) {
	m := New(timing, nil)
	m.BeginOpen(mainMenu(), time.Unix(0, 0), false)

	require.True(t, m.HandleCommand(types.CmdNext))
	item, _ := m.Selected()
	assert.Equal(t, "exit", item.Command)

	m.Move(1)
	item, _ = m.Selected()
	assert.Equal(t, "play", item.Command)

	m.Move(-1)
	item, _ = m.Selected()
	assert.Equal(t, "exit", item.Command)

	assert.False(t, m.HandleCommand(types.CmdSelect))
}

func TestDialogStylePromptNotSelectable(t *testing.T) {
	m := New(timing, nil)
	m.BeginOpen(Descriptor{
		ID:    "confirm",
		Flags: DialogStyle,
		Items: []Item{
			{Label: "Really quit?", Command: "prompt"},
			{Label: "Yes", Command: "yes"},
			{Label: "No", Command: "no"},
		},
	}, time.Unix(0, 0), false)

	item, _ := m.Selected()
	assert.Equal(t, "yes", item.Command)

	m.Move(-1)
	item, _ = m.Selected()
	assert.Equal(t, "no", item.Command)
}

func TestCloseOpeningMenuSnapsToSteadyFirst(t *testing.T) {
	var phases []string
	m := New(timing, nil)
	m.Observe(func(from, to anim.Phase) { phases = append(phases, to.String()) })
	base := time.Unix(0, 0)

	m.BeginOpen(mainMenu(), base, false)
	m.Advance(30 * time.Millisecond)
	m.BeginClose(base.Add(30*time.Millisecond), false)

	assert.Equal(t, anim.Closing, m.Phase())
	assert.Equal(t, base.Add(30*time.Millisecond), m.PhaseStart())
	assert.Equal(t, []string{"opening", "steady", "closing"}, phases)

	assert.True(t, m.Advance(100*time.Millisecond))
	assert.Equal(t, anim.Idle, m.Phase())
	_, visible := m.Current()
	assert.False(t, visible)
}

func TestFastTiming(t *testing.T) {
	m := New(timing, nil)
	m.BeginOpen(mainMenu(), time.Unix(0, 0), true)
	assert.True(t, m.Advance(20*time.Millisecond))
}

func TestNoAnimationOpensSteady(t *testing.T) {
	m := New(timing, nil)
	desc := mainMenu()
	desc.Flags = NoAnimation
	m.BeginOpen(desc, time.Unix(0, 0), false)

	assert.Equal(t, anim.Steady, m.Phase())
	assert.False(t, m.Animating())
}

func TestOpenWhileVisiblePanics(t *testing.T) {
	m := New(timing, nil)
	m.BeginOpen(mainMenu(), time.Unix(0, 0), false)
	assert.Panics(t, func() { m.BeginOpen(mainMenu(), time.Unix(0, 0), false) })
}

func TestDropClearsImmediately(t *testing.T) {
	m := New(timing, nil)
	m.BeginOpen(mainMenu(), time.Unix(0, 0), false)
	m.Drop()

	assert.Equal(t, anim.Idle, m.Phase())
	assert.Empty(t, m.AppendVisuals(nil))
}

func TestPaging(t *testing.T) {
	items := make([]Item, 30)
	for i := range items {
		items[i] = Item{Label: "game", Command: "pick"}
	}
	desc := Descriptor{ID: "games", Items: items, PageSize: 12}

	assert.Equal(t, 3, desc.Pages())
	assert.Len(t, desc.Visible(), 12)
	assert.Len(t, desc.WithPage(2).Visible(), 6)
	assert.Equal(t, 0, desc.WithPage(3).Page)
	assert.Equal(t, 2, desc.WithPage(-1).Page)
}

func TestVisualsFollowAnimation(t *testing.T) {
	m := New(timing, nil)
	m.BeginOpen(mainMenu(), time.Unix(0, 0), false)
	m.Advance(0)

	visuals := m.AppendVisuals(nil)
	require.NotEmpty(t, visuals)
	assert.Equal(t, 0.0, visuals[0].Alpha)
	assert.Equal(t, types.LayerMenu, visuals[0].Layer)

	m.Advance(100 * time.Millisecond)
	visuals = m.AppendVisuals(nil)
	assert.InDelta(t, 0.85, visuals[0].Alpha, 1e-9)
	assert.Equal(t, 1.0, visuals[0].Scale)

	highlighted := 0
	for _, v := range visuals {
		if v.Highlight {
			highlighted++
			assert.Equal(t, "Flyer", v.Text)
		}
	}
	assert.Equal(t, 1, highlighted)
}
