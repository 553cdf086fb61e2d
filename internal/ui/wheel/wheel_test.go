package wheel

import (
	"testing"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cfg = Config{
	Step:            200 * time.Millisecond,
	FastStep:        50 * time.Millisecond,
	Fade:            100 * time.Millisecond,
	ReseedThreshold: 5,
}

func titles(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Game.Title
	}
	return out
}

func TestInitialWindow(t *testing.T) {
	m := New(cfg, testutil.NewGames(20), nil)

	assert.Equal(t, Rest, m.State())
	assert.False(t, m.Animating())
	assert.Equal(t, []string{"Game 18", "Game 19", "Game 0", "Game 1", "Game 2"}, titles(m.Slots()))
}

func TestSwitchOneSlidesOneSlot(t *testing.T) {
	games := testutil.NewGames(20)
	m := New(cfg, games, nil)
	base := time.Unix(0, 0)

	games.SetSelection(1)
	reseeded := m.Switch(1, false, base)
	assert.False(t, reseeded)
	assert.Equal(t, Switching, m.State())
	assert.Equal(t, cfg.Step, m.Duration())

	slots := m.Slots()
	require.Len(t, slots, 6)
	assert.Equal(t, "Game 18", slots[0].Game.Title)
	assert.Equal(t, -2.0, slots[0].From)
	assert.Equal(t, -3.0, slots[0].To)

	assert.False(t, m.Advance(100*time.Millisecond))
	assert.True(t, m.Advance(200*time.Millisecond))
	assert.Equal(t, Rest, m.State())
	assert.Equal(t, []string{"Game 19", "Game 0", "Game 1", "Game 2", "Game 3"}, titles(m.Slots()))
}

func TestFastTiming(t *testing.T) {
	games := testutil.NewGames(20)
	m := New(cfg, games, nil)

	games.SetSelection(-1)
	m.Switch(-1, true, time.Unix(0, 0))
	assert.Equal(t, cfg.FastStep, m.Duration())
}

func TestShortJumpSlidesThroughIntermediateGames(t *testing.T) {
	games := testutil.NewGames(20)
	m := New(cfg, games, nil)

	games.SetSelection(3)
	assert.False(t, m.Switch(3, false, time.Unix(0, 0)))
	assert.Len(t, m.Slots(), 8)
}

func TestLongJumpReseedsWindow(t *testing.T) {
	games := testutil.NewGames(40)
	m := New(cfg, games, nil)

	games.SetSelection(7)
	reseeded := m.Switch(7, false, time.Unix(0, 0))

	require.True(t, reseeded)
	assert.Equal(t, Reseeding, m.State())
	assert.Equal(t, cfg.Step, m.Duration(), "reseed costs a single step")
	assert.LessOrEqual(t, len(m.Slots()), 6)

	m.Advance(cfg.Step)
	assert.Equal(t, []string{"Game 5", "Game 6", "Game 7", "Game 8", "Game 9"}, titles(m.Slots()))
}

func TestConfigurableReseedThreshold(t *testing.T) {
	games := testutil.NewGames(40)
	c := cfg
	c.ReseedThreshold = 10
	m := New(c, games, nil)

	games.SetSelection(7)
	assert.False(t, m.Switch(7, false, time.Unix(0, 0)))
	assert.Len(t, m.Slots(), 12)
}

func TestNewInputSnapsRunningSlide(t *testing.T) {
	games := testutil.NewGames(20)
	m := New(cfg, games, nil)
	base := time.Unix(0, 0)

	games.SetSelection(1)
	m.Switch(1, false, base)
	m.Advance(50 * time.Millisecond)

	games.SetSelection(1)
	m.Switch(1, false, base.Add(50*time.Millisecond))

	assert.Equal(t, base.Add(50*time.Millisecond), m.PhaseStart())
	slots := m.Slots()
	require.Len(t, slots, 6)
	// the previous slide finished: the new one starts from whole positions
	for _, s := range slots {
		assert.Equal(t, s.To+1, s.From)
	}
	assert.Equal(t, "Game 2", slots[3].Game.Title)
}

func TestFadeOutAndIn(t *testing.T) {
	games := testutil.NewGames(10)
	m := New(cfg, games, nil)
	base := time.Unix(0, 0)

	m.FadeOut(base)
	assert.True(t, m.Animating())
	assert.True(t, m.Advance(100*time.Millisecond))
	assert.Equal(t, Hidden, m.State())
	assert.Empty(t, m.AppendVisuals(nil))

	// switching while hidden moves without sliding
	games.SetSelection(2)
	m.Switch(2, false, base)
	assert.Equal(t, Hidden, m.State())
	assert.Equal(t, "Game 2", m.Slots()[2].Game.Title)

	m.FadeIn(base.Add(time.Second))
	assert.True(t, m.Advance(100*time.Millisecond))
	assert.Equal(t, Rest, m.State())
	assert.Len(t, m.AppendVisuals(nil), 5)
}

func TestMissingMedia(t *testing.T) {
	m := New(cfg, testutil.NewGames(3), nil)
	assert.Len(t, m.MissingMedia(), 3)

	m.SetGameMedia("game-00", testutilMedia())
	assert.Len(t, m.MissingMedia(), 2)
}

func TestEmptyGameList(t *testing.T) {
	m := New(cfg, testutil.NewGames(0), nil)
	assert.Empty(t, m.Slots())
	assert.False(t, m.Switch(1, false, time.Unix(0, 0)))
}

func TestCenterSlotHighlighted(t *testing.T) {
	m := New(cfg, testutil.NewGames(10), nil)
	highlighted := 0
	for _, v := range m.AppendVisuals(nil) {
		if v.Highlight {
			highlighted++
			assert.Equal(t, "Game 0", v.Text)
		}
	}
	assert.Equal(t, 1, highlighted)
}

func testutilMedia() types.Media {
	return types.Media{Kind: types.MediaImage, Path: "wheel.png"}
}
