package engine

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/config"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/logging"
	"github.com/mjrgh/PinballY-sub000/internal/infrastructure/monitoring"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/mjrgh/PinballY-sub000/internal/testutil"
	"github.com/mjrgh/PinballY-sub000/internal/ui/anim"
	"github.com/mjrgh/PinballY-sub000/internal/ui/menu"
	"github.com/mjrgh/PinballY-sub000/internal/ui/mode"
	"github.com/mjrgh/PinballY-sub000/internal/ui/popup"
	"github.com/mjrgh/PinballY-sub000/internal/ui/wheel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t        *testing.T
	eng      *Engine
	now      *testutil.ManualClock
	games    *testutil.Games
	device   *testutil.Effects
	renderer *testutil.MockRenderer
	metrics  *monitoring.Metrics
}

func newFixture(t *testing.T, resolver types.MediaResolver) *fixture {
	t.Helper()
	if resolver == nil {
		resolver = testutil.Resolver{}
	}
	f := &fixture{
		t:        t,
		now:      testutil.NewManualClock(),
		games:    testutil.NewGames(20),
		renderer: testutil.NewMockRenderer(t),
		metrics:  monitoring.NewMetrics(prometheus.NewRegistry()),
	}
	f.device = testutil.NewEffects(f.now.Now)

	cfg := config.Default()
	cfg.Script.Enabled = false
	cfg.Media.Root = ""
	cfg.Attract.Enabled = false

	eng, err := New(cfg, &types.Context{
		Games:    f.games,
		Resolver: resolver,
		Renderer: f.renderer,
		Launcher: testutil.NewMockLauncher(t),
		Effects:  f.device,
		Logger:   logging.NewNop(),
		Metrics:  f.metrics,
		Now:      f.now.Now,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	f.eng = eng

	eng.Start(context.Background())
	f.settle()
	return f
}

// settle waits for in-flight media and delivers the results
func (f *fixture) settle() {
	f.eng.Media().Wait()
	f.eng.Step(f.now.Now())
}

// run steps the engine in 8ms increments for d
func (f *fixture) run(d time.Duration) {
	for end := f.now.Now().Add(d); f.now.Now().Before(end); {
		f.eng.Step(f.now.Advance(8 * time.Millisecond))
	}
}

func (f *fixture) lastFrame() types.Frame {
	f.t.Helper()
	calls := f.renderer.Calls
	require.NotEmpty(f.t, calls)
	return calls[len(calls)-1].Arguments.Get(0).(types.Frame)
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 36))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()
	require.NoError(t, png.Encode(out, img))
	return path
}

func TestNewRequiresGames(t *testing.T) {
	_, err := New(config.Default(), &types.Context{})
	assert.Error(t, err)
}

func TestShowMenuFromWheel(t *testing.T) {
	f := newFixture(t, nil)
	f.run(time.Second)

	require.NoError(t, f.eng.ShowMenu(menu.Descriptor{ID: "main"}, 0, 0))
	ctrl := f.eng.Controller()
	assert.Equal(t, anim.Opening, ctrl.Menu().Phase())
	assert.True(t, f.eng.Clock().Armed())

	f.run(200 * time.Millisecond)
	assert.Equal(t, anim.Steady, ctrl.Menu().Phase())
	assert.False(t, f.eng.Clock().Armed(), "clock disarms once nothing animates")
}

func TestPopupWaitsForMenu(t *testing.T) {
	f := newFixture(t, nil)
	ctrl := f.eng.Controller()
	require.NoError(t, f.eng.ShowMenu(menu.Descriptor{ID: "main"}, 0, 0))
	f.run(200 * time.Millisecond)

	require.NoError(t, f.eng.ShowPopup(popup.Descriptor{Type: popup.TypeInfo}))
	assert.Equal(t, anim.Closing, ctrl.Menu().Phase())
	assert.Equal(t, anim.Idle, ctrl.Popup().Phase())

	for ctrl.Menu().Phase() != anim.Idle {
		assert.Equal(t, anim.Idle, ctrl.Popup().Phase())
		f.run(8 * time.Millisecond)
	}
	f.run(16 * time.Millisecond)
	assert.Equal(t, anim.Opening, ctrl.Popup().Phase())
	f.run(250 * time.Millisecond)
	assert.Equal(t, anim.Steady, ctrl.Popup().Phase())
}

func TestDoublePulseDispatchesOnePair(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.eng.Pulse("PBYMenuOpen"))
	require.NoError(t, f.eng.Pulse("PBYMenuOpen"))
	f.run(200 * time.Millisecond)

	calls := f.device.CallsFor("PBYMenuOpen")
	require.Len(t, calls, 2)
	assert.Equal(t, 1, calls[0].Value)
	assert.Equal(t, 0, calls[1].Value)
}

func TestPlayfieldShowsLatestSelection(t *testing.T) {
	dir := t.TempDir()
	resolver := testutil.Resolver{
		"game-01/playfield": {writePNG(t, dir, "one.png")},
		"game-02/playfield": {writePNG(t, dir, "two.png")},
	}
	f := newFixture(t, resolver)
	ctrl := f.eng.Controller()

	ctrl.SwitchGame(1)
	ctrl.SwitchGame(1)
	f.settle()
	f.run(time.Second)

	pf := ctrl.Playfield().Current()
	assert.Equal(t, filepath.Join(dir, "two.png"), pf.Path)
	assert.Equal(t, "game-02", ctrl.Playfield().Game().ID)
}

func TestThrowingPopupListenerDoesNotBlockPopup(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.eng.Bridge().Eval(`mainWindow.on("popupopen", function() { throw new Error("boom"); });`)
	require.NoError(t, err)

	require.NoError(t, f.eng.ShowPopup(popup.Descriptor{Type: popup.TypeInfo}))
	assert.Equal(t, anim.Opening, f.eng.Controller().Popup().Phase())

	failures := f.eng.Bridge().Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "event:popupopen", failures[0].Source)
	assert.Contains(t, failures[0].Msg, "boom")
}

func TestCancelingMenuOpenFromScript(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.eng.Bridge().Eval(`mainWindow.on("menuopen", function(ev) { ev.preventDefault(); });`)
	require.NoError(t, err)

	err = f.eng.ShowMenu(menu.Descriptor{ID: "main"}, 0, 0)
	assert.ErrorIs(t, err, mode.ErrCanceled)
	assert.Equal(t, anim.Idle, f.eng.Controller().Menu().Phase())
}

func TestMenuCloseListenerReentersOnce(t *testing.T) {
	f := newFixture(t, nil)
	ctrl := f.eng.Controller()
	_, err := f.eng.Bridge().Eval(`
		var closes = 0;
		mainWindow.on("menuclose", function() {
			closes++;
			mainWindow.closeMenusAndPopups();
			mainWindow.showPopup("notice", { message: "menu closed" });
		});
	`)
	require.NoError(t, err)

	require.NoError(t, f.eng.ShowMenu(menu.Descriptor{ID: "main"}, 0, 0))
	f.run(time.Second)
	require.NoError(t, ctrl.RequestClose())

	closes, err := f.eng.Bridge().Eval(`closes`)
	require.NoError(t, err)
	assert.EqualValues(t, 1, closes)
	assert.Empty(t, f.eng.Bridge().Failures())

	f.run(time.Second)
	assert.Equal(t, anim.Idle, ctrl.Menu().Phase())
	d, ok := ctrl.Popup().Current()
	require.True(t, ok)
	assert.Equal(t, "notice", d.Name)
	assert.NotEqual(t, anim.Idle, ctrl.Popup().Phase())
}

func TestWheelJumpReseeds(t *testing.T) {
	f := newFixture(t, nil)
	ctrl := f.eng.Controller()

	ctrl.SwitchGame(7)
	assert.Equal(t, wheel.Reseeding, ctrl.Wheel().State())
	assert.Equal(t, config.Default().Wheel.Step.Std(), ctrl.Wheel().Duration())
	assert.Len(t, ctrl.Wheel().Slots(), 6)

	f.run(time.Second)
	assert.Equal(t, wheel.Rest, ctrl.Wheel().State())
	assert.Equal(t, "game-07", f.games.CurrentSelection().ID)
	assert.Len(t, ctrl.Wheel().Slots(), 2*wheel.HalfWindow+1)
}

func TestStepOrderInputBeforeTasksBeforeFrame(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.eng.Bridge().Eval(`
		var seen = [];
		setTimeout(function() { seen.push(mainWindow.getUIMode()); }, 0);
	`)
	require.NoError(t, err)

	require.True(t, f.eng.PostInput(types.Input{Kind: types.KeyDown, Key: "Enter"}))
	f.eng.Step(f.now.Now())

	seen, err := f.eng.Bridge().Eval(`seen.join(",")`)
	require.NoError(t, err)
	assert.Equal(t, "menu", seen)

	hasMenu := false
	for _, v := range f.lastFrame().Visuals {
		if v.Layer == types.LayerMenu {
			hasMenu = true
		}
	}
	assert.True(t, hasMenu, "the frame submitted in the same step shows the menu")
}

func TestStateReadsOnUIThread(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan mode.State, 1)
	go func() {
		s, err := f.eng.State(ctx)
		assert.NoError(t, err)
		done <- s
	}()

	require.Eventually(t, func() bool {
		f.eng.Step(f.now.Now())
		return len(done) == 1
	}, time.Second, 5*time.Millisecond)
	s := <-done
	assert.Equal(t, "wheel", s.Mode)
	assert.Equal(t, "game-00", s.Selection.ID)
}

func TestLaunchNoticesArePosted(t *testing.T) {
	f := newFixture(t, nil)
	launcher := f.eng.ctx.Launcher.(*testutil.MockLauncher)
	ctrl := f.eng.Controller()

	require.NoError(t, ctrl.RequestLaunch())
	game := f.games.CurrentSelection()
	launcher.Notify(types.LaunchStarting, game)
	assert.Equal(t, mode.Wheel, ctrl.Mode(), "notices apply on the UI thread")

	f.eng.Step(f.now.Now())
	assert.Equal(t, mode.Running, ctrl.Mode())
	assert.Equal(t, 1, f.eng.Effects().State("PBYRunning"))

	launcher.Notify(types.LaunchExited, game)
	f.run(time.Second)
	assert.Equal(t, mode.Wheel, ctrl.Mode())
	assert.Equal(t, 0, f.eng.Effects().State("PBYRunning"))
}

func TestMetricsRecordSteps(t *testing.T) {
	f := newFixture(t, nil)
	f.run(100 * time.Millisecond)
	assert.NotZero(t, f.metrics.Snapshot().Steps)
}
