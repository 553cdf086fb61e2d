package script

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mjrgh/PinballY-sub000/internal/ui/menu"
	"github.com/mjrgh/PinballY-sub000/internal/ui/popup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowMenuBuildsDescriptor(t *testing.T) {
	b, host, _ := newBridge(t)

	ok := run(t, b, `mainWindow.showMenu("custom", [
		{ title: "Are you sure?" },
		{ title: "Yes", cmd: "confirm", selected: true },
		{ title: "Sound", cmd: "sound", checked: true, stayOpen: true },
		{ title: "No", cmd: "cancel" }
	], { dialogStyle: true, noAnimation: true })`)
	assert.Equal(t, true, ok)

	require.Len(t, host.menus, 1)
	d := host.menus[0]
	assert.Equal(t, "custom", d.ID)
	assert.True(t, d.Flags.Has(menu.User|menu.DialogStyle|menu.NoAnimation))
	assert.False(t, d.Flags.Has(menu.IsExitMenu))
	require.Len(t, d.Items, 4)
	assert.Equal(t, menu.Item{Label: "Are you sure?"}, d.Items[0])
	assert.True(t, d.Items[1].Flags.Has(menu.ItemSelected))
	assert.True(t, d.Items[2].Flags.Has(menu.ItemChecked|menu.ItemStaysOpen))
	assert.Equal(t, "cancel", d.Items[3].Command)
}

func TestShowMenuReportsRefusal(t *testing.T) {
	b, host, _ := newBridge(t)
	host.refuse = errors.New("canceled")
	assert.Equal(t, false, run(t, b, `mainWindow.showMenu("x", [])`))
	assert.Equal(t, false, run(t, b, `mainWindow.launchGame()`))
}

func TestShowPopupDefaultsToUserType(t *testing.T) {
	b, host, _ := newBridge(t)

	run(t, b, `mainWindow.showPopup("scores", { message: "High scores", lines: ["AAA 1,000,000"] })`)
	run(t, b, `mainWindow.showPopup("flyer", { type: "flyer", media: ["flyer"] })`)

	require.Len(t, host.popups, 2)
	assert.Equal(t, popup.TypeUser, host.popups[0].Type)
	assert.Equal(t, "scores", host.popups[0].Name)
	assert.Equal(t, []string{"AAA 1,000,000"}, host.popups[0].Lines)
	assert.Equal(t, "mm", host.popups[0].Game.ID)
	assert.Equal(t, popup.TypeFlyer, host.popups[1].Type)
	assert.Equal(t, []string{"flyer"}, host.popups[1].MediaKinds)
}

func TestHostPassthroughs(t *testing.T) {
	b, host, _ := newBridge(t)

	assert.Equal(t, "wheel", run(t, b, `mainWindow.getUIMode()`))
	run(t, b, `mainWindow.closeMenusAndPopups(); mainWindow.setFilter("fav"); mainWindow.switchGame(-3);`)
	run(t, b, `dof.pulse("PBYLaunch"); dof.set("PBYCustom", 1);`)

	assert.Equal(t, 1, host.closed)
	assert.Equal(t, "fav", host.filter)
	assert.Equal(t, []int{-3}, host.switches)
	assert.Equal(t, []string{"PBYLaunch"}, host.pulses)
	assert.Equal(t, 1, host.effects["PBYCustom"])

	assert.Equal(t, "Medieval Madness", run(t, b, `gameList.getCurSelection().title`))
	assert.EqualValues(t, 1997, run(t, b, `gameList.getCurSelection().year`))
}

func TestReentrantShowMenuFromListener(t *testing.T) {
	b, host, _ := newBridge(t)
	run(t, b, `mainWindow.on("menuopen", function(ev) {
		if (ev.id === "main") { mainWindow.showMenu("replacement", [{ title: "Only", cmd: "only" }]); return false; }
	});`)

	assert.False(t, b.Fire("menuopen", map[string]any{"id": "main"}))
	require.Len(t, host.menus, 1)
	assert.Equal(t, "replacement", host.menus[0].ID)
}

func TestLoadFile(t *testing.T) {
	b, _, _ := newBridge(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(path, []byte(`var loaded = "yes";`), 0o644))

	require.NoError(t, b.LoadFile(path))
	assert.Equal(t, "yes", run(t, b, `loaded`))

	bad := filepath.Join(dir, "bad.js")
	require.NoError(t, os.WriteFile(bad, []byte(`this is not javascript`), 0o644))
	assert.Error(t, b.LoadFile(bad))
	assert.Error(t, b.LoadFile(filepath.Join(dir, "missing.js")))
}
