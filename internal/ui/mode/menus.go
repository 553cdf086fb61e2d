package mode

import (
	"strings"

	"github.com/mjrgh/PinballY-sub000/internal/ui/menu"
)

// Menu command ids. Commands not listed here go to the application's
// command handler.
const (
	CmdClose        = "close"
	CmdPlay         = "play"
	CmdInfo         = "info"
	CmdFlyer        = "flyer"
	CmdInstructions = "instructions"
	CmdHighScores   = "highscores"
	CmdRate         = "rate"
	CmdVolume       = "volume"
	CmdFilters      = "filters"
	CmdExit         = "exitapp"
	CmdShutdown     = "shutdown"

	filterPrefix = "filter:"
)

func mainMenu() menu.Descriptor {
	return menu.Descriptor{
		ID: "main",
		Items: []menu.Item{
			{Label: "Play", Command: CmdPlay, Flags: menu.ItemSelected},
			{Label: "Information", Command: CmdInfo},
			{Label: "Flyer", Command: CmdFlyer},
			{Label: "Instructions", Command: CmdInstructions},
			{Label: "High Scores", Command: CmdHighScores},
			{},
			{Label: "Rate Game", Command: CmdRate},
			{Label: "Adjust Volume", Command: CmdVolume},
			{Label: "Filter Games", Command: CmdFilters, Flags: menu.ItemHasSubmenu},
			{},
			{Label: "Cancel", Command: CmdClose},
		},
	}
}

func exitMenu() menu.Descriptor {
	return menu.Descriptor{
		ID:    "exit",
		Flags: menu.IsExitMenu,
		Items: []menu.Item{
			{Label: "Return", Command: CmdClose, Flags: menu.ItemSelected},
			{Label: "Exit PinballY", Command: CmdExit},
			{Label: "Shut Down", Command: CmdShutdown},
		},
	}
}

// filterMenu lists the filters, checking the active one
func filterMenu(active string, ids []string) menu.Descriptor {
	d := menu.Descriptor{ID: "filters"}
	for _, id := range ids {
		item := menu.Item{Label: filterLabel(id), Command: filterPrefix + id, Flags: menu.ItemRadio}
		if id == active {
			item.Flags |= menu.ItemChecked | menu.ItemSelected
		}
		d.Items = append(d.Items, item)
	}
	d.Items = append(d.Items, menu.Item{}, menu.Item{Label: "Cancel", Command: CmdClose})
	return d
}

func filterLabel(id string) string {
	if id == "" {
		return "All Games"
	}
	return strings.ToUpper(id[:1]) + id[1:]
}
