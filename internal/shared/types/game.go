package types

import "fmt"

// GameRef identifies one game in the game list
type GameRef struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Year         int    `json:"year,omitempty"`
	System       string `json:"system,omitempty"`
	Path         string `json:"path,omitempty"`
}

// IsZero reports whether the reference points at no game
func (g GameRef) IsZero() bool {
	return g.ID == ""
}

// DisplayName returns "Title (Manufacturer Year)" with missing parts dropped
func (g GameRef) DisplayName() string {
	switch {
	case g.Manufacturer != "" && g.Year > 0:
		return fmt.Sprintf("%s (%s %d)", g.Title, g.Manufacturer, g.Year)
	case g.Manufacturer != "":
		return fmt.Sprintf("%s (%s)", g.Title, g.Manufacturer)
	case g.Year > 0:
		return fmt.Sprintf("%s (%d)", g.Title, g.Year)
	default:
		return g.Title
	}
}

// GameProvider is the game list collaborator. Offsets are relative to the
// current selection and wrap around the filtered list.
type GameProvider interface {
	CurrentSelection() GameRef
	NthGame(offset int) GameRef
	SetSelection(offset int)
	Count() int
	Filter() string
	SetFilter(id string) error
}
