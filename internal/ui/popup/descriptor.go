package popup

import "github.com/mjrgh/PinballY-sub000/internal/shared/types"

// Type identifies the kind of popup
type Type string

const (
	TypeInfo         Type = "info"
	TypeFlyer        Type = "flyer"
	TypeInstructions Type = "instructions"
	TypeRating       Type = "rating"
	TypeVolume       Type = "volume"
	TypeHighScores   Type = "highscores"
	TypeError        Type = "error"
	TypeUser         Type = "user"
)

// Descriptor describes a popup to show
type Descriptor struct {
	Type    Type          `json:"type"`
	Name    string        `json:"name,omitempty"`
	Game    types.GameRef `json:"game"`
	Message string        `json:"message,omitempty"`
	Lines   []string      `json:"lines,omitempty"`
	Page    int           `json:"page,omitempty"`
	Value   int           `json:"value,omitempty"`
	// MediaKinds lists the media types to load for the popup, most
	// preferred first. A non-empty list holds the open animation until
	// the media arrives or the load timeout passes.
	MediaKinds []string `json:"media_kinds,omitempty"`
}

// Key identifies the popup for replacement. User popups are keyed by name.
func (d Descriptor) Key() string {
	if d.Type == TypeUser {
		return string(d.Type) + ":" + d.Name
	}
	return string(d.Type)
}

// SameKind reports whether o would replace d in place
func (d Descriptor) SameKind(o Descriptor) bool {
	return d.Key() == o.Key()
}
