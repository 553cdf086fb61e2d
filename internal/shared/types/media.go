package types

import "image"

// MediaKind classifies a loaded media result
type MediaKind int

const (
	MediaNone MediaKind = iota
	MediaImage
	MediaVideo
	MediaAudio
)

// String returns the string representation of the kind
func (k MediaKind) String() string {
	switch k {
	case MediaImage:
		return "image"
	case MediaVideo:
		return "video"
	case MediaAudio:
		return "audio"
	default:
		return "none"
	}
}

// Media is a renderable media result. Images are decoded and scaled in the
// worker; video and audio are handed to the renderer by path.
type Media struct {
	Kind        MediaKind
	Path        string
	Image       image.Image
	Width       int
	Height      int
	Placeholder bool
	// Fallback is set when the result came from a system default rather
	// than the game's own media.
	Fallback bool
}

// IsZero reports whether no media is present
func (m Media) IsZero() bool {
	return m.Kind == MediaNone
}

// MediaResolver returns candidate media files for a game and media type,
// most preferred first.
type MediaResolver interface {
	Resolve(game GameRef, kind string) []string
}
