package media

import (
	"image"
	"image/color"
	"strings"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	placeholderWidth  = 640
	placeholderHeight = 360
)

var (
	cardBackground = color.RGBA{R: 0x10, G: 0x12, B: 0x1c, A: 0xff}
	cardBorder     = color.RGBA{R: 0x3a, G: 0x42, B: 0x6e, A: 0xff}
	cardText       = color.RGBA{R: 0xe8, G: 0xe8, B: 0xf0, A: 0xff}
)

// Placeholder renders a title card for a game with no usable media
func Placeholder(game types.GameRef, width, height int) types.Media {
	if width <= 0 || height <= 0 {
		width, height = placeholderWidth, placeholderHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(cardBorder), image.Point{}, draw.Src)
	inset := max(min(width, height)/40, 1)
	draw.Draw(img, img.Bounds().Inset(inset), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	title := game.Title
	if title == "" {
		title = "No media"
	}
	lines := []string{title}
	if sub := strings.TrimPrefix(game.DisplayName(), game.Title); sub != "" {
		lines = append(lines, strings.TrimSpace(sub))
	}

	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil() + 4
	y := height/2 - lineHeight*(len(lines)-1)/2
	for _, line := range lines {
		w := font.MeasureString(face, line).Ceil()
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(cardText),
			Face: face,
			Dot:  fixed.P((width-w)/2, y),
		}
		d.DrawString(line)
		y += lineHeight
	}

	return types.Media{
		Kind:        types.MediaImage,
		Image:       img,
		Width:       width,
		Height:      height,
		Placeholder: true,
	}
}
