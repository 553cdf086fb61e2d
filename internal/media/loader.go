package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrUnsupported = errors.New("unsupported media type")

// FileLoader loads media files from disk. Images are decoded and scaled
// to fit the requested size; SVG is rasterized; video and audio pass
// through by path.
type FileLoader struct{}

// Load implements Loader
func (FileLoader) Load(ctx context.Context, path string, width, height int) (types.Media, error) {
	if err := ctx.Err(); err != nil {
		return types.Media{}, err
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return types.Media{}, fmt.Errorf("failed to sniff %s: %w", path, err)
	}

	switch kind := mt.String(); {
	case mt.Is("image/svg+xml"):
		return loadSVG(path, width, height)
	case strings.HasPrefix(kind, "image/"):
		return loadImage(path, width, height)
	case strings.HasPrefix(kind, "video/"):
		return types.Media{Kind: types.MediaVideo, Path: path, Width: width, Height: height}, nil
	case strings.HasPrefix(kind, "audio/"):
		return types.Media{Kind: types.MediaAudio, Path: path}, nil
	default:
		return types.Media{}, fmt.Errorf("%w: %s (%s)", ErrUnsupported, path, kind)
	}
}

func loadImage(path string, width, height int) (types.Media, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Media{}, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return types.Media{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	img := fit(src, width, height)
	b := img.Bounds()
	return types.Media{
		Kind:   types.MediaImage,
		Path:   path,
		Image:  img,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

func loadSVG(path string, width, height int) (types.Media, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Media{}, err
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f)
	if err != nil {
		return types.Media{}, fmt.Errorf("failed to parse svg %s: %w", path, err)
	}

	if width <= 0 || height <= 0 {
		width, height = int(icon.ViewBox.W), int(icon.ViewBox.H)
	}
	if width <= 0 || height <= 0 {
		width, height = placeholderWidth, placeholderHeight
	}

	icon.SetTarget(0, 0, float64(width), float64(height))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	return types.Media{
		Kind:   types.MediaImage,
		Path:   path,
		Image:  img,
		Width:  width,
		Height: height,
	}, nil
}

// fit scales src to fit within width x height, keeping its aspect ratio.
// A zero bound leaves the image unscaled.
func fit(src image.Image, width, height int) image.Image {
	b := src.Bounds()
	if width <= 0 || height <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return src
	}
	if b.Dx() == width && b.Dy() == height {
		return src
	}

	scale := min(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	w := max(int(float64(b.Dx())*scale), 1)
	h := max(int(float64(b.Dy())*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
