package media

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.White)
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

const svgDoc = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50" width="100" height="50">
<rect x="0" y="0" width="100" height="50" fill="#204080"/>
</svg>`

func TestFileLoaderScalesImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wheel.png")
	writePNG(t, path, 400, 200)

	m, err := FileLoader{}.Load(context.Background(), path, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, types.MediaImage, m.Kind)
	assert.Equal(t, 100, m.Width)
	assert.Equal(t, 50, m.Height)

	m, err = FileLoader{}.Load(context.Background(), path, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 400, m.Width)
}

func TestFileLoaderRasterizesSVG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.svg")
	require.NoError(t, os.WriteFile(path, []byte(svgDoc), 0o644))

	m, err := FileLoader{}.Load(context.Background(), path, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, types.MediaImage, m.Kind)
	assert.Equal(t, 100, m.Width)
	assert.Equal(t, 50, m.Height)

	_, _, _, a := m.Image.At(50, 25).RGBA()
	assert.NotZero(t, a)
}

func TestFileLoaderRejectsUnknownTypes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just some text\n"), 0o644))

	_, err := FileLoader{}.Load(context.Background(), path, 0, 0)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = FileLoader{}.Load(context.Background(), filepath.Join(dir, "absent.png"), 0, 0)
	assert.Error(t, err)
}

func TestFileLoaderHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FileLoader{}.Load(ctx, "whatever.png", 0, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlaceholderCard(t *testing.T) {
	m := Placeholder(types.GameRef{Title: "Attack from Mars", Manufacturer: "Bally", Year: 1995}, 0, 0)
	assert.True(t, m.Placeholder)
	assert.Equal(t, placeholderWidth, m.Width)
	assert.Equal(t, placeholderHeight, m.Height)
	assert.Equal(t, image.Rect(0, 0, placeholderWidth, placeholderHeight), m.Image.Bounds())

	// Some text pixels must differ from the card background.
	rgba := m.Image.(*image.RGBA)
	lit := 0
	for y := placeholderHeight/2 - 20; y < placeholderHeight/2+20; y++ {
		for x := 0; x < placeholderWidth; x++ {
			if rgba.RGBAAt(x, y) == cardText {
				lit++
			}
		}
	}
	assert.Positive(t, lit)
}
