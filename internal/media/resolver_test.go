package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediaTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := []string{
		"Table Videos/Medieval Madness.mp4",
		"Table Images/Medieval Madness.png",
		"Table Images/Medieval Madness (Williams 1997).png",
		"Wheel Images/Twilight Zone [VPX].png",
		"Flyer Images/Front/Medieval Madness.jpg",
		".cache/Medieval Madness.png",
	}
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	return root
}

var patterns = map[string]string{
	"video":     "Table Videos/{title}.*",
	"playfield": "Table Images/{title}*",
	"wheel":     "Wheel Images/{title}.*",
	"flyer":     "Flyer Images/**/{title}.*",
}

func TestBuildIndex(t *testing.T) {
	root := mediaTree(t)
	ix, err := BuildIndex(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 5, ix.Len(), "hidden directories are skipped")

	got := ix.Match("Flyer Images/**/*.jpg")
	assert.Equal(t, []string{filepath.Join(root, "Flyer Images", "Front", "Medieval Madness.jpg")}, got)

	assert.Nil(t, ix.Match("[unterminated"))
}

func TestBuildIndexCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildIndex(ctx, mediaTree(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolverIndexAndGlobAgree(t *testing.T) {
	root := mediaTree(t)
	r := NewResolver(root, patterns)
	mm := types.GameRef{ID: "mm", Title: "Medieval Madness"}

	before := map[string][]string{}
	for kind := range patterns {
		before[kind] = r.Resolve(mm, kind)
	}

	ix, err := BuildIndex(context.Background(), root)
	require.NoError(t, err)
	r.SetIndex(ix)

	for kind := range patterns {
		assert.Equal(t, before[kind], r.Resolve(mm, kind), kind)
	}

	assert.Len(t, before["playfield"], 2)
	assert.Equal(t, []string{filepath.Join(root, "Table Videos", "Medieval Madness.mp4")}, before["video"])
	assert.Len(t, before["flyer"], 1)
}

func TestResolverEscapesTitles(t *testing.T) {
	root := mediaTree(t)
	r := NewResolver(root, patterns)
	tz := types.GameRef{ID: "tz", Title: "Twilight Zone [VPX]"}

	assert.Equal(t, []string{filepath.Join(root, "Wheel Images", "Twilight Zone [VPX].png")}, r.Resolve(tz, "wheel"))

	ix, err := BuildIndex(context.Background(), root)
	require.NoError(t, err)
	r.SetIndex(ix)
	assert.Len(t, r.Resolve(tz, "wheel"), 1)
}

func TestResolverUnknownKind(t *testing.T) {
	r := NewResolver(t.TempDir(), patterns)
	assert.Nil(t, r.Resolve(types.GameRef{Title: "x"}, "backglass"))
	assert.Nil(t, r.Resolve(types.GameRef{}, "wheel"))
}

func TestExpandFields(t *testing.T) {
	g := types.GameRef{ID: "afm", Title: "Attack*", System: "VPX", Manufacturer: "Bally", Year: 1995}
	assert.Equal(t, `VPX/Bally/1995/Attack\*-afm`, expand("{system}/{manufacturer}/{year}/{title}-{id}", g))
}
