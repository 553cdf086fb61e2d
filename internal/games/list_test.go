package games

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
games:
  - id: afm
    title: Attack from Mars
    manufacturer: Bally
    year: 1995
    system: VPX
    favorite: true
  - title: Medieval Madness
    manufacturer: Williams
    year: 1997
    system: VPX
  - title: Eight Ball Deluxe
    manufacturer: Bally
    year: 1981
    system: FP
    favorite: true
  - title: ""
`

func sampleList(t *testing.T) *List {
	t.Helper()
	l, err := Parse([]byte(sample))
	require.NoError(t, err)
	return l
}

func TestParse(t *testing.T) {
	l := sampleList(t)

	assert.Equal(t, 3, l.Count())
	assert.Equal(t, "afm", l.CurrentSelection().ID)
	assert.Equal(t, "medieval-madness", l.NthGame(1).ID)
	assert.Equal(t, "Eight Ball Deluxe (Bally 1981)", l.NthGame(2).DisplayName())
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("games: [\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	l, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, l.Count())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDuplicateIDs(t *testing.T) {
	l := New([]Entry{{Title: "Xenon"}, {Title: "Xenon"}, {ID: "xenon", Title: "Xenon (VR)"}})

	assert.Equal(t, "xenon", l.NthGame(0).ID)
	assert.Equal(t, "xenon-2", l.NthGame(1).ID)
	assert.Equal(t, "xenon-3", l.NthGame(2).ID)
}

func TestOffsetsWrap(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		want   string
	}{
		{"current", 0, "afm"},
		{"next", 1, "medieval-madness"},
		{"wrap forward", 3, "afm"},
		{"wrap back", -1, "eight-ball-deluxe"},
		{"far back", -7, "eight-ball-deluxe"},
	}

	l := sampleList(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.NthGame(tt.offset).ID)
		})
	}

	l.SetSelection(-1)
	assert.Equal(t, "eight-ball-deluxe", l.CurrentSelection().ID)
}

func TestSetFilter(t *testing.T) {
	tests := []struct {
		filter string
		want   []string
	}{
		{FilterAll, []string{"afm", "medieval-madness", "eight-ball-deluxe"}},
		{FilterFavorites, []string{"afm", "eight-ball-deluxe"}},
		{"system:vpx", []string{"afm", "medieval-madness"}},
		{"year:1980", []string{"eight-ball-deluxe"}},
		{"year:2020", nil},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			l := sampleList(t)
			require.NoError(t, l.SetFilter(tt.filter))

			var got []string
			for i := 0; i < l.Count(); i++ {
				got = append(got, l.NthGame(i).ID)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.filter, l.Filter())
		})
	}
}

func TestSetFilterKeepsSelection(t *testing.T) {
	l := sampleList(t)
	l.SetSelection(2)

	require.NoError(t, l.SetFilter(FilterFavorites))
	assert.Equal(t, "eight-ball-deluxe", l.CurrentSelection().ID)

	require.NoError(t, l.SetFilter("system:VPX"))
	assert.Equal(t, "afm", l.CurrentSelection().ID)
}

func TestUnknownFilter(t *testing.T) {
	l := sampleList(t)

	assert.ErrorIs(t, l.SetFilter("recent"), ErrUnknownFilter)
	assert.ErrorIs(t, l.SetFilter("year:nineties"), ErrUnknownFilter)
	assert.Equal(t, FilterAll, l.Filter())
}

func TestEmptyFilterResult(t *testing.T) {
	l := sampleList(t)
	require.NoError(t, l.SetFilter("system:PinMAME"))

	assert.Equal(t, 0, l.Count())
	assert.True(t, l.CurrentSelection().IsZero())
	assert.NotPanics(t, func() { l.SetSelection(1) })
}

func TestFilters(t *testing.T) {
	l := sampleList(t)
	assert.Equal(t, []string{"all", "favorites", "system:FP", "system:VPX", "year:1980", "year:1990"}, l.Filters())
}

func TestSelect(t *testing.T) {
	l := sampleList(t)

	assert.True(t, l.Select("medieval-madness"))
	assert.Equal(t, "medieval-madness", l.CurrentSelection().ID)
	assert.False(t, l.Select("nope"))

	e, ok := l.Entry("afm")
	require.True(t, ok)
	assert.True(t, e.Favorite)
}
