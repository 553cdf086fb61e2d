package games

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
)

// Filter ids
const (
	FilterAll       = "all"
	FilterFavorites = "favorites"
	systemPrefix    = "system:"
	yearPrefix      = "year:"
)

// ErrUnknownFilter is returned by SetFilter for ids the list can't evaluate
var ErrUnknownFilter = errors.New("unknown filter")

// Entry is one game as stored in the list file
type Entry struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	Manufacturer string `yaml:"manufacturer,omitempty"`
	Year         int    `yaml:"year,omitempty"`
	System       string `yaml:"system,omitempty"`
	Path         string `yaml:"path,omitempty"`
	Favorite     bool   `yaml:"favorite,omitempty"`
	Rating       int    `yaml:"rating,omitempty"`
}

// Ref converts the entry to the engine's game reference
func (e Entry) Ref() types.GameRef {
	return types.GameRef{
		ID:           e.ID,
		Title:        e.Title,
		Manufacturer: e.Manufacturer,
		Year:         e.Year,
		System:       e.System,
		Path:         e.Path,
	}
}

type document struct {
	Games []Entry `yaml:"games"`
}

// List is a filtered, wrapping game list. It is safe for concurrent use.
type List struct {
	mu      sync.RWMutex
	all     []Entry
	visible []int // indexes into all
	current int   // index into visible
	filter  string
}

// Load reads a list file
func Load(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game list: %w", err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Parse decodes a list document
func Parse(data []byte) (*List, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse game list: %w", err)
	}
	return New(doc.Games), nil
}

// New builds a list from entries. Entries without a title are skipped;
// missing or duplicate ids are derived from the title.
func New(entries []Entry) *List {
	l := &List{filter: FilterAll}
	seen := make(map[string]int)
	for _, e := range entries {
		e.Title = strings.TrimSpace(e.Title)
		if e.Title == "" {
			continue
		}
		if e.ID == "" {
			e.ID = slug(e.Title)
		}
		if n := seen[e.ID]; n > 0 {
			seen[e.ID] = n + 1
			e.ID = e.ID + "-" + strconv.Itoa(n+1)
		} else {
			seen[e.ID] = 1
		}
		l.all = append(l.all, e)
	}
	l.apply(func(Entry) bool { return true }, "")
	return l
}

func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// CurrentSelection implements types.GameProvider
func (l *List) CurrentSelection() types.GameRef { return l.NthGame(0) }

// NthGame implements types.GameProvider
func (l *List) NthGame(offset int) types.GameRef {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.visible) == 0 {
		return types.GameRef{}
	}
	return l.all[l.visible[l.wrap(l.current+offset)]].Ref()
}

// SetSelection implements types.GameProvider
func (l *List) SetSelection(offset int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.visible) == 0 {
		return
	}
	l.current = l.wrap(l.current + offset)
}

// Select moves the selection to the game with id. It reports false if the
// game is not in the filtered list.
func (l *List) Select(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, idx := range l.visible {
		if l.all[idx].ID == id {
			l.current = i
			return true
		}
	}
	return false
}

// Count implements types.GameProvider
func (l *List) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.visible)
}

// Filter implements types.GameProvider
func (l *List) Filter() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.filter
}

// SetFilter implements types.GameProvider. The selection is kept when
// the selected game passes the new filter.
func (l *List) SetFilter(id string) error {
	keep, err := l.predicate(id)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	selected := ""
	if len(l.visible) > 0 {
		selected = l.all[l.visible[l.current]].ID
	}
	l.apply(keep, selected)
	l.filter = id
	return nil
}

// Filters lists every filter id the list can evaluate, built-ins first
func (l *List) Filters() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var systems, years []string
	for _, e := range l.all {
		if e.System != "" {
			systems = append(systems, systemPrefix+e.System)
		}
		if e.Year > 0 {
			years = append(years, yearPrefix+strconv.Itoa(e.Year/10*10))
		}
	}
	slices.Sort(systems)
	slices.Sort(years)
	ids := []string{FilterAll, FilterFavorites}
	ids = append(ids, slices.Compact(systems)...)
	return append(ids, slices.Compact(years)...)
}

// Entry returns the stored entry for id
func (l *List) Entry(id string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.all {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

func (l *List) predicate(id string) (func(Entry) bool, error) {
	switch {
	case id == FilterAll:
		return func(Entry) bool { return true }, nil
	case id == FilterFavorites:
		return func(e Entry) bool { return e.Favorite }, nil
	case strings.HasPrefix(id, systemPrefix):
		system := strings.TrimPrefix(id, systemPrefix)
		return func(e Entry) bool { return strings.EqualFold(e.System, system) }, nil
	case strings.HasPrefix(id, yearPrefix):
		decade, err := strconv.Atoi(strings.TrimPrefix(id, yearPrefix))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, id)
		}
		return func(e Entry) bool { return e.Year > 0 && e.Year/10*10 == decade }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, id)
	}
}

// apply rebuilds the visible set. Caller holds the write lock.
func (l *List) apply(keep func(Entry) bool, selected string) {
	l.visible = l.visible[:0]
	l.current = 0
	for i, e := range l.all {
		if !keep(e) {
			continue
		}
		if e.ID == selected {
			l.current = len(l.visible)
		}
		l.visible = append(l.visible, i)
	}
}

func (l *List) wrap(i int) int {
	n := len(l.visible)
	return ((i % n) + n) % n
}
