package media

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
)

// Index is a snapshot of every file under the media root, as
// slash-separated paths relative to the root.
type Index struct {
	root  string
	files []string
}

// BuildIndex walks root. Run it off the UI thread.
func BuildIndex(ctx context.Context, root string) (*Index, error) {
	var (
		mu    sync.Mutex
		files []string
	)

	conf := &fastwalk.Config{Follow: false}
	err := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		mu.Lock()
		files = append(files, filepath.ToSlash(rel))
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return &Index{root: root, files: files}, nil
}

// Len returns the number of indexed files
func (ix *Index) Len() int { return len(ix.files) }

// Match returns absolute paths of indexed files matching pattern
func (ix *Index) Match(pattern string) []string {
	if !doublestar.ValidatePattern(pattern) {
		return nil
	}
	var out []string
	for _, f := range ix.files {
		if doublestar.MatchUnvalidated(pattern, f) {
			out = append(out, filepath.Join(ix.root, filepath.FromSlash(f)))
		}
	}
	return out
}

// PatternResolver resolves media through per-type glob patterns such as
// "Flyer Images/**/{title}*". Placeholders: {title}, {id}, {system},
// {manufacturer}, {year}.
type PatternResolver struct {
	root     string
	patterns map[string]string
	index    atomic.Pointer[Index]
}

// NewResolver creates a resolver rooted at root
func NewResolver(root string, patterns map[string]string) *PatternResolver {
	return &PatternResolver{root: root, patterns: patterns}
}

// SetIndex switches lookups from the file system to ix
func (r *PatternResolver) SetIndex(ix *Index) {
	r.index.Store(ix)
}

// Resolve implements types.MediaResolver
func (r *PatternResolver) Resolve(game types.GameRef, kind string) []string {
	pattern, ok := r.patterns[kind]
	if !ok || game.Title == "" {
		return nil
	}
	pattern = expand(pattern, game)

	if ix := r.index.Load(); ix != nil {
		return ix.Match(pattern)
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(r.root, filepath.FromSlash(pattern)), doublestar.WithFilesOnly())
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	return matches
}

func expand(pattern string, game types.GameRef) string {
	year := ""
	if game.Year > 0 {
		year = strconv.Itoa(game.Year)
	}
	return strings.NewReplacer(
		"{title}", escapeMeta(game.Title),
		"{id}", escapeMeta(game.ID),
		"{system}", escapeMeta(game.System),
		"{manufacturer}", escapeMeta(game.Manufacturer),
		"{year}", year,
	).Replace(pattern)
}

// escapeMeta quotes glob metacharacters so titles match literally
func escapeMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
