// Package id generates the engine's instance identifiers.
//
// Ids are "<kind>_<ULID>": they sort by creation time, so log lines for
// successive menus or loads read in order, and the kind prefix makes a
// stray id recognizable in a log or debug feed. Script timer ids are not
// ULIDs; scripts get plain integers from setTimeout/setInterval.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SurfaceID identifies one shown instance of a menu or popup
type SurfaceID string

// LoadID identifies one asynchronous media load request
type LoadID string

// SubscriberID identifies an observer of fired script events
type SubscriberID string

// Kind prefixes
const (
	MenuPrefix       = "menu"
	PopupPrefix      = "popup"
	LoadPrefix       = "load"
	SubscriberPrefix = "sub"
)

var source = struct {
	sync.Mutex
	entropy io.Reader
}{entropy: ulid.Monotonic(rand.Reader, 0)}

func next(prefix string) string {
	source.Lock()
	u := ulid.MustNew(ulid.Timestamp(time.Now()), source.entropy)
	source.Unlock()
	return prefix + "_" + u.String()
}

// NewMenuID generates an instance id for a shown menu
func NewMenuID() SurfaceID { return SurfaceID(next(MenuPrefix)) }

// NewPopupID generates an instance id for a shown popup
func NewPopupID() SurfaceID { return SurfaceID(next(PopupPrefix)) }

// NewLoadID generates a media load request id
func NewLoadID() LoadID { return LoadID(next(LoadPrefix)) }

// NewSubscriberID generates an event observer id
func NewSubscriberID() SubscriberID { return SubscriberID(next(SubscriberPrefix)) }

func (id SurfaceID) String() string    { return string(id) }
func (id LoadID) String() string       { return string(id) }
func (id SubscriberID) String() string { return string(id) }

// Kind returns the prefix of an id, or "" if it has none
func Kind(s string) string {
	kind, _, ok := strings.Cut(s, "_")
	if !ok {
		return ""
	}
	return kind
}

// Created returns the creation time encoded in an id
func Created(s string) (time.Time, error) {
	_, raw, ok := strings.Cut(s, "_")
	if !ok {
		raw = s
	}
	u, err := ulid.Parse(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse id %q: %w", s, err)
	}
	return ulid.Time(u.Time()), nil
}
