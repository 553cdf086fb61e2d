// Package testutil provides testing utilities and collaborator fakes for
// engine tests.
package testutil

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/stretchr/testify/mock"
)

// ManualClock is a clock that only moves when told to
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock at a fixed, arbitrary instant
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns the current instant
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward and returns the new instant
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Games is an in-memory game list. Offsets wrap around the list.
type Games struct {
	mu      sync.Mutex
	all     []types.GameRef
	games   []types.GameRef
	current int
	filter  string
	filters map[string]func(types.GameRef) bool
}

// NewGames creates a list of n games titled "Game 0".."Game n-1"
func NewGames(n int) *Games {
	games := make([]types.GameRef, n)
	for i := range games {
		games[i] = types.GameRef{
			ID:    fmt.Sprintf("game-%02d", i),
			Title: fmt.Sprintf("Game %d", i),
		}
	}
	return &Games{
		all:    games,
		games:  games,
		filter: "all",
		filters: map[string]func(types.GameRef) bool{
			"all": func(types.GameRef) bool { return true },
		},
	}
}

// AddFilter registers a named filter
func (g *Games) AddFilter(id string, keep func(types.GameRef) bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.filters[id] = keep
}

// CurrentSelection implements types.GameProvider
func (g *Games) CurrentSelection() types.GameRef { return g.NthGame(0) }

// NthGame implements types.GameProvider
func (g *Games) NthGame(offset int) types.GameRef {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.games) == 0 {
		return types.GameRef{}
	}
	return g.games[g.wrap(g.current+offset)]
}

// SetSelection implements types.GameProvider
func (g *Games) SetSelection(offset int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.games) == 0 {
		return
	}
	g.current = g.wrap(g.current + offset)
}

// Count implements types.GameProvider
func (g *Games) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.games)
}

// Filter implements types.GameProvider
func (g *Games) Filter() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filter
}

// SetFilter implements types.GameProvider
func (g *Games) SetFilter(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	keep, ok := g.filters[id]
	if !ok {
		return fmt.Errorf("unknown filter %q", id)
	}
	var games []types.GameRef
	for _, game := range g.all {
		if keep(game) {
			games = append(games, game)
		}
	}
	g.games = games
	g.filter = id
	g.current = 0
	return nil
}

func (g *Games) wrap(i int) int {
	n := len(g.games)
	return ((i % n) + n) % n
}

// EffectCall is one SetNamedState call
type EffectCall struct {
	Name  string
	Value int
	At    time.Time
}

// Effects records device effect calls
type Effects struct {
	mu       sync.Mutex
	ready    bool
	err      error
	calls    []EffectCall
	clock    func() time.Time
	failures int
}

// NewEffects creates a ready recorder timestamping calls with clock
func NewEffects(clock func() time.Time) *Effects {
	return &Effects{ready: true, clock: clock}
}

// SetReady changes what Ready reports
func (e *Effects) SetReady(ready bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ready = ready
}

// FailWith makes every call return err (nil to recover)
func (e *Effects) FailWith(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

// Ready implements types.EffectClient
func (e *Effects) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// SetNamedState implements types.EffectClient
func (e *Effects) SetNamedState(name string, value int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		e.failures++
		return e.err
	}
	at := time.Time{}
	if e.clock != nil {
		at = e.clock()
	}
	e.calls = append(e.calls, EffectCall{Name: name, Value: value, At: at})
	return nil
}

// Calls returns the recorded calls
func (e *Effects) Calls() []EffectCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]EffectCall, len(e.calls))
	copy(out, e.calls)
	return out
}

// CallsFor returns recorded calls for one effect
func (e *Effects) CallsFor(name string) []EffectCall {
	var out []EffectCall
	for _, c := range e.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Failures returns the number of failed calls
func (e *Effects) Failures() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failures
}

// Resolver maps "gameID/kind" to candidate paths
type Resolver map[string][]string

// Resolve implements types.MediaResolver
func (r Resolver) Resolve(game types.GameRef, kind string) []string {
	return r[game.ID+"/"+kind]
}

// MockRenderer is a mock implementation of types.Renderer
type MockRenderer struct {
	mock.Mock
}

// Submit mocks the Submit method
func (m *MockRenderer) Submit(frame types.Frame) {
	m.Called(frame)
}

// MockLauncher is a mock implementation of types.Launcher
type MockLauncher struct {
	mock.Mock
	notify func(types.LaunchNotice)
}

// Launch mocks the Launch method and keeps notify for Notify
func (m *MockLauncher) Launch(game types.GameRef, notify func(types.LaunchNotice)) error {
	m.notify = notify
	args := m.Called(game)
	return args.Error(0)
}

// Notify delivers a lifecycle notice through the last notify callback
func (m *MockLauncher) Notify(event types.LaunchEvent, game types.GameRef) {
	if m.notify != nil {
		m.notify(types.LaunchNotice{Event: event, Game: game})
	}
}

// MockCommandHandler is a mock implementation of types.CommandHandler
type MockCommandHandler struct {
	mock.Mock
}

// HandleCommand mocks the HandleCommand method
func (m *MockCommandHandler) HandleCommand(cmd string) bool {
	args := m.Called(cmd)
	return args.Bool(0)
}

// NewMockRenderer creates a renderer mock accepting any frame
func NewMockRenderer(t *testing.T) *MockRenderer {
	t.Helper()
	m := new(MockRenderer)
	m.On("Submit", mock.Anything).Return().Maybe()
	return m
}

// NewMockLauncher creates a launcher mock whose launches succeed
func NewMockLauncher(t *testing.T) *MockLauncher {
	t.Helper()
	m := new(MockLauncher)
	m.On("Launch", mock.Anything).Return(nil).Maybe()
	return m
}

// NewMockCommandHandler creates a command handler mock that handles nothing
func NewMockCommandHandler(t *testing.T) *MockCommandHandler {
	t.Helper()
	m := new(MockCommandHandler)
	m.On("HandleCommand", mock.Anything).Return(false).Maybe()
	return m
}
