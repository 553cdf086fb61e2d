package launch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
)

type recorder struct {
	mu      sync.Mutex
	notices []types.LaunchNotice
	exited  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{exited: make(chan struct{})}
}

func (r *recorder) notify(n types.LaunchNotice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
	if n.Event == types.LaunchExited {
		close(r.exited)
	}
}

func (r *recorder) events() []types.LaunchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.LaunchEvent, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Event
	}
	return out
}

func (r *recorder) wait(t *testing.T) types.LaunchNotice {
	t.Helper()
	select {
	case <-r.exited:
	case <-time.After(5 * time.Second):
		t.Fatal("game did not exit")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notices[len(r.notices)-1]
}

var game = types.GameRef{ID: "afm", Title: "Attack from Mars", Path: "tables/afm.vpx"}

func TestExpand(t *testing.T) {
	args := Expand([]string{"-play", "{path}", "--id={id}", "{title}"}, game)
	assert.Equal(t, []string{"-play", "tables/afm.vpx", "--id=afm", "Attack from Mars"}, args)
}

func TestLaunchLifecycle(t *testing.T) {
	l := New(Config{Command: "sh", Args: []string{"-c", "sleep 0.2"}, LoadDelay: 10 * time.Millisecond}, nil)
	r := newRecorder()

	require.NoError(t, l.Launch(game, r.notify))
	assert.Equal(t, types.LaunchStarting, r.events()[0])
	assert.True(t, l.Running())

	last := r.wait(t)
	assert.NoError(t, last.Err)
	assert.Equal(t, []types.LaunchEvent{types.LaunchStarting, types.LaunchLoaded, types.LaunchExited}, r.events())
	assert.False(t, l.Running())
}

func TestQuickExitSkipsLoaded(t *testing.T) {
	l := New(Config{Command: "sh", Args: []string{"-c", "exit 3"}, LoadDelay: time.Minute}, nil)
	r := newRecorder()

	require.NoError(t, l.Launch(game, r.notify))
	last := r.wait(t)

	assert.Error(t, last.Err)
	assert.Equal(t, []types.LaunchEvent{types.LaunchStarting, types.LaunchExited}, r.events())
}

func TestLaunchWhileRunning(t *testing.T) {
	l := New(Config{Command: "sh", Args: []string{"-c", "sleep 10"}, LoadDelay: time.Minute}, nil)
	r := newRecorder()

	require.NoError(t, l.Launch(game, r.notify))
	assert.ErrorIs(t, l.Launch(game, func(types.LaunchNotice) {}), ErrBusy)

	require.NoError(t, l.Kill())
	last := r.wait(t)
	assert.Error(t, last.Err)
}

func TestLaunchErrors(t *testing.T) {
	called := false
	notify := func(types.LaunchNotice) { called = true }

	assert.ErrorIs(t, New(Config{}, nil).Launch(game, notify), ErrNoCommand)
	assert.Error(t, New(Config{Command: "/nonexistent/pinball-player"}, nil).Launch(game, notify))
	assert.False(t, called)
}

func TestKillWithoutGame(t *testing.T) {
	assert.NoError(t, New(Config{Command: "sh"}, nil).Kill())
}
