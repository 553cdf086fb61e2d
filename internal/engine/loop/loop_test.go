package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mjrgh/PinballY-sub000/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStage struct {
	name     string
	log      *[]string
	deadline time.Time
	hasNext  bool
}

func (s *recordingStage) Step(time.Time) { *s.log = append(*s.log, s.name) }

func (s *recordingStage) NextDeadline() (time.Time, bool) { return s.deadline, s.hasNext }

func newRecordingLoop(order *[]string) (*Loop, map[string]*recordingStage) {
	stages := map[string]*recordingStage{}
	for _, name := range []string{"clock", "tasks", "timers", "effects", "frame"} {
		stages[name] = &recordingStage{name: name, log: order}
	}
	l := New(Config{QueueSize: 8}, Stages{
		Input:   func(in types.Input) { *order = append(*order, "input:"+in.Key) },
		Clock:   stages["clock"],
		Tasks:   stages["tasks"],
		Timers:  stages["timers"],
		Effects: stages["effects"],
		Frame:   stages["frame"],
	}, nil, nil)
	return l, stages
}

func TestStepOrder(t *testing.T) {
	var order []string
	l, _ := newRecordingLoop(&order)

	require.NoError(t, l.Post(func() { order = append(order, "posted") }))
	require.True(t, l.PostInput(types.Input{Kind: types.KeyDown, Key: "Enter"}))

	l.Step(time.Now())

	assert.Equal(t, []string{
		"input:Enter",
		"posted",
		"clock",
		"tasks",
		"timers",
		"effects",
		"frame",
	}, order)
}

func TestPostedMessagesRunInOrder(t *testing.T) {
	var order []string
	l, _ := newRecordingLoop(&order)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, l.Post(func() { order = append(order, name) }))
	}
	l.Step(time.Now())

	assert.Equal(t, []string{"a", "b", "c"}, order[:3])
}

func TestMessagesPostedDuringStepRunNextStep(t *testing.T) {
	var order []string
	l, _ := newRecordingLoop(&order)

	require.NoError(t, l.Post(func() {
		order = append(order, "first")
		_ = l.Post(func() { order = append(order, "second") })
	}))

	l.Step(time.Now())
	assert.Contains(t, order, "first")
	assert.NotContains(t, order, "second")

	order = order[:0]
	l.Step(time.Now())
	assert.Equal(t, "second", order[0])
}

func TestPostAfterStop(t *testing.T) {
	l := New(Config{}, Stages{}, nil, nil)
	l.Stop()

	assert.ErrorIs(t, l.Post(func() {}), ErrStopped)
	assert.ErrorIs(t, l.Call(context.Background(), func() {}), ErrStopped)
}

func TestPostInputDropsWhenFull(t *testing.T) {
	l := New(Config{QueueSize: 1}, Stages{}, nil, nil)

	assert.True(t, l.PostInput(types.Input{Key: "A"}))
	assert.False(t, l.PostInput(types.Input{Key: "B"}))
}

func TestNextDeadlineEarliest(t *testing.T) {
	var order []string
	l, stages := newRecordingLoop(&order)
	base := time.Unix(100, 0)

	_, ok := l.NextDeadline()
	assert.False(t, ok)

	stages["tasks"].deadline, stages["tasks"].hasNext = base.Add(50*time.Millisecond), true
	stages["clock"].deadline, stages["clock"].hasNext = base.Add(8*time.Millisecond), true
	// frame deadlines never drive the timer
	stages["frame"].deadline, stages["frame"].hasNext = base, true

	next, ok := l.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, base.Add(8*time.Millisecond), next)
}

func TestCallRunsOnLoop(t *testing.T) {
	l := New(Config{}, Stages{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = l.Run(ctx)
	}()

	value := 0
	require.NoError(t, l.Call(context.Background(), func() { value = 42 }))
	assert.Equal(t, 42, value)

	cancel()
	wg.Wait()
	assert.ErrorIs(t, l.Post(func() {}), ErrStopped)
}
