package script

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeoutRunsWhenDue(t *testing.T) {
	b, _, clock := newBridge(t)
	run(t, b, `var log = []; setTimeout(function(a, b) { log.push(a + b); }, 100, 1, 2);`)
	require.Equal(t, 1, b.Tasks())

	deadline, ok := b.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(100*time.Millisecond), deadline)

	b.Step(clock.Advance(99 * time.Millisecond))
	assert.Empty(t, run(t, b, `log`))

	b.Step(clock.Advance(time.Millisecond))
	assert.Equal(t, []any{int64(3)}, run(t, b, `log`))
	assert.Equal(t, 0, b.Tasks())
	_, ok = b.NextDeadline()
	assert.False(t, ok)
}

func TestClearTimeoutCancels(t *testing.T) {
	b, _, clock := newBridge(t)
	run(t, b, `var fired = false; var id = setTimeout(function() { fired = true; }, 10); clearTimeout(id);`)
	b.Step(clock.Advance(time.Second))
	assert.Equal(t, false, run(t, b, `fired`))
	assert.Equal(t, 0, b.Tasks())
}

func TestIntervalRepeatsUntilCleared(t *testing.T) {
	b, _, clock := newBridge(t)
	run(t, b, `
		var n = 0;
		var id = setInterval(function() { if (++n === 3) clearInterval(id); }, 50);
	`)

	for i := 0; i < 10; i++ {
		b.Step(clock.Advance(50 * time.Millisecond))
	}
	assert.EqualValues(t, 3, run(t, b, `n`))
	assert.Equal(t, 0, b.Tasks())
}

func TestTasksRunInDueOrder(t *testing.T) {
	b, _, clock := newBridge(t)
	run(t, b, `
		var order = [];
		setTimeout(function() { order.push("b"); }, 20);
		setTimeout(function() { order.push("a"); }, 10);
		setTimeout(function() { order.push("c"); }, 20);
	`)
	b.Step(clock.Advance(time.Second))
	assert.Equal(t, []any{"a", "b", "c"}, run(t, b, `order`))
}

func TestTaskScheduledDuringStepWaits(t *testing.T) {
	b, _, clock := newBridge(t)
	run(t, b, `
		var n = 0;
		setTimeout(function() { n++; setTimeout(function() { n++; }, 0); }, 0);
	`)
	b.Step(clock.Now())
	assert.EqualValues(t, 1, run(t, b, `n`))
	b.Step(clock.Now())
	assert.EqualValues(t, 2, run(t, b, `n`))
}

func TestThrowingTaskIsRecorded(t *testing.T) {
	b, _, clock := newBridge(t)
	run(t, b, `setTimeout(function() { null.x; }, 0);`)
	b.Step(clock.Now())
	require.Len(t, b.Failures(), 1)
	assert.Equal(t, "task", b.Failures()[0].Source)
}

func TestSetTimeoutRequiresFunction(t *testing.T) {
	b, _, _ := newBridge(t)
	_, err := b.Eval(`setTimeout("alert(1)", 10)`)
	assert.Error(t, err)
}
