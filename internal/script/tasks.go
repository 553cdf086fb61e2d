package script

import (
	"sort"
	"time"

	"github.com/dop251/goja"
)

const minInterval = time.Millisecond

// task is a pending setTimeout or setInterval callback
type task struct {
	id       int64
	due      time.Time
	period   time.Duration
	fn       goja.Callable
	args     []goja.Value
	canceled bool
}

func (b *Bridge) schedule(call goja.FunctionCall, repeat bool) goja.Value {
	fn, ok := goja.AssertFunction(call.Argument(0))
	if !ok {
		panic(b.vm.NewTypeError("callback is not a function"))
	}

	delay := time.Duration(call.Argument(1).ToInteger()) * time.Millisecond
	if delay < 0 {
		delay = 0
	}
	var period time.Duration
	if repeat {
		period = max(delay, minInterval)
		delay = period
	}

	var args []goja.Value
	if len(call.Arguments) > 2 {
		args = append(args, call.Arguments[2:]...)
	}

	b.nextTask++
	t := &task{
		id:     b.nextTask,
		due:    b.cfg.Now().Add(delay),
		period: period,
		fn:     fn,
		args:   args,
	}
	b.tasks[t.id] = t
	b.metrics.SetScriptTasks(len(b.tasks))
	return b.vm.ToValue(t.id)
}

func (b *Bridge) clearTask(call goja.FunctionCall) goja.Value {
	v := call.Argument(0)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return goja.Undefined()
	}
	if t, ok := b.tasks[v.ToInteger()]; ok {
		t.canceled = true
		delete(b.tasks, t.id)
		b.metrics.SetScriptTasks(len(b.tasks))
	}
	return goja.Undefined()
}

// Tasks returns the number of pending script tasks
func (b *Bridge) Tasks() int {
	return len(b.tasks)
}

// Step runs every task due at now, in due order. Tasks scheduled while
// running wait for the next step.
func (b *Bridge) Step(now time.Time) {
	if b.vm == nil || len(b.tasks) == 0 {
		return
	}

	var due []*task
	for _, t := range b.tasks {
		if !t.due.After(now) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})

	for _, t := range due {
		if t.canceled {
			continue
		}
		if t.period > 0 {
			t.due = t.due.Add(t.period)
			if !t.due.After(now) {
				t.due = now.Add(t.period)
			}
		} else {
			delete(b.tasks, t.id)
		}
		_, _ = b.call("task", func() (goja.Value, error) {
			return t.fn(goja.Undefined(), t.args...)
		})
	}
	b.metrics.SetScriptTasks(len(b.tasks))
}

// NextDeadline returns the earliest pending task's due time
func (b *Bridge) NextDeadline() (time.Time, bool) {
	var (
		next time.Time
		ok   bool
	)
	for _, t := range b.tasks {
		if !ok || t.due.Before(next) {
			next, ok = t.due, true
		}
	}
	return next, ok
}
