package game

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable scheduled callback. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Clock schedules one-shot callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// WallClock schedules on real time via time.AfterFunc.
type WallClock struct{}

// AfterFunc runs f on its own goroutine after d.
func (WallClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// ManualClock is a deterministic Clock for tests and simulations.
// Callbacks fire only from Advance, on the caller's goroutine, in due-time order.
type ManualClock struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	clock *ManualClock
	at    time.Duration
	seq   uint64
	f     func()
	done  bool
}

// NewManualClock returns a clock at elapsed time zero.
func NewManualClock() *ManualClock { return &ManualClock{} }

// AfterFunc schedules f at Now()+d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &manualTask{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.tasks = append(c.tasks, t)
	return t
}

// Stop cancels the task. It reports false if it already fired or was stopped.
func (t *manualTask) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	c.remove(t)
	return true
}

// Advance moves time forward by d, firing every task that falls due,
// including tasks scheduled by callbacks within the window.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()
	for {
		c.mu.Lock()
		t := c.next(target)
		if t == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = t.at
		t.done = true
		c.remove(t)
		c.mu.Unlock()
		t.f()
	}
}

// Now returns the elapsed manual time.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of scheduled, not yet fired tasks.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

// next returns the earliest task due at or before target. Caller holds mu.
func (c *ManualClock) next(target time.Duration) *manualTask {
	if len(c.tasks) == 0 {
		return nil
	}
	sort.SliceStable(c.tasks, func(i, j int) bool {
		if c.tasks[i].at != c.tasks[j].at {
			return c.tasks[i].at < c.tasks[j].at
		}
		return c.tasks[i].seq < c.tasks[j].seq
	})
	if c.tasks[0].at > target {
		return nil
	}
	return c.tasks[0]
}

// remove drops t from the task list. Caller holds mu.
func (c *ManualClock) remove(t *manualTask) {
	for i, x := range c.tasks {
		if x == t {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return
		}
	}
}
