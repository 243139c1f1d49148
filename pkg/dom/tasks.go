package dom

import (
	"sort"
	"time"
)

type task struct {
	due time.Duration
	seq int
	fn  func()
}

// TaskQueue runs deferred callbacks against a virtual clock. Nothing runs on
// its own: callers advance the clock (Advance) or flush everything (Drain),
// which keeps document mutation on a single goroutine.
type TaskQueue struct {
	now   time.Duration
	seq   int
	tasks []task
}

// NewTaskQueue returns an empty queue at virtual time zero.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

// After schedules fn to run once delay has elapsed on the virtual clock.
func (q *TaskQueue) After(delay time.Duration, fn func()) {
	if q == nil || fn == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	q.seq++
	q.tasks = append(q.tasks, task{due: q.now + delay, seq: q.seq, fn: fn})
}

// Now returns the virtual time.
func (q *TaskQueue) Now() time.Duration {
	if q == nil {
		return 0
	}
	return q.now
}

// Pending reports how many callbacks are waiting.
func (q *TaskQueue) Pending() int {
	if q == nil {
		return 0
	}
	return len(q.tasks)
}

// Advance moves the clock forward by d and runs every callback that became
// due, earliest first. It returns the number of callbacks run.
func (q *TaskQueue) Advance(d time.Duration) int {
	if q == nil {
		return 0
	}
	if d > 0 {
		q.now += d
	}
	return q.runDue(q.now)
}

// Drain runs every pending callback, including ones scheduled while
// draining, and moves the clock to the last due time.
func (q *TaskQueue) Drain() int {
	if q == nil {
		return 0
	}
	ran := 0
	for len(q.tasks) > 0 {
		latest := q.now
		for _, t := range q.tasks {
			if t.due > latest {
				latest = t.due
			}
		}
		q.now = latest
		ran += q.runDue(latest)
	}
	return ran
}

func (q *TaskQueue) runDue(until time.Duration) int {
	ran := 0
	for {
		sort.SliceStable(q.tasks, func(i, j int) bool {
			if q.tasks[i].due != q.tasks[j].due {
				return q.tasks[i].due < q.tasks[j].due
			}
			return q.tasks[i].seq < q.tasks[j].seq
		})
		if len(q.tasks) == 0 || q.tasks[0].due > until {
			return ran
		}
		next := q.tasks[0]
		q.tasks = q.tasks[1:]
		next.fn()
		ran++
	}
}
