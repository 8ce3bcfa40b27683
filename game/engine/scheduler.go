package engine

import (
	"sort"
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback
type Timer interface {
	// Stop cancels the callback; it reports false if the callback already ran or was stopped
	Stop() bool
}

// Scheduler runs callbacks after a real-time delay
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules callbacks on the wall clock
type RealScheduler struct{}

// AfterFunc wraps time.AfterFunc
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler is a virtual clock. Callbacks only run from Advance, on the
// caller's goroutine, in due-time order.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	at    time.Duration
	seq   int
	fn    func()
	done  bool
	sched *ManualScheduler
}

// NewManualScheduler creates a virtual clock at time zero
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc schedules f at now+d
func (m *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTask{at: m.now + d, seq: m.seq, fn: f, sched: m}
	m.tasks = append(m.tasks, t)
	return t
}

// Stop cancels the task if it has not run yet
func (t *manualTask) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	return true
}

// Advance moves the clock forward by d, running every callback that becomes due.
// Callbacks scheduled while advancing run too if they fall inside the window.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		next.done = true
		m.now = next.at
		m.mu.Unlock()

		next.fn()
	}
}

// Now returns the virtual time elapsed since creation
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of callbacks still waiting to run
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.tasks {
		if !t.done {
			n++
		}
	}
	return n
}

// nextDue picks the earliest live task due at or before target and drops
// finished tasks. Callers hold m.mu.
func (m *ManualScheduler) nextDue(target time.Duration) *manualTask {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.done {
			live = append(live, t)
		}
	}
	m.tasks = live

	sort.Slice(m.tasks, func(i, j int) bool {
		if m.tasks[i].at == m.tasks[j].at {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].at < m.tasks[j].at
	})

	if len(m.tasks) == 0 || m.tasks[0].at > target {
		return nil
	}
	return m.tasks[0]
}
