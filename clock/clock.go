// Package clock provides the one-shot deferred execution used by the pool
// cleanup, the long press and the reorder cooldown. Production code schedules
// on wall-clock time, tests advance a Manual clock by hand.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancelable one-shot timer.
type Timer interface {
	// Stop prevents the timer from firing. It returns false if the timer has
	// already fired or been stopped.
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

// Real returns a Scheduler backed by time.AfterFunc. Callbacks run on their
// own goroutine.
func Real() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Deferred is a Scheduler that keeps time on the wall clock but holds due
// callbacks until Run is called. Run belongs to the goroutine that owns the
// state the callbacks touch, so they never run concurrently with it.
type Deferred struct {
	mu  sync.Mutex
	due []*deferredTimer
}

type deferredTimer struct {
	owner *Deferred
	timer *time.Timer
	f     func()
	// Guarded by owner.mu.
	done bool
}

// NewDeferred returns a deferred scheduler with nothing due.
func NewDeferred() *Deferred {
	return &Deferred{}
}

// AfterFunc queues f to be run by the first Run after d has elapsed.
func (s *Deferred) AfterFunc(d time.Duration, f func()) Timer {
	t := &deferredTimer{owner: s, f: f}
	t.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !t.done {
			s.due = append(s.due, t)
		}
	})
	return t
}

// Run runs the callbacks that are due, in the order they became due, and
// returns how many ran.
func (s *Deferred) Run() int {
	s.mu.Lock()
	due := s.due
	s.due = nil
	s.mu.Unlock()

	ran := 0
	for _, t := range due {
		s.mu.Lock()
		stopped := t.done
		t.done = true
		s.mu.Unlock()
		if stopped {
			continue
		}
		t.f()
		ran++
	}
	return ran
}

// Due returns the number of callbacks waiting for Run.
func (s *Deferred) Due() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.due)
}

func (t *deferredTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.timer.Stop()
	return true
}

// Manual is a Scheduler whose time only moves when Advance is called. Due
// callbacks run synchronously on the caller's goroutine.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock    *Manual
	deadline time.Duration
	seq      uint64
	f        func()
	done     bool
}

// NewManual returns a manual clock at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{clock: m, deadline: m.now + max(d, 0), seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d and runs every timer that becomes due,
// in deadline order. Timers scheduled by a callback fire during the same call
// if their deadline is within the advanced window. It returns the number of
// callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	fired := 0
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		t.done = true
		m.now = t.deadline
		m.mu.Unlock()
		t.f()
		fired++
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
	return fired
}

// nextDue removes and returns the earliest timer due at or before target.
func (m *Manual) nextDue(target time.Duration) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].deadline == m.timers[j].deadline {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].deadline < m.timers[j].deadline
	})
	t := m.timers[0]
	if t.deadline > target {
		return nil
	}
	m.timers = m.timers[1:]
	return t
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Now returns the time elapsed since the clock was created.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (t *manualTimer) Stop() bool {
	m := t.clock
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			break
		}
	}
	return true
}
