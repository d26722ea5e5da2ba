package autosave

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports false when the
	// callback already ran or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay and tells the time.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// SystemScheduler uses the wall clock. Callbacks run on their own goroutine.
type SystemScheduler struct{}

func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (SystemScheduler) Now() time.Time {
	return time.Now()
}

// VirtualScheduler is a manual clock. Time only moves on Advance, which runs
// due callbacks synchronously in deadline order.
type VirtualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	nextID uint64
	timers map[uint64]*virtualTimer
}

type virtualTimer struct {
	s  *VirtualScheduler
	id uint64
	at time.Time
	f  func()
}

// NewVirtualScheduler creates a clock reading start.
func NewVirtualScheduler(start time.Time) *VirtualScheduler {
	return &VirtualScheduler{
		now:    start,
		timers: make(map[uint64]*virtualTimer),
	}
}

func (s *VirtualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := &virtualTimer{s: s, id: s.nextID, at: s.now.Add(d), f: f}
	s.timers[t.id] = t
	return t
}

func (s *VirtualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the clock forward by d and runs every callback that becomes
// due, including callbacks scheduled by those callbacks.
func (s *VirtualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		delete(s.timers, next.id)
		if next.at.After(s.now) {
			s.now = next.at
		}
		s.mu.Unlock()
		next.f()
		s.mu.Lock()
	}
	s.now = target
	s.mu.Unlock()
}

// Pending returns the number of callbacks waiting to run.
func (s *VirtualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *VirtualScheduler) nextDue(target time.Time) *virtualTimer {
	due := make([]*virtualTimer, 0, len(s.timers))
	for _, t := range s.timers {
		if !t.at.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].id < due[j].id
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}

func (t *virtualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.timers[t.id]; !ok {
		return false
	}
	delete(t.s.timers, t.id)
	return true
}
