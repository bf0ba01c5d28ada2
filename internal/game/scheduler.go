package game

import (
	"sort"
	"time"
)

// Scheduler runs fn once after delay. Implementations decide which goroutine
// fn runs on; the engine assumes callbacks never run concurrently with its
// commands.
type Scheduler interface {
	Schedule(delay time.Duration, fn func())
}

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type pendingCall struct {
	due time.Time
	seq uint64
	fn  func()
}

// ManualScheduler is a virtual clock and scheduler driven by Advance.
// It is not safe for concurrent use.
type ManualScheduler struct {
	now   time.Time
	seq   uint64
	queue []pendingCall
}

// NewManualScheduler returns a scheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now returns the virtual time.
func (s *ManualScheduler) Now() time.Time {
	return s.now
}

// Schedule queues fn to run once the virtual clock reaches now+delay.
func (s *ManualScheduler) Schedule(delay time.Duration, fn func()) {
	if fn == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	s.seq++
	s.queue = append(s.queue, pendingCall{due: s.now.Add(delay), seq: s.seq, fn: fn})
	sort.SliceStable(s.queue, func(i, j int) bool {
		if !s.queue[i].due.Equal(s.queue[j].due) {
			return s.queue[i].due.Before(s.queue[j].due)
		}
		return s.queue[i].seq < s.queue[j].seq
	})
}

// Advance moves the clock forward by d, running every callback that falls
// due on the way (including ones scheduled by earlier callbacks). The clock
// reads each callback's due time while it runs. It returns how many ran.
func (s *ManualScheduler) Advance(d time.Duration) int {
	target := s.now.Add(d)
	fired := 0
	for len(s.queue) > 0 && !s.queue[0].due.After(target) {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.now = next.due
		next.fn()
		fired++
	}
	s.now = target
	return fired
}

// Pending reports how many callbacks are queued.
func (s *ManualScheduler) Pending() int {
	return len(s.queue)
}
