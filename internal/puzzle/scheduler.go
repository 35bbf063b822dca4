package puzzle

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop revokes the callback. It reports false if the callback already
	// fired or was stopped.
	Stop() bool
}

// Scheduler runs a callback once after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// WallScheduler schedules on wall-clock time.
type WallScheduler struct{}

func (WallScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FrameScheduler schedules on game time advanced explicitly by a frame loop.
// Callbacks run on the goroutine calling Advance.
type FrameScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*frameTimer
}

type frameTimer struct {
	s   *FrameScheduler
	at  time.Duration
	seq uint64
	f   func()
}

// NewFrameScheduler creates a scheduler at game time zero.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

func (s *FrameScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &frameTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.pending = append(s.pending, t)
	return t
}

func (t *frameTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.s.remove(t)
}

func (s *FrameScheduler) remove(t *frameTimer) bool {
	for i, p := range s.pending {
		if p == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves game time forward by dt and fires every callback that
// came due, in due-time order.
func (s *FrameScheduler) Advance(dt time.Duration) {
	s.mu.Lock()
	s.now += dt
	var due []*frameTimer
	keep := s.pending[:0]
	for _, t := range s.pending {
		if t.at <= s.now {
			due = append(due, t)
		} else {
			keep = append(keep, t)
		}
	}
	s.pending = keep
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.f()
	}
}

// Now returns the current game time.
func (s *FrameScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of callbacks waiting to fire.
func (s *FrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Run advances the scheduler once per frame interval until ctx is done.
func (s *FrameScheduler) Run(ctx context.Context, frame time.Duration) error {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.Advance(now.Sub(last))
			last = now
		}
	}
}
