package frameloop

import (
	"sync"

	"go.uber.org/atomic"
)

// FrameFunc is called once per frame while its loop runs.
type FrameFunc func()

// Scheduler runs registered frame callbacks in registration order.
// Tick may be called from one goroutine at a time; Start and Stop on loops
// may be called from any goroutine.
type Scheduler struct {
	mu     sync.Mutex
	loops  []*Loop
	frames atomic.Uint64
	buf    []*Loop
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Tick runs every active loop once. A loop stopped by an earlier callback in
// the same tick is skipped. Loops started during a tick first run on the next
// tick.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	s.buf = append(s.buf[:0], s.loops...)
	s.mu.Unlock()

	for _, l := range s.buf {
		if !l.running.Load() {
			continue
		}
		l.fn()
		l.frames.Inc()
	}
	s.frames.Inc()
}

// Frames returns the number of completed ticks.
func (s *Scheduler) Frames() uint64 {
	return s.frames.Load()
}

// Active returns the number of running loops.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loops)
}

func (s *Scheduler) add(l *Loop) {
	s.mu.Lock()
	s.loops = append(s.loops, l)
	s.mu.Unlock()
}

func (s *Scheduler) remove(l *Loop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.loops {
		if c == l {
			s.loops = append(s.loops[:i], s.loops[i+1:]...)
			return
		}
	}
}

// Loop is a single component's frame registration on a Scheduler.
type Loop struct {
	sched   *Scheduler
	fn      FrameFunc
	mu      sync.Mutex
	running atomic.Bool
	frames  atomic.Uint64
}

// NewLoop creates a stopped loop that will call fn each frame once started.
func NewLoop(s *Scheduler, fn FrameFunc) *Loop {
	return &Loop{sched: s, fn: fn}
}

// Start schedules the loop. Starting a running loop does nothing, so there
// is never more than one registration per loop.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running.Load() {
		return
	}
	l.running.Store(true)
	l.sched.add(l)
}

// Stop cancels the loop. It is safe to call on a loop that never started or
// has already stopped.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running.Load() {
		return
	}
	l.running.Store(false)
	l.sched.remove(l)
}

// Running reports whether the loop is scheduled.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Frames returns how many times the loop's callback has run.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}
