package frameloop

import (
	"context"
	"sync"
	"time"
)

// Ticker drives a Scheduler from a time.Ticker on its own goroutine. It is
// the headless stand-in for the display refresh.
type Ticker struct {
	sched    *Scheduler
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker creates a stopped ticker that ticks s every interval. A
// non-positive interval defaults to 60 ticks per second.
func NewTicker(s *Scheduler, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Ticker{sched: s, interval: interval}
}

// Start begins ticking until ctx is done or Stop is called. Starting a
// running ticker does nothing.
func (t *Ticker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	go t.run(ctx, t.done)
}

func (t *Ticker) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			t.sched.Tick()
		}
	}
}

// Stop halts ticking and waits for the goroutine to exit. Safe to call
// repeatedly and before Start.
func (t *Ticker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
