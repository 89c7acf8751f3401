// Package scheduler runs cancellable periodic tasks.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// TickFunc is invoked on every tick with the tick time. Returning false stops the task.
type TickFunc func(ctx context.Context, now time.Time) bool

// Periodic calls a TickFunc at a fixed interval until it is stopped, its
// context is cancelled, or the function asks to stop. Each call receives the
// current wall-clock time and is expected to recompute its state from scratch.
type Periodic struct {
	interval time.Duration
	fn       TickFunc
	now      func() time.Time

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewPeriodic creates a task. It does not start until Start is called.
func NewPeriodic(interval time.Duration, fn TickFunc) *Periodic {
	if interval <= 0 {
		interval = time.Second
	}
	return &Periodic{
		interval: interval,
		fn:       fn,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the task in a new goroutine. The first call happens immediately.
func (p *Periodic) Start(ctx context.Context) {
	go p.Run(ctx)
}

// Run blocks until the task ends. A task runs once; later calls return at once.
func (p *Periodic) Run(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	defer close(p.done)

	if !p.fn(ctx, p.now()) {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			if !p.fn(ctx, p.now()) {
				return
			}
		}
	}
}

// Stop ends the task. It is safe to call more than once and from any goroutine.
func (p *Periodic) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// Done is closed once the task has returned.
func (p *Periodic) Done() <-chan struct{} {
	return p.done
}
