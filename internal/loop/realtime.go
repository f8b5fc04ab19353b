package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Realtime is a wall-clock Scheduler backed by a single executor goroutine.
// Timers fire on runtime timers and hop onto the executor via Post.
type Realtime struct {
	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewRealtime creates a scheduler. Callbacks run once Run is called.
func NewRealtime() *Realtime {
	return &Realtime{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Run executes posted callbacks until ctx is cancelled or Close is called.
func (r *Realtime) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return ctx.Err()
		case <-r.done:
			return nil
		case fn := <-r.tasks:
			fn()
		}
	}
}

// Close stops the executor. Pending callbacks are dropped.
func (r *Realtime) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

// Now returns the wall-clock time.
func (r *Realtime) Now() time.Time {
	return time.Now()
}

// Post queues fn on the executor. It drops fn once the executor is closed.
func (r *Realtime) Post(fn func()) {
	select {
	case r.tasks <- fn:
	case <-r.done:
	}
}

// TryPost queues fn without blocking. It reports false when the queue is
// full or the executor is closed.
func (r *Realtime) TryPost(fn func()) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.tasks <- fn:
		return true
	default:
		return false
	}
}

// After runs fn on the executor after d.
func (r *Realtime) After(d time.Duration, fn func()) Timer {
	t := &realtimeTimer{}
	t.timer = time.AfterFunc(d, func() {
		r.Post(func() {
			if t.stopped.Load() {
				return
			}
			t.stopped.Store(true)
			fn()
		})
	})
	return t
}

// Every runs fn on the executor every d.
func (r *Realtime) Every(d time.Duration, fn func()) Timer {
	d = normalizePeriod(d)
	t := &realtimeTimer{}
	t.timer = time.AfterFunc(d, func() {
		r.Post(func() {
			if t.stopped.Load() {
				return
			}
			fn()
			if !t.stopped.Load() {
				t.timer.Reset(d)
			}
		})
	})
	return t
}

type realtimeTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *realtimeTimer) Stop() {
	t.stopped.Store(true)
	t.timer.Stop()
}
