package display

import (
	"time"

	"github.com/diamondburned/gotk4/pkg/core/glib"

	"github.com/jmylchreest/blinkr/internal/loop"
)

// Scheduler runs callbacks on the GLib main loop.
// All GTK work must happen there, so every overlay callback goes through it.
type Scheduler struct{}

// NewScheduler returns a scheduler backed by the default GLib main context.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

var _ loop.Scheduler = (*Scheduler)(nil)

// Now returns the wall clock time.
func (s *Scheduler) Now() time.Time {
	return time.Now()
}

// After runs fn once on the main loop after d.
func (s *Scheduler) After(d time.Duration, fn func()) loop.Timer {
	t := &sourceTimer{}
	t.handle = glib.TimeoutAdd(intervalMillis(d, 0), func() bool {
		t.done = true
		fn()
		return false
	})
	return t
}

// Every runs fn on the main loop every d until the timer is stopped.
func (s *Scheduler) Every(d time.Duration, fn func()) loop.Timer {
	t := &sourceTimer{}
	t.handle = glib.TimeoutAdd(intervalMillis(d, 1), func() bool {
		if t.done {
			return false
		}
		fn()
		return !t.done
	})
	return t
}

// Post queues fn as an idle callback. Safe from any goroutine.
func (s *Scheduler) Post(fn func()) {
	glib.IdleAdd(func() {
		fn()
	})
}

// sourceTimer wraps a GLib source. It is only touched on the main loop.
type sourceTimer struct {
	handle glib.SourceHandle
	done   bool
}

// Stop removes the source unless it already fired or was stopped.
// GLib warns when removing a source that no longer exists.
func (t *sourceTimer) Stop() {
	if t.done {
		return
	}
	t.done = true
	glib.SourceRemove(t.handle)
}

// intervalMillis converts d to whole milliseconds for g_timeout_add,
// never going below floor.
func intervalMillis(d time.Duration, floor uint) uint {
	if d <= 0 {
		return floor
	}
	ms := uint(d / time.Millisecond)
	if ms < floor {
		return floor
	}
	return ms
}
