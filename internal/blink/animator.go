package blink

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/blinkr/internal/loop"
	"github.com/jmylchreest/blinkr/internal/monitor"
)

// Animator drives one Surface through periodic blinks.
//
// It is Idle (surface hidden, periodic timer armed) until the timer fires,
// then Animating (surface shown, frames stepping) until the sequence ends.
// All methods must be called on the scheduler's executor.
type Animator struct {
	id        ulid.ULID
	logger    *slog.Logger
	scheduler loop.Scheduler
	surface   Surface
	opts      Options
	frames    []Frame

	target   monitor.Bounds
	progress float64

	running   bool
	paused    bool
	animating bool
	disposed  bool

	ticker    loop.Timer
	step      loop.Timer
	cancel    context.CancelFunc
	nextBlink time.Time

	onBlink func(*Animator)
}

// NewAnimator creates an idle animator driving surface. Call Start to arm it.
func NewAnimator(surface Surface, scheduler loop.Scheduler, opts Options, logger *slog.Logger) *Animator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	a := &Animator{
		id:        ulid.Make(),
		scheduler: scheduler,
		surface:   surface,
		opts:      opts,
		frames:    Sequence(opts),
	}
	a.logger = logger.With("animator", a.id.String())
	return a
}

// ID returns the animator's unique identifier.
func (a *Animator) ID() ulid.ULID { return a.id }

// Target returns the bounds the surface covers.
func (a *Animator) Target() monitor.Bounds { return a.target }

// Progress returns the eased progress currently drawn.
func (a *Animator) Progress() float64 { return a.progress }

// Animating reports whether a blink is in flight.
func (a *Animator) Animating() bool { return a.animating }

// Paused reports whether the animator is paused.
func (a *Animator) Paused() bool { return a.paused }

// Running reports whether the periodic timer is meant to be armed.
func (a *Animator) Running() bool { return a.running }

// Disposed reports whether Dispose has been called.
func (a *Animator) Disposed() bool { return a.disposed }

// NextBlink returns when the periodic timer fires next, or the zero time
// when it is not armed.
func (a *Animator) NextBlink() time.Time {
	if a.ticker == nil {
		return time.Time{}
	}
	return a.nextBlink
}

// Frames returns the frames of one blink.
func (a *Animator) Frames() []Frame { return a.frames }

// OnBlink sets a hook invoked whenever a blink starts.
func (a *Animator) OnBlink(cb func(*Animator)) {
	a.onBlink = cb
}

// SetTarget positions the surface over bounds. Bounds are not validated.
func (a *Animator) SetTarget(bounds monitor.Bounds) {
	a.target = bounds
	if a.surface != nil {
		a.surface.SetBounds(bounds)
	}
}

// Start clears the paused flag and arms the periodic timer.
func (a *Animator) Start() {
	if a.disposed {
		return
	}
	a.paused = false
	a.running = true
	a.arm()
}

// Stop disarms the periodic timer. A blink in flight still finishes but
// does not re-arm the timer.
func (a *Animator) Stop() {
	a.running = false
	a.disarm()
}

// TogglePause flips the paused flag, disarming or re-arming the timer.
// Pausing mid-blink lets the blink finish.
func (a *Animator) TogglePause() {
	if a.disposed {
		return
	}
	if a.paused {
		a.Start()
		return
	}
	a.paused = true
	a.disarm()
}

// BlinkNow starts a blink immediately unless one is already in flight.
func (a *Animator) BlinkNow() {
	if a.disposed || a.animating {
		return
	}
	a.begin()
}

// Dispose cancels any blink in flight, disarms the timer and destroys the
// surface. It is safe to call more than once.
func (a *Animator) Dispose() {
	if a.disposed {
		return
	}
	a.disposed = true
	a.running = false
	a.disarm()

	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.step != nil {
		a.step.Stop()
		a.step = nil
	}
	a.animating = false

	if a.surface != nil {
		a.surface.Destroy()
		a.surface = nil
	}
	a.logger.Debug("animator disposed")
}

func (a *Animator) arm() {
	// Mid-blink the timer is re-armed by finish.
	if a.animating {
		return
	}
	a.disarm()
	a.ticker = a.scheduler.Every(a.opts.Interval, a.onInterval)
	a.nextBlink = a.scheduler.Now().Add(a.opts.Interval)
}

func (a *Animator) disarm() {
	if a.ticker != nil {
		a.ticker.Stop()
		a.ticker = nil
	}
}

// onInterval is the periodic timer callback.
func (a *Animator) onInterval() {
	if a.disposed || a.paused || a.animating {
		return
	}
	a.nextBlink = a.scheduler.Now().Add(a.opts.Interval)
	a.begin()
}

func (a *Animator) begin() {
	a.animating = true
	a.disarm()

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.logger.Debug("blink started", "target", a.target.String())
	a.surface.Show()
	if a.onBlink != nil {
		a.onBlink(a)
	}
	a.advance(ctx, 0)
}

// advance draws frame i and schedules frame i+1.
func (a *Animator) advance(ctx context.Context, i int) {
	if ctx.Err() != nil {
		return
	}
	if i >= len(a.frames) {
		a.finish()
		return
	}

	f := a.frames[i]
	if f.Phase != PhaseHold {
		a.progress = f.Progress
		a.surface.Redraw(a.progress)
	}

	a.step = a.scheduler.After(f.Delay, func() {
		a.advance(ctx, i+1)
	})
}

func (a *Animator) finish() {
	a.step = nil
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.animating = false
	a.progress = 0
	a.surface.Hide()

	a.logger.Debug("blink finished")

	if a.running && !a.paused {
		a.arm()
	}
}
