package daemon

import (
	"log/slog"
	"time"

	"github.com/jmylchreest/blinkr/internal/blink"
	"github.com/jmylchreest/blinkr/internal/loop"
	"github.com/jmylchreest/blinkr/internal/monitor"
)

// Labels for the tray's pause/resume entry.
const (
	LabelPause  = "Pause"
	LabelResume = "Resume"
)

// Options configures a Coordinator.
type Options struct {
	Blink        blink.Options
	PollInterval time.Duration // Zero uses monitor.DefaultPollInterval
	StartPaused  bool
}

// Coordinator owns one blink.Animator per attached display.
// All methods must be called on the scheduler's executor; other goroutines
// hop over with Scheduler.Post.
type Coordinator struct {
	logger    *slog.Logger
	scheduler loop.Scheduler
	source    monitor.Source
	factory   blink.SurfaceFactory
	watcher   *monitor.Watcher
	opts      Options

	animators []*blink.Animator
	topology  monitor.Topology
	paused    bool

	initialized bool
	shutdown    bool

	// Callbacks
	onPauseLabel func(label string)
	onBlink      func(*blink.Animator)
}

// NewCoordinator creates a coordinator. Nothing happens until Initialize.
func NewCoordinator(source monitor.Source, factory blink.SurfaceFactory, scheduler loop.Scheduler, opts Options, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}

	watcher := monitor.NewWatcher(source, scheduler, logger)
	if opts.PollInterval > 0 {
		watcher.SetPollInterval(opts.PollInterval)
	}

	c := &Coordinator{
		logger:    logger,
		scheduler: scheduler,
		source:    source,
		factory:   factory,
		watcher:   watcher,
		opts:      opts,
		paused:    opts.StartPaused,
	}
	watcher.SetChangeCallback(c.HandleTopologyChange)
	return c
}

// SetPauseLabelCallback sets the callback receiving the pause/resume label
// after every pause state change.
func (c *Coordinator) SetPauseLabelCallback(cb func(label string)) {
	c.onPauseLabel = cb
}

// SetBlinkCallback sets the callback invoked once per blink cycle, however
// many overlays blink.
func (c *Coordinator) SetBlinkCallback(cb func(*blink.Animator)) {
	c.onBlink = cb
}

// Initialize reads the current displays, creates their overlays and starts
// watching for topology changes.
func (c *Coordinator) Initialize() {
	if c.initialized || c.shutdown {
		return
	}
	c.initialized = true

	c.topology = c.source.Displays().Clone()
	c.build()
	c.watcher.Start(c.topology)

	c.logger.Info("coordinator initialized",
		"displays", len(c.topology),
		"paused", c.paused,
		"interval", c.opts.Blink.Interval,
	)
	c.emitLabel()
}

// HandleTopologyChange tears down every overlay and rebuilds one per
// display in topology.
func (c *Coordinator) HandleTopologyChange(topology monitor.Topology) {
	if c.shutdown {
		return
	}

	previous := len(c.animators)
	c.teardown()
	c.topology = topology.Clone()
	c.build()

	c.logger.Info("overlays rebuilt",
		"previous", previous,
		"current", len(c.animators),
	)
}

// PauseAll stops every overlay's timer. Blinks in flight finish.
func (c *Coordinator) PauseAll() {
	c.paused = true
	for _, a := range c.animators {
		a.Stop()
	}
	c.logger.Info("blinking paused")
	c.emitLabel()
}

// ResumeAll restarts every overlay's timer.
func (c *Coordinator) ResumeAll() {
	c.paused = false
	for _, a := range c.animators {
		a.Start()
	}
	c.logger.Info("blinking resumed")
	c.emitLabel()
}

// ToggleGlobalPause flips between PauseAll and ResumeAll.
func (c *Coordinator) ToggleGlobalPause() {
	if c.paused {
		c.ResumeAll()
	} else {
		c.PauseAll()
	}
}

// Shutdown stops the watcher and disposes every overlay. It is safe to call
// more than once.
func (c *Coordinator) Shutdown() {
	if c.shutdown {
		return
	}
	c.shutdown = true
	c.watcher.Stop()
	c.teardown()
	c.logger.Info("coordinator stopped")
}

// Paused reports the global pause state.
func (c *Coordinator) Paused() bool {
	return c.paused
}

// PauseLabel returns the label for the pause/resume control.
func (c *Coordinator) PauseLabel() string {
	if c.paused {
		return LabelResume
	}
	return LabelPause
}

// Animators returns the live overlays in topology order.
func (c *Coordinator) Animators() []*blink.Animator {
	out := make([]*blink.Animator, len(c.animators))
	copy(out, c.animators)
	return out
}

// Topology returns the last observed topology.
func (c *Coordinator) Topology() monitor.Topology {
	return c.topology.Clone()
}

func (c *Coordinator) build() {
	c.animators = make([]*blink.Animator, 0, len(c.topology))
	for i, d := range c.topology {
		surface := c.factory.NewSurface(i, d)
		a := blink.NewAnimator(surface, c.scheduler, c.opts.Blink, c.logger)
		a.SetTarget(d.Bounds)
		// Animators share one cadence; report each cycle once.
		if i == 0 && c.onBlink != nil {
			a.OnBlink(c.onBlink)
		}
		if !c.paused {
			a.Start()
		}
		c.animators = append(c.animators, a)

		c.logger.Debug("overlay created",
			"index", i,
			"connector", d.Connector,
			"bounds", d.Bounds.String(),
			"animator", a.ID().String(),
		)
	}
}

func (c *Coordinator) teardown() {
	for _, a := range c.animators {
		a.Stop()
		a.Dispose()
	}
	c.animators = nil
}

func (c *Coordinator) emitLabel() {
	if c.onPauseLabel != nil {
		c.onPauseLabel(c.PauseLabel())
	}
}
