package monitor

import (
	"log/slog"
	"time"

	"github.com/jmylchreest/blinkr/internal/loop"
)

// DefaultPollInterval is how often the watcher re-reads the display list.
const DefaultPollInterval = 2000 * time.Millisecond

// Watcher polls a Source for topology changes.
// All methods must be called on the scheduler's executor.
type Watcher struct {
	logger    *slog.Logger
	source    Source
	scheduler loop.Scheduler

	// Last observed topology
	baseline Topology

	// Polling interval
	pollInterval time.Duration

	// Callback for changes
	onChangeCallback func(Topology)

	timer   loop.Timer
	running bool
}

// NewWatcher creates a Watcher polling source on scheduler.
func NewWatcher(source Source, scheduler loop.Scheduler, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger:       logger,
		source:       source,
		scheduler:    scheduler,
		pollInterval: DefaultPollInterval,
	}
}

// SetPollInterval sets the polling interval. It takes effect on the next Start.
func (w *Watcher) SetPollInterval(interval time.Duration) {
	w.pollInterval = interval
}

// SetChangeCallback sets the callback invoked with the new topology on change.
func (w *Watcher) SetChangeCallback(callback func(Topology)) {
	w.onChangeCallback = callback
}

// Baseline returns the last observed topology.
func (w *Watcher) Baseline() Topology {
	return w.baseline.Clone()
}

// Running reports whether the watcher is polling.
func (w *Watcher) Running() bool {
	return w.running
}

// Start begins polling, comparing against baseline.
func (w *Watcher) Start(baseline Topology) {
	if w.running {
		return
	}
	w.running = true
	w.baseline = baseline.Clone()
	w.timer = w.scheduler.Every(w.pollInterval, w.poll)

	w.logger.Debug("display watcher started", "interval", w.pollInterval, "displays", len(w.baseline))
}

// Stop stops polling. It is safe to call more than once.
func (w *Watcher) Stop() {
	if !w.running {
		return
	}
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.logger.Debug("display watcher stopped")
}

// poll re-reads the display list and reports a change.
func (w *Watcher) poll() {
	if !w.running {
		return
	}

	current := w.source.Displays()
	if !Changed(w.baseline, current) {
		return
	}

	w.logger.Info("display topology changed",
		"previous", len(w.baseline),
		"current", len(current),
	)
	w.baseline = current.Clone()

	if w.onChangeCallback != nil {
		w.onChangeCallback(current.Clone())
	}
}
