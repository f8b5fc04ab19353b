package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blinkr/internal/blink"
	"github.com/jmylchreest/blinkr/internal/blink/blinktest"
	"github.com/jmylchreest/blinkr/internal/loop"
	"github.com/jmylchreest/blinkr/internal/monitor"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	left  = monitor.Display{Connector: "DP-1", Bounds: monitor.Bounds{X: 0, Y: 0, Width: 1920, Height: 1080}}
	right = monitor.Display{Connector: "DP-2", Bounds: monitor.Bounds{X: 1920, Y: 0, Width: 2560, Height: 1440}}
)

type fakeSource struct {
	topology monitor.Topology
}

func (f *fakeSource) Displays() monitor.Topology {
	return f.topology.Clone()
}

type harness struct {
	sched    *loop.Manual
	source   *fakeSource
	surfaces []*blinktest.Surface
	labels   []string
	coord    *Coordinator
}

func newHarness(t *testing.T, opts Options, displays ...monitor.Display) *harness {
	t.Helper()
	h := &harness{
		sched:  loop.NewManual(epoch),
		source: &fakeSource{topology: displays},
	}
	factory := blink.SurfaceFactoryFunc(func(index int, d monitor.Display) blink.Surface {
		s := blinktest.NewSurface()
		h.surfaces = append(h.surfaces, s)
		return s
	})
	if opts.Blink.Interval == 0 {
		opts.Blink = blink.DefaultOptions()
	}
	h.coord = NewCoordinator(h.source, factory, h.sched, opts, nil)
	h.coord.SetPauseLabelCallback(func(label string) { h.labels = append(h.labels, label) })
	return h
}

func (h *harness) blinkLength() time.Duration {
	return blink.TotalDuration(blink.Sequence(blink.DefaultOptions()))
}

func TestCoordinator_InitializeCreatesOnePerDisplay(t *testing.T) {
	h := newHarness(t, Options{}, left, right)
	h.coord.Initialize()

	animators := h.coord.Animators()
	require.Len(t, animators, 2)
	assert.Equal(t, left.Bounds, animators[0].Target())
	assert.Equal(t, right.Bounds, animators[1].Target())
	assert.Equal(t, left.Bounds, h.surfaces[0].Bounds)
	assert.Equal(t, right.Bounds, h.surfaces[1].Bounds)
	for _, a := range animators {
		assert.True(t, a.Running())
	}
	assert.Equal(t, []string{LabelPause}, h.labels)

	// Initialize is one-shot.
	h.coord.Initialize()
	assert.Len(t, h.surfaces, 2)
}

func TestCoordinator_StartPaused(t *testing.T) {
	h := newHarness(t, Options{StartPaused: true}, left)
	h.coord.Initialize()

	require.Len(t, h.coord.Animators(), 1)
	assert.False(t, h.coord.Animators()[0].Running())
	assert.Equal(t, []string{LabelResume}, h.labels)

	h.sched.Advance(10 * blink.DefaultInterval)
	assert.Equal(t, 0, h.surfaces[0].Shows)
}

func TestCoordinator_AllDisplaysBlink(t *testing.T) {
	h := newHarness(t, Options{}, left, right)
	h.coord.Initialize()

	h.sched.Advance(blink.DefaultInterval)
	for _, s := range h.surfaces {
		assert.Equal(t, 1, s.Shows)
		assert.True(t, s.Visible)
	}
}

func TestCoordinator_DisplayRemovedRebuilds(t *testing.T) {
	h := newHarness(t, Options{}, left, right)
	h.coord.Initialize()
	before := h.coord.Animators()

	// Remove a display while both overlays are mid-blink.
	h.sched.Advance(blink.DefaultInterval + 10*time.Millisecond)
	require.True(t, before[0].Animating())

	h.source.topology = monitor.Topology{left}
	h.sched.Advance(monitor.DefaultPollInterval)

	after := h.coord.Animators()
	require.Len(t, after, 1)
	assert.Equal(t, left.Bounds, after[0].Target())
	assert.Equal(t, monitor.Topology{left}, h.coord.Topology())

	for _, a := range before {
		assert.True(t, a.Disposed())
	}
	require.Len(t, h.surfaces, 3)
	assert.True(t, h.surfaces[0].Destroyed)
	assert.True(t, h.surfaces[1].Destroyed)
	assert.False(t, h.surfaces[2].Destroyed)

	// Old overlays never draw again.
	redraws0, redraws1 := len(h.surfaces[0].Redraws), len(h.surfaces[1].Redraws)
	h.sched.Advance(3 * blink.DefaultInterval)
	assert.Len(t, h.surfaces[0].Redraws, redraws0)
	assert.Len(t, h.surfaces[1].Redraws, redraws1)
	assert.Equal(t, 0, h.surfaces[0].CallsAfterDestroy)
	assert.Equal(t, 0, h.surfaces[1].CallsAfterDestroy)

	assert.Greater(t, h.surfaces[2].Shows, 0)
}

func TestCoordinator_BoundsChangeRebuilds(t *testing.T) {
	h := newHarness(t, Options{}, left)
	h.coord.Initialize()
	first := h.coord.Animators()[0]

	resized := monitor.Display{Connector: "DP-1", Bounds: monitor.Bounds{Width: 1280, Height: 720}}
	h.source.topology = monitor.Topology{resized}
	h.sched.Advance(monitor.DefaultPollInterval)

	animators := h.coord.Animators()
	require.Len(t, animators, 1)
	assert.NotSame(t, first, animators[0])
	assert.True(t, first.Disposed())
	assert.Equal(t, resized.Bounds, animators[0].Target())
	assert.Equal(t, resized.Bounds, h.surfaces[1].Bounds)
}

func TestCoordinator_UnchangedTopologyKeepsOverlays(t *testing.T) {
	h := newHarness(t, Options{}, left, right)
	h.coord.Initialize()
	before := h.coord.Animators()

	h.sched.Advance(5 * monitor.DefaultPollInterval)

	after := h.coord.Animators()
	require.Len(t, after, 2)
	assert.Same(t, before[0], after[0])
	assert.Same(t, before[1], after[1])
	assert.Len(t, h.surfaces, 2)
}

func TestCoordinator_RebuildWhilePausedStaysPaused(t *testing.T) {
	h := newHarness(t, Options{}, left)
	h.coord.Initialize()
	h.coord.PauseAll()

	h.source.topology = monitor.Topology{left, right}
	h.sched.Advance(monitor.DefaultPollInterval)

	require.Len(t, h.coord.Animators(), 2)
	for _, a := range h.coord.Animators() {
		assert.False(t, a.Running())
	}
	h.sched.Advance(5 * blink.DefaultInterval)
	for _, s := range h.surfaces[1:] {
		assert.Equal(t, 0, s.Shows)
	}
}

func TestCoordinator_ToggleGlobalPauseTwiceRestores(t *testing.T) {
	h := newHarness(t, Options{}, left, right)
	h.coord.Initialize()

	h.coord.ToggleGlobalPause()
	assert.True(t, h.coord.Paused())
	assert.Equal(t, LabelResume, h.coord.PauseLabel())
	for _, a := range h.coord.Animators() {
		assert.False(t, a.Running())
	}
	assert.Equal(t, 1, h.sched.Pending(), "only the display watcher stays armed")

	h.coord.ToggleGlobalPause()
	assert.False(t, h.coord.Paused())
	for _, a := range h.coord.Animators() {
		assert.True(t, a.Running())
		assert.False(t, a.Paused())
	}
	assert.Equal(t, []string{LabelPause, LabelResume, LabelPause}, h.labels)

	h.sched.Advance(blink.DefaultInterval)
	for _, s := range h.surfaces {
		assert.Equal(t, 1, s.Shows)
	}
}

func TestCoordinator_PauseMidBlinkFinishesWithoutRearm(t *testing.T) {
	h := newHarness(t, Options{}, left)
	h.coord.Initialize()
	h.sched.Advance(blink.DefaultInterval + 20*time.Millisecond)
	a := h.coord.Animators()[0]
	require.True(t, a.Animating())

	h.coord.PauseAll()
	h.sched.Advance(h.blinkLength())
	assert.False(t, a.Animating())
	assert.False(t, h.surfaces[0].Visible)

	h.sched.Advance(5 * blink.DefaultInterval)
	assert.Equal(t, 1, h.surfaces[0].Shows)
}

func TestCoordinator_Shutdown(t *testing.T) {
	h := newHarness(t, Options{}, left, right)
	h.coord.Initialize()
	h.sched.Advance(blink.DefaultInterval + 5*time.Millisecond)

	h.coord.Shutdown()
	h.coord.Shutdown()

	assert.Empty(t, h.coord.Animators())
	for _, s := range h.surfaces {
		assert.True(t, s.Destroyed)
	}
	assert.Equal(t, 0, h.sched.Pending())

	// Topology changes after shutdown are ignored.
	h.source.topology = monitor.Topology{right}
	h.coord.HandleTopologyChange(h.source.topology)
	h.sched.Advance(time.Minute)
	assert.Empty(t, h.coord.Animators())
	assert.Len(t, h.surfaces, 2)
}

func TestCoordinator_NoDisplays(t *testing.T) {
	h := newHarness(t, Options{})
	h.coord.Initialize()
	assert.Empty(t, h.coord.Animators())

	h.source.topology = monitor.Topology{left}
	h.sched.Advance(monitor.DefaultPollInterval)
	assert.Len(t, h.coord.Animators(), 1)
}

func TestCoordinator_BlinkCallbackOncePerCycle(t *testing.T) {
	below := monitor.Display{Connector: "HDMI-A-1", Bounds: monitor.Bounds{X: 0, Y: 1080, Width: 1280, Height: 1024}}
	h := newHarness(t, Options{}, left, right, below)
	perInstant := map[time.Time]int{}
	h.coord.SetBlinkCallback(func(a *blink.Animator) {
		perInstant[h.sched.Now()]++
	})
	h.coord.Initialize()
	require.Len(t, h.coord.Animators(), 3)

	cycle := blink.DefaultInterval + h.blinkLength()
	h.sched.Advance(2 * cycle)

	require.Len(t, perInstant, 2)
	for at, n := range perInstant {
		assert.Equal(t, 1, n, "callbacks at %s", at)
	}
}

func TestCoordinator_BlinkCallbackSurvivesRebuild(t *testing.T) {
	h := newHarness(t, Options{}, left, right)
	calls := 0
	h.coord.SetBlinkCallback(func(a *blink.Animator) { calls++ })
	h.coord.Initialize()

	h.source.topology = monitor.Topology{right, left}
	h.coord.HandleTopologyChange(h.source.topology)
	require.Len(t, h.coord.Animators(), 2)

	h.sched.Advance(blink.DefaultInterval)
	assert.Equal(t, 1, calls)
}

func TestCoordinator_CustomPollInterval(t *testing.T) {
	h := newHarness(t, Options{PollInterval: 100 * time.Millisecond}, left)
	h.coord.Initialize()

	h.source.topology = monitor.Topology{right}
	h.sched.Advance(100 * time.Millisecond)
	require.Len(t, h.coord.Animators(), 1)
	assert.Equal(t, right.Bounds, h.coord.Animators()[0].Target())
}
