package blink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blinkr/internal/blink/blinktest"
	"github.com/jmylchreest/blinkr/internal/loop"
	"github.com/jmylchreest/blinkr/internal/monitor"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// blinkLength is the time one default blink takes on the manual clock.
var blinkLength = TotalDuration(Sequence(DefaultOptions()))

func newTestAnimator(t *testing.T) (*Animator, *blinktest.Surface, *loop.Manual) {
	t.Helper()
	sched := loop.NewManual(epoch)
	surface := blinktest.NewSurface()
	a := NewAnimator(surface, sched, DefaultOptions(), nil)
	return a, surface, sched
}

func TestAnimator_IdleUntilInterval(t *testing.T) {
	a, surface, sched := newTestAnimator(t)
	a.Start()

	assert.True(t, a.Running())
	assert.Equal(t, epoch.Add(DefaultInterval), a.NextBlink())

	sched.Advance(DefaultInterval - time.Millisecond)
	assert.Equal(t, 0, surface.Shows)
	assert.False(t, a.Animating())

	sched.Advance(time.Millisecond)
	assert.Equal(t, 1, surface.Shows)
	assert.True(t, a.Animating())
	assert.True(t, surface.Visible)
	assert.Equal(t, []float64{0}, surface.Redraws)
}

func TestAnimator_FullBlink(t *testing.T) {
	a, surface, sched := newTestAnimator(t)
	a.Start()

	sched.Advance(DefaultInterval + blinkLength)

	assert.False(t, a.Animating())
	assert.False(t, surface.Visible)
	assert.Equal(t, 1, surface.Hides)
	assert.Equal(t, 0.0, a.Progress())

	var expected []float64
	for _, f := range a.Frames() {
		if f.Phase != PhaseHold {
			expected = append(expected, f.Progress)
		}
	}
	require.Len(t, surface.Redraws, 2*(DefaultSteps+1))
	assert.Equal(t, expected, surface.Redraws)
	assert.Contains(t, surface.Redraws, 1.0)

	// The timer is re-armed from the end of the blink.
	assert.Equal(t, epoch.Add(DefaultInterval+blinkLength+DefaultInterval), a.NextBlink())

	sched.Advance(DefaultInterval)
	assert.Equal(t, 2, surface.Shows)
}

func TestAnimator_HoldKeepsEyesClosed(t *testing.T) {
	a, surface, sched := newTestAnimator(t)
	a.Start()

	closing := time.Duration(DefaultSteps+1) * StepDelay(DefaultDuration, DefaultSteps)
	sched.Advance(DefaultInterval + closing + DefaultHold/2)

	assert.True(t, a.Animating())
	assert.Equal(t, 1.0, a.Progress())
	assert.Len(t, surface.Redraws, DefaultSteps+1)
}

func TestAnimator_IntervalFiringWhileAnimatingIsIgnored(t *testing.T) {
	a, surface, sched := newTestAnimator(t)
	a.Start()
	sched.Advance(DefaultInterval + 10*time.Millisecond)
	require.True(t, a.Animating())

	progress := a.Progress()
	redraws := len(surface.Redraws)
	require.Greater(t, progress, 0.0)

	a.onInterval()
	a.BlinkNow()

	assert.Equal(t, progress, a.Progress())
	assert.Len(t, surface.Redraws, redraws)
	assert.Equal(t, 1, surface.Shows)

	sched.Advance(blinkLength)
	assert.False(t, a.Animating())
	assert.Len(t, surface.Redraws, 2*(DefaultSteps+1))
}

func TestAnimator_PauseWhileIdleStopsTimer(t *testing.T) {
	a, surface, sched := newTestAnimator(t)
	a.Start()
	require.Equal(t, 1, sched.Pending())

	a.TogglePause()
	assert.True(t, a.Paused())
	assert.Equal(t, 0, sched.Pending())
	assert.True(t, a.NextBlink().IsZero())

	sched.Advance(10 * DefaultInterval)
	assert.Equal(t, 0, surface.Shows)

	a.TogglePause()
	assert.False(t, a.Paused())
	sched.Advance(DefaultInterval)
	assert.Equal(t, 1, surface.Shows)
}

func TestAnimator_PauseWhileAnimatingLetsBlinkFinish(t *testing.T) {
	a, surface, sched := newTestAnimator(t)
	a.Start()
	sched.Advance(DefaultInterval + 50*time.Millisecond)
	require.True(t, a.Animating())

	a.TogglePause()
	assert.True(t, a.Animating())

	sched.Advance(blinkLength)
	assert.False(t, a.Animating())
	assert.False(t, surface.Visible)
	assert.Len(t, surface.Redraws, 2*(DefaultSteps+1))
	assert.Equal(t, 0, sched.Pending())

	sched.Advance(10 * DefaultInterval)
	assert.Equal(t, 1, surface.Shows)
}

func TestAnimator_ResumeWhileAnimatingRearmsOnce(t *testing.T) {
	a, _, sched := newTestAnimator(t)
	a.Start()
	sched.Advance(DefaultInterval + 20*time.Millisecond)

	a.TogglePause()
	a.TogglePause()
	assert.False(t, a.Paused())

	sched.Advance(blinkLength)
	assert.False(t, a.Animating())
	assert.Equal(t, 1, sched.Pending())
}

func TestAnimator_StopWhileAnimatingDoesNotRearm(t *testing.T) {
	a, surface, sched := newTestAnimator(t)
	a.Start()
	sched.Advance(DefaultInterval + 5*time.Millisecond)

	a.Stop()
	assert.False(t, a.Running())

	sched.Advance(blinkLength)
	assert.False(t, a.Animating())
	assert.Equal(t, 0, sched.Pending())

	sched.Advance(5 * DefaultInterval)
	assert.Equal(t, 1, surface.Shows)

	a.Start()
	sched.Advance(DefaultInterval)
	assert.Equal(t, 2, surface.Shows)
}

func TestAnimator_DisposeMidBlinkCancelsContinuations(t *testing.T) {
	a, surface, sched := newTestAnimator(t)
	a.Start()
	sched.Advance(DefaultInterval + 20*time.Millisecond)
	require.True(t, a.Animating())

	a.Dispose()
	assert.True(t, a.Disposed())
	assert.False(t, a.Animating())
	assert.True(t, surface.Destroyed)
	assert.Equal(t, 0, sched.Pending())

	sched.Advance(10 * DefaultInterval)
	assert.Equal(t, 0, surface.CallsAfterDestroy)

	// Every operation is a no-op afterwards.
	a.Dispose()
	a.Start()
	a.TogglePause()
	a.BlinkNow()
	a.Stop()
	sched.Advance(DefaultInterval)
	assert.Equal(t, 0, surface.CallsAfterDestroy)
	assert.Equal(t, 0, sched.Pending())
}

func TestAnimator_SetTarget(t *testing.T) {
	a, surface, _ := newTestAnimator(t)
	b := monitor.Bounds{X: 1920, Y: 0, Width: 2560, Height: 1440}

	a.SetTarget(b)
	assert.Equal(t, b, a.Target())
	assert.Equal(t, b, surface.Bounds)

	// Malformed bounds are passed through untouched.
	bad := monitor.Bounds{Width: -1, Height: 0}
	a.SetTarget(bad)
	assert.Equal(t, bad, surface.Bounds)
}

func TestAnimator_BlinkNowAndHook(t *testing.T) {
	a, surface, sched := newTestAnimator(t)
	var hooked []*Animator
	a.OnBlink(func(x *Animator) { hooked = append(hooked, x) })

	a.BlinkNow()
	assert.True(t, a.Animating())
	require.Len(t, hooked, 1)
	assert.Same(t, a, hooked[0])

	sched.Advance(blinkLength)
	assert.False(t, a.Animating())
	assert.Equal(t, 1, surface.Shows)
	// Never started, so nothing is re-armed.
	assert.Equal(t, 0, sched.Pending())
}

func TestAnimator_UniqueIDs(t *testing.T) {
	a, _, _ := newTestAnimator(t)
	b, _, _ := newTestAnimator(t)
	assert.NotEqual(t, a.ID(), b.ID())
}
