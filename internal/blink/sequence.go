package blink

import (
	"time"

	"github.com/jmylchreest/blinkr/internal/easing"
)

// Default blink parameters.
const (
	DefaultInterval = 20 * time.Second
	DefaultDuration = 100 * time.Millisecond
	DefaultSteps    = 13
	DefaultHold     = 100 * time.Millisecond
)

// Phase is a stage of one blink.
type Phase int

const (
	// PhaseClosing sweeps the bars in from the edges.
	PhaseClosing Phase = iota
	// PhaseHold keeps the eyes fully closed.
	PhaseHold
	// PhaseOpening mirrors PhaseClosing in reverse.
	PhaseOpening
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseClosing:
		return "closing"
	case PhaseHold:
		return "hold"
	case PhaseOpening:
		return "opening"
	default:
		return "unknown"
	}
}

// Frame is one step of a blink: draw at Progress, then wait Delay.
type Frame struct {
	Phase    Phase
	Index    int
	Linear   float64
	Progress float64
	Delay    time.Duration
}

// Options configures an Animator.
type Options struct {
	Interval time.Duration // Time between blinks
	Duration time.Duration // Closing plus opening time, split across steps
	Steps    int           // Steps per phase
	Hold     time.Duration // Time held fully closed
	Easing   easing.Func
}

// DefaultOptions returns the stock blink parameters.
func DefaultOptions() Options {
	return Options{
		Interval: DefaultInterval,
		Duration: DefaultDuration,
		Steps:    DefaultSteps,
		Hold:     DefaultHold,
		Easing:   easing.EaseOutQuad,
	}
}

// StepDelay is the wait after each step: duration / (steps*2), truncated
// to whole milliseconds.
func StepDelay(duration time.Duration, steps int) time.Duration {
	if steps < 1 {
		steps = 1
	}
	return (duration / time.Duration(steps*2)).Truncate(time.Millisecond)
}

// Sequence builds the frames of one blink: steps+1 closing frames, one
// hold frame, and steps+1 opening frames.
func Sequence(opts Options) []Frame {
	steps := opts.Steps
	if steps < 1 {
		steps = 1
	}
	ease := opts.Easing
	if ease == nil {
		ease = easing.EaseOutQuad
	}
	delay := StepDelay(opts.Duration, steps)

	frames := make([]Frame, 0, 2*(steps+1)+1)
	for i := 0; i <= steps; i++ {
		linear := float64(i) / float64(steps)
		frames = append(frames, Frame{
			Phase:    PhaseClosing,
			Index:    i,
			Linear:   linear,
			Progress: ease(linear),
			Delay:    delay,
		})
	}

	frames = append(frames, Frame{
		Phase:    PhaseHold,
		Index:    steps,
		Linear:   1,
		Progress: ease(1),
		Delay:    opts.Hold,
	})

	for i := steps; i >= 0; i-- {
		linear := float64(i) / float64(steps)
		frames = append(frames, Frame{
			Phase:    PhaseOpening,
			Index:    i,
			Linear:   linear,
			Progress: ease(linear),
			Delay:    delay,
		})
	}
	return frames
}

// TotalDuration sums the delays of frames.
func TotalDuration(frames []Frame) time.Duration {
	var total time.Duration
	for _, f := range frames {
		total += f.Delay
	}
	return total
}
