package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/blinkr/internal/blink"
	"github.com/jmylchreest/blinkr/internal/loop"
	"github.com/jmylchreest/blinkr/internal/monitor"
)

// statusInterval is how often the animator state is pushed to the model.
const statusInterval = 250 * time.Millisecond

// session wires one animator to a running bubbletea program.
// Every field except sched, post and send is owned by the executor.
type session struct {
	sched loop.Scheduler
	// post is used from the bubbletea goroutine. It must not block while
	// the executor is itself blocked in send.
	post     func(func()) bool
	send     func(tea.Msg)
	animator *blink.Animator
	blinks   int
}

// TogglePause implements Controls.
func (s *session) TogglePause() {
	s.post(func() {
		s.animator.TogglePause()
		s.pushStatus()
	})
}

// BlinkNow implements Controls.
func (s *session) BlinkNow() {
	s.post(func() { s.animator.BlinkNow() })
}

func (s *session) start(opts blink.Options, logger *slog.Logger) {
	surface := newTermSurface(s.send)
	s.animator = blink.NewAnimator(surface, s.sched, opts, logger)
	s.animator.SetTarget(monitor.Bounds{Width: 80, Height: 24})
	s.animator.OnBlink(func(*blink.Animator) {
		s.blinks++
	})
	s.animator.Start()
	s.sched.Every(statusInterval, s.pushStatus)
	s.pushStatus()
}

func (s *session) pushStatus() {
	if s.animator.Disposed() {
		return
	}
	s.send(statusMsg{
		paused:    s.animator.Paused(),
		nextBlink: s.animator.NextBlink(),
		blinks:    s.blinks,
	})
}

// Run plays the blink animation in the terminal until the user quits or
// ctx is cancelled. The animator runs on its own executor goroutine.
func Run(ctx context.Context, opts blink.Options, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	sched := loop.NewRealtime()
	s := &session{sched: sched, post: sched.TryPost}

	program := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	s.send = program.Send

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := sched.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		defer sched.Close()
		defer func() {
			done := make(chan struct{})
			sched.Post(func() {
				s.animator.Dispose()
				close(done)
			})
			select {
			case <-done:
			case <-time.After(time.Second):
				logger.Warn("animator did not stop in time")
			}
		}()

		sched.Post(func() { s.start(opts, logger) })
		logger.Info("preview started", "interval", opts.Interval, "steps", opts.Steps)

		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("failed to run preview: %w", err)
		}
		logger.Info("preview stopped")
		return nil
	})

	return g.Wait()
}
