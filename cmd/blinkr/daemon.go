package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/blinkr/internal/audio"
	"github.com/jmylchreest/blinkr/internal/blink"
	"github.com/jmylchreest/blinkr/internal/daemon"
	"github.com/jmylchreest/blinkr/internal/display"
	"github.com/jmylchreest/blinkr/internal/tray"
)

const appID = "io.github.jmylchreest.blinkr"

// runDaemon runs the overlay daemon on the GTK main loop until Exit is
// picked from the tray or a termination signal arrives.
func runDaemon(cmd *cobra.Command, args []string) error {
	logger.Info("starting blinkr", "version", version)

	// Create the libadwaita application
	app := adw.NewApplication(appID, 0)
	scheduler := display.NewScheduler()

	// Shared state, only touched on the GTK main loop
	var (
		coordinator *daemon.Coordinator
		overlays    *display.Manager
		trayIcon    *tray.Tray
		chime       *audio.Chime
		running     atomic.Bool
		startErr    error
	)

	stop := func() {
		if !running.CompareAndSwap(true, false) {
			return
		}
		if coordinator != nil {
			coordinator.Shutdown()
		}
		if trayIcon != nil {
			if err := trayIcon.Stop(); err != nil {
				logger.Warn("error stopping tray", "error", err)
			}
		}
		if chime != nil {
			chime.Stop()
		}
		if overlays != nil {
			overlays.Stop()
		}
	}

	quit := func() {
		stop()
		app.Quit()
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	defer close(done)

	// Stop components in GTK main loop context
	go forwardSignal(sigCh, done, logger, func() { scheduler.Post(quit) })

	// Handle application activation
	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		source := display.NewMonitorSource(logger)

		overlays = display.NewManager(&app.Application, source, logger)
		if err := overlays.Start(); err != nil {
			logger.Error("failed to start overlay manager", "error", err)
			startErr = err
			quit()
			return
		}

		chime = audio.NewChime(settings.Audio, logger)
		if err := chime.Start(); err != nil {
			logger.Warn("failed to start chime, continuing without sound", "error", err)
		}

		coordinator = daemon.NewCoordinator(source, overlays, scheduler, daemon.Options{
			Blink:        settings.BlinkOptions(),
			PollInterval: settings.Display.PollInterval.Duration(),
			StartPaused:  settings.Blink.StartPaused,
		}, logger)
		coordinator.SetBlinkCallback(func(a *blink.Animator) {
			chime.Play()
		})

		if settings.Tray.Enabled {
			trayIcon = tray.New(tray.Options{
				Title: settings.Tray.Title,
				// D-Bus handlers run off the main loop
				OnTogglePause: func() { scheduler.Post(coordinator.ToggleGlobalPause) },
				OnQuit:        func() { scheduler.Post(quit) },
			}, logger)
			if err := trayIcon.Start(); err != nil {
				logger.Warn("failed to start tray, continuing without it", "error", err)
				trayIcon = nil
			} else {
				coordinator.SetPauseLabelCallback(trayIcon.SetPauseLabel)
			}
		}

		coordinator.Initialize()

		logger.Info("blinkr ready",
			"displays", len(coordinator.Topology()),
			"interval", settings.Blink.Interval,
			"tray", trayIcon != nil,
			"chime", chime.Ready(),
		)

		// Create a hidden window to keep the application running
		// (GTK apps quit when all windows are closed)
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	// Handle shutdown
	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		stop()
	})

	// GApplication must not see blinkr's own flags.
	status := app.Run(os.Args[:1])

	if startErr != nil {
		return startErr
	}
	if status != 0 {
		return fmt.Errorf("application exited with status %d", status)
	}
	logger.Info("blinkr stopped")
	return nil
}

// forwardSignal calls onSignal for the first signal on sigCh. It returns
// without calling it once done is closed.
func forwardSignal(sigCh <-chan os.Signal, done <-chan struct{}, logger *slog.Logger, onSignal func()) {
	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig)
		onSignal()
	case <-done:
	}
}
