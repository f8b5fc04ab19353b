package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/blinkr/internal/preview"
)

var previewOpts struct {
	logFile string
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Play the blink animation in the terminal",
	Long: `Play the blink animation in the terminal instead of on the displays.

The terminal rows stand in for a display, so the bar heights, easing and
timing match what the overlays would draw.

Key bindings:
  p           Pause or resume
  b           Blink now
  ?           Show help
  q           Quit`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewOpts.logFile, "log-file", "",
		"Write logs to this file (logs are discarded otherwise)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	// The terminal belongs to the preview, so logs go elsewhere.
	var out io.Writer = io.Discard
	if previewOpts.logFile != "" {
		f, err := os.OpenFile(previewOpts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	level := slog.LevelInfo
	if globalOpts.verbose {
		level = slog.LevelDebug
	}
	previewLogger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	return preview.Run(ctx, settings.BlinkOptions(), previewLogger)
}
