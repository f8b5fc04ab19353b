package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/blinkr/internal/blink"
	"github.com/jmylchreest/blinkr/internal/easing"
	"github.com/jmylchreest/blinkr/internal/monitor"
)

// Duration is a time.Duration that can be parsed from human-readable strings.
// Supports formats like "100ms", "20s", "1m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	return d.Set(string(text))
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// String returns the duration in Go syntax, e.g. "20s".
func (d Duration) String() string {
	return time.Duration(d).String()
}

// Set implements pflag.Value.
func (d *Duration) Set(s string) error {
	s = strings.TrimSpace(s)

	// Bare integers are milliseconds
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '100ms', '20s', '1m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// Type implements pflag.Value.
func (d *Duration) Type() string {
	return "duration"
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Settings is the complete blinkr configuration.
type Settings struct {
	Blink   BlinkConfig   `toml:"blink" yaml:"blink"`
	Display DisplayConfig `toml:"display" yaml:"display"`
	Tray    TrayConfig    `toml:"tray" yaml:"tray"`
	Audio   AudioConfig   `toml:"audio" yaml:"audio"`
}

// BlinkConfig contains blink animation settings.
type BlinkConfig struct {
	Interval    Duration `toml:"interval" yaml:"interval"` // Time between blinks
	Duration    Duration `toml:"duration" yaml:"duration"` // Closing plus opening time
	Steps       int      `toml:"steps" yaml:"steps"`       // Animation steps per phase
	Hold        Duration `toml:"hold" yaml:"hold"`         // Time held fully closed
	Easing      string   `toml:"easing" yaml:"easing"`     // "quad", "cubic" or "linear"
	StartPaused bool     `toml:"start_paused" yaml:"start_paused"`
}

// DisplayConfig contains display-watching settings.
type DisplayConfig struct {
	PollInterval Duration `toml:"poll_interval" yaml:"poll_interval"`
}

// TrayConfig contains status-notifier settings.
type TrayConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Title   string `toml:"title" yaml:"title"`
}

// AudioConfig contains the optional blink chime settings.
type AudioConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	File    string `toml:"file" yaml:"file"`     // WAV, OGG or MP3; empty plays a tone
	Volume  int    `toml:"volume" yaml:"volume"` // 0-100
}

// Default returns settings with default values.
func Default() *Settings {
	return &Settings{
		Blink: BlinkConfig{
			Interval: Duration(blink.DefaultInterval),
			Duration: Duration(blink.DefaultDuration),
			Steps:    blink.DefaultSteps,
			Hold:     Duration(blink.DefaultHold),
			Easing:   "quad",
		},
		Display: DisplayConfig{
			PollInterval: Duration(monitor.DefaultPollInterval),
		},
		Tray: TrayConfig{
			Enabled: true,
			Title:   "blinkr",
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  50,
		},
	}
}

// Validate checks if the settings are usable.
func (s *Settings) Validate() error {
	if s.Blink.Interval.Duration() <= 0 {
		return fmt.Errorf("interval must be positive, got %s", s.Blink.Interval)
	}
	if s.Blink.Duration.Duration() <= 0 {
		return fmt.Errorf("duration must be positive, got %s", s.Blink.Duration)
	}
	if s.Blink.Steps < 1 || s.Blink.Steps > 240 {
		return fmt.Errorf("steps must be between 1 and 240, got %d", s.Blink.Steps)
	}
	if s.Blink.Hold.Duration() < 0 {
		return fmt.Errorf("hold must not be negative, got %s", s.Blink.Hold)
	}
	if _, ok := easing.ByName(s.Blink.Easing); !ok {
		return fmt.Errorf("invalid easing %q, must be one of: %v", s.Blink.Easing, easing.Names())
	}
	if s.Display.PollInterval.Duration() < 100*time.Millisecond {
		return fmt.Errorf("poll interval must be at least 100ms, got %s", s.Display.PollInterval)
	}
	if s.Audio.Volume < 0 || s.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", s.Audio.Volume)
	}
	return nil
}

// BlinkOptions converts the blink settings to animator options.
func (s *Settings) BlinkOptions() blink.Options {
	ease, ok := easing.ByName(s.Blink.Easing)
	if !ok {
		ease = easing.EaseOutQuad
	}
	return blink.Options{
		Interval: s.Blink.Interval.Duration(),
		Duration: s.Blink.Duration.Duration(),
		Steps:    s.Blink.Steps,
		Hold:     s.Blink.Hold.Duration(),
		Easing:   ease,
	}
}
