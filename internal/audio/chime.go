package audio

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/jmylchreest/blinkr/internal/config"
)

const (
	toneFrequency = 880.0
	toneDuration  = 120 * time.Millisecond
)

// Chime plays a short sound when a blink starts.
// Every failure is logged and otherwise ignored.
type Chime struct {
	cfg    config.AudioConfig
	logger *slog.Logger
	player *Player
	sound  *beep.Buffer
	ready  bool
}

// NewChime creates a chime from the audio settings.
func NewChime(cfg config.AudioConfig, logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}
	player := NewPlayer(logger)
	player.SetVolume(float64(cfg.Volume) / 100.0)

	return &Chime{
		cfg:    cfg,
		logger: logger,
		player: player,
	}
}

// Start loads the sound and opens the speaker. A disabled chime does nothing.
func (c *Chime) Start() error {
	if !c.cfg.Enabled {
		return nil
	}

	sound, err := c.load()
	if err != nil {
		return err
	}
	if err := c.player.Init(sound.Format().SampleRate); err != nil {
		return err
	}

	c.sound = sound
	c.ready = true
	c.logger.Info("chime ready",
		"source", c.source(),
		"length", sound.Format().SampleRate.D(sound.Len()),
		"volume", c.cfg.Volume,
	)
	return nil
}

// Play starts the chime without blocking.
func (c *Chime) Play() {
	if !c.ready {
		return
	}
	if err := c.player.Play(c.sound); err != nil {
		c.logger.Debug("failed to play chime", "error", err)
	}
}

// Stop releases the speaker.
func (c *Chime) Stop() {
	if !c.ready {
		return
	}
	c.ready = false
	c.player.Close()
	c.logger.Debug("chime stopped")
}

// Ready reports whether Play will make a sound.
func (c *Chime) Ready() bool {
	return c.ready
}

func (c *Chime) load() (*beep.Buffer, error) {
	if c.cfg.File != "" {
		sound, err := LoadFile(c.cfg.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load chime %s: %w", c.cfg.File, err)
		}
		return sound, nil
	}
	return Tone(DefaultSampleRate, toneFrequency, toneDuration)
}

func (c *Chime) source() string {
	if c.cfg.File != "" {
		return c.cfg.File
	}
	return "tone"
}
