package config

import (
	"strconv"

	"github.com/spf13/pflag"
)

// BindFlags registers flags on fs that write into s. Call it with the
// defaults already populated so flag help shows them.
func BindFlags(fs *pflag.FlagSet, s *Settings) {
	fs.Var(&s.Blink.Interval, "interval", "Time between blinks (e.g. 20s, 1m)")
	fs.Var(&s.Blink.Duration, "duration", "Closing plus opening time of one blink")
	fs.IntVar(&s.Blink.Steps, "steps", s.Blink.Steps, "Animation steps per phase")
	fs.Var(&s.Blink.Hold, "hold", "Time the eyes stay fully closed")
	fs.StringVar(&s.Blink.Easing, "easing", s.Blink.Easing, "Easing curve: quad, cubic or linear")
	fs.BoolVar(&s.Blink.StartPaused, "paused", s.Blink.StartPaused, "Start with blinking paused")

	fs.Var(&s.Display.PollInterval, "poll-interval", "How often to check for display changes")

	fs.Var(&negatedBool{&s.Tray.Enabled}, "no-tray", "Do not show a status notifier tray icon")
	fs.Lookup("no-tray").NoOptDefVal = "true"
	fs.StringVar(&s.Tray.Title, "tray-title", s.Tray.Title, "Tray icon title")

	fs.BoolVar(&s.Audio.Enabled, "chime", s.Audio.Enabled, "Play a sound when a blink starts")
	fs.StringVar(&s.Audio.File, "chime-file", s.Audio.File, "Sound file for the chime (wav, ogg, mp3; default is a tone)")
	fs.IntVar(&s.Audio.Volume, "volume", s.Audio.Volume, "Chime volume (0-100)")
}

// negatedBool is a boolean flag that stores the inverse of its value.
type negatedBool struct {
	target *bool
}

func (b *negatedBool) String() string {
	if b.target == nil {
		return "false"
	}
	return strconv.FormatBool(!*b.target)
}

func (b *negatedBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b.target = !v
	return nil
}

func (b *negatedBool) Type() string {
	return "bool"
}
