package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blinkr/internal/config"
)

func TestTone_Length(t *testing.T) {
	sr := beep.SampleRate(8000)
	buf, err := Tone(sr, 440, 100*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, 800, buf.Len())
	assert.Equal(t, sr, buf.Format().SampleRate)
	assert.Equal(t, 2, buf.Format().NumChannels)
}

func TestTone_FadesInAndOut(t *testing.T) {
	sr := beep.SampleRate(8000)
	buf, err := Tone(sr, 440, 100*time.Millisecond)
	require.NoError(t, err)

	samples := make([][2]float64, buf.Len())
	n, _ := buf.Streamer(0, buf.Len()).Stream(samples)
	require.Equal(t, buf.Len(), n)

	// 16-bit quantization leaves tiny residue; the ends are silent.
	assert.InDelta(t, 0, samples[0][0], 1e-3)
	assert.InDelta(t, 0, samples[n-1][0], 1e-3)

	peak := 0.0
	for _, s := range samples[n/4 : 3*n/4] {
		peak = max(peak, s[0])
	}
	assert.Greater(t, peak, 0.9)
}

func TestEnvelopeGain(t *testing.T) {
	e := &envelope{total: 100, fade: 10}

	assert.Equal(t, 0.0, e.gain(0))
	assert.InDelta(t, 0.5, e.gain(5), 1e-9)
	assert.Equal(t, 1.0, e.gain(10))
	assert.Equal(t, 1.0, e.gain(50))
	assert.InDelta(t, 0.9, e.gain(90), 1e-9)
	assert.Equal(t, 0.0, e.gain(99))

	flat := &envelope{total: 100}
	assert.Equal(t, 1.0, flat.gain(0))
}

func TestLoadFile_WAV(t *testing.T) {
	sr := beep.SampleRate(8000)
	tone, err := Tone(sr, 440, 50*time.Millisecond)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "chime.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wav.Encode(f, tone.Streamer(0, tone.Len()), tone.Format()))
	require.NoError(t, f.Close())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tone.Len(), loaded.Len())
	assert.Equal(t, sr, loaded.Format().SampleRate)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.wav"))
	assert.Error(t, err)

	txt := filepath.Join(dir, "chime.txt")
	require.NoError(t, os.WriteFile(txt, []byte("ding"), 0o644))
	_, err = LoadFile(txt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported audio format")

	bad := filepath.Join(dir, "broken.wav")
	require.NoError(t, os.WriteFile(bad, []byte("not a wav"), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}

func TestPlayer_Volume(t *testing.T) {
	p := NewPlayer(nil)
	assert.Equal(t, 1.0, p.Volume())

	p.SetVolume(0.25)
	assert.Equal(t, 0.25, p.Volume())
	p.SetVolume(-1)
	assert.Equal(t, 0.0, p.Volume())
	p.SetVolume(3)
	assert.Equal(t, 1.0, p.Volume())
}

func TestPlayer_PlayBeforeInit(t *testing.T) {
	p := NewPlayer(nil)
	assert.NoError(t, p.Play(nil))

	buf, err := Tone(DefaultSampleRate, 440, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Error(t, p.Play(buf))
}

func TestVolumeExponent(t *testing.T) {
	assert.Equal(t, 0.0, volumeExponent(1))
	assert.Equal(t, -1.0, volumeExponent(0.5))
	assert.Equal(t, -2.0, volumeExponent(0.25))
	assert.Equal(t, -100.0, volumeExponent(0))
}

func TestChime_Disabled(t *testing.T) {
	c := NewChime(config.AudioConfig{Enabled: false, Volume: 50}, nil)
	require.NoError(t, c.Start())
	assert.False(t, c.Ready())

	assert.NotPanics(t, func() {
		c.Play()
		c.Stop()
	})
}

func TestChime_MissingFile(t *testing.T) {
	c := NewChime(config.AudioConfig{
		Enabled: true,
		File:    filepath.Join(t.TempDir(), "nope.ogg"),
		Volume:  80,
	}, nil)

	err := c.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load chime")
	assert.False(t, c.Ready())
	assert.Equal(t, 0.8, c.player.Volume())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "sounds/ding.wav"), expandPath("~/sounds/ding.wav"))
	assert.Equal(t, "/tmp/ding.wav", expandPath("/tmp/ding.wav"))
}
