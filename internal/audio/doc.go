// Package audio plays the optional blink chime. It uses the beep library
// to decode WAV, OGG and MP3 files, or synthesizes a short tone when no
// file is configured.
package audio
