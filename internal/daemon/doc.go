// Package daemon provides the main orchestration for blinkr.
// It keeps one blink overlay per attached display, rebuilds the set when
// the display topology changes, and fans out pause, resume and shutdown.
package daemon
