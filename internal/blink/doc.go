// Package blink implements the per-display blink overlay: the frame
// sequence of one blink, the bar geometry drawn for a given progress, and
// the Animator state machine that drives a Surface on a periodic timer.
package blink
