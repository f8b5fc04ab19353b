package loop

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the timer. Stopping an already stopped or fired timer is a no-op.
	Stop()
}

// Scheduler runs callbacks on a single executor.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time
	// After runs fn once after d.
	After(d time.Duration, fn func()) Timer
	// Every runs fn repeatedly with period d until stopped.
	Every(d time.Duration, fn func()) Timer
	// Post runs fn on the executor as soon as possible.
	// It is the only Scheduler method safe to call from other goroutines.
	Post(fn func())
}

// minPeriod bounds recurring timers so a zero period cannot spin the executor.
const minPeriod = time.Millisecond

func normalizePeriod(d time.Duration) time.Duration {
	if d < minPeriod {
		return minPeriod
	}
	return d
}
