package loop

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by an explicit virtual clock.
// Nothing runs until Advance or RunPosted is called, which makes timing
// behaviour fully deterministic in tests and simulations.
type Manual struct {
	now    time.Time
	seq    uint64
	timers []*manualTimer
	posted []func()
}

type manualTimer struct {
	m       *Manual
	due     time.Time
	period  time.Duration
	seq     uint64
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() {
	t.stopped = true
	t.m.compact()
}

// NewManual creates a manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	return m.now
}

// After schedules fn at Now()+d.
func (m *Manual) After(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	return m.add(d, 0, fn)
}

// Every schedules fn at every multiple of d from Now().
func (m *Manual) Every(d time.Duration, fn func()) Timer {
	d = normalizePeriod(d)
	return m.add(d, d, fn)
}

// Post queues fn to run before any timer on the next Advance or RunPosted.
func (m *Manual) Post(fn func()) {
	m.posted = append(m.posted, fn)
}

func (m *Manual) add(d, period time.Duration, fn func()) *manualTimer {
	m.seq++
	t := &manualTimer{
		m:      m,
		due:    m.now.Add(d),
		period: period,
		seq:    m.seq,
		fn:     fn,
	}
	m.timers = append(m.timers, t)
	return t
}

// Pending returns the number of armed timers.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// RunPosted runs queued Post callbacks, including ones they post in turn.
func (m *Manual) RunPosted() {
	for len(m.posted) > 0 {
		fn := m.posted[0]
		m.posted = m.posted[1:]
		fn()
	}
}

// Advance moves the clock forward by d, firing every timer that falls due
// in order of due time. Timers scheduled by callbacks fire too if they fall
// inside the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		m.RunPosted()

		t := m.next(target)
		if t == nil {
			break
		}
		m.now = t.due
		if t.period > 0 {
			t.due = t.due.Add(t.period)
		} else {
			t.stopped = true
			m.compact()
		}
		t.fn()
	}
	m.now = target
	m.RunPosted()
}

// next returns the earliest armed timer due at or before target.
func (m *Manual) next(target time.Time) *manualTimer {
	var candidates []*manualTimer
	for _, t := range m.timers {
		if !t.stopped && !t.due.After(target) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].due.Equal(candidates[j].due) {
			return candidates[i].seq < candidates[j].seq
		}
		return candidates[i].due.Before(candidates[j].due)
	})
	return candidates[0]
}

func (m *Manual) compact() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.timers); i++ {
		m.timers[i] = nil
	}
	m.timers = live
}
