// Package blinktest provides an in-memory overlay surface for tests.
package blinktest

import "github.com/jmylchreest/blinkr/internal/monitor"

// Surface records every call made to it.
type Surface struct {
	Bounds    monitor.Bounds
	Visible   bool
	Destroyed bool

	Shows   int
	Hides   int
	Redraws []float64

	// CallsAfterDestroy counts any call received after Destroy.
	CallsAfterDestroy int
}

// NewSurface creates an empty recording surface.
func NewSurface() *Surface {
	return &Surface{}
}

func (s *Surface) SetBounds(bounds monitor.Bounds) {
	s.touch()
	s.Bounds = bounds
}

func (s *Surface) Show() {
	s.touch()
	s.Shows++
	s.Visible = true
}

func (s *Surface) Hide() {
	s.touch()
	s.Hides++
	s.Visible = false
}

func (s *Surface) Redraw(progress float64) {
	s.touch()
	s.Redraws = append(s.Redraws, progress)
}

func (s *Surface) Destroy() {
	s.touch()
	s.Destroyed = true
	s.Visible = false
}

// LastProgress returns the most recent redraw progress, or 0.
func (s *Surface) LastProgress() float64 {
	if len(s.Redraws) == 0 {
		return 0
	}
	return s.Redraws[len(s.Redraws)-1]
}

func (s *Surface) touch() {
	if s.Destroyed {
		s.CallsAfterDestroy++
	}
}
