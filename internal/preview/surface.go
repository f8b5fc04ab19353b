package preview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/blinkr/internal/blink"
	"github.com/jmylchreest/blinkr/internal/monitor"
)

// frameMsg carries the surface state to the model.
type frameMsg struct {
	visible  bool
	progress float64
}

// termSurface is a blink.Surface that forwards its state to the
// bubbletea program. It runs on the animator's executor; send must be
// safe to call from there.
type termSurface struct {
	send     func(tea.Msg)
	bounds   monitor.Bounds
	visible  bool
	progress float64
}

func newTermSurface(send func(tea.Msg)) *termSurface {
	return &termSurface{send: send}
}

var _ blink.Surface = (*termSurface)(nil)

func (s *termSurface) SetBounds(bounds monitor.Bounds) {
	s.bounds = bounds
}

func (s *termSurface) Show() {
	s.visible = true
	s.publish()
}

func (s *termSurface) Hide() {
	s.visible = false
	s.progress = 0
	s.publish()
}

func (s *termSurface) Redraw(progress float64) {
	s.progress = progress
	s.publish()
}

func (s *termSurface) Destroy() {
	s.send = nil
}

func (s *termSurface) publish() {
	if s.send == nil {
		return
	}
	s.send(frameMsg{visible: s.visible, progress: s.progress})
}
