package display

import (
	"log/slog"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/blinkr/internal/blink"
	"github.com/jmylchreest/blinkr/internal/monitor"
)

// overlayCSS keeps overlay windows fully transparent outside the bars.
const overlayCSS = `
window.` + overlayCSSClass + `,
window.` + overlayCSSClass + ` > * {
  background: transparent;
  box-shadow: none;
  border: none;
}
`

// Manager creates overlay windows for the blink coordinator and tracks
// the live ones so they can be closed together.
type Manager struct {
	app      *gtk.Application
	source   *MonitorSource
	logger   *slog.Logger
	display  *gdk.Display
	provider *gtk.CSSProvider

	overlays map[*Overlay]struct{}
}

// NewManager creates a new overlay manager.
func NewManager(app *gtk.Application, source *MonitorSource, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if source == nil {
		source = NewMonitorSource(logger)
	}
	return &Manager{
		app:      app,
		source:   source,
		logger:   logger,
		overlays: make(map[*Overlay]struct{}),
	}
}

var _ blink.SurfaceFactory = (*Manager)(nil)

// Start installs the overlay stylesheet on the default display.
func (m *Manager) Start() error {
	m.display = gdk.DisplayGetDefault()
	if m.display == nil {
		return &DisplayError{Message: "no display available"}
	}

	m.provider = gtk.NewCSSProvider()
	m.provider.LoadFromString(overlayCSS)
	gtk.StyleContextAddProviderForDisplay(
		m.display,
		m.provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)

	m.logger.Info("overlay manager started")
	return nil
}

// Stop destroys every live overlay.
func (m *Manager) Stop() {
	for o := range m.overlays {
		o.Destroy()
	}
	if m.display != nil && m.provider != nil {
		gtk.StyleContextRemoveProviderForDisplay(m.display, m.provider)
	}
	m.logger.Info("overlay manager stopped")
}

// NewSurface creates an overlay for the display at index. The GDK monitor
// is looked up by the same index the topology was read with.
func (m *Manager) NewSurface(index int, display monitor.Display) blink.Surface {
	mon := m.source.MonitorAt(index)
	if mon == nil {
		m.logger.Warn("monitor not found for overlay",
			"index", index,
			"connector", display.Connector,
		)
	}

	o := NewOverlay(m.app, mon, m.logger.With("connector", display.Connector))
	o.onDestroy = m.forget
	m.overlays[o] = struct{}{}

	m.logger.Debug("overlay created",
		"index", index,
		"connector", display.Connector,
		"bounds", display.Bounds.String(),
	)
	return o
}

// ActiveCount returns the number of live overlays.
func (m *Manager) ActiveCount() int {
	return len(m.overlays)
}

func (m *Manager) forget(o *Overlay) {
	delete(m.overlays, o)
}

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
