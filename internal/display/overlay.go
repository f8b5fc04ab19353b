package display

import (
	"log/slog"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/blinkr/internal/blink"
	"github.com/jmylchreest/blinkr/internal/monitor"
)

const (
	overlayNamespace = "blinkr-overlay"
	overlayCSSClass  = "blinkr-overlay"
)

// Overlay is a transparent, click-through window covering one monitor.
// It draws two black bars whose height follows the blink progress.
type Overlay struct {
	window     *gtk.Window
	area       *gtk.DrawingArea
	monitor    *gdk.Monitor
	bounds     monitor.Bounds
	progress   float64
	layerShell bool
	destroyed  bool
	logger     *slog.Logger

	onDestroy func(*Overlay)
}

// NewOverlay creates a hidden overlay window for mon.
// A nil monitor leaves placement to the compositor.
func NewOverlay(app *gtk.Application, mon *gdk.Monitor, logger *slog.Logger) *Overlay {
	if logger == nil {
		logger = slog.Default()
	}

	o := &Overlay{
		monitor:    mon,
		layerShell: layershell.IsSupported(),
		logger:     logger,
	}

	o.window = gtk.NewWindow()
	o.window.SetApplication(app)
	o.window.SetDecorated(false)
	o.window.SetResizable(false)
	o.window.SetCanTarget(false)
	o.window.SetFocusable(false)
	o.window.AddCSSClass(overlayCSSClass)

	o.area = gtk.NewDrawingArea()
	o.area.SetHExpand(true)
	o.area.SetVExpand(true)
	o.area.SetCanTarget(false)
	o.area.SetDrawFunc(o.draw)
	o.window.SetChild(o.area)

	if o.layerShell {
		layershell.InitForWindow(o.window)
		layershell.SetLayer(o.window, layershell.LayerShellLayerOverlay)
		layershell.SetExclusiveZone(o.window, -1) // Cover panels too
		layershell.SetKeyboardMode(o.window, layershell.LayerShellKeyboardModeNone)
		layershell.SetNamespace(o.window, overlayNamespace)
		for _, edge := range []layershell.LayerShellEdge{
			layershell.LayerShellEdgeTop,
			layershell.LayerShellEdgeBottom,
			layershell.LayerShellEdgeLeft,
			layershell.LayerShellEdgeRight,
		} {
			layershell.SetAnchor(o.window, edge, true)
		}
		if mon != nil {
			layershell.SetMonitor(o.window, mon)
		}
	} else {
		logger.Warn("layer-shell not supported, falling back to fullscreen overlay")
	}

	// Pointer input passes through to whatever is underneath.
	o.window.ConnectRealize(func() {
		surface := gdk.BaseSurface(o.window.Surface())
		if surface != nil {
			surface.SetInputRegion(cairo.RegionCreate())
		}
	})

	return o
}

var _ blink.Surface = (*Overlay)(nil)

// SetBounds records the monitor geometry the overlay must cover.
func (o *Overlay) SetBounds(bounds monitor.Bounds) {
	if o.destroyed {
		return
	}
	o.bounds = bounds
	o.window.SetDefaultSize(bounds.Width, bounds.Height)
}

// Show presents the overlay above all other windows.
func (o *Overlay) Show() {
	if o.destroyed {
		return
	}
	if !o.layerShell && o.monitor != nil {
		o.window.FullscreenOnMonitor(o.monitor)
	}
	o.window.Present()
}

// Hide unmaps the overlay.
func (o *Overlay) Hide() {
	if o.destroyed {
		return
	}
	o.window.SetVisible(false)
}

// Redraw schedules a repaint at the given eased progress.
func (o *Overlay) Redraw(progress float64) {
	if o.destroyed {
		return
	}
	o.progress = progress
	o.area.QueueDraw()
}

// Destroy closes the window. The overlay is unusable afterwards.
func (o *Overlay) Destroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true
	o.window.Destroy()
	if o.onDestroy != nil {
		o.onDestroy(o)
	}
}

// Bounds returns the last bounds set on the overlay.
func (o *Overlay) Bounds() monitor.Bounds {
	return o.bounds
}

func (o *Overlay) draw(_ *gtk.DrawingArea, cr *cairo.Context, width, height int) {
	top, bottom := blink.BarRects(width, height, o.progress)

	cr.SetSourceRGBA(0, 0, 0, 1)
	if !top.Empty() {
		cr.Rectangle(float64(top.Min.X), float64(top.Min.Y), float64(top.Dx()), float64(top.Dy()))
	}
	if !bottom.Empty() {
		cr.Rectangle(float64(bottom.Min.X), float64(bottom.Min.Y), float64(bottom.Dx()), float64(bottom.Dy()))
	}
	cr.Fill()
}
