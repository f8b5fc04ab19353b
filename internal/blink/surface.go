package blink

import "github.com/jmylchreest/blinkr/internal/monitor"

// Surface is a borderless, always-on-top, click-through overlay covering
// one display. It renders nothing but the two blink bars.
type Surface interface {
	// SetBounds positions and sizes the surface to cover bounds.
	SetBounds(bounds monitor.Bounds)
	// Show makes the surface visible.
	Show()
	// Hide makes the surface invisible.
	Hide()
	// Redraw renders the bars at the given eased progress.
	Redraw(progress float64)
	// Destroy releases the surface. No other method is called afterwards.
	Destroy()
}

// SurfaceFactory creates the surface for the display at index in the
// current topology.
type SurfaceFactory interface {
	NewSurface(index int, display monitor.Display) Surface
}

// SurfaceFactoryFunc adapts a function to a SurfaceFactory.
type SurfaceFactoryFunc func(index int, display monitor.Display) Surface

// NewSurface calls f.
func (f SurfaceFactoryFunc) NewSurface(index int, display monitor.Display) Surface {
	return f(index, display)
}
