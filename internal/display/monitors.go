package display

import (
	"log/slog"
	"unsafe"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"

	"github.com/jmylchreest/blinkr/internal/monitor"
)

// MonitorSource reads the current monitor layout from the default GDK display.
type MonitorSource struct {
	logger *slog.Logger
}

// NewMonitorSource creates a monitor source.
func NewMonitorSource(logger *slog.Logger) *MonitorSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &MonitorSource{logger: logger}
}

var _ monitor.Source = (*MonitorSource)(nil)

// Displays returns one entry per GDK monitor, in GDK's list order.
// An unavailable display yields an empty topology.
func (s *MonitorSource) Displays() monitor.Topology {
	monitors := s.monitors()
	topology := make(monitor.Topology, 0, len(monitors))
	for _, mon := range monitors {
		topology = append(topology, describeMonitor(mon))
	}
	return topology
}

// MonitorAt returns the GDK monitor at index, or nil if there is none.
func (s *MonitorSource) MonitorAt(index int) *gdk.Monitor {
	monitors := s.monitors()
	if index < 0 || index >= len(monitors) {
		return nil
	}
	return monitors[index]
}

func (s *MonitorSource) monitors() []*gdk.Monitor {
	display := gdk.DisplayGetDefault()
	if display == nil {
		s.logger.Warn("no display available")
		return nil
	}

	list := display.Monitors()
	if list == nil {
		s.logger.Warn("no monitors list available")
		return nil
	}

	n := list.NItems()
	monitors := make([]*gdk.Monitor, 0, n)
	for i := range n {
		obj := list.Item(i)
		if obj == nil {
			continue
		}
		monitors = append(monitors, wrapMonitor(obj))
	}
	return monitors
}

func describeMonitor(mon *gdk.Monitor) monitor.Display {
	geometry := mon.Geometry()
	return monitor.Display{
		Connector: mon.Connector(),
		Bounds: monitor.Bounds{
			X:      geometry.X(),
			Y:      geometry.Y(),
			Width:  geometry.Width(),
			Height: geometry.Height(),
		},
	}
}

// wrapMonitor wraps a coreglib.Object as a gdk.Monitor.
// This is necessary because gotk4 doesn't expose the wrapMonitor function.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	// gdk.Monitor embeds a *coreglib.Object, so a struct with the same
	// layout can be reinterpreted as one.
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}
