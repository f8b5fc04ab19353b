package monitor

import (
	"fmt"
	"slices"
)

// Bounds is the work-area rectangle of one display.
type Bounds struct {
	X      int `json:"x" toml:"x" yaml:"x"`
	Y      int `json:"y" toml:"y" yaml:"y"`
	Width  int `json:"width" toml:"width" yaml:"width"`
	Height int `json:"height" toml:"height" yaml:"height"`
}

// String formats the bounds as WxH+X+Y.
func (b Bounds) String() string {
	return fmt.Sprintf("%dx%d%+d%+d", b.Width, b.Height, b.X, b.Y)
}

// Empty reports whether the bounds cover no area.
func (b Bounds) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Display is one attached display.
type Display struct {
	// Connector is the host's name for the output (e.g. "DP-1"). Informational only.
	Connector string
	Bounds    Bounds
}

// Topology is the ordered list of attached displays in host enumeration order.
type Topology []Display

// Clone returns an independent copy of the topology.
func (t Topology) Clone() Topology {
	return slices.Clone(t)
}

// Bounds returns the bounds of every display in order.
func (t Topology) Bounds() []Bounds {
	out := make([]Bounds, len(t))
	for i, d := range t {
		out[i] = d.Bounds
	}
	return out
}

// Changed reports whether next differs from prev. Displays are compared
// positionally: a different count, or any index whose bounds differ.
func Changed(prev, next Topology) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if prev[i].Bounds != next[i].Bounds {
			return true
		}
	}
	return false
}

// Source enumerates the host's currently attached displays.
type Source interface {
	Displays() Topology
}

// SourceFunc adapts a function to a Source.
type SourceFunc func() Topology

// Displays calls f.
func (f SourceFunc) Displays() Topology {
	return f()
}
