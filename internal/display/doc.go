// Package display binds blink overlays to GTK4. It provides a GLib main
// loop scheduler, a monitor source over the default GDK display, and
// layer-shell overlay windows that draw the blink bars.
package display
