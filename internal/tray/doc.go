// Package tray exposes blinkr's controls as a StatusNotifierItem with a
// com.canonical.dbusmenu menu on the session bus.
//
// The menu has two entries: a pause/resume toggle whose label the daemon
// keeps current, and Exit. Activating the icon also toggles pause.
package tray
