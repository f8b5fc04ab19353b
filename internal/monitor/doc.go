// Package monitor models the attached displays and watches the host's
// display list for connect, disconnect and geometry changes.
package monitor
