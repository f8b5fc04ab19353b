// Package config holds blinkr's runtime settings: defaults, command-line
// flag binding, validation, and rendering of the effective settings.
// Settings are never read from or written to disk.
package config
