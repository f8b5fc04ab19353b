// Package main is the entry point for blinkr, a screen overlay that
// reminds you to blink.
package main

func main() {
	Execute()
}
