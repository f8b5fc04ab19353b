package blink

import (
	"image"
	"math"
)

// BarHeights returns the heights of the top and bottom bars for a surface
// of the given height at progress p. Both are floor(height*p/2), except
// that a fully closed blink gives the bottom bar the odd pixel so the
// surface is covered completely.
func BarHeights(height int, p float64) (top, bottom int) {
	if height <= 0 {
		return 0, 0
	}
	p = math.Max(0, math.Min(1, p))

	top = int(math.Floor(float64(height) * p / 2))
	bottom = top
	if p >= 1 {
		bottom = height - top
	}
	return top, bottom
}

// BarRects returns the top and bottom bar rectangles for a width x height
// surface at progress p. Empty rectangles mean nothing is drawn.
func BarRects(width, height int, p float64) (top, bottom image.Rectangle) {
	if width <= 0 {
		return image.Rectangle{}, image.Rectangle{}
	}
	th, bh := BarHeights(height, p)
	top = image.Rect(0, 0, width, th)
	bottom = image.Rect(0, height-bh, width, height)
	return top, bottom
}
