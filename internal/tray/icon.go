package tray

import (
	"image"
	"image/color"

	"golang.org/x/image/vector"
)

// iconSizes are the pixmap sizes offered to the tray host.
var iconSizes = []int{16, 22, 32, 48}

var iconColor = color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847

// iconPixmaps renders the eye glyph at every size. A closed eye marks
// the paused state.
func iconPixmaps(closed bool) []pixmap {
	out := make([]pixmap, 0, len(iconSizes))
	for _, size := range iconSizes {
		img := renderEye(size, closed)
		out = append(out, pixmap{
			Width:  int32(size),
			Height: int32(size),
			Data:   argb32(img),
		})
	}
	return out
}

func renderEye(size int, closed bool) *image.NRGBA {
	s := float32(size)
	cx, cy := s/2, s/2
	left, right := s*0.08, s*0.92
	ctrl := s * 0.42
	stroke := max(s*0.09, 1.25)

	z := vector.NewRasterizer(size, size)

	if closed {
		// Lower lid: a crescent between two curves sharing endpoints.
		z.MoveTo(left, cy)
		z.QuadTo(cx, cy+ctrl, right, cy)
		z.QuadTo(cx, cy+ctrl+2*stroke, left, cy)
		z.ClosePath()
	} else {
		// Outline: outer almond minus an inner one wound the other way.
		z.MoveTo(left, cy)
		z.QuadTo(cx, cy-ctrl, right, cy)
		z.QuadTo(cx, cy+ctrl, left, cy)
		z.ClosePath()

		il, ir, ic := left+stroke*1.5, right-stroke*1.5, ctrl-2*stroke
		z.MoveTo(il, cy)
		z.QuadTo(cx, cy+ic, ir, cy)
		z.QuadTo(cx, cy-ic, il, cy)
		z.ClosePath()

		addCircle(z, cx, cy, s*0.14)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	z.Draw(dst, dst.Bounds(), image.NewUniform(iconColor), image.Point{})
	return dst
}

func addCircle(z *vector.Rasterizer, cx, cy, r float32) {
	k := r * kappa
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}

// argb32 converts img to the ARGB32 network byte order SNI expects.
func argb32(img *image.NRGBA) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			out = append(out, c.A, c.R, c.G, c.B)
		}
	}
	return out
}

