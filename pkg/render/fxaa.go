package render

import (
	"image"
	"image/color"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/sdfkit/pkg/mathx"
)

const (
	fxaaReduceMul = 1.0 / 32
	fxaaReduceMin = 1.0 / 128
	fxaaSpanMax   = 8.0
)

var lumaWeights = v3.Vec{X: 0.299, Y: 0.587, Z: 0.114}

// FXAA returns a copy of src smoothed by fast approximate anti-aliasing.
// Each pixel is blurred along the local edge direction estimated from the
// luma of its diagonal neighbours. Straight horizontal and vertical edges are
// left sharp. Samples outside the image repeat the border; alpha is kept.
func FXAA(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := fxaaPixel(src, float64(x), float64(y))
			dst.SetRGBA(x, y, color.RGBA{
				R: mathx.Saturate(math.Round(c.X * 255)),
				G: mathx.Saturate(math.Round(c.Y * 255)),
				B: mathx.Saturate(math.Round(c.Z * 255)),
				A: src.RGBAAt(x, y).A,
			})
		}
	}
	return dst
}

func fxaaPixel(img *image.RGBA, x, y float64) v3.Vec {
	nw := bilinear(img, x-1, y-1)
	ne := bilinear(img, x+1, y-1)
	sw := bilinear(img, x-1, y+1)
	se := bilinear(img, x+1, y+1)
	m := bilinear(img, x, y)

	lNW, lNE := nw.Dot(lumaWeights), ne.Dot(lumaWeights)
	lSW, lSE := sw.Dot(lumaWeights), se.Dot(lumaWeights)
	lM := m.Dot(lumaWeights)
	lMin := min(lNW, lNE, lSW, lSE, lM)
	lMax := max(lNW, lNE, lSW, lSE, lM)

	dx := -((lNW + lNE) - (lSW + lSE))
	dy := (lNW + lSW) - (lNE + lSE)
	reduce := max((lNW+lNE+lSW+lSE)*0.25*fxaaReduceMul, fxaaReduceMin)
	inv := 1 / (min(math.Abs(dx), math.Abs(dy)) + reduce)
	dx = mathx.Clamp(dx*inv, -fxaaSpanMax, fxaaSpanMax)
	dy = mathx.Clamp(dy*inv, -fxaaSpanMax, fxaaSpanMax)

	at := func(k float64) v3.Vec { return bilinear(img, x+dx*k, y+dy*k) }
	a := at(1.0/3 - 0.5).Add(at(2.0/3 - 0.5)).MulScalar(0.5)
	wide := a.MulScalar(0.5).Add(at(-0.5).Add(at(0.5)).MulScalar(0.25))
	if l := wide.Dot(lumaWeights); l < lMin || l > lMax {
		return a
	}
	return wide
}

// bilinear samples img at a fractional pixel position with colors in [0, 1].
func bilinear(img *image.RGBA, x, y float64) v3.Vec {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	c00 := texel(img, int(x0), int(y0))
	c10 := texel(img, int(x0)+1, int(y0))
	c01 := texel(img, int(x0), int(y0)+1)
	c11 := texel(img, int(x0)+1, int(y0)+1)
	top := c00.MulScalar(1 - fx).Add(c10.MulScalar(fx))
	bottom := c01.MulScalar(1 - fx).Add(c11.MulScalar(fx))
	return top.MulScalar(1 - fy).Add(bottom.MulScalar(fy))
}

func texel(img *image.RGBA, x, y int) v3.Vec {
	b := img.Bounds()
	x = min(max(x, b.Min.X), b.Max.X-1)
	y = min(max(y, b.Min.Y), b.Max.Y-1)
	c := img.RGBAAt(x, y)
	return v3.Vec{X: float64(c.R) / 255, Y: float64(c.G) / 255, Z: float64(c.B) / 255}
}
