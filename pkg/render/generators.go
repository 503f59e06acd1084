package render

import (
	"image"
	"image/color"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/sdfkit/pkg/field"
	"github.com/chazu/sdfkit/pkg/mathx"
)

// FloatImage is a single channel float32 image in row-major order.
type FloatImage struct {
	Width, Height int
	Pix           []float32
}

// NewFloatImage allocates a zeroed image.
func NewFloatImage(w, h int) *FloatImage {
	return &FloatImage{Width: w, Height: h, Pix: make([]float32, w*h)}
}

// At returns the value at column x and row y.
func (f *FloatImage) At(x, y int) float32 {
	return f.Pix[y*f.Width+x]
}

// Set stores v at column x and row y.
func (f *FloatImage) Set(x, y int, v float32) {
	f.Pix[y*f.Width+x] = v
}

// Gray maps [near, far] linearly onto [255, 0] so that close surfaces are
// bright. Values outside the range saturate; values equal to invalid are
// written black.
func (f *FloatImage) Gray(near, far, invalid float32) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	span := float64(far - near)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			v := f.At(x, y)
			if v == invalid || span <= 0 {
				continue
			}
			img.SetGray(x, y, color.Gray{Y: mathx.Saturate(255 * (1 - float64(v-near)/span))})
		}
	}
	return img
}

// Range returns the smallest and largest values that differ from invalid.
// ok is false when every pixel is invalid.
func (f *FloatImage) Range(invalid float32) (lo, hi float32, ok bool) {
	for _, v := range f.Pix {
		if v == invalid {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi, ok
}

// DepthGenerator records the camera-space depth of every hit. Misses are
// written as Invalid.
type DepthGenerator struct {
	Invalid float32

	cam   *Camera
	image *FloatImage
}

func (g *DepthGenerator) Begin(f *Frame) error {
	g.cam = f.Camera
	g.image = NewFloatImage(f.Width, f.Height)
	return nil
}

func (g *DepthGenerator) Row(r *Row) error {
	for x, tr := range r.Results {
		v := g.Invalid
		if tr.Hit {
			v = float32(g.cam.WorldToCamera(r.Point(x)).Z)
		}
		g.image.Set(x, r.Index, v)
	}
	return nil
}

func (g *DepthGenerator) End() error { return nil }

// Image returns the depth image of the last render.
func (g *DepthGenerator) Image() *FloatImage { return g.image }

// Gray returns the depth image scaled over its own valid range.
func (g *DepthGenerator) Gray() *image.Gray {
	lo, hi, ok := g.image.Range(g.Invalid)
	if !ok || lo == hi {
		hi = lo + 1
	}
	return g.image.Gray(lo, hi, g.Invalid)
}

// HeatGenerator maps the number of trace iterations of every pixel onto
// [0, 255], saturating at the iteration limit.
type HeatGenerator struct {
	maxIter int
	image   *image.Gray
}

func (g *HeatGenerator) Begin(f *Frame) error {
	g.maxIter = max(f.Trace.MaxIterations, 1)
	g.image = image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	return nil
}

func (g *HeatGenerator) Row(r *Row) error {
	for x, tr := range r.Results {
		v := mathx.Saturate(float64(tr.Iterations) / float64(g.maxIter) * 255)
		g.image.SetGray(x, r.Index, color.Gray{Y: v})
	}
	return nil
}

func (g *HeatGenerator) End() error { return nil }

// Image returns the heat image of the last render.
func (g *HeatGenerator) Image() *image.Gray { return g.image }

// ShadedGenerator shades hits with the Blinn-Phong model using the material
// attached to the closest leaf and the frame's point lights.
type ShadedGenerator struct {
	Background    color.RGBA
	NormalEpsilon float64 // 0 means field.DefaultEpsilon

	frame *Frame
	image *image.RGBA
}

func (g *ShadedGenerator) Begin(f *Frame) error {
	g.frame = f
	if g.NormalEpsilon <= 0 {
		g.NormalEpsilon = field.DefaultEpsilon
	}
	g.image = image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	return nil
}

func (g *ShadedGenerator) Row(r *Row) error {
	for x, tr := range r.Results {
		if !tr.Hit {
			g.image.SetRGBA(x, r.Index, g.Background)
			continue
		}
		p := r.Point(x)
		n := g.frame.Root.Normal(p, g.NormalEpsilon)
		c := Shade(MaterialOf(tr.Node), p, n, r.Directions[x].MulScalar(-1), g.frame.Lights)
		g.image.SetRGBA(x, r.Index, toRGBA(c))
	}
	return nil
}

func (g *ShadedGenerator) End() error { return nil }

// Image returns the shaded image of the last render.
func (g *ShadedGenerator) Image() *image.RGBA { return g.image }

// Shade evaluates Blinn-Phong at surface point p with unit normal n seen
// along the unit direction view (pointing from p towards the eye).
func Shade(m Material, p, n, view v3.Vec, lights []Light) v3.Vec {
	c := m.Ambient
	for _, l := range lights {
		ld, ok := unit(l.Position.Sub(p))
		if !ok {
			continue
		}
		diff := n.Dot(ld)
		if diff <= 0 {
			continue
		}
		c = c.Add(m.Diffuse.MulScalar(diff * l.Intensity))
		if h, ok := unit(ld.Add(view)); ok {
			if s := n.Dot(h); s > 0 {
				c = c.Add(m.Specular.MulScalar(math.Pow(s, m.Hardness) * l.Intensity))
			}
		}
	}
	return c
}

func toRGBA(c v3.Vec) color.RGBA {
	return color.RGBA{
		R: mathx.Saturate(c.X * 255),
		G: mathx.Saturate(c.Y * 255),
		B: mathx.Saturate(c.Z * 255),
		A: 255,
	}
}
