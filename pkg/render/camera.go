package render

import (
	"errors"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrDegenerateView is returned when a look-at cannot build a camera frame.
var ErrDegenerateView = errors.New("render: degenerate view")

// Camera is a pinhole camera. Camera space has +Z along the viewing
// direction, +X to the right and +Y down, so image rows grow downwards.
type Camera struct {
	// Intrinsics in pixels.
	Fx, Fy float64
	Cx, Cy float64

	// Camera-to-world rotation as the world-space images of the camera
	// axes, plus the camera origin.
	X, Y, Z v3.Vec
	Eye     v3.Vec
}

// NewCamera returns a camera at the origin looking down +Z with unit focal
// lengths.
func NewCamera() *Camera {
	return &Camera{
		Fx: 1, Fy: 1,
		X: v3.Vec{X: 1}, Y: v3.Vec{Y: 1}, Z: v3.Vec{Z: 1},
	}
}

// SetIntrinsics sets focal lengths and principal point directly.
func (c *Camera) SetIntrinsics(fx, fy, cx, cy float64) {
	c.Fx, c.Fy, c.Cx, c.Cy = fx, fy, cx, cy
}

// SetPerspective derives intrinsics for an image of the given size from a
// vertical field of view in radians. The principal point is the image
// center and pixels are square.
func (c *Camera) SetPerspective(width, height int, vfov float64) {
	aspect := float64(width) / float64(height)
	sy := 1 / math.Tan(vfov/2)
	sx := sy / aspect
	c.Fy = float64(height) * sy / 2
	c.Fx = float64(width) * sx / 2
	c.Cx = float64(width) / 2
	c.Cy = float64(height) / 2
}

// LookAt places the camera at eye looking at center. up is the world
// direction that should appear at the top of the image.
func (c *Camera) LookAt(eye, center, up v3.Vec) error {
	z, ok := unit(center.Sub(eye))
	if !ok {
		return ErrDegenerateView
	}
	y, ok := unit(up.MulScalar(-1))
	if !ok {
		return ErrDegenerateView
	}
	x, ok := unit(y.Cross(z))
	if !ok {
		return ErrDegenerateView
	}
	c.X, c.Y, c.Z = x, z.Cross(x), z
	c.Eye = eye
	return nil
}

// Origin returns the camera center in world space.
func (c *Camera) Origin() v3.Vec {
	return c.Eye
}

// CameraToWorld maps a camera-space point into world space.
func (c *Camera) CameraToWorld(p v3.Vec) v3.Vec {
	return c.rotate(p).Add(c.Eye)
}

// WorldToCamera maps a world-space point into camera space.
func (c *Camera) WorldToCamera(p v3.Vec) v3.Vec {
	d := p.Sub(c.Eye)
	return v3.Vec{X: d.Dot(c.X), Y: d.Dot(c.Y), Z: d.Dot(c.Z)}
}

// Project maps a world-space point to pixel coordinates. ok is false for
// points at or behind the camera plane.
func (c *Camera) Project(p v3.Vec) (u, v float64, ok bool) {
	q := c.WorldToCamera(p)
	if q.Z <= 0 {
		return 0, 0, false
	}
	return c.Fx*q.X/q.Z + c.Cx, c.Fy*q.Y/q.Z + c.Cy, true
}

// Ray returns the unit camera-space direction through pixel (u, v).
func (c *Camera) Ray(u, v float64) v3.Vec {
	d := v3.Vec{X: (u - c.Cx) / c.Fx, Y: (v - c.Cy) / c.Fy, Z: 1}
	return d.MulScalar(1 / d.Length())
}

// WorldRay returns the unit world-space direction through pixel (u, v).
func (c *Camera) WorldRay(u, v float64) v3.Vec {
	return c.rotate(c.Ray(u, v))
}

func (c *Camera) rotate(d v3.Vec) v3.Vec {
	return c.X.MulScalar(d.X).Add(c.Y.MulScalar(d.Y)).Add(c.Z.MulScalar(d.Z))
}

func unit(v v3.Vec) (v3.Vec, bool) {
	l := v.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return v3.Vec{}, false
	}
	return v.MulScalar(1 / l), true
}
