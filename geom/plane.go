package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Plane is an oriented plane through Origin with unit Normal.
type Plane struct {
	Origin r3.Vec
	Normal r3.Vec
}

// WorldXY is the z-up plane through the origin.
var WorldXY = Plane{Normal: r3.Vec{Z: 1}}

// NewPlane builds a plane with a normalised normal. A zero normal falls back
// to +Z.
func NewPlane(origin, normal r3.Vec) Plane {
	if r3.Norm2(normal) == 0 {
		normal = r3.Vec{Z: 1}
	}

	return Plane{Origin: origin, Normal: r3.Unit(normal)}
}

// Basis returns two unit axes spanning the plane, forming a right-handed
// frame with Normal.
func (p Plane) Basis() (u, v r3.Vec) {
	n := p.Normal
	ref := r3.Vec{X: 1}
	if math.Abs(n.X) > 0.9 {
		ref = r3.Vec{Y: 1}
	}
	u = r3.Unit(r3.Cross(ref, n))
	if math.Abs(n.Z) > 0.9 {
		// keep world X as the first axis for z-up planes
		u = r3.Unit(r3.Sub(r3.Vec{X: 1}, r3.Scale(n.X, n)))
	}
	v = r3.Cross(n, u)

	return u, v
}

// Project returns the in-plane coordinates of pt.
func (p Plane) Project(pt r3.Vec) (x, y float64) {
	u, v := p.Basis()
	d := r3.Sub(pt, p.Origin)

	return r3.Dot(d, u), r3.Dot(d, v)
}

// SignedAngle returns the angle from a to b measured around n, in (-π, π].
func SignedAngle(a, b, n r3.Vec) float64 {
	return math.Atan2(r3.Dot(n, r3.Cross(a, b)), r3.Dot(a, b))
}

// Angle returns the unsigned angle between a and b in [0, π].
func Angle(a, b r3.Vec) float64 {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	c := r3.Dot(a, b) / (na * nb)

	return math.Acos(math.Max(-1, math.Min(1, c)))
}
