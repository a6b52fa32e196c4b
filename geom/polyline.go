package geom

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sentinel errors for geometric input.
var (
	// ErrEmptyPolyline indicates a polyline without points.
	ErrEmptyPolyline = errors.New("geom: empty polyline")

	// ErrBadWidth indicates a non-positive sampling width.
	ErrBadWidth = errors.New("geom: width must be positive")

	// ErrBadMesh indicates a mesh without faces or with out-of-range indexes.
	ErrBadMesh = errors.New("geom: malformed mesh")

	// ErrNoBoundary indicates that a boundary polyline touches no mesh vertex.
	ErrNoBoundary = errors.New("geom: boundary not found on mesh")

	// ErrDisconnected indicates mesh vertices unreachable from a boundary.
	ErrDisconnected = errors.New("geom: mesh is not connected")
)

// Polyline is an ordered list of points.
type Polyline []r3.Vec

// Length returns the total arc length.
func (pl Polyline) Length() float64 {
	var l float64
	for i := 1; i < len(pl); i++ {
		l += r3.Norm(r3.Sub(pl[i], pl[i-1]))
	}

	return l
}

// IsClosed reports whether the polyline returns to its start within tol and
// has at least three points.
func (pl Polyline) IsClosed(tol float64) bool {
	if len(pl) < 3 {
		return false
	}

	return r3.Norm(r3.Sub(pl[0], pl[len(pl)-1])) <= tol
}

// cumulative returns the arc length at every vertex (first entry 0).
func (pl Polyline) cumulative() []float64 {
	seg := make([]float64, len(pl))
	for i := 1; i < len(pl); i++ {
		seg[i] = r3.Norm(r3.Sub(pl[i], pl[i-1]))
	}

	return floats.CumSum(make([]float64, len(pl)), seg)
}

// PointAt returns the point at arc length s, clamped to the ends.
func (pl Polyline) PointAt(s float64) r3.Vec {
	return pl.pointAt(pl.cumulative(), s)
}

func (pl Polyline) pointAt(cum []float64, s float64) r3.Vec {
	switch {
	case len(pl) == 0:
		return r3.Vec{}
	case s <= 0 || len(pl) == 1:
		return pl[0]
	case s >= cum[len(cum)-1]:
		return pl[len(pl)-1]
	}
	i := sort.SearchFloat64s(cum, s) // cum[i-1] < s <= cum[i]
	span := cum[i] - cum[i-1]
	if span == 0 {
		return pl[i]
	}
	t := (s - cum[i-1]) / span

	return r3.Add(pl[i-1], r3.Scale(t, r3.Sub(pl[i], pl[i-1])))
}

// Divide returns n+1 points at equal arc-length spacing including both ends
// (n ≥ 1). A polyline of one point, or of zero length, yields that point.
func (pl Polyline) Divide(n int) []r3.Vec {
	if len(pl) == 0 {
		return nil
	}
	cum := pl.cumulative()
	total := cum[len(cum)-1]
	if n < 1 || len(pl) == 1 || total == 0 {
		return []r3.Vec{pl[0]}
	}
	out := make([]r3.Vec, n+1)
	for i := 0; i <= n; i++ {
		out[i] = pl.pointAt(cum, total*float64(i)/float64(n))
	}

	return out
}

// Sample places stitches along the polyline roughly width apart.
//
// Open polylines get round(L/width) divisions with both ends included. Closed
// polylines (IsClosed(closeTol)) get round(L/width) points, at least three,
// without repeating the seam. A single point or a zero-length curve yields one
// point.
//
// Errors: ErrEmptyPolyline, ErrBadWidth.
func (pl Polyline) Sample(width, closeTol float64) (pts []r3.Vec, closed bool, err error) {
	if len(pl) == 0 {
		return nil, false, ErrEmptyPolyline
	}
	if width <= 0 || math.IsNaN(width) {
		return nil, false, ErrBadWidth
	}

	closed = pl.IsClosed(closeTol)
	src := pl
	if closed && pl[0] != pl[len(pl)-1] {
		// snap the seam so the last segment closes exactly
		src = append(append(Polyline(nil), pl...), pl[0])
	}
	total := src.Length()
	if total <= closeTol || len(src) == 1 {
		return []r3.Vec{pl[0]}, false, nil
	}

	n := int(math.Round(total / width))
	if !closed {
		return src.Divide(max(n, 1)), false, nil
	}
	n = max(n, 3)
	cum := src.cumulative()
	pts = make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		pts[i] = src.pointAt(cum, total*float64(i)/float64(n))
	}

	return pts, true, nil
}

// Reverse returns a reversed copy.
func (pl Polyline) Reverse() Polyline {
	out := make(Polyline, len(pl))
	for i, p := range pl {
		out[len(pl)-1-i] = p
	}

	return out
}

// LoopNormal returns the unnormalised Newell normal of the closed loop pts.
// Its direction follows the loop's winding by the right-hand rule.
func LoopNormal(pts []r3.Vec) r3.Vec {
	var n r3.Vec
	for i, a := range pts {
		b := pts[(i+1)%len(pts)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}

	return n
}

// DistanceTo returns the shortest distance from p to the polyline.
func (pl Polyline) DistanceTo(p r3.Vec) float64 {
	switch len(pl) {
	case 0:
		return math.Inf(1)
	case 1:
		return r3.Norm(r3.Sub(p, pl[0]))
	}
	best := math.Inf(1)
	for i := 1; i < len(pl); i++ {
		best = math.Min(best, segmentDistance(p, pl[i-1], pl[i]))
	}

	return best
}

func segmentDistance(p, a, b r3.Vec) float64 {
	ab := r3.Sub(b, a)
	l2 := r3.Norm2(ab)
	if l2 == 0 {
		return r3.Norm(r3.Sub(p, a))
	}
	t := math.Max(0, math.Min(1, r3.Dot(r3.Sub(p, a), ab)/l2))

	return r3.Norm(r3.Sub(p, r3.Add(a, r3.Scale(t, ab))))
}
