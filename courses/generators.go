// SPDX-License-Identifier: MIT
// Package: knitgraph/courses
//
// generators.go - Strip, Taper and Tube.
//
// Contract:
//   - Courses are returned bottom to top, position i at height i*height.
//   - Every point of a course is emitted, one per stitch, so sampling at the
//     configured width reproduces the requested stitch count.
//   - Open courses run toward +X; rings run counter-clockwise seen from +Z
//     and repeat their first point.
//
// Determinism: stable course and point order; noise is drawn in that order.

package courses

import (
	"fmt"
	"math"

	"github.com/katalvlaran/knitgraph/geom"
)

const (
	methodStrip = "Strip"
	methodTaper = "Taper"
	methodTube  = "Tube"

	minOpenStitches = 2
	minRingStitches = 3
	minCourses      = 1

	upY = 1
	upZ = 2
)

// Strip returns a Generator for positions courses of stitches stitches each.
func Strip(positions, stitches int) Generator {
	return func(cfg coursesConfig) ([]geom.Polyline, error) {
		if positions < minCourses {
			return nil, fmt.Errorf("%s: positions=%d (must be ≥ %d): %w",
				methodStrip, positions, minCourses, ErrTooFewCourses)
		}
		counts := make([]int, positions)
		for i := range counts {
			counts[i] = stitches
		}

		return openCourses(methodStrip, cfg, counts, false)
	}
}

// Taper returns a Generator for open courses centered on x = 0, course i
// holding counts[i] stitches.
func Taper(counts ...int) Generator {
	return func(cfg coursesConfig) ([]geom.Polyline, error) {
		return openCourses(methodTaper, cfg, counts, true)
	}
}

// Tube returns a Generator for closed rings, ring i holding counts[i]
// stitches spaced exactly one width apart.
func Tube(counts ...int) Generator {
	return func(cfg coursesConfig) ([]geom.Polyline, error) {
		if len(counts) < minCourses {
			return nil, fmt.Errorf("%s: no rings: %w", methodTube, ErrTooFewCourses)
		}
		out := make([]geom.Polyline, 0, len(counts))
		for i, n := range counts {
			if n < minRingStitches {
				return nil, fmt.Errorf("%s: ring %d has %d stitches (must be ≥ %d): %w",
					methodTube, i, n, minRingStitches, ErrTooFewStitches)
			}
			// regular n-gon with side = width
			r := cfg.width / (2 * math.Sin(math.Pi/float64(n)))
			z := float64(i) * cfg.height
			pl := make(geom.Polyline, 0, n+1)
			for k := 0; k < n; k++ {
				a := 2 * math.Pi * float64(k) / float64(n)
				pl = append(pl, cfg.point(r*math.Cos(a), r*math.Sin(a), z, upZ))
			}
			out = append(out, append(pl, pl[0]))
		}

		return out, nil
	}
}

func openCourses(method string, cfg coursesConfig, counts []int, centered bool) ([]geom.Polyline, error) {
	if len(counts) < minCourses {
		return nil, fmt.Errorf("%s: no courses: %w", method, ErrTooFewCourses)
	}
	out := make([]geom.Polyline, 0, len(counts))
	for i, n := range counts {
		if n < minOpenStitches {
			return nil, fmt.Errorf("%s: course %d has %d stitches (must be ≥ %d): %w",
				method, i, n, minOpenStitches, ErrTooFewStitches)
		}
		x0 := 0.0
		if centered {
			x0 = -float64(n-1) * cfg.width / 2
		}
		y := float64(i) * cfg.height
		pl := make(geom.Polyline, n)
		for k := range pl {
			pl[k] = cfg.point(x0+float64(k)*cfg.width, y, 0, upY)
		}
		out = append(out, pl)
	}

	return out, nil
}
