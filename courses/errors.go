// SPDX-License-Identifier: MIT
// Package: knitgraph/courses
//
// errors.go - sentinel errors for the courses package.
//
// Callers branch with errors.Is; implementations attach the method tag with %w.

package courses

import "errors"

// ErrTooFewStitches indicates a course with fewer stitches than the generator allows.
var ErrTooFewStitches = errors.New("courses: too few stitches")

// ErrTooFewCourses indicates a generator asked for fewer than one course.
var ErrTooFewCourses = errors.New("courses: too few courses")

// ErrNeedRandSource indicates noise was requested without an RNG.
var ErrNeedRandSource = errors.New("courses: rng is required")
