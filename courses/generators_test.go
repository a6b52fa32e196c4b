package courses_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/knitgraph/courses"
)

func TestStrip(t *testing.T) {
	cs, err := courses.Generate(courses.Strip(3, 5), courses.WithSpacing(2, 0.5))
	require.NoError(t, err)
	require.Len(t, cs, 3)
	for i, c := range cs {
		assert.Len(t, c, 5)
		assert.InDelta(t, 8.0, c.Length(), 1e-12)
		assert.InDelta(t, 0.5*float64(i), c[0].Y, 1e-12)
		pts, closed, err := c.Sample(2, 1e-9)
		require.NoError(t, err)
		assert.False(t, closed)
		assert.Len(t, pts, 5)
	}
}

func TestTaper_Centered(t *testing.T) {
	cs, err := courses.Generate(courses.Taper(6, 3), courses.WithOrigin(r3.Vec{Z: 1}))
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.InDelta(t, -2.5, cs[0][0].X, 1e-12)
	assert.InDelta(t, 2.5, cs[0][5].X, 1e-12)
	assert.InDelta(t, -1.0, cs[1][0].X, 1e-12)
	assert.InDelta(t, 1.0, cs[1][0].Z, 1e-12)
}

func TestTube_RingsSampleExactly(t *testing.T) {
	cs, err := courses.Generate(courses.Tube(8, 8, 6))
	require.NoError(t, err)
	require.Len(t, cs, 3)
	for i, want := range []int{8, 8, 6} {
		assert.True(t, cs[i].IsClosed(1e-9))
		assert.InDelta(t, float64(want), cs[i].Length(), 1e-9)
		pts, closed, err := cs[i].Sample(1, 1e-9)
		require.NoError(t, err)
		assert.True(t, closed)
		assert.Len(t, pts, want)
	}
	assert.InDelta(t, 2.0, cs[2][0].Z, 1e-12)
}

func TestGenerate_Errors(t *testing.T) {
	_, err := courses.Generate(courses.Strip(0, 5))
	assert.ErrorIs(t, err, courses.ErrTooFewCourses)

	_, err = courses.Generate(courses.Taper(4, 1))
	assert.ErrorIs(t, err, courses.ErrTooFewStitches)

	_, err = courses.Generate(courses.Tube(2))
	assert.ErrorIs(t, err, courses.ErrTooFewStitches)

	_, err = courses.Generate(courses.Tube())
	assert.ErrorIs(t, err, courses.ErrTooFewCourses)

	_, err = courses.Generate(courses.Strip(2, 3), courses.WithNoise(0.1))
	assert.ErrorIs(t, err, courses.ErrNeedRandSource)
}

func TestOptionPanics(t *testing.T) {
	assert.Panics(t, func() { courses.WithSpacing(0, 1) })
	assert.Panics(t, func() { courses.WithSpacing(1, math.NaN()) })
	assert.Panics(t, func() { courses.WithNoise(-1) })
	assert.Panics(t, func() { courses.WithRand(nil) })
}

func TestNoise_Deterministic(t *testing.T) {
	a, err := courses.Generate(courses.Strip(2, 4), courses.WithNoise(0.05), courses.WithSeed(7))
	require.NoError(t, err)
	b, err := courses.Generate(courses.Strip(2, 4), courses.WithNoise(0.05), courses.WithSeed(7))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, 0.0, a[0][1].Y)
	assert.Equal(t, 1.0, a[0][1].X, "noise only moves the height axis")
}
