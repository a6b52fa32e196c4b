// Package courses generates parametric course fixtures: ordered polylines,
// one per course, ready for the topology builder.
//
// Generators follow one pattern. A constructor such as Strip(4, 5) returns a
// Generator closure; Generate resolves options into a coursesConfig and runs
// it. Invalid sizes are reported through sentinel errors wrapped with the
// generator's method tag; option constructors panic on invalid values.
//
// Available generators:
//   - Strip(positions, stitches): flat rectangle, every course the same length.
//   - Taper(counts...):           centered open courses of varying stitch count.
//   - Tube(counts...):            closed rings stacked along +Z.
//
// Options:
//   - WithSpacing(width, height): stitch width along a course, course height.
//   - WithOrigin(p):              translate every course by p.
//   - WithNoise(sigma):           Gaussian offset along the height axis.
//   - WithSeed / WithRand:        RNG source, required when sigma > 0.
//
// Determinism: identical arguments and seed produce identical polylines.
package courses
