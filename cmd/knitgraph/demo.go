package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/knitgraph/courses"
	"github.com/katalvlaran/knitgraph/diag"
)

func newDemoCmd(a *app) *cobra.Command {
	var (
		counts []int
		width  float64
		height float64
		noise  float64
		seed   int64
		dumpTo string
		out    outputs
	)
	cmd := &cobra.Command{
		Use:   "demo strip|taper|tube",
		Short: "Run the pipeline on generated courses",
		Long: `Demo generates courses and runs the pipeline on them.

  strip  --counts positions,stitches   a rectangle
  taper  --counts n0,n1,...            open courses centred on the y axis
  tube   --counts n0,n1,...            closed rings stacked along z`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"strip", "taper", "tube"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var gen courses.Generator
			switch args[0] {
			case "strip":
				if len(counts) != 2 {
					return fmt.Errorf("strip: --counts needs positions,stitches, got %v", counts)
				}
				gen = courses.Strip(counts[0], counts[1])
			case "taper":
				gen = courses.Taper(counts...)
			case "tube":
				gen = courses.Tube(counts...)
			default:
				return fmt.Errorf("unknown demo %q (want strip, taper or tube)", args[0])
			}

			if !(width > 0) || !(height > 0) {
				return fmt.Errorf("--width and --height must be > 0, got %v and %v", width, height)
			}
			if noise < 0 {
				return fmt.Errorf("--noise must be ≥ 0, got %v", noise)
			}
			opts := []courses.Option{courses.WithSpacing(width, height)}
			if noise > 0 {
				opts = append(opts, courses.WithNoise(noise), courses.WithSeed(seed))
			}
			cs, err := courses.Generate(gen, opts...)
			if err != nil {
				return err
			}
			if err := writeTo(cmd.OutOrStdout(), dumpTo, func(w io.Writer) error {
				return diag.WriteCourses(w, cs)
			}); err != nil {
				return err
			}

			return a.execute(cmd, cs, &out)
		},
	}
	f := cmd.Flags()
	f.IntSliceVar(&counts, "counts", []int{4, 5}, "course sizes, see above")
	f.Float64Var(&width, "width", 1, "stitch spacing along a course")
	f.Float64Var(&height, "height", 1, "spacing between courses")
	f.Float64Var(&noise, "noise", 0, "gaussian jitter applied to every point")
	f.Int64Var(&seed, "seed", 1, "random seed for --noise")
	f.StringVar(&dumpTo, "courses", "", "also write the generated courses as YAML to this file (- for stdout)")
	out.register(cmd)

	return cmd
}
