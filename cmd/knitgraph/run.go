package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/knitgraph/diag"
	"github.com/katalvlaran/knitgraph/geom"
	"github.com/katalvlaran/knitgraph/pipeline"
)

// outputs are the optional dump destinations shared by run and demo.
type outputs struct {
	obj     string
	pattern string
	tables  string
	format  string
	dot     string
	summary bool
}

func (o *outputs) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.obj, "obj", "", "write the mesh as Wavefront OBJ to this file (- for stdout)")
	f.StringVar(&o.pattern, "pattern", "-", "write the pattern chart to this file (- for stdout)")
	f.StringVar(&o.tables, "tables", "", "write node and edge tables to this file (- for stdout)")
	f.StringVar(&o.format, "tables-format", "yaml", "table format: yaml or tsv")
	f.StringVar(&o.dot, "dot", "", "write the graph in graphviz DOT to this file (- for stdout)")
	f.BoolVar(&o.summary, "summary", false, "print a per-course summary")
}

func (o *outputs) write(out io.Writer, res *pipeline.Result) error {
	format, err := diag.ParseFormat(o.format)
	if err != nil {
		return err
	}
	if o.summary {
		if _, err := io.WriteString(out, diag.Summary(res.Graph)); err != nil {
			return err
		}
	}
	if err := writeTo(out, o.obj, func(w io.Writer) error { return diag.WriteOBJ(w, res.Mesh) }); err != nil {
		return err
	}
	if err := writeTo(out, o.tables, func(w io.Writer) error { return diag.WriteTables(w, res.Graph, format) }); err != nil {
		return err
	}
	if err := writeTo(out, o.dot, func(w io.Writer) error { return diag.WriteDOT(w, res.Graph) }); err != nil {
		return err
	}

	return writeTo(out, o.pattern, func(w io.Writer) error { return diag.WritePattern(w, res.Pattern) })
}

// execute runs the pipeline on courses and writes the requested outputs.
func (a *app) execute(cmd *cobra.Command, courses []geom.Polyline, out *outputs) error {
	opts, err := a.pipelineOptions()
	if err != nil {
		return err
	}
	res, err := pipeline.Run(cmd.Context(), courses, opts...)
	if err != nil {
		return err
	}

	return out.write(cmd.OutOrStdout(), res)
}

func newRunCmd(a *app) *cobra.Command {
	var (
		input string
		out   outputs
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline on courses read from a YAML file",
		Long: `Run reads ordered course polylines from a YAML file of the form

  courses:
    - [[0, 0], [4, 0]]
    - [[0, 1, 0], [4, 1, 0]]

builds the stitch graph and writes the requested outputs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var r io.Reader = cmd.InOrStdin()
			if input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			courses, err := diag.ReadCourses(r)
			if err != nil {
				return fmt.Errorf("read %s: %w", input, err)
			}

			return a.execute(cmd, courses, &out)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "course file (- for stdin)")
	_ = cmd.MarkFlagRequired("input")
	out.register(cmd)

	return cmd
}
