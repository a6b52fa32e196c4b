package diag

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/knitgraph/geom"
)

// courseFile is the YAML course format:
//
//	courses:
//	  - [[0, 0, 0], [1, 0, 0], [2, 0, 0]]
//	  - [[0, 1], [2, 1]]
//
// A point has two or three coordinates; z defaults to 0.
type courseFile struct {
	Courses [][][]float64 `yaml:"courses"`
}

// ReadCourses decodes a YAML course file, bottom course first.
func ReadCourses(r io.Reader) ([]geom.Polyline, error) {
	var f courseFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("ReadCourses: %w", err)
	}
	if len(f.Courses) == 0 {
		return nil, fmt.Errorf("ReadCourses: no courses")
	}
	out := make([]geom.Polyline, len(f.Courses))
	for i, c := range f.Courses {
		pl := make(geom.Polyline, len(c))
		for j, p := range c {
			switch len(p) {
			case 2:
				pl[j] = r3.Vec{X: p[0], Y: p[1]}
			case 3:
				pl[j] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
			default:
				return nil, fmt.Errorf("ReadCourses: course %d point %d has %d coordinates", i, j, len(p))
			}
		}
		out[i] = pl
	}

	return out, nil
}

// WriteCourses encodes courses in the format ReadCourses reads.
func WriteCourses(w io.Writer, courses []geom.Polyline) error {
	f := courseFile{Courses: make([][][]float64, len(courses))}
	for i, pl := range courses {
		f.Courses[i] = make([][]float64, len(pl))
		for j, p := range pl {
			f.Courses[i][j] = []float64{p.X, p.Y, p.Z}
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("WriteCourses: %w", err)
	}

	return enc.Close()
}
