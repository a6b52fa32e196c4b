// SPDX-License-Identifier: MIT
// Package: knitgraph/diag
//
// exchange.go - OBJ and pattern charts.

package diag

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/katalvlaran/knitgraph/mesh"
)

// WriteOBJ writes m as a Wavefront OBJ with 1-based face indexes.
func WriteOBJ(w io.Writer, m *mesh.Mesh) error {
	if m == nil {
		return fmt.Errorf("WriteOBJ: nil mesh")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# knitgraph mesh: %d vertices, %d faces\n", len(m.Vertices), len(m.Faces))
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %s %s %s\n", ftoa(v.X), ftoa(v.Y), ftoa(v.Z))
	}
	for _, f := range m.Faces {
		bw.WriteString("f")
		for _, i := range f {
			bw.WriteString(" ")
			bw.WriteString(strconv.Itoa(i + 1))
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}

// WritePattern writes rows as a chart, last course on top, one symbol per
// stitch: '.' plain, '+' increase, '-' decrease, ' ' a consolidation gap.
// The trailing count excludes gaps.
func WritePattern(w io.Writer, rows []mesh.PatternRow) error {
	bw := bufio.NewWriter(w)
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		chart := make([]byte, len(r.Stitches))
		for j, s := range r.Stitches {
			chart[j] = s.Op.Symbol()
			if s.Node == mesh.Gap {
				chart[j] = ' '
			}
		}
		fmt.Fprintf(bw, "%4d | %s | %d\n", r.Position, chart, r.Len())
	}

	return bw.Flush()
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
