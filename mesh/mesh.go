// SPDX-License-Identifier: MIT
// Package: knitgraph/mesh
//
// mesh.go - polygon mesh emission.

package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/knitgraph/geom"
)

// NoNode marks a mesh vertex with no stitch behind it (a fan centroid).
const NoNode = -1

// maxFaceSize is the largest face emitted as is.
const maxFaceSize = 4

// Mesh is a polygon mesh whose faces are stitch loops.
type Mesh struct {
	Vertices []r3.Vec
	// Faces index Vertices counter-clockwise around the face normal.
	Faces [][]int
	// VertexNode maps a vertex back to its stitch id, NoNode for centroids.
	VertexNode []int
}

// TriMesh fans every face into triangles.
func (m *Mesh) TriMesh() *geom.TriMesh {
	return geom.Triangulate(m.Vertices, m.Faces)
}

// CreateMesh emits one vertex per stitch in id order, then one polygon per
// face in face order. Faces of more than four stitches are replaced by a fan
// of triangles around an added centroid vertex.
//
// Errors: ErrNotWalked.
func (d *Directed) CreateMesh() (*Mesh, error) {
	faces, err := d.Faces()
	if err != nil {
		return nil, err
	}
	m := &Mesh{
		Vertices:   make([]r3.Vec, 0, len(d.ids)),
		VertexNode: make([]int, 0, len(d.ids)),
	}
	vertex := make(map[int]int, len(d.ids))
	for _, id := range d.ids {
		vertex[id] = len(m.Vertices)
		m.Vertices = append(m.Vertices, d.nodes[id].Point)
		m.VertexNode = append(m.VertexNode, id)
	}

	for _, c := range faces {
		if len(c.Nodes) <= maxFaceSize {
			f := make([]int, len(c.Nodes))
			for i, id := range c.Nodes {
				f[i] = vertex[id]
			}
			m.Faces = append(m.Faces, f)
			continue
		}
		var centroid r3.Vec
		for _, id := range c.Nodes {
			centroid = r3.Add(centroid, d.nodes[id].Point)
		}
		centroid = r3.Scale(1/float64(len(c.Nodes)), centroid)
		ci := len(m.Vertices)
		m.Vertices = append(m.Vertices, centroid)
		m.VertexNode = append(m.VertexNode, NoNode)
		for i, id := range c.Nodes {
			nb := c.Nodes[(i+1)%len(c.Nodes)]
			m.Faces = append(m.Faces, []int{vertex[id], vertex[nb], ci})
		}
	}

	return m, nil
}
