// SPDX-License-Identifier: MIT
// Package: knitgraph/diag
//
// dot.go - gonum graph adapter for DOT encoding.

package diag

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/iterator"

	"github.com/katalvlaran/knitgraph/core"
)

var kindStyle = map[core.EdgeKind][]encoding.Attribute{
	core.Weft:    {{Key: "color", Value: "#1f77b4"}},
	core.Warp:    {{Key: "color", Value: "#d62728"}},
	core.Contour: {{Key: "color", Value: "#7f7f7f"}, {Key: "style", Value: "dashed"}},
}

// WriteDOT writes g as a graphviz graph through gonum's DOT encoder. Nodes
// are pinned at their XY coordinates; ends are boxes and leaves are
// diamonds. Every edge carries its kind as a "kind" attribute. With kinds
// given, only edges of those kinds are written.
func WriteDOT(w io.Writer, g *core.Graph, kinds ...core.EdgeKind) error {
	if g == nil {
		return fmt.Errorf("WriteDOT: nil graph")
	}
	b, err := dot.Marshal(newDotGraph(g, kinds...), "knit", "", "  ")
	if err != nil {
		return fmt.Errorf("WriteDOT: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)

	return err
}

// dotGraph presents a core.View as an undirected gonum graph. Nodes are
// snapshotted at construction.
type dotGraph struct {
	g     *core.Graph
	view  *core.View
	nodes map[int64]dotNode
	order []graph.Node
}

func newDotGraph(g *core.Graph, kinds ...core.EdgeKind) *dotGraph {
	d := &dotGraph{g: g, view: g.View(kinds...), nodes: make(map[int64]dotNode)}
	for _, n := range g.Nodes() {
		dn := dotNode{n: n}
		d.nodes[dn.ID()] = dn
		d.order = append(d.order, dn)
	}

	return d
}

func (d *dotGraph) Node(id int64) graph.Node {
	n, ok := d.nodes[id]
	if !ok {
		return nil
	}

	return n
}

func (d *dotGraph) Nodes() graph.Nodes { return iterator.NewOrderedNodes(d.order) }

func (d *dotGraph) From(id int64) graph.Nodes {
	succ := d.view.Successors(int(id))
	if len(succ) == 0 {
		return graph.Empty
	}
	out := make([]graph.Node, 0, len(succ))
	for _, s := range succ {
		out = append(out, d.nodes[int64(s)])
	}

	return iterator.NewOrderedNodes(out)
}

func (d *dotGraph) HasEdgeBetween(xid, yid int64) bool {
	return slices.Contains(d.view.Successors(int(xid)), int(yid))
}

func (d *dotGraph) Edge(uid, vid int64) graph.Edge {
	if !d.HasEdgeBetween(uid, vid) {
		return nil
	}
	e, ok := d.g.Edge(int(uid), int(vid))
	if !ok {
		return nil
	}

	return dotEdge{from: d.nodes[uid], to: d.nodes[vid], kind: e.Kind}
}

// DOTAttributers sets the default node style.
func (d *dotGraph) DOTAttributers() (g, n, e encoding.Attributer) {
	return nil, &encoding.Attributes{{Key: "shape", Value: "circle"}, {Key: "fontsize", Value: "8"}}, nil
}

type dotNode struct{ n core.Node }

func (n dotNode) ID() int64 { return int64(n.n.ID) }

func (n dotNode) DOTID() string { return "n" + strconv.Itoa(n.n.ID) }

func (n dotNode) Attributes() []encoding.Attribute {
	attrs := []encoding.Attribute{
		{Key: "label", Value: strconv.Itoa(n.n.ID)},
		{Key: "pos", Value: ftoa(n.n.Point.X) + "," + ftoa(n.n.Point.Y) + "!"},
	}
	switch {
	case n.n.IsEnd:
		attrs = append(attrs, encoding.Attribute{Key: "shape", Value: "box"})
	case n.n.IsLeaf:
		attrs = append(attrs, encoding.Attribute{Key: "shape", Value: "diamond"})
	}

	return attrs
}

type dotEdge struct {
	from, to dotNode
	kind     core.EdgeKind
}

func (e dotEdge) From() graph.Node { return e.from }
func (e dotEdge) To() graph.Node   { return e.to }

func (e dotEdge) ReversedEdge() graph.Edge {
	return dotEdge{from: e.to, to: e.from, kind: e.kind}
}

func (e dotEdge) Attributes() []encoding.Attribute {
	return append([]encoding.Attribute{{Key: "kind", Value: e.kind.String()}}, kindStyle[e.kind]...)
}
