package diag

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/knitgraph/core"
)

// Summary returns a short text dump of g: a header with the totals, then one
// line per position.
func Summary(g *core.Graph) string {
	if g == nil {
		return "<nil graph>\n"
	}
	st := g.Stats()
	var b strings.Builder
	fmt.Fprintf(&b, "knit graph: %d stitches, %d courses, %d weft, %d warp, %d contour, %d ends, %d leaves\n",
		st.Nodes, st.Positions, st.Weft, st.Warp, st.Contour, st.Ends, st.Leaves)
	for _, p := range g.Positions() {
		nodes := g.NodesAt(p)
		var ends, leaves, inc, dec, up int
		for _, n := range nodes {
			if n.IsEnd {
				ends++
			}
			if n.IsLeaf {
				leaves++
			}
			if n.Increase {
				inc++
			}
			if n.Decrease {
				dec++
			}
			nbs, _ := g.Neighbors(n.ID, core.Warp)
			for _, nb := range nbs {
				if o, err := g.Node(nb); err == nil && o.Position > p {
					up++
				}
			}
		}
		shape := "open"
		if g.CourseClosed(p) {
			shape = "closed"
		}
		fmt.Fprintf(&b, "  position %d: %d stitches, %s, %d ends, %d leaves, %d warp up, +%d -%d\n",
			p, len(nodes), shape, ends, leaves, up, inc, dec)
	}

	return b.String()
}
