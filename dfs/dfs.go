package dfs

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrGraphNil is returned when a nil Graph is passed to DFS.
	ErrGraphNil = errors.New("dfs: graph is nil")

	// ErrStartVertexNotFound indicates that the specified start id
	// does not exist in the graph.
	ErrStartVertexNotFound = errors.New("dfs: start vertex not found")

	// ErrStop may be returned by a hook to end the traversal early. DFS
	// reports it as success and keeps the partial result.
	ErrStop = errors.New("dfs: stop")
)

// Graph is the read-only adjacency the walker needs. NodeIDs and Successors
// must be sorted ascending for the traversal to be deterministic.
type Graph interface {
	NodeIDs() []int
	HasNode(id int) bool
	Successors(id int) []int
}

// Option configures optional behavior of DFS traversal.
type Option func(*options)

type options struct {
	ctx     context.Context
	onVisit func(id int) error
}

// WithContext makes the walk stop with ctx.Err() once ctx is done. A nil
// context is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithOnVisit installs fn as a pre-order hook.
func WithOnVisit(fn func(id int) error) Option {
	return func(o *options) {
		o.onVisit = fn
	}
}

// Result captures the outcome of a depth-first traversal.
type Result struct {
	// Preorder records vertices in discovery order.
	Preorder []int

	// Parent maps each vertex to the vertex it was discovered from. The
	// start vertex does not appear.
	Parent map[int]int

	// Visited flags which vertices were reached during the traversal.
	Visited map[int]bool
}

// PathTo returns the tree path from the start vertex to dest.
func (r *Result) PathTo(dest int) ([]int, error) {
	if !r.Visited[dest] {
		return nil, fmt.Errorf("dfs: no path to %d", dest)
	}
	path := []int{dest}
	for cur := dest; ; {
		prev, ok := r.Parent[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	slices.Reverse(path)

	return path, nil
}

// walker encapsulates state during DFS.
type walker struct {
	graph Graph
	opts  options
	res   *Result
}

// DFS performs depth-first search on g from startID. A hook returning
// ErrStop ends the walk without error.
func DFS(g Graph, startID int, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := options{ctx: context.Background()}
	for _, fn := range opts {
		fn(&o)
	}
	if !g.HasNode(startID) {
		return nil, ErrStartVertexNotFound
	}

	res := &Result{
		Parent:  make(map[int]int),
		Visited: make(map[int]bool),
	}
	w := &walker{graph: g, opts: o, res: res}
	err := w.traverse(startID)
	if errors.Is(err, ErrStop) {
		return res, nil
	}

	return res, err
}

// traverse visits id and recurses into its unvisited successors.
func (w *walker) traverse(id int) error {
	if err := w.opts.ctx.Err(); err != nil {
		return err
	}

	w.res.Visited[id] = true
	w.res.Preorder = append(w.res.Preorder, id)
	if w.opts.onVisit != nil {
		if err := w.opts.onVisit(id); err != nil {
			return fmt.Errorf("dfs: OnVisit hook for %d: %w", id, err)
		}
	}

	for _, nid := range w.graph.Successors(id) {
		if nid == id || w.res.Visited[nid] {
			continue
		}
		w.res.Parent[nid] = id
		if err := w.traverse(nid); err != nil {
			return err
		}
	}

	return nil
}
