// Package kdindex wraps a gonum k-d tree over 2D points that remember their
// position in the caller's arrays.
package kdindex

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// point is a 2D point tagged with its index in the source arrays.
type point struct {
	x, y float64
	idx  int
}

// Compare implements kdtree.Comparable.
func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(point)
	if d == 0 {
		return p.x - q.x
	}
	return p.y - q.y
}

// Dims implements kdtree.Comparable.
func (point) Dims() int { return 2 }

// Distance returns the squared Euclidean distance to c.
func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

type points []point

func (p points) Index(i int) kdtree.Comparable         { return p[i] }
func (p points) Len() int                              { return len(p) }
func (p points) Pivot(d kdtree.Dim) int                { return plane{Dim: d, points: p}.Pivot() }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane sorts points along one dimension for median partitioning.
type plane struct {
	kdtree.Dim
	points
}

func (p plane) Less(i, j int) bool {
	if p.Dim == 0 {
		return p.points[i].x < p.points[j].x
	}
	return p.points[i].y < p.points[j].y
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{Dim: p.Dim, points: p.points[start:end]}
}
func (p plane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }

// Index is a static k-d tree over a set of 2D points. Points with NaN
// coordinates are left out of the tree.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// New builds an index over (xs[i], ys[i]). xs and ys must have equal
// length; the caller checks this.
func New(xs, ys []float64) *Index {
	pts := make(points, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, point{x: xs[i], y: ys[i], idx: i})
	}
	ix := &Index{n: len(pts)}
	if len(pts) > 0 {
		ix.tree = kdtree.New(pts, false)
	}
	return ix
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return ix.n }

// Nearest returns the source index of the point closest to (x, y) and the
// squared distance to it. It returns -1 when the index is empty.
func (ix *Index) Nearest(x, y float64) (int, float64) {
	if ix.tree == nil || math.IsNaN(x) || math.IsNaN(y) {
		return -1, math.Inf(1)
	}
	c, d := ix.tree.Nearest(point{x: x, y: y})
	if c == nil {
		return -1, math.Inf(1)
	}
	return c.(point).idx, d
}

// Within calls fn for every point inside the closed box
// [x0, x1] × [y0, y1]. Iteration stops early when fn returns true.
func (ix *Index) Within(x0, y0, x1, y1 float64, fn func(idx int, x, y float64) (done bool)) {
	if ix.tree == nil {
		return
	}
	b := &kdtree.Bounding{Min: point{x: x0, y: y0}, Max: point{x: x1, y: y1}}
	ix.tree.DoBounded(b, func(c kdtree.Comparable, _ *kdtree.Bounding, _ int) bool {
		p := c.(point)
		return fn(p.idx, p.x, p.y)
	})
}
