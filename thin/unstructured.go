package thin

import (
	"fmt"
	"math"

	"github.com/gogpu/geofield/internal/kdindex"
)

// DefaultMaxZoom is the deepest zoom the unstructured recursion resolves
// when the caller does not supply one.
const DefaultMaxZoom = 24

// Unstructured returns the zoom map of scattered points given in normalized
// web-Mercator coordinates.
//
// The unit square is visited recursively, starting at depth 0. In each
// cell the point nearest the cell centre that has no zoom yet is assigned
// max(depth-log2(thinFac), 0). When a second unassigned point exists in the
// cell, the cell is split into quadrants and each is visited at depth+1.
// Recursion stops at depth maxZoom+log2(thinFac); points still unassigned
// there, and points with NaN coordinates, receive maxZoom.
//
// Coordinates outside [0, 1] are clamped onto the square. Every point
// receives exactly one zoom.
func Unstructured(xs, ys []float64, thinFac, maxZoom int) ([]uint8, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("thin: coordinate length mismatch: %d x values, %d y values", len(xs), len(ys))
	}
	offset, err := ThinLog2(thinFac)
	if err != nil {
		return nil, err
	}
	if maxZoom <= 0 {
		maxZoom = DefaultMaxZoom
	}
	if maxZoom > math.MaxUint8 {
		maxZoom = math.MaxUint8
	}

	cx := make([]float64, len(xs))
	cy := make([]float64, len(ys))
	for i := range xs {
		cx[i] = clamp01(xs[i])
		cy[i] = clamp01(ys[i])
	}

	t := &thinner{
		index:    kdindex.New(cx, cy),
		assigned: make([]bool, len(xs)),
		zoom:     make([]uint8, len(xs)),
		offset:   offset,
		maxDepth: maxZoom + offset,
		maxZoom:  uint8(maxZoom),
	}
	t.visit(0, 0, 1, 0)

	for i, done := range t.assigned {
		if !done {
			t.zoom[i] = t.maxZoom
		}
	}
	return t.zoom, nil
}

type thinner struct {
	index    *kdindex.Index
	assigned []bool
	zoom     []uint8
	offset   int
	maxDepth int
	maxZoom  uint8

	// scratch holds the unassigned points of the cell being visited.
	scratch []int
}

func (t *thinner) visit(x0, y0, size float64, depth int) {
	cx, cy := x0+size/2, y0+size/2

	first, second := -1, -1
	var d1, d2 float64
	t.scratch = t.scratch[:0]

	t.index.Within(x0, y0, x0+size, y0+size, func(idx int, x, y float64) bool {
		if t.assigned[idx] {
			return false
		}
		t.scratch = append(t.scratch, idx)
		d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
		switch {
		case first < 0 || d < d1 || (d == d1 && idx < first):
			second, d2 = first, d1
			first, d1 = idx, d
		case second < 0 || d < d2 || (d == d2 && idx < second):
			second, d2 = idx, d
		}
		return false
	})

	if first < 0 {
		return
	}

	if depth >= t.maxDepth {
		for _, idx := range t.scratch {
			t.assign(idx, depth)
		}
		return
	}

	t.assign(first, depth)
	if second < 0 {
		return
	}

	half := size / 2
	t.visit(x0, y0, half, depth+1)
	t.visit(x0+half, y0, half, depth+1)
	t.visit(x0, y0+half, half, depth+1)
	t.visit(x0+half, y0+half, half, depth+1)
}

func (t *thinner) assign(idx, depth int) {
	z := depth - t.offset
	if z < 0 {
		z = 0
	}
	t.assigned[idx] = true
	t.zoom[idx] = uint8(z)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return v
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
