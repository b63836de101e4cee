package tess

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// extrusionEpsilon replaces the segment length of degenerate segments so
// that normals stay finite.
const extrusionEpsilon = 1e-10

var (
	// ErrDegenerateLine is returned for a line with fewer than two vertices.
	ErrDegenerateLine = errors.New("tess: line needs at least two vertices")

	// ErrAttributeMismatch is returned when optional attributes are present
	// on some lines but not others, or do not match the vertex count.
	ErrAttributeMismatch = errors.New("tess: attribute length mismatch")
)

// LineString is one polyline to tessellate.
type LineString struct {
	// Vertices is the line path in web-Mercator coordinates.
	Vertices []r2.Vec

	// Offsets, when set, is a second path of the same length that drives
	// the extrusion direction instead of Vertices (for example a glyph
	// outline in screen space anchored at a fixed point).
	Offsets []r2.Vec

	// Data is an optional per-vertex scalar.
	Data []float32

	// Zoom is the line's zoom or level value, broadcast to all of its
	// vertices when HasZoom is set.
	Zoom    float32
	HasZoom bool
}

// LineData holds the tessellated triangle strip for a set of polylines.
// Each line with V vertices contributes 4V-2 vertices.
type LineData struct {
	// Vertices is x, y and the cumulative arc length, negated on the right
	// edge of the ribbon. 3 floats per vertex.
	Vertices []float32

	// Extrusion is the unit left normal of the segment, 2 floats per vertex.
	Extrusion []float32

	// Offsets is the offset path, 2 floats per vertex, or nil.
	Offsets []float32

	// Data is the per-vertex scalar, 1 float per vertex, or nil.
	Data []float32

	// Zoom is the per-line zoom, 1 float per vertex, or nil.
	Zoom []float32

	// VertexCount is the number of strip vertices.
	VertexCount int
}

// PolylineVertexCount returns the strip vertex count for lines of the given
// vertex counts: 4*sum(V) - 2*len(counts).
func PolylineVertexCount(counts ...int) int {
	n := 0
	for _, v := range counts {
		n += 4*v - 2
	}
	return n
}

// Polylines tessellates lines into one triangle strip.
//
// Each segment becomes a butt-ended quad: its two end vertices are emitted
// twice, once on each side of the line. Every line starts and ends with a
// repeated vertex so consecutive lines are joined by degenerate triangles.
//
// Input is validated before anything is allocated; on error the result is
// nil. An empty input returns empty buffers.
func Polylines(lines []LineString) (*LineData, error) {
	hasOffsets, hasData, hasZoom, err := validateLines(lines)
	if err != nil {
		return nil, err
	}

	n := 0
	for _, l := range lines {
		n += 4*len(l.Vertices) - 2
	}

	ld := &LineData{
		Vertices:    make([]float32, 0, 3*n),
		Extrusion:   make([]float32, 0, 2*n),
		VertexCount: n,
	}
	if hasOffsets {
		ld.Offsets = make([]float32, 0, 2*n)
	}
	if hasData {
		ld.Data = make([]float32, 0, n)
	}
	if hasZoom {
		ld.Zoom = make([]float32, 0, n)
	}

	for i := range lines {
		ld.appendLine(&lines[i])
	}
	return ld, nil
}

func validateLines(lines []LineString) (hasOffsets, hasData, hasZoom bool, err error) {
	if len(lines) == 0 {
		return false, false, false, nil
	}
	hasOffsets = lines[0].Offsets != nil
	hasData = lines[0].Data != nil
	hasZoom = lines[0].HasZoom

	for i, l := range lines {
		v := len(l.Vertices)
		if v < 2 {
			return false, false, false, fmt.Errorf("%w: line %d has %d", ErrDegenerateLine, i, v)
		}
		if (l.Offsets != nil) != hasOffsets || (l.Data != nil) != hasData || l.HasZoom != hasZoom {
			return false, false, false, fmt.Errorf("%w: line %d attributes differ from line 0", ErrAttributeMismatch, i)
		}
		if hasOffsets && len(l.Offsets) != v {
			return false, false, false, fmt.Errorf("%w: line %d has %d vertices and %d offsets", ErrAttributeMismatch, i, v, len(l.Offsets))
		}
		if hasData && len(l.Data) != v {
			return false, false, false, fmt.Errorf("%w: line %d has %d vertices and %d data values", ErrAttributeMismatch, i, v, len(l.Data))
		}
	}
	return hasOffsets, hasData, hasZoom, nil
}

// segmentNormal returns the left normal of b-a, scaled by 1/|b-a| with the
// length floored at extrusionEpsilon.
func segmentNormal(a, b r2.Vec) r2.Vec {
	d := r2.Sub(b, a)
	length := r2.Norm(d)
	if length < extrusionEpsilon {
		length = extrusionEpsilon
	}
	return r2.Scale(1/length, r2.Vec{X: -d.Y, Y: d.X})
}

func (ld *LineData) appendLine(l *LineString) {
	path := l.Vertices
	flip := 1.0
	if l.Offsets != nil {
		path = l.Offsets
		flip = -1
	}

	last := len(l.Vertices) - 1
	dist := 0.0

	// Leading repeat: identical to the first strip vertex.
	n0 := r2.Scale(flip, segmentNormal(path[0], path[1]))
	ld.emit(l, 0, n0, dist)

	var n r2.Vec
	for k := 0; k < last; k++ {
		n = r2.Scale(flip, segmentNormal(path[k], path[k+1]))
		next := dist + r2.Norm(r2.Sub(l.Vertices[k+1], l.Vertices[k]))

		ld.emit(l, k, n, dist)
		ld.emit(l, k, r2.Scale(-1, n), -dist)
		ld.emit(l, k+1, n, next)
		ld.emit(l, k+1, r2.Scale(-1, n), -next)
		dist = next
	}

	// Trailing repeat: identical to the last strip vertex.
	ld.emit(l, last, r2.Scale(-1, n), -dist)
}

func (ld *LineData) emit(l *LineString, k int, ext r2.Vec, dist float64) {
	p := l.Vertices[k]
	ld.Vertices = append(ld.Vertices, float32(p.X), float32(p.Y), float32(dist))
	ld.Extrusion = append(ld.Extrusion, float32(ext.X), float32(ext.Y))
	if ld.Offsets != nil {
		o := l.Offsets[k]
		ld.Offsets = append(ld.Offsets, float32(o.X), float32(o.Y))
	}
	if ld.Data != nil {
		ld.Data = append(ld.Data, l.Data[k])
	}
	if ld.Zoom != nil {
		ld.Zoom = append(ld.Zoom, l.Zoom)
	}
}
