package tess

import (
	"fmt"
	"math"

	"github.com/gogpu/geofield/proj"
)

// Mesh is a triangle strip covering a structured grid domain.
type Mesh struct {
	// Positions is the web-Mercator vertex position, 2 floats per vertex.
	Positions []float32

	// TexCoords is the data texture coordinate, 2 floats per vertex, inset
	// by half a data cell on every edge.
	TexCoords []float32

	// VertexCount is the number of strip vertices.
	VertexCount int
}

// Margins returns the texture-coordinate insets 1/(2·ni) and 1/(2·nj) that
// put the outermost mesh vertices on texel centres of an ni × nj data
// texture.
func Margins(ni, nj int) (r, s float64) {
	return 1 / (2 * float64(ni)), 1 / (2 * float64(nj))
}

// MeshVertexCount returns the strip vertex count of an ni × nj domain mesh.
func MeshVertexCount(ni, nj int) int {
	if ni < 2 || nj < 2 {
		return 0
	}
	return 2*nj*(ni-1) + 2*(ni-2)
}

// DomainMesh builds a triangle strip over the ni × nj mesh points given by
// lons and lats (row-major). dataNi and dataNj are the dimensions of the
// data texture sampled through the mesh; they set the texture-coordinate
// margins and may differ from the mesh resolution.
//
// The strip walks one column of quads at a time from south to north. Two
// repeated vertices join consecutive columns with degenerate triangles.
func DomainMesh(lons, lats []float64, ni, nj, dataNi, dataNj int) (*Mesh, error) {
	if ni < 2 || nj < 2 {
		return nil, fmt.Errorf("%w: mesh needs at least 2x2 points, got %dx%d", ErrShapeMismatch, ni, nj)
	}
	if len(lons) != ni*nj || len(lats) != ni*nj {
		return nil, fmt.Errorf("%w: %dx%d mesh with %d lons, %d lats", ErrShapeMismatch, ni, nj, len(lons), len(lats))
	}
	if dataNi <= 0 || dataNj <= 0 {
		return nil, fmt.Errorf("%w: data texture %dx%d", ErrShapeMismatch, dataNi, dataNj)
	}

	marginR, marginS := Margins(dataNi, dataNj)
	n := MeshVertexCount(ni, nj)
	m := &Mesh{
		Positions:   make([]float32, 0, 2*n),
		TexCoords:   make([]float32, 0, 2*n),
		VertexCount: n,
	}

	// Project once; each interior column is visited twice.
	xs := make([]float32, ni*nj)
	ys := make([]float32, ni*nj)
	for idx := range lons {
		x, y := proj.Mercator(lons[idx], lats[idx])
		xs[idx], ys[idx] = float32(x), float32(y)
	}
	texU := func(i int) float32 {
		return float32(marginR + (1-2*marginR)*float64(i)/float64(ni-1))
	}
	texV := func(j int) float32 {
		return float32(marginS + (1-2*marginS)*float64(j)/float64(nj-1))
	}
	emit := func(i, j int) {
		idx := j*ni + i
		m.Positions = append(m.Positions, xs[idx], ys[idx])
		m.TexCoords = append(m.TexCoords, texU(i), texV(j))
	}

	for i := 0; i < ni-1; i++ {
		if i > 0 {
			// Close the previous column and open this one.
			emit(i, nj-1)
			emit(i, 0)
		}
		for j := 0; j < nj; j++ {
			emit(i, j)
			emit(i+1, j)
		}
	}
	return m, nil
}

// HasNaN reports whether any mesh position is NaN, which happens when part
// of the domain is outside the projection's valid area.
func (m *Mesh) HasNaN() bool {
	for _, v := range m.Positions {
		if math.IsNaN(float64(v)) {
			return true
		}
	}
	return false
}
