package tess

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/geofield/proj"
)

// ErrShapeMismatch is returned when coordinate or attribute arrays do not
// match the declared grid shape.
var ErrShapeMismatch = errors.New("tess: array length does not match grid shape")

// BillboardData holds one point-sprite vertex per visible point.
type BillboardData struct {
	// Positions is the web-Mercator anchor, 2 floats per point.
	Positions []float32

	// TexCoords packs the data lookup and visibility into one pair:
	// u = zoom + (i+0.5)/ni and v = (j+0.5)/nj. The integer part of u is
	// the point's minimum visible zoom, the fractional part the normalized
	// column of its texel.
	TexCoords []float32

	// Index is the source point index, j*ni + i, of each sprite.
	Index []uint32

	// Count is the number of sprites.
	Count int
}

// Billboards emits sprites for the points of an ni × nj grid whose minimum
// visible zoom does not exceed maxZoom. lons, lats and zoom are row-major
// with ni*nj entries; points with NaN coordinates are skipped.
//
// Scattered point sets are passed as ni = len(points), nj = 1.
func Billboards(lons, lats []float64, zoom []uint8, ni, nj, maxZoom int) (*BillboardData, error) {
	n := ni * nj
	if ni <= 0 || nj <= 0 {
		return nil, fmt.Errorf("%w: shape %dx%d", ErrShapeMismatch, ni, nj)
	}
	if len(lons) != n || len(lats) != n || len(zoom) != n {
		return nil, fmt.Errorf("%w: %dx%d grid with %d lons, %d lats, %d zooms",
			ErrShapeMismatch, ni, nj, len(lons), len(lats), len(zoom))
	}

	count := 0
	for idx, z := range zoom {
		if int(z) <= maxZoom && !math.IsNaN(lons[idx]) && !math.IsNaN(lats[idx]) {
			count++
		}
	}

	bb := &BillboardData{
		Positions: make([]float32, 0, 2*count),
		TexCoords: make([]float32, 0, 2*count),
		Index:     make([]uint32, 0, count),
		Count:     count,
	}
	for j := 0; j < nj; j++ {
		v := (float64(j) + 0.5) / float64(nj)
		for i := 0; i < ni; i++ {
			idx := j*ni + i
			z := zoom[idx]
			if int(z) > maxZoom || math.IsNaN(lons[idx]) || math.IsNaN(lats[idx]) {
				continue
			}
			x, y := proj.Mercator(lons[idx], lats[idx])
			u := float64(z) + (float64(i)+0.5)/float64(ni)
			bb.Positions = append(bb.Positions, float32(x), float32(y))
			bb.TexCoords = append(bb.TexCoords, float32(u), float32(v))
			bb.Index = append(bb.Index, uint32(idx))
		}
	}
	return bb, nil
}

// UnpackTexCoord splits a packed billboard u coordinate into the minimum
// visible zoom and the normalized column.
func UnpackTexCoord(u float32) (zoom int, column float32) {
	z := math.Floor(float64(u))
	return int(z), float32(float64(u) - z)
}
