package tess

import (
	"fmt"
	"math"
)

// MissingCell marks a glyph whose magnitude could not be quantized.
const MissingCell = math.MaxUint8

// AtlasSpec describes a texture atlas of glyphs indexed by magnitude.
type AtlasSpec struct {
	// Bucket is the magnitude step between adjacent atlas cells
	// (5 for wind barbs in knots).
	Bucket float64

	// PerRow is the number of cells in one atlas row.
	PerRow int
}

// DefaultBarbAtlas is the wind-barb atlas: 5-knot buckets, 6 per row.
var DefaultBarbAtlas = AtlasSpec{Bucket: 5, PerRow: 6}

// AtlasCell returns the atlas cell of a magnitude: the magnitude is rounded
// to the nearest bucket and the bucket index wrapped into rows of perRow.
// Negative magnitudes use their absolute value.
//
// A non-finite magnitude, a bucket that is not positive and finite, or
// perRow < 1 gives (MissingCell, MissingCell). Rows past the atlas clamp to
// MissingCell-1.
func AtlasCell(magnitude, bucket float64, perRow int) (col, row int) {
	if perRow < 1 || !(bucket > 0) || math.IsInf(bucket, 0) {
		return MissingCell, MissingCell
	}
	q := math.Round(math.Abs(magnitude) / bucket)
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return MissingCell, MissingCell
	}
	maxIdx := float64(perRow)*MissingCell - 1
	if q > maxIdx {
		return perRow - 1, MissingCell - 1
	}
	idx := int(q)
	return idx % perRow, idx / perRow
}

// GlyphData holds quantized glyph cells and orientations.
type GlyphData struct {
	// Cells is (column, row) per point, MissingCell for NaN vectors.
	Cells []uint8

	// Rotation is the direction of each vector in radians, counter-clockwise
	// from east.
	Rotation []float32
}

// Glyphs quantizes vector components into atlas cells and orientations.
func Glyphs(u, v []float32, atlas AtlasSpec) (*GlyphData, error) {
	if len(u) != len(v) {
		return nil, fmt.Errorf("%w: %d u components, %d v components", ErrShapeMismatch, len(u), len(v))
	}
	if !(atlas.Bucket > 0) || math.IsInf(atlas.Bucket, 0) || atlas.PerRow <= 0 {
		return nil, fmt.Errorf("tess: invalid atlas bucket %g, per row %d", atlas.Bucket, atlas.PerRow)
	}

	g := &GlyphData{
		Cells:    make([]uint8, 2*len(u)),
		Rotation: make([]float32, len(u)),
	}
	for i := range u {
		uu, vv := float64(u[i]), float64(v[i])
		mag := math.Hypot(uu, vv)
		if math.IsNaN(mag) || math.IsInf(mag, 0) {
			g.Cells[2*i], g.Cells[2*i+1] = MissingCell, MissingCell
			g.Rotation[i] = float32(math.NaN())
			continue
		}
		col, row := AtlasCell(mag, atlas.Bucket, atlas.PerRow)
		if col >= MissingCell {
			col = MissingCell - 1
		}
		g.Cells[2*i] = uint8(col)
		g.Cells[2*i+1] = uint8(row)
		g.Rotation[i] = float32(math.Atan2(vv, uu))
	}
	return g, nil
}
