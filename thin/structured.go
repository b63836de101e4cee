package thin

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidThinFactor is returned when a thinning factor is not a
// positive power of two.
var ErrInvalidThinFactor = errors.New("thin: thinning factor must be a positive power of two")

// ThinLog2 returns log2(thinFac), or an error if thinFac is not a positive
// power of two.
func ThinLog2(thinFac int) (int, error) {
	if thinFac <= 0 || thinFac&(thinFac-1) != 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidThinFactor, thinFac)
	}
	return bits.TrailingZeros(uint(thinFac)), nil
}

// StructuredZoom returns the minimum visible zoom of point (i, j) on a
// structured grid thinned by thinFac.
//
// Every thinFac-th point along both axes is visible from zoom 1; each
// further zoom halves the lattice spacing, down to zoom 1+log2(thinFac)
// where every point is visible. thinFac must be a power of two.
func StructuredZoom(i, j, thinFac int) uint8 {
	zoom := uint8(1)
	thin := thinFac
	for thin > 1 && (i%thin != 0 || j%thin != 0) {
		zoom++
		thin /= 2
	}
	return zoom
}

// Structured returns the zoom map of an ni × nj grid in row-major order
// (index j*ni + i).
func Structured(ni, nj, thinFac int) ([]uint8, error) {
	if _, err := ThinLog2(thinFac); err != nil {
		return nil, err
	}
	if ni <= 0 || nj <= 0 {
		return nil, fmt.Errorf("thin: invalid grid shape %dx%d", ni, nj)
	}

	zoom := make([]uint8, ni*nj)
	for j := 0; j < nj; j++ {
		row := zoom[j*ni : (j+1)*ni]
		for i := range row {
			row[i] = StructuredZoom(i, j, thinFac)
		}
	}
	return zoom, nil
}

// StructuredStride returns the lattice spacing of the points visible at
// maxZoom, i.e. max(1, thinFac >> (maxZoom-1)).
func StructuredStride(thinFac, maxZoom int) int {
	if maxZoom < 1 {
		return thinFac
	}
	shift := maxZoom - 1
	if shift >= bits.UintSize-1 {
		return 1
	}
	stride := thinFac >> shift
	if stride < 1 {
		return 1
	}
	return stride
}
