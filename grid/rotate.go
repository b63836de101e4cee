package grid

import (
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/geofield"
)

// RotateToEarth converts grid-relative vector components to earth-relative
// (east, north) components.
//
// With β the bearing of grid north at a point,
//
//	east  =  u·cos β + v·sin β
//	north = -u·sin β + v·cos β
//
// Grids that are not conformal have no single local rotation. For those a
// warning is logged and copies of u and v are returned unrotated.
func RotateToEarth(g Grid, u, v []float32) (east, north []float32, err error) {
	ni, nj := g.Shape()
	if len(u) != ni*nj || len(v) != ni*nj {
		return nil, nil, fmt.Errorf("%w: %d u, %d v values for %dx%d grid", ErrDataLength, len(u), len(v), ni, nj)
	}

	r, ok := g.(Rotatable)
	if !ok || !g.IsConformal() {
		geofield.Logger().Warn("grid: vectors left grid-relative on non-conformal grid", "kind", g.Kind())
		return slices.Clone(u), slices.Clone(v), nil
	}
	rot, err := r.VectorRotation()
	if err != nil {
		return nil, nil, err
	}

	east = make([]float32, len(u))
	north = make([]float32, len(v))
	for i := range u {
		sin, cos := math.Sincos(float64(rot[i]))
		uu, vv := float64(u[i]), float64(v[i])
		east[i] = float32(uu*cos + vv*sin)
		north[i] = float32(-uu*sin + vv*cos)
	}
	return east, north, nil
}
