package proj

import (
	"errors"
	"math"
)

// WGS84 ellipsoid axes in meters.
const (
	WGS84A = 6378137.0
	WGS84B = 6356752.314245
)

// EarthRadius is the mean spherical earth radius in meters.
const EarthRadius = 6371229.0

// Errors returned by projection constructors.
var (
	// ErrInvalidParameters is returned when projection parameters cannot
	// define a valid projection (for example standard parallels that are
	// symmetric about the equator).
	ErrInvalidParameters = errors.New("proj: invalid projection parameters")

	// ErrUnsupported is returned for parameter combinations the
	// implementation does not cover.
	ErrUnsupported = errors.New("proj: unsupported projection configuration")
)

// Projection maps between geographic and projected coordinates.
//
// With inverse false, (a, b) is (longitude, latitude) in degrees and the
// result is the projected (x, y). With inverse true the roles are swapped.
// Implementations are pure and safe for concurrent use.
type Projection interface {
	Transform(a, b float64, inverse bool) (float64, float64)
}

// Func adapts an ordinary function to the Projection interface.
type Func func(a, b float64, inverse bool) (float64, float64)

// Transform calls f(a, b, inverse).
func (f Func) Transform(a, b float64, inverse bool) (float64, float64) {
	return f(a, b, inverse)
}

// Identity is the plate carrée projection: projected coordinates are
// geographic coordinates.
type Identity struct{}

// Transform returns (a, b) unchanged in both directions.
func (Identity) Transform(a, b float64, _ bool) (float64, float64) {
	return a, b
}

// NormalizeLon wraps a longitude in degrees into (-180, 180].
// NaN and infinities propagate as NaN.
func NormalizeLon(lon float64) float64 {
	return lon - 360*math.Ceil((lon-180)/360)
}

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }

// ellipsoid returns the axes with WGS84 substituted for zero values.
func ellipsoid(a, b float64) (float64, float64) {
	if a == 0 {
		a = WGS84A
	}
	if b == 0 {
		b = WGS84B
	}
	return a, b
}

// clampUnit clamps x into [-1, 1] so that rounding noise does not turn an
// asin or acos argument into NaN. NaN passes through.
func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
