package proj

import (
	"fmt"
	"math"
)

// Geostationary is the ellipsoidal view from a satellite parked above the
// equator, as used for fixed-viewpoint imagery grids.
//
// Projected coordinates are scan angles multiplied by the satellite height
// above the ellipsoid, in meters, with the sweep angle axis along x (the
// GOES convention). Points that are not visible from the satellite project
// to NaN.
type Geostationary struct {
	lon0       float64 // degrees
	a          float64
	height     float64
	radiusG    float64 // distance from earth centre to satellite, in units of a
	radiusG1   float64 // height / a
	radiusP    float64 // b / a
	radiusP2   float64
	radiusPInv float64 // (a / b)^2
	c          float64
}

// VerticalPerspective creates a geostationary satellite-view projection.
//
// altitude is the satellite height above the ellipsoid in meters. a and b
// are the ellipsoid axes; zero values select WGS84. The satellite must sit
// above the equator: a non-zero lat0 returns ErrUnsupported.
func VerticalPerspective(lon0, lat0, altitude, a, b float64) (*Geostationary, error) {
	if lat0 != 0 {
		return nil, fmt.Errorf("%w: sub-satellite latitude %g (must be 0)", ErrUnsupported, lat0)
	}
	if altitude <= 0 {
		return nil, fmt.Errorf("%w: altitude %g", ErrInvalidParameters, altitude)
	}
	a, b = ellipsoid(a, b)
	if b > a || b <= 0 {
		return nil, fmt.Errorf("%w: ellipsoid axes a=%g b=%g", ErrInvalidParameters, a, b)
	}

	g := &Geostationary{
		lon0:     lon0,
		a:        a,
		height:   altitude,
		radiusG1: altitude / a,
		radiusP:  b / a,
	}
	g.radiusG = 1 + g.radiusG1
	g.radiusP2 = g.radiusP * g.radiusP
	g.radiusPInv = 1 / g.radiusP2
	g.c = g.radiusG*g.radiusG - 1
	return g, nil
}

// Height returns the satellite height above the ellipsoid in meters.
func (g *Geostationary) Height() float64 { return g.height }

// Transform implements Projection.
func (g *Geostationary) Transform(a, b float64, inverse bool) (float64, float64) {
	if inverse {
		return g.inverse(a, b)
	}
	return g.forward(a, b)
}

func (g *Geostationary) forward(lon, lat float64) (float64, float64) {
	lam := toRad(NormalizeLon(lon - g.lon0))
	// Geodetic to geocentric latitude.
	phi := math.Atan(g.radiusP2 * math.Tan(toRad(lat)))

	r := g.radiusP / math.Hypot(g.radiusP*math.Cos(phi), math.Sin(phi))
	vx := r * math.Cos(lam) * math.Cos(phi)
	vy := r * math.Sin(lam) * math.Cos(phi)
	vz := r * math.Sin(phi)

	if (g.radiusG-vx)*vx-vy*vy-vz*vz*g.radiusPInv < 0 {
		return math.NaN(), math.NaN()
	}

	tmp := g.radiusG - vx
	x := g.radiusG1 * math.Atan(vy/math.Hypot(vz, tmp))
	y := g.radiusG1 * math.Atan(vz/tmp)
	return x * g.a, y * g.a
}

func (g *Geostationary) inverse(x, y float64) (float64, float64) {
	x /= g.a
	y /= g.a

	vx := -1.0
	vz := math.Tan(y / g.radiusG1)
	vy := math.Tan(x/g.radiusG1) * math.Hypot(1, vz)

	qa := vz / g.radiusP
	qa = vy*vy + qa*qa + vx*vx
	qb := 2 * g.radiusG * vx
	det := qb*qb - 4*qa*g.c
	if det < 0 {
		return math.NaN(), math.NaN()
	}

	k := (-qb - math.Sqrt(det)) / (2 * qa)
	vx = g.radiusG + k*vx
	vy *= k
	vz *= k

	lam := math.Atan2(vy, vx)
	phi := math.Atan(vz * math.Cos(lam) / vx)
	phi = math.Atan(g.radiusPInv * math.Tan(phi))
	return NormalizeLon(toDeg(lam) + g.lon0), toDeg(phi)
}
