package proj

import "math"

// RotatedSphere is a spherical rotation that moves the north pole to
// (npLon, npLat) and shifts the resulting longitudes by lonShift.
//
// Forward takes geographic (lon, lat) to rotated (lon, lat); inverse takes
// rotated coordinates back to geographic ones. Both return longitudes in
// (-180, 180].
type RotatedSphere struct {
	npLon    float64 // radians
	lonShift float64 // degrees
	sinPole  float64
	cosPole  float64
}

// RotateSphere creates a rotated-pole transform. npLon and npLat are the
// geographic coordinates, in degrees, of the rotated north pole.
func RotateSphere(npLon, npLat, lonShift float64) *RotatedSphere {
	phi := toRad(npLat)
	return &RotatedSphere{
		npLon:    toRad(npLon),
		lonShift: lonShift,
		sinPole:  math.Sin(phi),
		cosPole:  math.Cos(phi),
	}
}

// Transform implements Projection.
func (r *RotatedSphere) Transform(a, b float64, inverse bool) (float64, float64) {
	if inverse {
		return r.inverse(a, b)
	}
	return r.forward(a, b)
}

func (r *RotatedSphere) forward(lon, lat float64) (float64, float64) {
	lam := toRad(lon) - r.npLon
	phi := toRad(lat)

	x := math.Cos(phi) * math.Cos(lam)
	y := math.Cos(phi) * math.Sin(lam)
	z := math.Sin(phi)

	// Rotate about the y axis so the pole lands on +z.
	xr := x*r.sinPole - z*r.cosPole
	zr := x*r.cosPole + z*r.sinPole

	rlon := toDeg(math.Atan2(y, xr)) + r.lonShift
	rlat := toDeg(math.Asin(clampUnit(zr)))
	return NormalizeLon(rlon), rlat
}

func (r *RotatedSphere) inverse(rlon, rlat float64) (float64, float64) {
	lam := toRad(rlon - r.lonShift)
	phi := toRad(rlat)

	xr := math.Cos(phi) * math.Cos(lam)
	y := math.Cos(phi) * math.Sin(lam)
	zr := math.Sin(phi)

	x := xr*r.sinPole + zr*r.cosPole
	z := -xr*r.cosPole + zr*r.sinPole

	lon := toDeg(math.Atan2(y, x) + r.npLon)
	lat := toDeg(math.Asin(clampUnit(z)))
	return NormalizeLon(lon), lat
}
