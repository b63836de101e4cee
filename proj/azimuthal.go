package proj

import "math"

// AzimuthalEquidistant is a spherical azimuth/range projection centered on
// a site, used for radar sweeps.
//
// Forward maps (lon, lat) to (azimuth, range): azimuth in degrees clockwise
// from true north in [0, 360), range along the great circle in meters.
type AzimuthalEquidistant struct {
	lon0, lat0 float64 // radians
	radius     float64
	sinLat0    float64
	cosLat0    float64
}

// NewAzimuthalEquidistant creates a projection centered on (lon0, lat0).
// radius is the sphere radius in meters; zero selects EarthRadius.
func NewAzimuthalEquidistant(lon0, lat0, radius float64) *AzimuthalEquidistant {
	if radius == 0 {
		radius = EarthRadius
	}
	phi0 := toRad(lat0)
	return &AzimuthalEquidistant{
		lon0:    toRad(lon0),
		lat0:    phi0,
		radius:  radius,
		sinLat0: math.Sin(phi0),
		cosLat0: math.Cos(phi0),
	}
}

// Transform implements Projection.
func (p *AzimuthalEquidistant) Transform(a, b float64, inverse bool) (float64, float64) {
	if inverse {
		return p.inverse(a, b)
	}
	return p.forward(a, b)
}

func (p *AzimuthalEquidistant) forward(lon, lat float64) (float64, float64) {
	phi := toRad(lat)
	dlam := toRad(lon) - p.lon0

	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)

	// Haversine central angle.
	h := math.Sin((phi-p.lat0)/2)*math.Sin((phi-p.lat0)/2) +
		p.cosLat0*cosPhi*math.Sin(dlam/2)*math.Sin(dlam/2)
	delta := 2 * math.Asin(math.Sqrt(clampUnit(h)))

	az := math.Atan2(math.Sin(dlam)*cosPhi, p.cosLat0*sinPhi-p.sinLat0*cosPhi*math.Cos(dlam))
	azDeg := math.Mod(toDeg(az)+360, 360)
	return azDeg, delta * p.radius
}

func (p *AzimuthalEquidistant) inverse(az, rng float64) (float64, float64) {
	theta := toRad(az)
	delta := rng / p.radius

	sinDelta, cosDelta := math.Sin(delta), math.Cos(delta)
	sinPhi := p.sinLat0*cosDelta + p.cosLat0*sinDelta*math.Cos(theta)
	phi := math.Asin(clampUnit(sinPhi))
	lam := p.lon0 + math.Atan2(math.Sin(theta)*sinDelta*p.cosLat0, cosDelta-p.sinLat0*sinPhi)
	return NormalizeLon(toDeg(lam)), toDeg(phi)
}
