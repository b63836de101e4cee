package proj

import (
	"fmt"
	"math"
)

// LambertConformal is an ellipsoidal Lambert conformal conic projection.
//
// Forward maps (lon, lat) in degrees to (x, y) in meters relative to the
// projection origin (lon0, lat0). The inverse recovers latitude from the
// conformal latitude with the truncated series of Snyder (1987) eq. 3-5,
// which is accurate to well below 1e-8 degrees on the WGS84 ellipsoid.
type LambertConformal struct {
	lon0 float64 // radians
	a    float64
	e    float64
	n    float64
	f    float64
	rho0 float64

	// conformal-latitude series coefficients
	ap, bp, cp, dp float64
}

// LambertConformalConic creates a Lambert conformal conic projection.
//
// stdParallels holds one or two standard parallels in degrees. a and b are
// the ellipsoid semi-major and semi-minor axes in meters; zero values select
// WGS84.
func LambertConformalConic(lon0, lat0 float64, stdParallels []float64, a, b float64) (*LambertConformal, error) {
	if len(stdParallels) < 1 || len(stdParallels) > 2 {
		return nil, fmt.Errorf("%w: need 1 or 2 standard parallels, got %d", ErrInvalidParameters, len(stdParallels))
	}
	a, b = ellipsoid(a, b)
	if b > a || b <= 0 {
		return nil, fmt.Errorf("%w: ellipsoid axes a=%g b=%g", ErrInvalidParameters, a, b)
	}

	e2 := 1 - (b*b)/(a*a)
	e := math.Sqrt(e2)

	phi1 := toRad(stdParallels[0])
	phi2 := phi1
	if len(stdParallels) == 2 {
		phi2 = toRad(stdParallels[1])
	}

	m1, m2 := lccM(phi1, e2), lccM(phi2, e2)
	t1, t2 := lccT(phi1, e), lccT(phi2, e)

	var n float64
	if math.Abs(phi1-phi2) < 1e-12 {
		n = math.Sin(phi1)
	} else {
		n = (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	}
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, fmt.Errorf("%w: standard parallels %v give cone constant %g", ErrInvalidParameters, stdParallels, n)
	}

	f := m1 / (n * math.Pow(t1, n))
	e4 := e2 * e2
	e6 := e4 * e2
	e8 := e6 * e2

	p := &LambertConformal{
		lon0: toRad(lon0),
		a:    a,
		e:    e,
		n:    n,
		f:    f,
		rho0: a * f * math.Pow(lccT(toRad(lat0), e), n),
		ap:   e2/2 + 5*e4/24 + e6/12 + 13*e8/360,
		bp:   7*e4/48 + 29*e6/240 + 811*e8/11520,
		cp:   7*e6/120 + 81*e8/1120,
		dp:   4279 * e8 / 161280,
	}
	return p, nil
}

// ConeConstant returns n, the ratio of the angle between meridians on the
// map to the true angle between them.
func (p *LambertConformal) ConeConstant() float64 { return p.n }

// Transform implements Projection.
func (p *LambertConformal) Transform(a, b float64, inverse bool) (float64, float64) {
	if inverse {
		return p.inverse(a, b)
	}
	return p.forward(a, b)
}

func (p *LambertConformal) forward(lon, lat float64) (float64, float64) {
	rho := p.a * p.f * math.Pow(lccT(toRad(lat), p.e), p.n)
	dlon := toRad(NormalizeLon(lon - toDeg(p.lon0)))
	theta := p.n * dlon
	return rho * math.Sin(theta), p.rho0 - rho*math.Cos(theta)
}

func (p *LambertConformal) inverse(x, y float64) (float64, float64) {
	sign := 1.0
	if p.n < 0 {
		sign = -1
	}
	dy := p.rho0 - y
	rho := sign * math.Hypot(x, dy)
	t := math.Pow(rho/(p.a*p.f), 1/p.n)
	chi := math.Pi/2 - 2*math.Atan(t)

	phi := chi +
		p.ap*math.Sin(2*chi) +
		p.bp*math.Sin(4*chi) +
		p.cp*math.Sin(6*chi) +
		p.dp*math.Sin(8*chi)

	theta := math.Atan2(sign*x, sign*dy)
	lon := toDeg(theta/p.n + p.lon0)
	return NormalizeLon(lon), toDeg(phi)
}

// lccM is Snyder's m: cos(phi) / sqrt(1 - e^2 sin^2(phi)).
func lccM(phi, e2 float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-e2*s*s)
}

// lccT is Snyder's t: tan(pi/4 - phi/2) / ((1 - e sin phi) / (1 + e sin phi))^(e/2).
func lccT(phi, e float64) float64 {
	es := e * math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-es)/(1+es), e/2)
}
