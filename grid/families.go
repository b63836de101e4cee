package grid

import (
	"fmt"

	"github.com/gogpu/geofield/proj"
)

// PlateCarreeGrid is a regular longitude/latitude grid. Grid space is
// geographic, so Transform is the identity.
type PlateCarreeGrid struct {
	*structured
}

// NewPlateCarree creates an ni × nj lon/lat grid whose first and last
// points lie at ext (degrees). The longitude axis wraps every 360°.
func NewPlateCarree(ni, nj int, ext Extent) (*PlateCarreeGrid, error) {
	s, err := newStructured(KindPlateCarree, true, ni, nj, ext, proj.Identity{}, 360)
	if err != nil {
		return nil, err
	}
	s.rebuild = func(ni, nj int, ext Extent) (Grid, error) {
		g, err := NewPlateCarree(ni, nj, ext)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return &PlateCarreeGrid{structured: s}, nil
}

// RotatedPole defines a rotated-pole coordinate system.
type RotatedPole struct {
	// Lon and Lat are the geographic coordinates of the rotated north
	// pole in degrees.
	Lon, Lat float64

	// LonShift is added to rotated longitudes.
	LonShift float64
}

// RotatedPlateCarreeGrid is a regular grid in rotated-pole lon/lat.
type RotatedPlateCarreeGrid struct {
	*structured
	pole RotatedPole
}

// NewRotatedPlateCarree creates an ni × nj grid on rotated lon/lat axes
// spanning ext (rotated degrees).
func NewRotatedPlateCarree(ni, nj int, ext Extent, pole RotatedPole) (*RotatedPlateCarreeGrid, error) {
	p := proj.RotateSphere(pole.Lon, pole.Lat, pole.LonShift)
	s, err := newStructured(KindRotatedPlateCarree, true, ni, nj, ext, p, 360)
	if err != nil {
		return nil, err
	}
	s.rebuild = func(ni, nj int, ext Extent) (Grid, error) {
		g, err := NewRotatedPlateCarree(ni, nj, ext, pole)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return &RotatedPlateCarreeGrid{structured: s, pole: pole}, nil
}

// Pole returns the rotated-pole parameters.
func (g *RotatedPlateCarreeGrid) Pole() RotatedPole { return g.pole }

// LambertParams defines a Lambert conformal conic projection.
type LambertParams struct {
	Lon0, Lat0   float64
	StdParallels []float64

	// A and B are the ellipsoid axes in meters; zero selects WGS84.
	A, B float64
}

func (p LambertParams) projection() (*proj.LambertConformal, error) {
	return proj.LambertConformalConic(p.Lon0, p.Lat0, p.StdParallels, p.A, p.B)
}

// LambertGrid is a regular grid in Lambert conformal conic x/y meters.
type LambertGrid struct {
	*structured
	params LambertParams
}

// NewLambert creates an ni × nj LCC grid spanning ext (meters).
func NewLambert(ni, nj int, ext Extent, params LambertParams) (*LambertGrid, error) {
	p, err := params.projection()
	if err != nil {
		return nil, fmt.Errorf("grid: lambert grid: %w", err)
	}
	s, err := newStructured(KindLambert, true, ni, nj, ext, p, 0)
	if err != nil {
		return nil, err
	}
	s.rebuild = func(ni, nj int, ext Extent) (Grid, error) {
		g, err := NewLambert(ni, nj, ext, params)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return &LambertGrid{structured: s, params: params}, nil
}

// LambertExtent returns the extent of an ni × nj LCC grid whose first
// point is at (lonFirst, latFirst) with spacing dx, dy in meters, the way
// model output headers describe it.
func LambertExtent(params LambertParams, lonFirst, latFirst, dx, dy float64, ni, nj int) (Extent, error) {
	p, err := params.projection()
	if err != nil {
		return Extent{}, fmt.Errorf("grid: lambert extent: %w", err)
	}
	x0, y0 := p.Transform(lonFirst, latFirst, false)
	return Extent{
		XMin: x0,
		YMin: y0,
		XMax: x0 + dx*float64(ni-1),
		YMax: y0 + dy*float64(nj-1),
	}, nil
}

// Params returns the projection parameters.
func (g *LambertGrid) Params() LambertParams { return g.params }

// GeosParams defines a geostationary satellite view.
type GeosParams struct {
	// Lon0 is the sub-satellite longitude in degrees.
	Lon0 float64

	// Height is the satellite height above the ellipsoid in meters.
	Height float64

	// A and B are the ellipsoid axes in meters; zero selects WGS84.
	A, B float64
}

// GeostationaryGrid is a regular grid of satellite scan angles, expressed
// in meters as angle × height. Points off the earth disk have NaN earth
// coordinates.
type GeostationaryGrid struct {
	*structured
	params GeosParams
}

// NewGeostationary creates an ni × nj fixed-grid satellite image grid
// spanning ext (meters).
func NewGeostationary(ni, nj int, ext Extent, params GeosParams) (*GeostationaryGrid, error) {
	p, err := proj.VerticalPerspective(params.Lon0, 0, params.Height, params.A, params.B)
	if err != nil {
		return nil, fmt.Errorf("grid: geostationary grid: %w", err)
	}
	s, err := newStructured(KindGeostationary, false, ni, nj, ext, p, 0)
	if err != nil {
		return nil, err
	}
	s.rebuild = func(ni, nj int, ext Extent) (Grid, error) {
		g, err := NewGeostationary(ni, nj, ext, params)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return &GeostationaryGrid{structured: s, params: params}, nil
}

// ScanAngleExtent converts a scan-angle extent in radians to the meter
// extent used by GeostationaryGrid.
func ScanAngleExtent(xMin, yMin, xMax, yMax, height float64) Extent {
	return Extent{XMin: xMin * height, YMin: yMin * height, XMax: xMax * height, YMax: yMax * height}
}

// Params returns the satellite parameters.
func (g *GeostationaryGrid) Params() GeosParams { return g.params }

// RadarSite is the location of a radar.
type RadarSite struct {
	Lon, Lat float64
}

// RadarSweepGrid is one radar sweep on azimuth (degrees clockwise from
// north) and range (meters) axes. The azimuth axis wraps every 360°.
type RadarSweepGrid struct {
	*structured
	site RadarSite
}

// NewRadarSweep creates a sweep of nAz evenly spaced rays starting at
// azStart degrees, each with nRange gates from rangeStart spaced rangeStep
// meters apart.
func NewRadarSweep(nAz, nRange int, site RadarSite, azStart, rangeStart, rangeStep float64) (*RadarSweepGrid, error) {
	if nAz < 1 || nRange < 1 || rangeStep <= 0 {
		return nil, fmt.Errorf("%w: %d rays, %d gates, gate spacing %g", ErrInvalidShape, nAz, nRange, rangeStep)
	}
	ext := Extent{
		XMin: azStart,
		YMin: rangeStart,
		XMax: azStart + 360*float64(nAz-1)/float64(nAz),
		YMax: rangeStart + rangeStep*float64(nRange-1),
	}
	return newRadarSweep(nAz, nRange, ext, site)
}

func newRadarSweep(ni, nj int, ext Extent, site RadarSite) (*RadarSweepGrid, error) {
	p := proj.NewAzimuthalEquidistant(site.Lon, site.Lat, 0)
	s, err := newStructured(KindRadarSweep, false, ni, nj, ext, p, 360)
	if err != nil {
		return nil, err
	}
	s.rebuild = func(ni, nj int, ext Extent) (Grid, error) {
		g, err := newRadarSweep(ni, nj, ext, site)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return &RadarSweepGrid{structured: s, site: site}, nil
}

// Site returns the radar location.
func (g *RadarSweepGrid) Site() RadarSite { return g.site }

var (
	_ Thinnable   = (*PlateCarreeGrid)(nil)
	_ Tessellable = (*PlateCarreeGrid)(nil)
	_ Rotatable   = (*PlateCarreeGrid)(nil)
	_ Rotatable   = (*RotatedPlateCarreeGrid)(nil)
	_ Rotatable   = (*LambertGrid)(nil)
	_ Tessellable = (*GeostationaryGrid)(nil)
	_ Tessellable = (*RadarSweepGrid)(nil)
	_ Thinnable   = (*UnstructuredGrid)(nil)
)
