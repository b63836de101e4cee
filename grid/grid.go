package grid

import (
	"errors"

	"github.com/gogpu/geofield/tess"
)

var (
	// ErrInvalidShape is returned for grids with fewer points than the
	// family requires or inconsistent coordinate arrays.
	ErrInvalidShape = errors.New("grid: invalid shape")

	// ErrDataLength is returned when a data array does not have one value
	// per grid point.
	ErrDataLength = errors.New("grid: data length does not match grid")

	// ErrUnsupported is returned for options a grid family cannot honor.
	ErrUnsupported = errors.New("grid: unsupported for this grid")
)

// Kind identifies a grid family.
type Kind string

// Grid families.
const (
	KindPlateCarree        Kind = "latlon"
	KindRotatedPlateCarree Kind = "latlonrot"
	KindLambert            Kind = "lcc"
	KindGeostationary      Kind = "geos"
	KindRadarSweep         Kind = "radar"
	KindUnstructured       Kind = "unstructured"
)

func (k Kind) String() string { return string(k) }

// Element selects where earth coordinates are evaluated.
type Element int

const (
	// ElementPoint evaluates coordinates at the grid points.
	ElementPoint Element = iota

	// ElementEdge evaluates coordinates at cell corners, giving an
	// (ni+1) × (nj+1) array.
	ElementEdge
)

// Grid is a data domain with a bound projection.
type Grid interface {
	Kind() Kind

	// IsConformal reports whether the grid's projection preserves angles,
	// which is required to rotate grid-relative vectors to earth-relative.
	IsConformal() bool

	// Shape returns the logical dimensions. Unstructured grids report
	// (number of points, 1).
	Shape() (ni, nj int)

	// Transform maps (lon, lat) to grid space, or grid space back to
	// (lon, lat) when inverse is set.
	Transform(x, y float64, inverse bool) (float64, float64)

	EarthCoords(opts ...CoordOption) (*EarthCoords, error)
	GridCoords() (*GridCoords, error)
	Copy(opts ...CopyOption) (Grid, error)

	// SampleNearest returns the data value at the grid point nearest to
	// (lon, lat). Queries outside the grid return a Sample of NaNs and a
	// nil error.
	SampleNearest(lon, lat float64, data []float32) (Sample, error)

	// ThinnedGrid returns a grid holding only the points visible at
	// maxZoom under thinning factor thinFac.
	ThinnedGrid(thinFac, maxZoom int) (Grid, error)
}

// Thinnable is a grid that can compute per-point minimum visible zooms.
type Thinnable interface {
	Grid
	MinVisibleZoom(thinFac int) ([]uint8, error)

	// ThinData extracts the values matching ThinnedGrid(thinFac, maxZoom).
	ThinData(data []float32, thinFac, maxZoom int) ([]float32, error)
}

// Tessellable is a grid that can build a domain mesh.
type Tessellable interface {
	Grid

	// DomainBuffers returns a triangle strip covering the domain with at
	// most maxRes points along each axis. maxRes <= 0 uses the full
	// resolution.
	DomainBuffers(maxRes int) (*tess.Mesh, error)
}

// Rotatable is a grid that can report the angle between its own north and
// true north at every point.
type Rotatable interface {
	Grid
	VectorRotation() ([]float32, error)
}

// EarthCoords holds longitudes and latitudes in degrees, row-major with
// index j*Ni + i.
type EarthCoords struct {
	Lons, Lats []float64
	Ni, Nj     int
}

// GridCoords holds projected coordinates. Structured grids return the 1D
// axes (len(X) == ni, len(Y) == nj); unstructured grids return one x and y
// per point.
type GridCoords struct {
	X, Y []float64
}

// Float32 returns the coordinates converted for the contour tracer.
func (c *GridCoords) Float32() (xs, ys []float32) {
	xs = make([]float32, len(c.X))
	for i, v := range c.X {
		xs[i] = float32(v)
	}
	ys = make([]float32, len(c.Y))
	for i, v := range c.Y {
		ys[i] = float32(v)
	}
	return xs, ys
}

// Sample is the result of a nearest-point lookup.
type Sample struct {
	Value    float32
	Lon, Lat float64

	// Index is the row-major index of the sampled point, or -1.
	Index int
}

// Valid reports whether the sample lies on the grid.
func (s Sample) Valid() bool { return s.Index >= 0 }

// Extent is the grid-space bounding box of the point centres. Min may
// exceed Max to describe a decreasing axis.
type Extent struct {
	XMin, YMin, XMax, YMax float64
}
