package grid

import (
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/geofield"
	"github.com/gogpu/geofield/internal/cache"
	"github.com/gogpu/geofield/internal/kdindex"
	"github.com/gogpu/geofield/proj"
	"github.com/gogpu/geofield/thin"
)

// UnstructuredGrid is a list of scattered points such as a station
// network. Points are indexed by a k-d tree over web-Mercator coordinates.
type UnstructuredGrid struct {
	lons, lats []float64
	mx, my     []float64
	index      *kdindex.Index

	// Mercator bounding box of the finite points, grown by half the
	// typical point spacing. When wrapX is set the box crosses the
	// antimeridian and xMax is past 1.
	xMin, yMin, xMax, yMax float64
	wrapX                  bool

	zooms *cache.Cache[int, []uint8]
}

// NewUnstructured creates a grid from point longitudes and latitudes in
// degrees. The slices are copied.
func NewUnstructured(lons, lats []float64) (*UnstructuredGrid, error) {
	if len(lons) != len(lats) {
		return nil, fmt.Errorf("%w: %d lons, %d lats", ErrInvalidShape, len(lons), len(lats))
	}
	g := &UnstructuredGrid{
		lons:  slices.Clone(lons),
		lats:  slices.Clone(lats),
		mx:    make([]float64, len(lons)),
		my:    make([]float64, len(lons)),
		xMin:  math.Inf(1),
		yMin:  math.Inf(1),
		xMax:  math.Inf(-1),
		yMax:  math.Inf(-1),
		zooms: cache.New[int, []uint8](cacheLimit),
	}

	var xs []float64
	for i := range lons {
		x, y := proj.Mercator(proj.NormalizeLon(lons[i]), lats[i])
		g.mx[i], g.my[i] = x, y
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		xs = append(xs, x)
		g.yMin, g.yMax = math.Min(g.yMin, y), math.Max(g.yMax, y)
	}
	g.index = kdindex.New(g.mx, g.my)
	finite := len(xs)
	if finite > 0 {
		g.xMin, g.xMax, g.wrapX = xSpan(xs)
	}

	if finite > 0 {
		w, h := g.xMax-g.xMin, g.yMax-g.yMin
		spacing := math.Sqrt(w * h / float64(finite))
		if spacing == 0 {
			spacing = math.Max(w, h) / float64(finite)
		}
		g.xMin -= spacing / 2
		g.yMin -= spacing / 2
		g.xMax += spacing / 2
		g.yMax += spacing / 2
	}
	return g, nil
}

// xSpan returns the narrowest x interval covering xs on the periodic
// [0, 1) axis. If the widest gap between points lies inside the axis
// rather than across the antimeridian, the interval wraps and hi exceeds 1.
func xSpan(xs []float64) (lo, hi float64, wraps bool) {
	slices.Sort(xs)
	lo, hi = xs[0], xs[len(xs)-1]
	gap, gapAt := 1-(hi-lo), -1
	for k := 1; k < len(xs); k++ {
		if d := xs[k] - xs[k-1]; d > gap {
			gap, gapAt = d, k
		}
	}
	if gapAt < 0 {
		return lo, hi, false
	}
	return xs[gapAt], xs[gapAt-1] + 1, true
}

func (g *UnstructuredGrid) Kind() Kind        { return KindUnstructured }
func (g *UnstructuredGrid) IsConformal() bool { return false }
func (g *UnstructuredGrid) Shape() (int, int) { return len(g.lons), 1 }

// Transform is the identity: unstructured points live in geographic space.
func (g *UnstructuredGrid) Transform(x, y float64, _ bool) (float64, float64) {
	return x, y
}

// Mercator returns copies of the web-Mercator coordinates of the points.
func (g *UnstructuredGrid) Mercator() (xs, ys []float64) {
	return slices.Clone(g.mx), slices.Clone(g.my)
}

// EarthCoords returns a copy of the point coordinates. Resampling and cell
// edges are not defined for scattered points.
func (g *UnstructuredGrid) EarthCoords(opts ...CoordOption) (*EarthCoords, error) {
	n := len(g.lons)
	cfg := coordConfig{ni: n, nj: 1, element: ElementPoint}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ni != n || cfg.nj != 1 || cfg.element != ElementPoint {
		return nil, fmt.Errorf("%w: unstructured grid cannot be resampled", ErrUnsupported)
	}
	return &EarthCoords{Lons: slices.Clone(g.lons), Lats: slices.Clone(g.lats), Ni: n, Nj: 1}, nil
}

// GridCoords returns a copy of the point longitudes and latitudes.
func (g *UnstructuredGrid) GridCoords() (*GridCoords, error) {
	return &GridCoords{X: slices.Clone(g.lons), Y: slices.Clone(g.lats)}, nil
}

func (g *UnstructuredGrid) Copy(opts ...CopyOption) (Grid, error) {
	cfg := applyCopyOptions(opts)
	if cfg.shape != nil || cfg.extent != nil {
		return nil, fmt.Errorf("%w: unstructured grid has no shape or extent", ErrUnsupported)
	}
	lons, lats := g.lons, g.lats
	if cfg.lons != nil || cfg.lats != nil {
		lons, lats = cfg.lons, cfg.lats
	}
	return NewUnstructured(lons, lats)
}

func (g *UnstructuredGrid) SampleNearest(lon, lat float64, data []float32) (Sample, error) {
	if len(data) != len(g.lons) {
		return Sample{}, fmt.Errorf("%w: %d values for %d points", ErrDataLength, len(data), len(g.lons))
	}
	x, y := proj.Mercator(proj.NormalizeLon(lon), lat)
	if g.wrapX && x < g.xMin {
		x++
	}
	if !(x >= g.xMin && x <= g.xMax && y >= g.yMin && y <= g.yMax) {
		return missingSample(), nil
	}
	idx, d := g.index.Nearest(x, y)
	if g.wrapX {
		if k, dk := g.index.Nearest(x-1, y); dk < d {
			idx = k
		}
	}
	if idx < 0 {
		return missingSample(), nil
	}
	return Sample{Value: data[idx], Lon: g.lons[idx], Lat: g.lats[idx], Index: idx}, nil
}

func (g *UnstructuredGrid) MinVisibleZoom(thinFac int) ([]uint8, error) {
	return g.zooms.GetOrCreate(thinFac, func() ([]uint8, error) {
		zoom, err := thin.Unstructured(g.mx, g.my, thinFac, thin.DefaultMaxZoom)
		if err != nil {
			return nil, err
		}
		geofield.Logger().Debug("grid: unstructured zooms computed", "points", len(zoom), "thin", thinFac)
		return zoom, nil
	})
}

// visible returns the indices of the points shown at maxZoom.
func (g *UnstructuredGrid) visible(thinFac, maxZoom int) ([]int, error) {
	zoom, err := g.MinVisibleZoom(thinFac)
	if err != nil {
		return nil, err
	}
	var keep []int
	for i, z := range zoom {
		if int(z) <= maxZoom {
			keep = append(keep, i)
		}
	}
	return keep, nil
}

func (g *UnstructuredGrid) ThinnedGrid(thinFac, maxZoom int) (Grid, error) {
	keep, err := g.visible(thinFac, maxZoom)
	if err != nil {
		return nil, err
	}
	lons := make([]float64, len(keep))
	lats := make([]float64, len(keep))
	for k, i := range keep {
		lons[k], lats[k] = g.lons[i], g.lats[i]
	}
	return NewUnstructured(lons, lats)
}

func (g *UnstructuredGrid) ThinData(data []float32, thinFac, maxZoom int) ([]float32, error) {
	if len(data) != len(g.lons) {
		return nil, fmt.Errorf("%w: %d values for %d points", ErrDataLength, len(data), len(g.lons))
	}
	keep, err := g.visible(thinFac, maxZoom)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(keep))
	for k, i := range keep {
		out[k] = data[i]
	}
	return out, nil
}
