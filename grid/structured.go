package grid

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/gogpu/geofield"
	"github.com/gogpu/geofield/internal/cache"
	"github.com/gogpu/geofield/proj"
	"github.com/gogpu/geofield/tess"
	"github.com/gogpu/geofield/thin"
)

// cacheLimit bounds the number of memoized arrays per grid.
const cacheLimit = 16

type coordKey struct {
	ni, nj  int
	element Element
}

// structured is the shared implementation of grids with separable,
// uniformly spaced axes. Families embed it and supply rebuild so that
// Copy and ThinnedGrid return the same family.
type structured struct {
	kind      Kind
	conformal bool
	ni, nj    int
	ext       Extent
	proj      proj.Projection

	// periodX is the period of the x axis (360 for longitude and azimuth
	// axes) or 0.
	periodX float64

	rebuild func(ni, nj int, ext Extent) (Grid, error)

	earth      *cache.Cache[coordKey, *EarthCoords]
	zooms      *cache.Cache[int, []uint8]
	gridCoords func() (*GridCoords, error)
	rotation   func() ([]float32, error)
}

func newStructured(kind Kind, conformal bool, ni, nj int, ext Extent, p proj.Projection, periodX float64) (*structured, error) {
	if ni < 1 || nj < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidShape, ni, nj)
	}
	for _, v := range []float64{ext.XMin, ext.YMin, ext.XMax, ext.YMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite extent %+v", ErrInvalidShape, ext)
		}
	}
	if (ni > 1 && ext.XMin == ext.XMax) || (nj > 1 && ext.YMin == ext.YMax) {
		return nil, fmt.Errorf("%w: empty extent %+v for %dx%d points", ErrInvalidShape, ext, ni, nj)
	}

	s := &structured{
		kind:      kind,
		conformal: conformal,
		ni:        ni,
		nj:        nj,
		ext:       ext,
		proj:      p,
		periodX:   periodX,
		earth:     cache.New[coordKey, *EarthCoords](cacheLimit),
		zooms:     cache.New[int, []uint8](cacheLimit),
	}
	s.gridCoords = sync.OnceValues(func() (*GridCoords, error) {
		return &GridCoords{
			X: axis(s.ext.XMin, s.ext.XMax, s.ni),
			Y: axis(s.ext.YMin, s.ext.YMax, s.nj),
		}, nil
	})
	s.rotation = sync.OnceValues(s.computeRotation)
	return s, nil
}

// axis returns n evenly spaced values from lo to hi inclusive.
func axis(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// edgeAxis returns the n+1 cell boundaries around n evenly spaced points.
func edgeAxis(lo, hi float64, n int) []float64 {
	step := 0.0
	if n > 1 {
		step = (hi - lo) / float64(n-1)
	}
	if step == 0 {
		return []float64{lo, lo}
	}
	return floats.Span(make([]float64, n+1), lo-step/2, hi+step/2)
}

func (s *structured) Kind() Kind        { return s.kind }
func (s *structured) IsConformal() bool { return s.conformal }
func (s *structured) Shape() (int, int) { return s.ni, s.nj }
func (s *structured) Extent() Extent    { return s.ext }
func (s *structured) Transform(x, y float64, inverse bool) (float64, float64) {
	return s.proj.Transform(x, y, inverse)
}

// Spacing returns the signed distance between adjacent points along each
// axis in grid space.
func (s *structured) Spacing() (dx, dy float64) {
	if s.ni > 1 {
		dx = (s.ext.XMax - s.ext.XMin) / float64(s.ni-1)
	}
	if s.nj > 1 {
		dy = (s.ext.YMax - s.ext.YMin) / float64(s.nj-1)
	}
	return dx, dy
}

func (s *structured) EarthCoords(opts ...CoordOption) (*EarthCoords, error) {
	cfg := coordConfig{ni: s.ni, nj: s.nj, element: ElementPoint}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ni < 1 || cfg.nj < 1 {
		return nil, fmt.Errorf("%w: resolution %dx%d", ErrInvalidShape, cfg.ni, cfg.nj)
	}
	if cfg.element != ElementPoint && cfg.element != ElementEdge {
		return nil, fmt.Errorf("%w: element %d", ErrUnsupported, cfg.element)
	}

	key := coordKey{ni: cfg.ni, nj: cfg.nj, element: cfg.element}
	return s.earth.GetOrCreate(key, func() (*EarthCoords, error) {
		var xs, ys []float64
		if cfg.element == ElementEdge {
			xs = edgeAxis(s.ext.XMin, s.ext.XMax, cfg.ni)
			ys = edgeAxis(s.ext.YMin, s.ext.YMax, cfg.nj)
		} else {
			xs = axis(s.ext.XMin, s.ext.XMax, cfg.ni)
			ys = axis(s.ext.YMin, s.ext.YMax, cfg.nj)
		}

		ni, nj := len(xs), len(ys)
		ec := &EarthCoords{
			Lons: make([]float64, ni*nj),
			Lats: make([]float64, ni*nj),
			Ni:   ni,
			Nj:   nj,
		}
		for j, y := range ys {
			for i, x := range xs {
				ec.Lons[j*ni+i], ec.Lats[j*ni+i] = s.proj.Transform(x, y, true)
			}
		}
		geofield.Logger().Debug("grid: earth coords computed",
			"kind", s.kind, "ni", ni, "nj", nj, "edges", cfg.element == ElementEdge)
		return ec, nil
	})
}

func (s *structured) GridCoords() (*GridCoords, error) {
	return s.gridCoords()
}

func (s *structured) Copy(opts ...CopyOption) (Grid, error) {
	cfg := applyCopyOptions(opts)
	if cfg.lons != nil || cfg.lats != nil {
		return nil, fmt.Errorf("%w: %s grid has no point list", ErrUnsupported, s.kind)
	}
	ni, nj, ext := s.ni, s.nj, s.ext
	if cfg.shape != nil {
		ni, nj = cfg.shape[0], cfg.shape[1]
	}
	if cfg.extent != nil {
		ext = *cfg.extent
	}
	return s.rebuild(ni, nj, ext)
}

func (s *structured) SampleNearest(lon, lat float64, data []float32) (Sample, error) {
	if len(data) != s.ni*s.nj {
		return Sample{}, fmt.Errorf("%w: %d values for %dx%d grid", ErrDataLength, len(data), s.ni, s.nj)
	}
	gc, err := s.GridCoords()
	if err != nil {
		return Sample{}, err
	}

	x, y := s.proj.Transform(lon, lat, false)
	i, ok := nearestIndex(gc.X, x, s.periodX)
	if !ok {
		return missingSample(), nil
	}
	j, ok := nearestIndex(gc.Y, y, 0)
	if !ok {
		return missingSample(), nil
	}

	slon, slat := s.proj.Transform(gc.X[i], gc.Y[j], true)
	idx := j*s.ni + i
	return Sample{Value: data[idx], Lon: slon, Lat: slat, Index: idx}, nil
}

func missingSample() Sample {
	nan := math.NaN()
	return Sample{Value: float32(nan), Lon: nan, Lat: nan, Index: -1}
}

// nearestIndex finds the axis entry nearest to v by binary search. Values
// more than half a step outside the axis are rejected. A positive period
// wraps v onto the axis and lets the last entry neighbor the first.
func nearestIndex(ax []float64, v, period float64) (int, bool) {
	if math.IsNaN(v) || len(ax) == 0 {
		return -1, false
	}
	n := len(ax)
	first, last := ax[0], ax[n-1]
	half := 0.0
	if n > 1 {
		half = math.Abs(last-first) / float64(n-1) / 2
	}
	if period > 0 {
		lo := math.Min(first, last) - half
		v = lo + math.Mod(math.Mod(v-lo, period)+period, period)
	}

	desc := last < first
	k := sort.Search(n, func(k int) bool {
		if desc {
			return ax[k] <= v
		}
		return ax[k] >= v
	})

	best, bestDist := -1, math.Inf(1)
	consider := func(idx int, at float64) {
		if d := math.Abs(at - v); d < bestDist {
			best, bestDist = idx, d
		}
	}
	for _, c := range []int{k - 1, k} {
		if c >= 0 && c < n {
			consider(c, ax[c])
		}
	}
	if period > 0 {
		if desc {
			consider(0, first-period)
			consider(n-1, last+period)
		} else {
			consider(0, first+period)
			consider(n-1, last-period)
		}
	}

	if bestDist > half*(1+1e-9)+1e-12 {
		return -1, false
	}
	return best, true
}

func (s *structured) MinVisibleZoom(thinFac int) ([]uint8, error) {
	return s.zooms.GetOrCreate(thinFac, func() ([]uint8, error) {
		return thin.Structured(s.ni, s.nj, thinFac)
	})
}

// thinnedShape returns the stride and shape of the lattice visible at
// maxZoom.
func (s *structured) thinnedShape(thinFac, maxZoom int) (stride, ni, nj int, err error) {
	if _, err := thin.ThinLog2(thinFac); err != nil {
		return 0, 0, 0, err
	}
	stride = thin.StructuredStride(thinFac, maxZoom)
	return stride, (s.ni-1)/stride + 1, (s.nj-1)/stride + 1, nil
}

func (s *structured) ThinnedGrid(thinFac, maxZoom int) (Grid, error) {
	stride, ni, nj, err := s.thinnedShape(thinFac, maxZoom)
	if err != nil {
		return nil, err
	}
	dx, dy := s.Spacing()
	ext := Extent{
		XMin: s.ext.XMin,
		YMin: s.ext.YMin,
		XMax: s.ext.XMin + float64((ni-1)*stride)*dx,
		YMax: s.ext.YMin + float64((nj-1)*stride)*dy,
	}
	return s.rebuild(ni, nj, ext)
}

func (s *structured) ThinData(data []float32, thinFac, maxZoom int) ([]float32, error) {
	if len(data) != s.ni*s.nj {
		return nil, fmt.Errorf("%w: %d values for %dx%d grid", ErrDataLength, len(data), s.ni, s.nj)
	}
	stride, ni, nj, err := s.thinnedShape(thinFac, maxZoom)
	if err != nil {
		return nil, err
	}
	out := make([]float32, ni*nj)
	for j := 0; j < nj; j++ {
		src := data[j*stride*s.ni:]
		for i := 0; i < ni; i++ {
			out[j*ni+i] = src[i*stride]
		}
	}
	return out, nil
}

func (s *structured) DomainBuffers(maxRes int) (*tess.Mesh, error) {
	ni, nj := s.ni, s.nj
	if maxRes > 0 {
		ni, nj = min(ni, maxRes), min(nj, maxRes)
	}
	ec, err := s.EarthCoords(WithResolution(ni, nj))
	if err != nil {
		return nil, err
	}
	mesh, err := tess.DomainMesh(ec.Lons, ec.Lats, ni, nj, s.ni, s.nj)
	if err != nil {
		return nil, fmt.Errorf("grid: domain mesh: %w", err)
	}
	if mesh.HasNaN() {
		geofield.Logger().Debug("grid: domain mesh extends past the projection's visible area", "kind", s.kind)
	}
	return mesh, nil
}

func (s *structured) VectorRotation() ([]float32, error) {
	return s.rotation()
}

// computeRotation returns, per point, the bearing of grid north in radians
// clockwise from true north, by finite differencing the inverse transform.
func (s *structured) computeRotation() ([]float32, error) {
	gc, err := s.GridCoords()
	if err != nil {
		return nil, err
	}
	_, dy := s.Spacing()
	h := math.Abs(dy) * 1e-3
	if h == 0 {
		h = 1e-6
	}

	rot := make([]float32, s.ni*s.nj)
	for j, y := range gc.Y {
		for i, x := range gc.X {
			lon1, lat1 := s.proj.Transform(x, y, true)
			lon2, lat2 := s.proj.Transform(x, y+h, true)
			dlon := proj.NormalizeLon(lon2 - lon1)
			beta := math.Atan2(dlon*math.Cos(lat1*math.Pi/180), lat2-lat1)
			rot[j*s.ni+i] = float32(beta)
		}
	}
	return rot, nil
}
