package grid

// coordConfig holds EarthCoords options.
type coordConfig struct {
	ni, nj  int
	element Element
}

// CoordOption configures an EarthCoords request.
type CoordOption func(*coordConfig)

// WithResolution resamples the grid extent at ni × nj points instead of the
// grid's own resolution.
func WithResolution(ni, nj int) CoordOption {
	return func(c *coordConfig) {
		c.ni = ni
		c.nj = nj
	}
}

// WithElement selects point or cell-edge coordinates.
func WithElement(e Element) CoordOption {
	return func(c *coordConfig) {
		c.element = e
	}
}

// copyConfig holds Copy overrides. Nil pointers leave a field unchanged.
type copyConfig struct {
	shape  *[2]int
	extent *Extent
	lons   []float64
	lats   []float64
}

// CopyOption overrides a field of a grid copy.
type CopyOption func(*copyConfig)

// WithShape overrides the number of points of a structured grid. The
// extent is kept, so the spacing changes.
func WithShape(ni, nj int) CopyOption {
	return func(c *copyConfig) {
		c.shape = &[2]int{ni, nj}
	}
}

// WithExtent overrides the grid-space extent of a structured grid.
func WithExtent(e Extent) CopyOption {
	return func(c *copyConfig) {
		c.extent = &e
	}
}

// WithPoints replaces the points of an unstructured grid.
func WithPoints(lons, lats []float64) CopyOption {
	return func(c *copyConfig) {
		c.lons = lons
		c.lats = lats
	}
}

func applyCopyOptions(opts []CopyOption) copyConfig {
	var c copyConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
