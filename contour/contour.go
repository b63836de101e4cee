package contour

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/geofield"
	"github.com/gogpu/geofield/grid"
)

// ErrUnsupportedGrid is returned for grids without separable axes, which
// the tracer cannot walk.
var ErrUnsupportedGrid = errors.New("contour: grid has no separable axes")

// Point is a contour vertex in degrees.
type Point struct {
	Lon, Lat float64
}

// Result holds the lines traced for one level. Release must be called once
// the lines have been read; the tracer may own the memory behind them.
type Result interface {
	// Lines returns polylines as (x, y) pairs in grid space.
	Lines() [][][2]float32
	Release()
}

// Tracer is a marching-squares contour tracer.
//
// data is row-major ni × nj; xs has ni entries and ys has nj. A flat field
// yields a Result with no lines, not an error.
type Tracer interface {
	Trace(ctx context.Context, data []float32, ni, nj int, xs, ys []float32, level float32) (Result, error)
}

// Contour traces data on g at the levels selected by opts and returns the
// geographic lines per level. Levels with no contours map to an empty
// slice.
func Contour(ctx context.Context, g grid.Grid, data []float32, tracer Tracer, opts Options) (map[float64][][]Point, error) {
	levels, err := opts.resolve(data)
	if err != nil {
		return nil, err
	}
	return trace(ctx, g, data, tracer, levels)
}

func trace(ctx context.Context, g grid.Grid, data []float32, tracer Tracer, levels []float64) (map[float64][][]Point, error) {
	ni, nj := g.Shape()
	if len(data) != ni*nj {
		return nil, fmt.Errorf("contour: %w: %d values for %dx%d grid", grid.ErrDataLength, len(data), ni, nj)
	}
	gc, err := g.GridCoords()
	if err != nil {
		return nil, fmt.Errorf("contour: grid coordinates: %w", err)
	}
	if len(gc.X) != ni || len(gc.Y) != nj {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGrid, g.Kind())
	}
	xs, ys := gc.Float32()

	out := make(map[float64][][]Point, len(levels))
	for _, level := range levels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines, err := traceLevel(ctx, g, data, tracer, ni, nj, xs, ys, level)
		if err != nil {
			return nil, fmt.Errorf("contour: level %g: %w", level, err)
		}
		out[level] = lines
	}
	geofield.Logger().Debug("contour: traced level set", "kind", g.Kind(), "levels", len(levels))
	return out, nil
}

func traceLevel(ctx context.Context, g grid.Grid, data []float32, tracer Tracer, ni, nj int, xs, ys []float32, level float64) ([][]Point, error) {
	res, err := tracer.Trace(ctx, data, ni, nj, xs, ys, float32(level))
	if err != nil {
		return nil, err
	}
	defer res.Release()

	raw := res.Lines()
	lines := make([][]Point, 0, len(raw))
	for _, line := range raw {
		pts := make([]Point, len(line))
		for k, v := range line {
			lon, lat := g.Transform(float64(v[0]), float64(v[1]), true)
			pts[k] = Point{Lon: lon, Lat: lat}
		}
		lines = append(lines, pts)
	}
	return lines, nil
}
