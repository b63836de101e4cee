package contour

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gogpu/geofield/grid"
	"github.com/gogpu/geofield/internal/cache"
)

// levelSetLimit bounds the number of memoized level sets per field.
const levelSetLimit = 8

// Field is one data array on a grid with its traced contours memoized per
// level set. Data must not change after NewField.
type Field struct {
	grid   grid.Grid
	data   []float32
	tracer Tracer
	sets   *cache.Cache[string, *levelSet]
}

// levelSet holds the traced contours of one level set once a trace has
// succeeded.
type levelSet struct {
	mu    sync.Mutex
	lines map[float64][][]Point
}

func (s *levelSet) get(trace func() (map[float64][][]Point, error)) (map[float64][][]Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lines != nil {
		return s.lines, nil
	}
	lines, err := trace()
	if err != nil {
		return nil, err
	}
	s.lines = lines
	return lines, nil
}

// NewField binds data to g for repeated contouring with tracer.
func NewField(g grid.Grid, data []float32, tracer Tracer) (*Field, error) {
	ni, nj := g.Shape()
	if len(data) != ni*nj {
		return nil, fmt.Errorf("contour: %w: %d values for %dx%d grid", grid.ErrDataLength, len(data), ni, nj)
	}
	return &Field{
		grid:   g,
		data:   data,
		tracer: tracer,
		sets:   cache.New[string, *levelSet](levelSetLimit),
	}, nil
}

// Contours returns the contours for opts, tracing each distinct level set
// once. The returned map is shared and must not be modified.
//
// Different level sets trace concurrently. Callers asking for a level set
// that is being traced wait for that trace; if it fails, the next caller
// traces again under its own ctx.
func (f *Field) Contours(ctx context.Context, opts Options) (map[float64][][]Point, error) {
	levels, err := opts.resolve(f.data)
	if err != nil {
		return nil, err
	}
	set, _ := f.sets.GetOrCreate(levelKey(levels), func() (*levelSet, error) {
		return &levelSet{}, nil
	})
	return set.get(func() (map[float64][][]Point, error) {
		return trace(ctx, f.grid, f.data, f.tracer, levels)
	})
}

func levelKey(levels []float64) string {
	var b strings.Builder
	for i, l := range levels {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(l, 'g', -1, 64))
	}
	return b.String()
}
