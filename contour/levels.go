package contour

import (
	"errors"
	"fmt"
	"math"
)

// maxLevels bounds the number of generated levels.
const maxLevels = 10000

// maxExactIndex is 2^53, the first float64 integer whose successor is not
// representable.
const maxExactIndex = 1 << 53

var (
	// ErrInvalidInterval is returned for non-positive or non-finite
	// contour intervals.
	ErrInvalidInterval = errors.New("contour: interval must be positive and finite")

	// ErrTooManyLevels is returned when an interval would produce more
	// than maxLevels levels.
	ErrTooManyLevels = errors.New("contour: too many levels")
)

// Options selects the contour levels.
type Options struct {
	// Interval spaces levels regularly across the data range.
	Interval float64

	// Levels, when non-empty, is used as given and Interval is ignored.
	Levels []float64
}

// Levels returns the multiples of interval from ceil(min/interval)·interval
// to floor(max/interval)·interval inclusive, where min and max range over
// the non-NaN values of data. Data without finite values gives no levels.
func Levels(data []float32, interval float64) ([]float64, error) {
	if !(interval > 0) || math.IsInf(interval, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidInterval, interval)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	if lo > hi {
		return nil, nil
	}

	first := math.Ceil(lo / interval)
	last := math.Floor(hi / interval)

	// Level indexes past 2^53 are no longer distinct integers.
	if math.Abs(first) >= maxExactIndex || math.Abs(last) >= maxExactIndex {
		return nil, fmt.Errorf("%w: interval %g too fine for [%g, %g]", ErrTooManyLevels, interval, lo, hi)
	}
	count := int(last-first) + 1
	if count > maxLevels {
		return nil, fmt.Errorf("%w: interval %g over [%g, %g]", ErrTooManyLevels, interval, lo, hi)
	}

	levels := make([]float64, 0, max(count, 0))
	for k := 0; k < count; k++ {
		levels = append(levels, (first+float64(k))*interval)
	}
	return levels, nil
}

func (o Options) resolve(data []float32) ([]float64, error) {
	if len(o.Levels) > 0 {
		return o.Levels, nil
	}
	return Levels(data, o.Interval)
}
