package contour

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/geofield/proj"
	"github.com/gogpu/geofield/tess"
)

// ToLineStrings converts contours into polylines for tess.Polylines, in
// ascending level order. Vertices are projected to web-Mercator and the
// level is carried as per-vertex data. When zoomFn is non-nil its value
// for the level becomes the line zoom.
//
// Lines are split where vertices could not be inverse-projected (NaN), and
// pieces with fewer than two vertices are dropped.
func ToLineStrings(contours map[float64][][]Point, zoomFn func(level float64) float32) []tess.LineString {
	levels := make([]float64, 0, len(contours))
	for l := range contours {
		levels = append(levels, l)
	}
	slices.Sort(levels)

	var out []tess.LineString
	for _, level := range levels {
		for _, line := range contours[level] {
			var piece []r2.Vec
			flush := func() {
				if len(piece) >= 2 {
					out = append(out, newLineString(piece, level, zoomFn))
				}
				piece = nil
			}
			for _, p := range line {
				if math.IsNaN(p.Lon) || math.IsNaN(p.Lat) {
					flush()
					continue
				}
				x, y := proj.Mercator(p.Lon, p.Lat)
				piece = append(piece, r2.Vec{X: x, Y: y})
			}
			flush()
		}
	}
	return out
}

func newLineString(vertices []r2.Vec, level float64, zoomFn func(float64) float32) tess.LineString {
	data := make([]float32, len(vertices))
	for i := range data {
		data[i] = float32(level)
	}
	ls := tess.LineString{Vertices: vertices, Data: data}
	if zoomFn != nil {
		ls.Zoom = zoomFn(level)
		ls.HasZoom = true
	}
	return ls
}
