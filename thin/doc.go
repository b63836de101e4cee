// Package thin computes minimum-visible-zoom maps for point thinning.
//
// A zoom map assigns every point of a grid the smallest integer zoom at
// which it should be drawn. A thinning factor T (a power of two) sets the
// point density at the reference zoom; higher zooms reveal progressively
// more points until every point is visible. Visibility is monotonic: a
// point drawn at zoom z is drawn at every zoom above z.
//
// Structured grids use a closed-form index-parity test ([Structured]).
// Scattered points use recursive quadrant subdivision in web-Mercator space
// over a k-d tree ([Unstructured]).
package thin
