// Package grid binds a projection to a logical ni × nj index space.
//
// A Grid answers coordinate queries for one data domain: earth coordinates
// of its points (optionally at reduced resolution or at cell edges), its
// projected axes, nearest-point sampling, and thinned copies sized for a
// capped maximum zoom. Coordinate arrays are computed lazily and memoized
// per grid; returned slices are shared and must not be modified.
//
// Structured families share one implementation over separable, uniformly
// spaced axes:
//
//	PlateCarreeGrid          lon/lat axes
//	RotatedPlateCarreeGrid   rotated lon/lat axes
//	LambertGrid              LCC x/y axes in meters
//	GeostationaryGrid        scan-angle x/y axes in meters
//	RadarSweepGrid           azimuth/range axes
//
// UnstructuredGrid holds scattered points indexed by a k-d tree in
// web-Mercator space.
//
// Grids are immutable after construction. Copy and ThinnedGrid return new
// grids and never touch the receiver.
package grid
