// Package proj implements the analytic map projections used by geofield
// grids.
//
// Every projection satisfies [Projection]: a single Transform method that
// maps geographic coordinates (longitude, latitude in degrees) to projected
// coordinates when inverse is false, and back when inverse is true.
//
// # Projections
//
//   - [LambertConformal]: ellipsoidal Lambert conformal conic, one or two
//     standard parallels
//   - [RotatedSphere]: rotated-pole spherical rotation
//   - [Geostationary]: ellipsoidal satellite view from a fixed altitude
//   - [AzimuthalEquidistant]: spherical azimuth/range projection for radar
//     sweeps
//   - [Identity]: plate carrée, where grid coordinates are already
//     geographic
//
// # Edge Cases
//
// Projections never panic. Inputs outside the valid domain (the poles for
// conic projections, points hidden from the satellite, NaN inputs) produce
// NaN or infinite outputs which propagate to the caller.
//
// # Web Mercator
//
// [MercatorX] and [MercatorY] map geographic coordinates into the
// normalized [0, 1] web-Mercator square used by every GPU-facing buffer.
package proj
