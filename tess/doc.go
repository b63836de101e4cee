// Package tess converts coordinate and attribute arrays into flat,
// GPU-ready vertex buffers.
//
// Every function in this package is pure: inputs are plain slices, outputs
// are freshly allocated slices owned by the caller, and nothing is cached.
//
// All positions are in normalized web-Mercator space (see proj.MercatorX
// and proj.MercatorY).
//
// # Buffers
//
// Parallel attribute buffers always describe the same number of vertices:
//
//	LineData.Vertices   3 floats: x, y, signed arc length
//	LineData.Extrusion  2 floats: unit segment normal
//	LineData.Offsets    2 floats: offset-path vertex (optional)
//	LineData.Data       1 float:  per-vertex scalar (optional)
//	LineData.Zoom       1 float:  per-line zoom (optional)
//
// Polylines and meshes are drawn as triangle strips. Billboards are one
// instance per point, each drawn as a 4-vertex strip quad.
// [PolylineLayout], [BillboardLayout] and [MeshLayout] describe the
// matching vertex buffer layouts.
package tess
