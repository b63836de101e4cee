// Package geofield is the geometry and level-of-detail engine for drawing
// gridded and point-based geoscientific fields (heights, winds, radar and
// satellite imagery, ensemble paintballs, station observations) as
// interactive map overlays.
//
// # Overview
//
// The engine turns raw numeric arrays into GPU-ready buffers. It does not
// own any GPU resources: every output is a flat []float32 or []uint8 slice
// with a documented stride, so it can be produced on any goroutine and
// handed to whatever renderer sits on top.
//
// # Architecture
//
// The module is organized into:
//   - proj: analytic map projections and web-Mercator helpers
//   - grid: structured and unstructured grids, coordinate caches, sampling
//   - thin: minimum-visible-zoom computation for point thinning
//   - tess: polyline, billboard and domain-mesh tessellation
//   - contour: level selection and coordinate round-tripping around an
//     external contour tracer
//   - shaders: WGSL programs that consume the tess buffers
//   - worker: request/response boundary for running tessellation off the
//     calling goroutine
//
// # Coordinate System
//
// All GPU-facing geometry is expressed in normalized web-Mercator space:
//   - x in [0, 1], increasing east from 180°W
//   - y in [0, 1], increasing south from ~85°N
//
// Source grids keep their own projected coordinates; conversion happens
// through [grid.Grid] Transform and the proj Mercator helpers.
//
// # Logging
//
// geofield is silent by default. Call [SetLogger] to route diagnostics to a
// slog.Logger.
package geofield

// Version is the current version of the module.
const Version = "0.3.0"
