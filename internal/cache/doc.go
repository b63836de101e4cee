// Package cache provides the compute-once memo cache used for per-grid
// coordinate arrays, zoom maps and traced contour sets.
//
// Entries are keyed by a comparable value derived from the call arguments
// (for example a struct of resolution and element alignment), never by
// closure identity. Values are stored once and handed out by reference;
// callers must treat them as read-only.
//
//	c := cache.New[coordKey, *EarthCoords](0)
//	coords, err := c.GetOrCreate(key, func() (*EarthCoords, error) {
//	    return computeCoords(key)
//	})
//
// # Thread Safety
//
// Cache is safe for concurrent use. It must not be copied after creation
// (it contains a mutex).
package cache
