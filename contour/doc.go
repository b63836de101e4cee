// Package contour selects contour levels, hands a gridded field to an
// external marching-squares tracer one level at a time and maps the traced
// lines back to geographic coordinates.
//
// The tracer works in the grid's projected space on the 1D axes returned by
// grid.Grid.GridCoords. Every vertex it returns is inverse-projected with
// the owning grid's Transform.
//
// Field memoizes traced contours per distinct level set, so a render loop
// that asks for the same levels every frame traces them once.
package contour
