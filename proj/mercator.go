package proj

import "math"

// MercatorX maps a longitude in degrees to normalized web-Mercator x in
// [0, 1], increasing eastward from 180°W.
func MercatorX(lon float64) float64 {
	return (180 + lon) / 360
}

// MercatorY maps a latitude in degrees to normalized web-Mercator y,
// increasing southward; y is 0 at ~85.0511°N and 1 at ~85.0511°S. The poles
// map to -Inf and +Inf.
func MercatorY(lat float64) float64 {
	return (180 - (180/math.Pi)*math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))) / 360
}

// LonFromMercatorX is the inverse of MercatorX.
func LonFromMercatorX(x float64) float64 {
	return x*360 - 180
}

// LatFromMercatorY is the inverse of MercatorY.
func LatFromMercatorY(y float64) float64 {
	y2 := 180 - y*360
	return 360/math.Pi*math.Atan(math.Exp(y2*math.Pi/180)) - 90
}

// Mercator returns the normalized web-Mercator coordinates of (lon, lat).
func Mercator(lon, lat float64) (x, y float64) {
	return MercatorX(lon), MercatorY(lat)
}
