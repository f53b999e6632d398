package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

const EarthRadiusM = 6371000.0

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * EarthRadiusM / 1000
}

// PlanarDistanceM is the equirectangular approximation of the distance in
// meters. Good to well under a percent at the few-kilometre scale it is used on.
func PlanarDistanceM(lat1, lng1, lat2, lng2 float64) float64 {
	meanLat := (lat1 + lat2) / 2 * math.Pi / 180
	x := (lng2 - lng1) * math.Pi / 180 * math.Cos(meanLat)
	y := (lat2 - lat1) * math.Pi / 180
	return math.Sqrt(x*x+y*y) * EarthRadiusM
}

// Quantize rounds a coordinate to 3 decimals, a grid of roughly 100 m.
func Quantize(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// GridKey is the cache bucket for a coordinate.
func GridKey(lat, lng float64) string {
	return fmt.Sprintf("%.3f,%.3f", Quantize(lat), Quantize(lng))
}
