// Package geo implements great-circle distance between geographic points.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// Point is a geographic coordinate in [longitude, latitude] order,
// matching the GeoJSON convention used by the professional directory.
type Point struct {
	Lon float64
	Lat float64
}

// DistanceKm returns the haversine distance between two points in
// kilometers, rounded to 2 decimals.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	d := 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(d*100) / 100
}
