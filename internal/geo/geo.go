// Package geo provides the great-circle distance calculation used to
// accumulate trip distance from GPS fixes. Pure functions only.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// DistanceKm returns the haversine (great-circle) distance in kilometers
// between two latitude/longitude points given in degrees.
// Symmetric in its two points; zero for identical points. Callers are
// responsible for range-validating coordinates.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
