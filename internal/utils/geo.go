// internal/utils/geo.go
package utils

import "math"

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// BoundingBox returns the lat/lng envelope covering radiusKm around a point.
// Used as a cheap SQL prefilter before the exact haversine check.
func BoundingBox(lat, lng, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	latDelta := radiusKm / 111.0 // ~111km per degree of latitude

	lngScale := math.Cos(toRadians(lat))
	if lngScale < 0.01 {
		lngScale = 0.01
	}
	lngDelta := radiusKm / (111.0 * lngScale)

	return lat - latDelta, lat + latDelta, lng - lngDelta, lng + lngDelta
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
