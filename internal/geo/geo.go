// Package geo provides the small amount of spherical geometry the discovery
// pipeline needs: great-circle distances and walking-time estimates.
package geo

import (
	"math"

	"wanderlens/internal/models"
)

// earthRadiusM is the mean earth radius in meters used by the haversine formula.
const earthRadiusM = 6371000.0

// walkingSpeedMPerMin is the assumed walking speed (5 km/h) in meters per minute.
const walkingSpeedMPerMin = 83.33

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

// DistanceMeters computes the haversine great-circle distance between two
// coordinates in meters.
func DistanceMeters(from, to models.Coordinate) float64 {
	dLat := degreesToRadians(to.Lat - from.Lat)
	dLon := degreesToRadians(to.Lon - from.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(from.Lat))*math.Cos(degreesToRadians(to.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// DistanceKm returns the distance in kilometers rounded to one decimal,
// matching the backend's wire format.
func DistanceKm(meters float64) float64 {
	return math.Round(meters/100) / 10
}

// WalkingMinutes estimates the walking time for a distance in meters,
// rounded to whole minutes.
func WalkingMinutes(meters float64) float64 {
	return math.Round(meters / walkingSpeedMPerMin)
}
