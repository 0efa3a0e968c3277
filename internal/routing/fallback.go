package routing

import (
	"math"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

// WalkingSpeedKmh is the pace assumed by the straight-line fallback.
const WalkingSpeedKmh = 4.5

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(a, b types.GeoPoint) float64 {
	const earthRadiusKm = 6371

	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// WalkingMinutes converts a distance to minutes at the fallback pace.
func WalkingMinutes(km float64) float64 {
	return km / WalkingSpeedKmh * 60
}

// EstimateLeg returns the deterministic fallback leg between two points.
func EstimateLeg(a, b types.GeoPoint) Leg {
	km := HaversineKm(a, b)
	return Leg{DistanceKm: km, DurationMinutes: WalkingMinutes(km)}
}

// EstimateMatrix returns a symmetric fallback matrix over points. It never
// fails, which makes it the terminal fallback when the provider is down.
func EstimateMatrix(points []types.GeoPoint) [][]Leg {
	n := len(points)
	legs := make([][]Leg, n)
	for i := range legs {
		legs[i] = make([]Leg, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			leg := EstimateLeg(points[i], points[j])
			legs[i][j] = leg
			legs[j][i] = leg
		}
	}
	return legs
}
