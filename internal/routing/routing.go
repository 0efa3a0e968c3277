// Package routing measures walking legs between coordinates through an
// external routing provider, with a deterministic straight-line fallback.
package routing

import (
	"context"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

// Mode selects the travel profile the provider measures with.
type Mode string

const (
	ModeWalking Mode = "foot-walking"
	ModeTransit Mode = "public-transport"
)

// Leg is one origin to destination measurement.
type Leg struct {
	DistanceKm      float64
	DurationMinutes float64
}

// DirectionsResult is a polyline through ordered waypoints plus its totals.
type DirectionsResult struct {
	Geometry        [][2]float64
	DistanceKm      float64
	DurationMinutes float64
}

// Provider abstracts the routing service needed by the route domain.
type Provider interface {
	// Matrix returns an n by n leg matrix over points, sources equal
	// destinations, self legs zero.
	Matrix(ctx context.Context, points []types.GeoPoint, mode Mode) ([][]Leg, error)
	// Directions returns the walking polyline through the given waypoints.
	Directions(ctx context.Context, waypoints []types.GeoPoint, mode Mode) (*DirectionsResult, error)
}
