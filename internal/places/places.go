// Package places finds nearby cafes for coffee-break insertion, either
// through an external places service or the seeded city catalog.
package places

import (
	"context"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

// DefaultSearchRadiusKm is used when preferences carry no radius.
const DefaultSearchRadiusKm = 0.5

// Provider resolves one cafe near a point that satisfies the user's
// preferences. A nil spot with nil error means nothing matched; callers skip
// the break instead of failing the route.
type Provider interface {
	FindCoffeeSpot(ctx context.Context, near types.GeoPoint, prefs types.CoffeePreferences) (*types.CoffeeSpot, error)
}

func searchRadiusKm(prefs types.CoffeePreferences) float64 {
	if prefs.SearchRadiusKm > 0 {
		return prefs.SearchRadiusKm
	}
	return DefaultSearchRadiusKm
}
