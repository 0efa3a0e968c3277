package places

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

// CafeStore is the catalog query the catalog-backed provider needs.
type CafeStore interface {
	FindCafes(ctx context.Context, near types.GeoPoint, prefs types.CoffeePreferences, radiusKm float64, limit int) ([]types.CatalogPOI, error)
}

// CatalogProvider serves coffee spots from the seeded city catalog. It is the
// default when no external places service is configured.
type CatalogProvider struct {
	store  CafeStore
	logger *slog.Logger
}

var _ Provider = (*CatalogProvider)(nil)

// NewCatalogProvider wires a catalog-backed places provider.
func NewCatalogProvider(store CafeStore, logger *slog.Logger) *CatalogProvider {
	return &CatalogProvider{store: store, logger: logger}
}

// FindCoffeeSpot returns the closest catalog cafe that satisfies the
// preferences, or nil when none does. Filtering happens in SQL; results come
// back ordered by distance.
func (p *CatalogProvider) FindCoffeeSpot(ctx context.Context, near types.GeoPoint, prefs types.CoffeePreferences) (*types.CoffeeSpot, error) {
	cafes, err := p.store.FindCafes(ctx, near, prefs, searchRadiusKm(prefs), 1)
	if err != nil {
		return nil, fmt.Errorf("catalog cafe lookup: %w", err)
	}
	if len(cafes) == 0 {
		return nil, nil
	}

	c := cafes[0]
	return &types.CoffeeSpot{
		Name:      c.Name,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Address:   c.Address,
		Tags:      c.Tags,
		Rating:    c.Rating,
	}, nil
}
