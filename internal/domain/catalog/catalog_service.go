package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

const (
	defaultNearbyRadiusKm = 2.0
	defaultNearbyLimit    = 20
	maxNearbyLimit        = 100
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for catalog browsing.
type Service interface {
	GetNearbyPOIs(ctx context.Context, near types.GeoPoint, radiusKm float64, category string, limit int) ([]types.CatalogPOI, error)
	GetPOIByID(ctx context.Context, id uuid.UUID) (*types.CatalogPOI, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Cache
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

// nearbyCacheKey rounds coordinates to 4 decimal places so close lookups
// share entries.
func nearbyCacheKey(near types.GeoPoint, radiusKm float64, category string, limit int) string {
	return fmt.Sprintf("nearby:%.4f:%.4f:%.1f:%s:%d", near.Latitude, near.Longitude, radiusKm, category, limit)
}

func (s *ServiceImpl) GetNearbyPOIs(ctx context.Context, near types.GeoPoint, radiusKm float64, category string, limit int) ([]types.CatalogPOI, error) {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "GetNearbyPOIs", trace.WithAttributes(
		attribute.Float64("latitude", near.Latitude),
		attribute.Float64("longitude", near.Longitude),
	))
	defer span.End()

	if !near.Valid() {
		return nil, fmt.Errorf("%w: coordinates out of range", types.ErrBadRequest)
	}
	if radiusKm <= 0 {
		radiusKm = defaultNearbyRadiusKm
	}
	if limit <= 0 {
		limit = defaultNearbyLimit
	}
	if limit > maxNearbyLimit {
		limit = maxNearbyLimit
	}

	cacheKey := nearbyCacheKey(near, radiusKm, category, limit)
	span.SetAttributes(attribute.String("cache.key", cacheKey))

	if cached, found := s.cache.Get(cacheKey); found {
		if pois, ok := cached.([]types.CatalogPOI); ok {
			s.logger.DebugContext(ctx, "serving nearby POIs from cache", slog.String("key", cacheKey))
			return pois, nil
		}
	}

	pois, err := s.repo.GetNearbyPOIs(ctx, near, radiusKm, category, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository lookup failed")
		return nil, err
	}

	s.cache.Set(cacheKey, pois, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "Nearby POIs retrieved")
	return pois, nil
}

func (s *ServiceImpl) GetPOIByID(ctx context.Context, id uuid.UUID) (*types.CatalogPOI, error) {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "GetPOIByID", trace.WithAttributes(
		attribute.String("poi.id", id.String()),
	))
	defer span.End()

	poi, err := s.repo.GetPOIByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "POI retrieved")
	return poi, nil
}
