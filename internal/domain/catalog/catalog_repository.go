// Package catalog serves the seeded city POI catalog: radius queries for
// browsing candidates and cafe lookups for coffee-break insertion.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// DB is the pool surface the repository uses, satisfied by *pgxpool.Pool and
// by pgxmock in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository defines the catalog persistence contract.
type Repository interface {
	// GetNearbyPOIs returns catalog POIs within radiusKm of a point, closest
	// first, optionally narrowed to one category.
	GetNearbyPOIs(ctx context.Context, near types.GeoPoint, radiusKm float64, category string, limit int) ([]types.CatalogPOI, error)
	// GetPOIByID returns one catalog POI or ErrNotFound.
	GetPOIByID(ctx context.Context, id uuid.UUID) (*types.CatalogPOI, error)
	// FindCafes returns cafes near a point matching the coffee preferences,
	// closest first.
	FindCafes(ctx context.Context, near types.GeoPoint, prefs types.CoffeePreferences, radiusKm float64, limit int) ([]types.CatalogPOI, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool DB
}

func NewPostgresCatalogRepo(pgpool DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

var catalogColumns = []string{
	"id", "name", "description", "latitude", "longitude", "category",
	"address", "website", "tags", "rating", "avg_visit_minutes",
	"price_level", "outdoor_seating", "has_wifi",
}

// nearbyBuilder starts a distance-ordered select around a point.
func nearbyBuilder(near types.GeoPoint, radiusKm float64) squirrel.SelectBuilder {
	return squirrel.Select(catalogColumns...).
		Column(squirrel.Expr(
			"ST_Distance(location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography) AS distance_meters",
			near.Longitude, near.Latitude,
		)).
		From("points_of_interest").
		Where(squirrel.Expr(
			"ST_DWithin(location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)",
			near.Longitude, near.Latitude, radiusKm*1000,
		)).
		OrderBy("distance_meters", "rating DESC", "id").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *RepositoryImpl) GetNearbyPOIs(ctx context.Context, near types.GeoPoint, radiusKm float64, category string, limit int) ([]types.CatalogPOI, error) {
	ctx, span := otel.Tracer("CatalogRepository").Start(ctx, "GetNearbyPOIs", trace.WithAttributes(
		attribute.Float64("latitude", near.Latitude),
		attribute.Float64("longitude", near.Longitude),
		attribute.Float64("radius_km", radiusKm),
		attribute.String("category", category),
	))
	defer span.End()

	builder := nearbyBuilder(near, radiusKm)
	if category != "" {
		builder = builder.Where(squirrel.Eq{"category": category})
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building nearby POI query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to query nearby POIs")
		return nil, fmt.Errorf("querying nearby POIs: %w", err)
	}
	defer rows.Close()

	pois, err := scanCatalogPOIs(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to scan nearby POIs")
		return nil, err
	}

	r.logger.DebugContext(ctx, "nearby POIs retrieved", slog.Int("count", len(pois)))
	span.SetStatus(codes.Ok, "Nearby POIs retrieved")
	return pois, nil
}

func (r *RepositoryImpl) GetPOIByID(ctx context.Context, id uuid.UUID) (*types.CatalogPOI, error) {
	ctx, span := otel.Tracer("CatalogRepository").Start(ctx, "GetPOIByID", trace.WithAttributes(
		attribute.String("poi.id", id.String()),
	))
	defer span.End()

	query := `
        SELECT id, name, description, latitude, longitude, category, address,
            website, tags, rating, avg_visit_minutes, price_level,
            outdoor_seating, has_wifi, created_at
        FROM points_of_interest
        WHERE id = $1
    `
	row := r.pgpool.QueryRow(ctx, query, id)

	var p types.CatalogPOI
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Latitude, &p.Longitude, &p.Category,
		&p.Address, &p.Website, &p.Tags, &p.Rating, &p.AvgVisitMinutes,
		&p.PriceLevel, &p.OutdoorSeating, &p.HasWifi, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "POI not found")
			return nil, fmt.Errorf("%w: poi %s", types.ErrNotFound, id)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to query POI")
		return nil, fmt.Errorf("querying poi %s: %w", id, err)
	}

	span.SetStatus(codes.Ok, "POI retrieved")
	return &p, nil
}

func (r *RepositoryImpl) FindCafes(ctx context.Context, near types.GeoPoint, prefs types.CoffeePreferences, radiusKm float64, limit int) ([]types.CatalogPOI, error) {
	ctx, span := otel.Tracer("CatalogRepository").Start(ctx, "FindCafes", trace.WithAttributes(
		attribute.Float64("latitude", near.Latitude),
		attribute.Float64("longitude", near.Longitude),
		attribute.Float64("radius_km", radiusKm),
	))
	defer span.End()

	builder := nearbyBuilder(near, radiusKm).
		Where(squirrel.Eq{"category": "cafe"})

	if prefs.OutdoorSeating {
		builder = builder.Where(squirrel.Eq{"outdoor_seating": true})
	}
	if prefs.Wifi {
		builder = builder.Where(squirrel.Eq{"has_wifi": true})
	}
	if prefs.Cuisine != "" {
		builder = builder.Where(squirrel.Expr("? = ANY(tags)", strings.ToLower(prefs.Cuisine)))
	}
	for _, d := range prefs.Dietary {
		if d = strings.TrimSpace(d); d != "" {
			builder = builder.Where(squirrel.Expr("? = ANY(tags)", strings.ToLower(d)))
		}
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building cafe query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to query cafes")
		return nil, fmt.Errorf("querying cafes: %w", err)
	}
	defer rows.Close()

	cafes, err := scanCatalogPOIs(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to scan cafes")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Cafes retrieved")
	return cafes, nil
}

func scanCatalogPOIs(rows pgx.Rows) ([]types.CatalogPOI, error) {
	var pois []types.CatalogPOI
	for rows.Next() {
		var p types.CatalogPOI
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Latitude, &p.Longitude, &p.Category,
			&p.Address, &p.Website, &p.Tags, &p.Rating, &p.AvgVisitMinutes,
			&p.PriceLevel, &p.OutdoorSeating, &p.HasWifi, &p.DistanceMeters,
		); err != nil {
			return nil, fmt.Errorf("scanning catalog POI: %w", err)
		}
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog POIs: %w", err)
	}
	return pois, nil
}
