package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func testTime() time.Time {
	return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
}

var catalogRowColumns = []string{
	"id", "name", "description", "latitude", "longitude", "category",
	"address", "website", "tags", "rating", "avg_visit_minutes",
	"price_level", "outdoor_seating", "has_wifi", "distance_meters",
}

func TestGetNearbyPOIs_QueriesWithinRadius(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresCatalogRepo(mockPool, newTestLogger())
	near := types.GeoPoint{Latitude: 56.3287, Longitude: 44.0020}

	poiID := uuid.New()
	rows := pgxmock.NewRows(catalogRowColumns).AddRow(
		poiID, "Kremlin", "City fortress", 56.3286, 44.0050, "landmark",
		"Kremlin, 1", "", []string{"history"}, 4.8, 60,
		"free", false, false, 210.5,
	)

	mockPool.ExpectQuery("SELECT .+ FROM points_of_interest").
		WithArgs(near.Longitude, near.Latitude, near.Longitude, near.Latitude, 1500.0).
		WillReturnRows(rows)

	pois, err := repo.GetNearbyPOIs(context.Background(), near, 1.5, "", 0)
	require.NoError(t, err)

	require.Len(t, pois, 1)
	assert.Equal(t, poiID, pois[0].ID)
	assert.Equal(t, "Kremlin", pois[0].Name)
	assert.InDelta(t, 210.5, pois[0].DistanceMeters, 1e-9)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetNearbyPOIs_FiltersByCategory(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresCatalogRepo(mockPool, newTestLogger())
	near := types.GeoPoint{Latitude: 56.3287, Longitude: 44.0020}

	mockPool.ExpectQuery("SELECT .+ FROM points_of_interest").
		WithArgs(near.Longitude, near.Latitude, near.Longitude, near.Latitude, 2000.0, "museum").
		WillReturnRows(pgxmock.NewRows(catalogRowColumns))

	pois, err := repo.GetNearbyPOIs(context.Background(), near, 2, "museum", 10)
	require.NoError(t, err)
	assert.Empty(t, pois)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestFindCafes_AppliesPreferenceFilters(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresCatalogRepo(mockPool, newTestLogger())
	near := types.GeoPoint{Latitude: 56.3287, Longitude: 44.0020}
	prefs := types.CoffeePreferences{
		Enabled:        true,
		OutdoorSeating: true,
		Dietary:        []string{"Vegan"},
	}

	rows := pgxmock.NewRows(catalogRowColumns).AddRow(
		uuid.New(), "Green Cup", "", 56.3290, 44.0030, "cafe",
		"Bolshaya Pokrovskaya, 15", "", []string{"vegan", "specialty"}, 4.6, 20,
		"$$", true, true, 120.0,
	)

	mockPool.ExpectQuery("SELECT .+ FROM points_of_interest").
		WithArgs(near.Longitude, near.Latitude, near.Longitude, near.Latitude, 500.0, "cafe", true, "vegan").
		WillReturnRows(rows)

	cafes, err := repo.FindCafes(context.Background(), near, prefs, 0.5, 1)
	require.NoError(t, err)

	require.Len(t, cafes, 1)
	assert.Equal(t, "Green Cup", cafes[0].Name)
	assert.True(t, cafes[0].OutdoorSeating)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestFindCafes_PropagatesQueryError(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresCatalogRepo(mockPool, newTestLogger())

	mockPool.ExpectQuery("SELECT .+ FROM points_of_interest").
		WillReturnError(errors.New("connection refused"))

	_, err = repo.FindCafes(context.Background(), types.GeoPoint{Latitude: 56.3, Longitude: 44.0},
		types.CoffeePreferences{}, 0.5, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying cafes")
}

func TestGetPOIByID_ReturnsRow(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresCatalogRepo(mockPool, newTestLogger())
	poiID := uuid.New()

	columns := []string{
		"id", "name", "description", "latitude", "longitude", "category",
		"address", "website", "tags", "rating", "avg_visit_minutes",
		"price_level", "outdoor_seating", "has_wifi", "created_at",
	}
	rows := pgxmock.NewRows(columns).AddRow(
		poiID, "Art Museum", "State art collection", 56.3266, 44.0070, "museum",
		"Kremlin, 3", "https://example.org", []string{"art"}, 4.7, 45,
		"$", false, true, testTime(),
	)

	// (?s) because the by-id query spans multiple lines.
	mockPool.ExpectQuery("(?s)SELECT .+ FROM points_of_interest").
		WithArgs(poiID).
		WillReturnRows(rows)

	poi, err := repo.GetPOIByID(context.Background(), poiID)
	require.NoError(t, err)
	assert.Equal(t, "Art Museum", poi.Name)
	assert.Equal(t, 45, poi.AvgVisitMinutes)
}

func TestGetPOIByID_NotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresCatalogRepo(mockPool, newTestLogger())

	mockPool.ExpectQuery("(?s)SELECT .+ FROM points_of_interest").
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetPOIByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
