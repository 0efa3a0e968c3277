package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

type stubCatalogService struct {
	nearby    []types.CatalogPOI
	poi       *types.CatalogPOI
	err       error
	lastNear  types.GeoPoint
	lastLimit int
	lastID    uuid.UUID
}

var _ Service = (*stubCatalogService)(nil)

func (s *stubCatalogService) GetNearbyPOIs(_ context.Context, near types.GeoPoint, _ float64, _ string, limit int) ([]types.CatalogPOI, error) {
	s.lastNear = near
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.nearby, nil
}

func (s *stubCatalogService) GetPOIByID(_ context.Context, id uuid.UUID) (*types.CatalogPOI, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.poi, nil
}

func newCatalogMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/catalog/pois", h.GetNearbyPOIs)
	mux.HandleFunc("GET /v1/catalog/pois/{id}", h.GetPOIByID)
	return mux
}

func TestGetNearbyPOIsHandler_Succeeds(t *testing.T) {
	svc := &stubCatalogService{nearby: []types.CatalogPOI{
		{ID: uuid.New(), Name: "Kremlin", Category: "landmark"},
		{ID: uuid.New(), Name: "Art Museum", Category: "museum"},
	}}
	h := NewHandler(svc, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/pois?lat=56.3287&lon=44.0020&limit=5", nil)
	rec := httptest.NewRecorder()
	newCatalogMux(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp nearbyPOIsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "Kremlin", resp.POIs[0].Name)
	assert.InDelta(t, 56.3287, svc.lastNear.Latitude, 1e-9)
	assert.Equal(t, 5, svc.lastLimit)
}

func TestGetNearbyPOIsHandler_RejectsMissingCoordinates(t *testing.T) {
	h := NewHandler(&stubCatalogService{}, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/pois?lon=44.0020", nil)
	rec := httptest.NewRecorder()
	newCatalogMux(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "lat must be a number", resp.Error)
}

func TestGetNearbyPOIsHandler_RejectsBadLimit(t *testing.T) {
	h := NewHandler(&stubCatalogService{}, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/pois?lat=56.3&lon=44.0&limit=lots", nil)
	rec := httptest.NewRecorder()
	newCatalogMux(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetNearbyPOIsHandler_MapsBadRequest(t *testing.T) {
	svc := &stubCatalogService{err: fmt.Errorf("%w: coordinates out of range", types.ErrBadRequest)}
	h := NewHandler(svc, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/pois?lat=99&lon=44.0", nil)
	rec := httptest.NewRecorder()
	newCatalogMux(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "coordinates out of range")
}

func TestGetPOIByIDHandler_Succeeds(t *testing.T) {
	id := uuid.New()
	svc := &stubCatalogService{poi: &types.CatalogPOI{ID: id, Name: "Chkalov Stairs", Category: "landmark"}}
	h := NewHandler(svc, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/pois/"+id.String(), nil)
	rec := httptest.NewRecorder()
	newCatalogMux(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, svc.lastID)

	var poi types.CatalogPOI
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&poi))
	assert.Equal(t, "Chkalov Stairs", poi.Name)
}

func TestGetPOIByIDHandler_RejectsMalformedID(t *testing.T) {
	h := NewHandler(&stubCatalogService{}, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/pois/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	newCatalogMux(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "id must be a UUID", resp.Error)
}

func TestGetPOIByIDHandler_MapsNotFound(t *testing.T) {
	id := uuid.New()
	svc := &stubCatalogService{err: fmt.Errorf("%w: poi %s", types.ErrNotFound, id)}
	h := NewHandler(svc, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/pois/"+id.String(), nil)
	rec := httptest.NewRecorder()
	newCatalogMux(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
