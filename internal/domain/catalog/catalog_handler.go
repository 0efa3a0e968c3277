package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
	"github.com/FACorreiaa/loci-route-engine/pkg/middleware"
)

// Handler exposes catalog browsing over JSON.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

// NewHandler wires a catalog handler.
func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type nearbyPOIsResponse struct {
	POIs  []types.CatalogPOI `json:"pois"`
	Count int                `json:"count"`
}

// GetNearbyPOIs handles GET /v1/catalog/pois?lat=&lon=&radius_km=&category=&limit=.
func (h *Handler) GetNearbyPOIs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "lat must be a number")
		return
	}
	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "lon must be a number")
		return
	}

	radiusKm := 0.0
	if raw := query.Get("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, "radius_km must be a number")
			return
		}
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, "limit must be an integer")
			return
		}
	}

	near := types.GeoPoint{Latitude: lat, Longitude: lon}
	pois, err := h.svc.GetNearbyPOIs(r.Context(), near, radiusKm, query.Get("category"), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, nearbyPOIsResponse{POIs: pois, Count: len(pois)})
}

// GetPOIByID handles GET /v1/catalog/pois/{id}.
func (h *Handler) GetPOIByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "id must be a UUID")
		return
	}

	poi, err := h.svc.GetPOIByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, poi)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, types.ErrBadRequest):
		h.writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrNotFound):
		h.writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrUnavailable):
		h.writeError(w, r, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "catalog request failed", slog.Any("error", err))
		h.writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	body := errorResponse{Error: message}
	if id, ok := middleware.RequestIDFromContext(r.Context()); ok {
		body.RequestID = id
	}
	h.writeJSON(w, status, body)
}
