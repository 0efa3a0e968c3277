package route

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
	"github.com/FACorreiaa/loci-route-engine/pkg/middleware"
)

// Handler exposes the route endpoints over JSON.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

// NewHandler wires a route handler.
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

// OptimizeRoute handles POST /v1/routes/optimize.
func (h *Handler) OptimizeRoute(w http.ResponseWriter, r *http.Request) {
	var req types.RouteOptimizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.svc.OptimizeRoute(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if id, ok := middleware.RequestIDFromContext(r.Context()); ok {
		resp.RequestID = id
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// RouteGeometry handles POST /v1/routes/geometry.
func (h *Handler) RouteGeometry(w http.ResponseWriter, r *http.Request) {
	var req types.RouteGeometryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.svc.RouteGeometry(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
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
		h.logger.ErrorContext(r.Context(), "route request failed", slog.Any("error", err))
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
