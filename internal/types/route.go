package types

import (
	"fmt"
	"time"
)

// SocialMode describes who the user is walking with. It is validated and
// echoed for downstream consumers; it does not alter sequencing.
type SocialMode string

const (
	SocialModeSolo    SocialMode = "solo"
	SocialModePartner SocialMode = "partner"
	SocialModeFriends SocialMode = "friends"
	SocialModeFamily  SocialMode = "family"
)

// ParseSocialMode validates a social mode label. Empty defaults to solo.
func ParseSocialMode(s string) (SocialMode, error) {
	switch SocialMode(s) {
	case "":
		return SocialModeSolo, nil
	case SocialModeSolo, SocialModePartner, SocialModeFriends, SocialModeFamily:
		return SocialMode(s), nil
	default:
		return "", fmt.Errorf("%w: unknown social_mode %q", ErrBadRequest, s)
	}
}

// Note codes attached to responses when the engine degrades or clamps.
const (
	NoteBudgetExceeded   = "budget_exceeded"
	NoteDistanceFallback = "distance_fallback"
	NoteCoffeeSkipped    = "coffee_skipped"
	NoteGeometryFallback = "geometry_fallback"
)

// RouteNote is a machine-checkable advisory about how the route was built.
type RouteNote struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RouteStop is one entry of the final itinerary, either a POI visit or an
// inserted coffee break.
type RouteStop struct {
	Order                  int       `json:"order"`
	POIID                  string    `json:"poi_id,omitempty"`
	Name                   string    `json:"name"`
	Category               string    `json:"category,omitempty"`
	Latitude               float64   `json:"latitude"`
	Longitude              float64   `json:"longitude"`
	ArrivalTime            time.Time `json:"arrival_time"`
	LeaveTime              time.Time `json:"leave_time"`
	VisitMinutes           float64   `json:"visit_minutes"`
	DistanceFromPreviousKm float64   `json:"distance_from_previous_km"`
	IsCoffeeBreak          bool      `json:"is_coffee_break,omitempty"`
}

// Route is the assembled itinerary. Geometry is a polyline of [lat, lon]
// pairs beginning at the start point and passing through every stop.
type Route struct {
	Stops           []RouteStop  `json:"stops"`
	TotalDistanceKm float64      `json:"total_distance_km"`
	TotalMinutes    float64      `json:"total_minutes"`
	Feasible        bool         `json:"feasible"`
	Geometry        [][2]float64 `json:"geometry"`
	Notes           []RouteNote  `json:"notes,omitempty"`
}

// RouteOptimizationRequest is the optimize endpoint payload. POIs arrive
// pre-ranked: input order is relevance order.
type RouteOptimizationRequest struct {
	Start          GeoPoint          `json:"start"`
	AvailableHours float64           `json:"available_hours"`
	Intensity      string            `json:"intensity"`
	SocialMode     string            `json:"social_mode,omitempty"`
	AllowTransit   bool              `json:"allow_transit,omitempty"`
	StartTime      *time.Time        `json:"start_time,omitempty"`
	POIs           []POI             `json:"pois"`
	Coffee         CoffeePreferences `json:"coffee"`
}

// Validate checks the request against the input contract. Every violation is
// reported as ErrBadRequest with a specific reason, never silently defaulted.
func (r *RouteOptimizationRequest) Validate() error {
	if !r.Start.Valid() {
		return fmt.Errorf("%w: start coordinates out of range", ErrBadRequest)
	}
	if r.AvailableHours <= 0 {
		return fmt.Errorf("%w: available_hours must be positive", ErrBadRequest)
	}
	if _, err := ProfileFor(IntensityLabel(r.Intensity)); err != nil {
		return err
	}
	if _, err := ParseSocialMode(r.SocialMode); err != nil {
		return err
	}
	if len(r.POIs) == 0 {
		return fmt.Errorf("%w: pois must not be empty", ErrBadRequest)
	}
	seen := make(map[string]struct{}, len(r.POIs))
	for i, poi := range r.POIs {
		if poi.ID == "" {
			return fmt.Errorf("%w: pois[%d] is missing an id", ErrBadRequest, i)
		}
		if _, dup := seen[poi.ID]; dup {
			return fmt.Errorf("%w: duplicate poi id %q", ErrBadRequest, poi.ID)
		}
		seen[poi.ID] = struct{}{}
		if !poi.Location().Valid() {
			return fmt.Errorf("%w: pois[%d] coordinates out of range", ErrBadRequest, i)
		}
	}
	if r.Coffee.Enabled {
		if r.Coffee.IntervalMinutes <= 0 {
			return fmt.Errorf("%w: coffee.interval_minutes must be positive when breaks are enabled", ErrBadRequest)
		}
		if r.Coffee.SearchRadiusKm < 0 {
			return fmt.Errorf("%w: coffee.search_radius_km must not be negative", ErrBadRequest)
		}
	}
	return nil
}

// RouteOptimizationResponse wraps the produced route with request echoes.
type RouteOptimizationResponse struct {
	RequestID  string         `json:"request_id"`
	Route      Route          `json:"route"`
	Intensity  IntensityLabel `json:"intensity"`
	SocialMode SocialMode     `json:"social_mode"`
}

// RouteGeometryRequest asks for a walking polyline through ordered waypoints.
type RouteGeometryRequest struct {
	Start     GeoPoint   `json:"start"`
	Waypoints []GeoPoint `json:"waypoints"`
}

const maxGeometryWaypoints = 50

// Validate checks the geometry request bounds.
func (r *RouteGeometryRequest) Validate() error {
	if !r.Start.Valid() {
		return fmt.Errorf("%w: start coordinates out of range", ErrBadRequest)
	}
	if len(r.Waypoints) == 0 {
		return fmt.Errorf("%w: waypoints must not be empty", ErrBadRequest)
	}
	if len(r.Waypoints) > maxGeometryWaypoints {
		return fmt.Errorf("%w: at most %d waypoints are supported", ErrBadRequest, maxGeometryWaypoints)
	}
	for i, w := range r.Waypoints {
		if !w.Valid() {
			return fmt.Errorf("%w: waypoints[%d] coordinates out of range", ErrBadRequest, i)
		}
	}
	return nil
}

// RouteGeometryResponse carries the polyline and its totals.
type RouteGeometryResponse struct {
	Geometry        [][2]float64 `json:"geometry"`
	TotalDistanceKm float64      `json:"total_distance_km"`
	DurationMinutes float64      `json:"duration_minutes"`
	Notes           []RouteNote  `json:"notes,omitempty"`
}
