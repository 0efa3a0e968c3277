package types

import (
	"time"

	"github.com/google/uuid"
)

// POI is one pre-ranked candidate supplied to the optimizer. Rank is the
// zero-based input position; lower rank means more relevant. The engine never
// re-ranks candidates, it only decides which ones fit and in what order.
type POI struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Category        string   `json:"category,omitempty"`
	AvgVisitMinutes float64  `json:"avg_visit_minutes"`
	Rating          float64  `json:"rating,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Rank            int      `json:"-"`
}

// Location returns the POI coordinates as a GeoPoint.
func (p POI) Location() GeoPoint {
	return GeoPoint{Latitude: p.Latitude, Longitude: p.Longitude}
}

// CatalogPOI is a row from the seeded city catalog.
type CatalogPOI struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Category        string    `json:"category"`
	Address         string    `json:"address,omitempty"`
	Website         string    `json:"website,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	Rating          float64   `json:"rating"`
	AvgVisitMinutes int       `json:"avg_visit_minutes"`
	PriceLevel      string    `json:"price_level,omitempty"`
	OutdoorSeating  bool      `json:"outdoor_seating"`
	HasWifi         bool      `json:"has_wifi"`
	DistanceMeters  float64   `json:"distance_meters,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}
