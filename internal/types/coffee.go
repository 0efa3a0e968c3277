package types

// CoffeePreferences controls optional coffee-break insertion.
type CoffeePreferences struct {
	Enabled         bool     `json:"enabled"`
	IntervalMinutes int      `json:"interval_minutes,omitempty"`
	OutdoorSeating  bool     `json:"outdoor_seating,omitempty"`
	Wifi            bool     `json:"wifi,omitempty"`
	Cuisine         string   `json:"cuisine,omitempty"`
	Dietary         []string `json:"dietary,omitempty"`
	SearchRadiusKm  float64  `json:"search_radius_km,omitempty"`
}

// CoffeeSpot is a cafe returned by a places lookup.
type CoffeeSpot struct {
	Name      string   `json:"name"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Address   string   `json:"address,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Rating    float64  `json:"rating,omitempty"`
}

// Location returns the cafe coordinates as a GeoPoint.
func (c CoffeeSpot) Location() GeoPoint {
	return GeoPoint{Latitude: c.Latitude, Longitude: c.Longitude}
}
