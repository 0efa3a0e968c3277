package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

// Client talks to the external places-search HTTP API. Single attempt per
// lookup, bounded by the configured timeout.
type Client struct {
	baseURL string
	apiKey  string
	session *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient builds a places client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		session: &http.Client{Timeout: timeout},
	}
}

type searchRequest struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	RadiusKm       float64  `json:"radius_km"`
	Category       string   `json:"category"`
	OutdoorSeating bool     `json:"outdoor_seating,omitempty"`
	Wifi           bool     `json:"wifi,omitempty"`
	Cuisine        string   `json:"cuisine,omitempty"`
	Dietary        []string `json:"dietary,omitempty"`
	Limit          int      `json:"limit"`
}

type searchResponse struct {
	Places []struct {
		Name      string   `json:"name"`
		Latitude  float64  `json:"latitude"`
		Longitude float64  `json:"longitude"`
		Address   string   `json:"address"`
		Tags      []string `json:"tags"`
		Rating    float64  `json:"rating"`
	} `json:"places"`
}

const searchLimit = 5

// FindCoffeeSpot asks the places service for cafes near the point and returns
// the first result that also passes the keyword screen. Upstream order is
// preserved, it ranks by proximity.
func (c *Client) FindCoffeeSpot(ctx context.Context, near types.GeoPoint, prefs types.CoffeePreferences) (*types.CoffeeSpot, error) {
	endpoint := c.baseURL + "/v1/places/search"

	payload, err := json.Marshal(searchRequest{
		Latitude:       near.Latitude,
		Longitude:      near.Longitude,
		RadiusKm:       searchRadiusKm(prefs),
		Category:       "cafe",
		OutdoorSeating: prefs.OutdoorSeating,
		Wifi:           prefs.Wifi,
		Cuisine:        prefs.Cuisine,
		Dietary:        prefs.Dietary,
		Limit:          searchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal places request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create places request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("places provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}

	for _, p := range sr.Places {
		text := spotText(p.Name, p.Tags)
		if !matchesCuisine(text, prefs.Cuisine) {
			continue
		}
		if !matchesDietary(text, prefs.Dietary) {
			continue
		}
		return &types.CoffeeSpot{
			Name:      p.Name,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Address:   p.Address,
			Tags:      p.Tags,
			Rating:    p.Rating,
		}, nil
	}
	return nil, nil
}
