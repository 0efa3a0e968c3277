package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

// Client talks to an OpenRouteService-compatible HTTP API. Every call is a
// single attempt bounded by the configured timeout; callers own the fallback.
type Client struct {
	baseURL string
	apiKey  string
	session *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient builds a routing client. The timeout caps each request.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		session: &http.Client{Timeout: timeout},
	}
}

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// Matrix fetches the full pairwise matrix in one batched call. Distances come
// back in meters and durations in seconds; legs are converted to km/minutes.
func (c *Client) Matrix(ctx context.Context, points []types.GeoPoint, mode Mode) ([][]Leg, error) {
	if len(points) == 0 {
		return [][]Leg{}, nil
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", c.baseURL, mode)

	locations := make([][]float64, 0, len(points))
	for _, p := range points {
		locations = append(locations, []float64{p.Longitude, p.Latitude})
	}

	payload, err := json.Marshal(matrixRequest{
		Locations: locations,
		Metrics:   []string{"distance", "duration"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	n := len(points)
	if len(mr.Distances) != n || len(mr.Durations) != n {
		return nil, fmt.Errorf("matrix shape mismatch: distances=%d durations=%d points=%d",
			len(mr.Distances), len(mr.Durations), n)
	}

	legs := make([][]Leg, n)
	for i := 0; i < n; i++ {
		if len(mr.Distances[i]) != n || len(mr.Durations[i]) != n {
			return nil, fmt.Errorf("matrix row %d has wrong length", i)
		}
		legs[i] = make([]Leg, n)
		for j := 0; j < n; j++ {
			meters := mr.Distances[i][j]
			seconds := mr.Durations[i][j]
			if meters == nil || seconds == nil {
				return nil, fmt.Errorf("matrix leg %d->%d is unreachable", i, j)
			}
			legs[i][j] = Leg{
				DistanceKm:      *meters / 1000,
				DurationMinutes: *seconds / 60,
			}
		}
	}
	return legs, nil
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// maxWaypointsPerCall caps a single directions request. Longer waypoint lists
// are split into overlapping windows that share a joint point, fetched
// concurrently and stitched back in order.
const maxWaypointsPerCall = 10

// Directions fetches the walking polyline through the given waypoints.
func (c *Client) Directions(ctx context.Context, waypoints []types.GeoPoint, mode Mode) (*DirectionsResult, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("directions needs at least 2 waypoints, got %d", len(waypoints))
	}
	if len(waypoints) <= maxWaypointsPerCall {
		return c.directionsCall(ctx, waypoints, mode)
	}

	var chunks [][]types.GeoPoint
	for start := 0; start < len(waypoints)-1; start += maxWaypointsPerCall - 1 {
		end := min(start+maxWaypointsPerCall, len(waypoints))
		chunks = append(chunks, waypoints[start:end])
		if end == len(waypoints) {
			break
		}
	}

	results := make([]*DirectionsResult, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			res, err := c.directionsCall(gctx, chunk, mode)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stitched := &DirectionsResult{}
	for i, res := range results {
		geometry := res.Geometry
		if i > 0 && len(geometry) > 0 {
			geometry = geometry[1:]
		}
		stitched.Geometry = append(stitched.Geometry, geometry...)
		stitched.DistanceKm += res.DistanceKm
		stitched.DurationMinutes += res.DurationMinutes
	}
	return stitched, nil
}

func (c *Client) directionsCall(ctx context.Context, waypoints []types.GeoPoint, mode Mode) (*DirectionsResult, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", c.baseURL, mode)

	coords := make([][]float64, 0, len(waypoints))
	for _, w := range waypoints {
		coords = append(coords, []float64{w.Longitude, w.Latitude})
	}

	payload, err := json.Marshal(directionsRequest{Coordinates: coords})
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}
	if len(dr.Features) == 0 {
		return nil, fmt.Errorf("directions response has no features")
	}

	feature := dr.Features[0]
	geometry := make([][2]float64, 0, len(feature.Geometry.Coordinates))
	for i, coord := range feature.Geometry.Coordinates {
		if len(coord) < 2 {
			return nil, fmt.Errorf("directions coordinate %d is malformed", i)
		}
		geometry = append(geometry, [2]float64{coord[1], coord[0]})
	}

	return &DirectionsResult{
		Geometry:        geometry,
		DistanceKm:      feature.Properties.Summary.Distance / 1000,
		DurationMinutes: feature.Properties.Summary.Duration / 60,
	}, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("routing provider returned %d: %s", e.Code, e.Body)
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}
