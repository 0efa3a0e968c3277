package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/loci-route-engine/internal/types"
)

var testPoints = []types.GeoPoint{
	{Latitude: 56.3287, Longitude: 44.0020},
	{Latitude: 56.3304, Longitude: 44.0094},
}

func TestClient_Matrix(t *testing.T) {
	var gotPath string
	var gotAuth string
	var gotBody matrixRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		d0, d1 := 0.0, 650.0
		s0, s1 := 0.0, 540.0
		_ = json.NewEncoder(w).Encode(matrixResponse{
			Distances: [][]*float64{{&d0, &d1}, {&d1, &d0}},
			Durations: [][]*float64{{&s0, &s1}, {&s1, &s0}},
		})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-key", 2*time.Second)
	legs, err := client.Matrix(context.Background(), testPoints, ModeWalking)
	require.NoError(t, err)

	assert.Equal(t, "/v2/matrix/foot-walking", gotPath)
	assert.Equal(t, "test-key", gotAuth)
	require.Len(t, gotBody.Locations, 2)
	assert.Equal(t, []float64{44.0020, 56.3287}, gotBody.Locations[0])

	require.Len(t, legs, 2)
	assert.Zero(t, legs[0][0].DistanceKm)
	assert.InDelta(t, 0.65, legs[0][1].DistanceKm, 1e-9)
	assert.InDelta(t, 9.0, legs[0][1].DurationMinutes, 1e-9)
}

func TestClient_Matrix_SingleAttemptOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "matrix unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-key", 2*time.Second)
	_, err := client.Matrix(context.Background(), testPoints, ModeWalking)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, int32(1), calls.Load(), "provider failures must not be retried")
}

func TestClient_Matrix_UnreachableLeg(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d0 := 0.0
		_ = json.NewEncoder(w).Encode(matrixResponse{
			Distances: [][]*float64{{&d0, nil}, {nil, &d0}},
			Durations: [][]*float64{{&d0, nil}, {nil, &d0}},
		})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-key", 2*time.Second)
	_, err := client.Matrix(context.Background(), testPoints, ModeWalking)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestClient_Matrix_ShapeMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d0 := 0.0
		_ = json.NewEncoder(w).Encode(matrixResponse{
			Distances: [][]*float64{{&d0}},
			Durations: [][]*float64{{&d0}},
		})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-key", 2*time.Second)
	_, err := client.Matrix(context.Background(), testPoints, ModeWalking)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shape mismatch")
}

func TestClient_Directions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/directions/foot-walking/geojson", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"features": [{
				"geometry": {"coordinates": [[44.0020, 56.3287], [44.0060, 56.3295], [44.0094, 56.3304]]},
				"properties": {"summary": {"distance": 650, "duration": 540}}
			}]
		}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-key", 2*time.Second)
	res, err := client.Directions(context.Background(), testPoints, ModeWalking)
	require.NoError(t, err)

	require.Len(t, res.Geometry, 3)
	assert.Equal(t, [2]float64{56.3287, 44.0020}, res.Geometry[0], "geometry must be lat,lon pairs")
	assert.InDelta(t, 0.65, res.DistanceKm, 1e-9)
	assert.InDelta(t, 9.0, res.DurationMinutes, 1e-9)
}

func TestClient_Directions_RejectsSingleWaypoint(t *testing.T) {
	client := NewClient("http://localhost:0", "test-key", time.Second)
	_, err := client.Directions(context.Background(), testPoints[:1], ModeWalking)
	require.Error(t, err)
}

func TestClient_Directions_StitchesLongWaypointLists(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req directionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// Echo the requested coordinates back as the polyline.
		resp := directionsResponse{}
		resp.Features = make([]struct {
			Geometry struct {
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties struct {
				Summary struct {
					Distance float64 `json:"distance"`
					Duration float64 `json:"duration"`
				} `json:"summary"`
			} `json:"properties"`
		}, 1)
		resp.Features[0].Geometry.Coordinates = req.Coordinates
		resp.Features[0].Properties.Summary.Distance = float64(len(req.Coordinates)-1) * 100
		resp.Features[0].Properties.Summary.Duration = float64(len(req.Coordinates)-1) * 90
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	waypoints := make([]types.GeoPoint, 15)
	for i := range waypoints {
		waypoints[i] = types.GeoPoint{Latitude: 56.3 + float64(i)*0.001, Longitude: 44.0}
	}

	client := NewClient(server.URL, "test-key", 2*time.Second)
	res, err := client.Directions(context.Background(), waypoints, ModeWalking)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load(), "15 waypoints split into two overlapping windows")
	assert.Len(t, res.Geometry, 15, "joint points must not be duplicated")
	assert.Equal(t, [2]float64{waypoints[0].Latitude, 44.0}, res.Geometry[0])
	assert.Equal(t, [2]float64{waypoints[14].Latitude, 44.0}, res.Geometry[14])
	assert.InDelta(t, 1.4, res.DistanceKm, 1e-9, "14 legs of 100m")
	assert.InDelta(t, 21.0, res.DurationMinutes, 1e-9, "14 legs of 90s")
}
