package mapbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/config"
	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
)

var (
	newYork      = domain.GeoPoint{Lat: 40.7128, Lon: -74.0060}
	philadelphia = domain.GeoPoint{Lat: 39.9526, Lon: -75.1652}
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.MapboxConfig{
		AccessToken:     "test_token",
		BaseURL:         server.URL,
		MaxMatrixPoints: 25,
		RequestTimeout:  5,
	}
	return NewClient(cfg, zap.NewNop())
}

func TestProfile(t *testing.T) {
	assert.Equal(t, "mapbox/driving-traffic", Profile(domain.TravelModeDriving))
	assert.Equal(t, "mapbox/cycling", Profile(domain.TravelModeBicycling))
	assert.Equal(t, "mapbox/walking", Profile(domain.TravelModeWalking))
	assert.Equal(t, "mapbox/driving", Profile(domain.TravelModeTransit))
}

func TestClient_Route(t *testing.T) {
	t.Run("successful request with alternatives", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasPrefix(r.URL.Path, "/directions/v5/mapbox/driving-traffic/"))
			assert.Equal(t, "true", r.URL.Query().Get("alternatives"))
			assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"code": "Ok",
				"routes": [
					{"duration": 5400, "distance": 150000,
					 "geometry": {"type": "LineString", "coordinates": [[-74.006,40.7128],[-74.5,40.3],[-75.1652,39.9526]]},
					 "legs": [{"duration": 5400, "distance": 150000, "annotation": {"duration": [2000, 3400], "distance": [60000, 90000]}}]},
					{"duration": 6000, "distance": 160000,
					 "geometry": {"type": "LineString", "coordinates": [[-74.006,40.7128],[-75.1652,39.9526]]},
					 "legs": [{"duration": 6000, "distance": 160000}]}
				]
			}`))
		})

		set, err := client.Route(context.Background(), newYork, philadelphia, domain.TravelModeDriving)
		require.NoError(t, err)
		require.Len(t, set.Routes, 2)

		primary := set.Routes[0]
		assert.Equal(t, 5400.0, primary.DurationSeconds)
		assert.Len(t, primary.Geometry, 3)
		assert.Equal(t, 40.7128, primary.Geometry[0].Lat)
		assert.Equal(t, []float64{2000, 3400}, primary.SegmentDurations)
		assert.Nil(t, set.Routes[1].SegmentDurations)
	})

	t.Run("no route", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
		})

		_, err := client.Route(context.Background(), newYork, domain.GeoPoint{Lat: 48.85, Lon: 2.35}, domain.TravelModeDriving)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNoRouteFound))
		assert.False(t, errors.IsRetryable(err))
	})

	t.Run("no segment on 422", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"code": "NoSegment", "message": "No road segment"}`))
		})

		_, err := client.Route(context.Background(), newYork, philadelphia, domain.TravelModeWalking)
		assert.True(t, errors.Is(err, errors.ErrNoRouteFound))
	})

	t.Run("server error is retryable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.Route(context.Background(), newYork, philadelphia, domain.TravelModeDriving)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUpstreamUnavailable))
		assert.True(t, errors.IsRetryable(err))
	})
}

func TestClient_DistanceMatrix(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "0;1;2", r.URL.Query().Get("sources"))
			assert.Equal(t, "3", r.URL.Query().Get("destinations"))
			_, _ = w.Write([]byte(`{
				"code": "Ok",
				"durations": [[600], [null], [900]],
				"distances": [[8000], [null], [12000]]
			}`))
		})

		origins := []domain.GeoPoint{newYork, {Lat: 21.3, Lon: -157.8}, philadelphia}
		costs, err := client.DistanceMatrix(context.Background(), origins, domain.GeoPoint{Lat: 40.2, Lon: -74.7}, domain.TravelModeDriving)
		require.NoError(t, err)
		require.Len(t, costs, 3)

		assert.True(t, costs[0].Reachable)
		assert.Equal(t, 600.0, costs[0].DurationSeconds)
		assert.Equal(t, 8000.0, costs[0].DistanceMeters)
		assert.False(t, costs[1].Reachable)
		assert.Equal(t, 2, costs[2].OriginIndex)
	})

	t.Run("empty origins", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})

		_, err := client.DistanceMatrix(context.Background(), nil, newYork, domain.TravelModeDriving)
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	})

	t.Run("exceeds mapbox limit", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})

		origins := make([]domain.GeoPoint, 25)
		_, err := client.DistanceMatrix(context.Background(), origins, newYork, domain.TravelModeDriving)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceed Mapbox limit")
	})
}

func TestClient_Geocoding(t *testing.T) {
	t.Run("forward", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/geocoding/v5/mapbox.places/")
			_, _ = w.Write([]byte(`{"features": [
				{"text": "New York", "place_name": "New York, New York, United States", "center": [-74.006, 40.7128]}
			]}`))
		})

		points, err := client.SearchLocations(context.Background(), "New York, NY")
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, 40.7128, points[0].Lat)
		assert.Equal(t, "New York, New York, United States", points[0].Name)
	})

	t.Run("forward not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"features": []}`))
		})

		_, err := client.SearchLocations(context.Background(), "Atlantis")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrLocationNotFound))
		assert.Contains(t, err.Error(), "could not find location Atlantis")
	})

	t.Run("reverse keeps coordinates", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"features": [{"place_name": "Trenton, New Jersey", "center": [-74.76, 40.22]}]}`))
		})

		p, err := client.ReverseGeocode(context.Background(), domain.GeoPoint{Lat: 40.2, Lon: -74.7})
		require.NoError(t, err)
		assert.Equal(t, 40.2, p.Lat)
		assert.Equal(t, "Trenton, New Jersey", p.Name)
	})
}
