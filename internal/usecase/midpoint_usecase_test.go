package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/config"
	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/pkg/utils"
	"github.com/split-the-distance/internal/usecase"
	"github.com/split-the-distance/internal/usecase/dto"
)

var (
	newYork      = domain.GeoPoint{Lat: 40.7128, Lon: -74.0060}
	philadelphia = domain.GeoPoint{Lat: 39.9526, Lon: -75.1652}
)

// crowFliesRouting answers matrix requests with straight-line distances at
// 25 m/s.
type crowFliesRouting struct {
	calls int
}

func (r *crowFliesRouting) Route(context.Context, domain.GeoPoint, domain.GeoPoint, domain.TravelMode) (*domain.RouteSet, error) {
	return nil, errors.ErrNoRouteFound
}

func (r *crowFliesRouting) DistanceMatrix(_ context.Context, origins []domain.GeoPoint, dest domain.GeoPoint, _ domain.TravelMode) ([]domain.PerOriginCost, error) {
	r.calls++
	rows := make([]domain.PerOriginCost, len(origins))
	for i, o := range origins {
		d := utils.DistanceMeters(o, dest)
		rows[i] = domain.PerOriginCost{OriginIndex: i, DistanceMeters: d, DurationSeconds: d / 25, Reachable: true}
	}
	return rows, nil
}

// straightRoute samples n+1 points on the segment a-b.
func straightRoute(a, b domain.GeoPoint, n int, duration float64) domain.Route {
	line := make([]domain.GeoPoint, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		line[i] = domain.GeoPoint{Lat: a.Lat + (b.Lat-a.Lat)*t, Lon: a.Lon + (b.Lon-a.Lon)*t}
	}
	return domain.Route{
		DurationSeconds: duration,
		DistanceMeters:  utils.DistanceMeters(a, b),
		Geometry:        line,
	}
}

func newMidpointUseCase(routing *MockRouting, geocoding *MockGeocoding) *usecase.MidpointUseCase {
	return usecase.NewMidpointUseCase(routing, geocoding, config.MidpointConfig{}, usecase.RetryPolicy{MaxRetries: 2}, nil, zap.NewNop())
}

func TestMidpointUseCase_ComputePairMidpoint(t *testing.T) {
	ctx := context.Background()

	t.Run("same point is its own midpoint", func(t *testing.T) {
		routing := &MockRouting{}
		uc := newMidpointUseCase(routing, &MockGeocoding{})

		resp, err := uc.ComputePairMidpoint(ctx, newYork, newYork, domain.OptimizeTime, domain.TravelModeDriving, 0)

		require.NoError(t, err)
		assert.Equal(t, newYork.Lat, resp.Result.Point.Lat)
		assert.Equal(t, newYork.Lon, resp.Result.Point.Lon)
		assert.Equal(t, []float64{0, 0}, resp.Result.PerPartyCost)
		routing.AssertNotCalled(t, "Route", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("symmetric route gives the same midpoint both ways", func(t *testing.T) {
		routing := &MockRouting{}
		uc := newMidpointUseCase(routing, &MockGeocoding{})

		forward := straightRoute(newYork, philadelphia, 10, 5400)
		backward := straightRoute(philadelphia, newYork, 10, 5400)
		routing.On("Route", ctx, newYork, philadelphia, domain.TravelModeDriving).
			Return(&domain.RouteSet{Routes: []domain.Route{forward}}, nil)
		routing.On("Route", ctx, philadelphia, newYork, domain.TravelModeDriving).
			Return(&domain.RouteSet{Routes: []domain.Route{backward}}, nil)

		ab, err := uc.ComputePairMidpoint(ctx, newYork, philadelphia, domain.OptimizeTime, domain.TravelModeDriving, 0)
		require.NoError(t, err)
		ba, err := uc.ComputePairMidpoint(ctx, philadelphia, newYork, domain.OptimizeTime, domain.TravelModeDriving, 0)
		require.NoError(t, err)

		assert.InDelta(t, ab.Result.Point.Lat, ba.Result.Point.Lat, 1e-6)
		assert.InDelta(t, ab.Result.Point.Lon, ba.Result.Point.Lon, 1e-6)
		assert.Equal(t, ab.Result.MaxCost, ba.Result.MaxCost)
	})

	t.Run("no route", func(t *testing.T) {
		routing := &MockRouting{}
		uc := newMidpointUseCase(routing, &MockGeocoding{})
		routing.On("Route", ctx, newYork, philadelphia, domain.TravelModeWalking).
			Return(nil, errors.ErrNoRouteFound)

		_, err := uc.ComputePairMidpoint(ctx, newYork, philadelphia, domain.OptimizeTime, domain.TravelModeWalking, 0)

		assert.True(t, errors.Is(err, errors.ErrNoRouteFound))
		routing.AssertNumberOfCalls(t, "Route", 1)
	})

	t.Run("upstream failure is retried", func(t *testing.T) {
		routing := &MockRouting{}
		uc := newMidpointUseCase(routing, &MockGeocoding{})
		route := straightRoute(newYork, philadelphia, 4, 5400)
		routing.On("Route", ctx, newYork, philadelphia, domain.TravelModeDriving).
			Return(nil, errors.ErrUpstreamUnavailable).Once()
		routing.On("Route", ctx, newYork, philadelphia, domain.TravelModeDriving).
			Return(&domain.RouteSet{Routes: []domain.Route{route}}, nil).Once()

		resp, err := uc.ComputePairMidpoint(ctx, newYork, philadelphia, domain.OptimizeTime, domain.TravelModeDriving, 0)

		require.NoError(t, err)
		assert.Equal(t, 2700.0, resp.Result.MaxCost)
		routing.AssertExpectations(t)
	})

	t.Run("route index out of range", func(t *testing.T) {
		routing := &MockRouting{}
		uc := newMidpointUseCase(routing, &MockGeocoding{})
		routing.On("Route", ctx, newYork, philadelphia, domain.TravelModeDriving).
			Return(&domain.RouteSet{Routes: []domain.Route{straightRoute(newYork, philadelphia, 2, 100)}}, nil)

		_, err := uc.ComputePairMidpoint(ctx, newYork, philadelphia, domain.OptimizeTime, domain.TravelModeDriving, 3)

		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	})
}

func TestMidpointUseCase_ComputePairMidpointByQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("new york to philadelphia", func(t *testing.T) {
		routing := &MockRouting{}
		geocoding := &MockGeocoding{}
		uc := newMidpointUseCase(routing, geocoding)

		geocoding.On("SearchLocations", ctx, "New York, NY").Return([]domain.GeoPoint{newYork}, nil)
		geocoding.On("SearchLocations", ctx, "Philadelphia, PA").Return([]domain.GeoPoint{philadelphia}, nil)
		routing.On("Route", ctx, newYork, philadelphia, domain.TravelModeDriving).
			Return(&domain.RouteSet{Routes: []domain.Route{straightRoute(newYork, philadelphia, 20, 5400)}}, nil)

		resp, err := uc.ComputePairMidpointByQuery(ctx, dto.PairMidpointRequest{
			A:          dto.PointInput{Query: "New York, NY"},
			B:          dto.PointInput{Query: "Philadelphia, PA"},
			TravelMode: "driving",
		})
		require.NoError(t, err)

		costs := resp.Result.PerPartyCost
		require.Len(t, costs, 2)
		assert.InEpsilon(t, costs[0], costs[1], 0.10)

		box := utils.Bounds(newYork, philadelphia).Expand(0.1)
		assert.True(t, box.Contains(resp.Result.Point))
		assert.Equal(t, domain.TravelModeDriving, resp.Result.TravelMode)
	})

	t.Run("unknown place", func(t *testing.T) {
		geocoding := &MockGeocoding{}
		uc := newMidpointUseCase(&MockRouting{}, geocoding)
		geocoding.On("SearchLocations", ctx, "Atlantis").Return([]domain.GeoPoint{}, nil)

		_, err := uc.ComputePairMidpointByQuery(ctx, dto.PairMidpointRequest{
			A: dto.PointInput{Query: "Atlantis"},
			B: dto.PointInput{Query: "Philadelphia, PA"},
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrLocationNotFound))
		assert.Contains(t, err.Error(), "could not find location Atlantis")
	})
}

func TestMidpointUseCase_SelectRoute(t *testing.T) {
	ctx := context.Background()
	routing := &MockRouting{}
	uc := newMidpointUseCase(routing, &MockGeocoding{})

	detour := domain.GeoPoint{Lat: 40.6, Lon: -74.9}
	alt := domain.Route{
		DurationSeconds: 6000,
		DistanceMeters:  utils.DistanceMeters(newYork, detour) + utils.DistanceMeters(detour, philadelphia),
		Geometry:        []domain.GeoPoint{newYork, detour, philadelphia},
	}
	routing.On("Route", ctx, newYork, philadelphia, domain.TravelModeDriving).
		Return(&domain.RouteSet{Routes: []domain.Route{straightRoute(newYork, philadelphia, 4, 5400), alt}}, nil)

	resp, err := uc.SelectRoute(ctx, newYork, philadelphia, domain.OptimizeTime, domain.TravelModeDriving, 1, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Selected)
	require.Len(t, resp.Alternatives, 2)
	assert.Equal(t, resp.Alternatives[1].Midpoint, resp.Result)
	require.NotNil(t, resp.PlacesRefresh)
	assert.Equal(t, resp.Result.Point, resp.PlacesRefresh.Center)
	assert.Equal(t, usecase.DefaultPlaceCategories, resp.PlacesRefresh.Categories)
}

func TestMidpointUseCase_ComputeGroupMidpoint(t *testing.T) {
	ctx := context.Background()
	routing := &crowFliesRouting{}
	uc := usecase.NewMidpointUseCase(routing, &MockGeocoding{}, config.MidpointConfig{MaxIterations: 8}, usecase.RetryPolicy{}, nil, zap.NewNop())

	a := domain.GeoPoint{Lat: 40.7128, Lon: -74.0060}
	b := domain.GeoPoint{Lat: 39.9526, Lon: -75.1652}
	c := domain.GeoPoint{Lat: 40.2206, Lon: -74.7597}
	parties := []domain.Party{
		{ID: "a", Origin: &a},
		{ID: "b", Origin: &b},
		{ID: "c", Origin: &c},
		{ID: "d"},
	}

	t.Run("excludes parties without an origin", func(t *testing.T) {
		resp, err := uc.ComputeGroupMidpoint(ctx, parties, domain.OptimizeTime, domain.TravelModeDriving)
		require.NoError(t, err)

		require.Len(t, resp.Result.PerPartyCost, 3)
		require.Len(t, resp.Costs, 3)
		assert.Equal(t, []string{"d"}, resp.Excluded)

		worst := 0.0
		for _, cost := range resp.Result.PerPartyCost {
			worst = max(worst, cost)
		}
		assert.Equal(t, worst, resp.MaxDrive)
		assert.Equal(t, resp.Result.RoutingCalls, routing.calls)
		assert.LessOrEqual(t, resp.Result.RoutingCalls, 8)
	})

	t.Run("never worse than the centroid", func(t *testing.T) {
		resp, err := uc.ComputeGroupMidpoint(ctx, parties, domain.OptimizeTime, domain.TravelModeDriving)
		require.NoError(t, err)

		centroid := utils.Centroid([]domain.GeoPoint{a, b, c})
		baseline := 0.0
		for _, o := range []domain.GeoPoint{a, b, c} {
			baseline = max(baseline, utils.DistanceMeters(o, centroid)/25)
		}
		assert.LessOrEqual(t, resp.MaxDrive, baseline)
	})

	t.Run("needs two known origins", func(t *testing.T) {
		_, err := uc.ComputeGroupMidpoint(ctx, []domain.Party{{ID: "a", Origin: &a}, {ID: "d"}}, domain.OptimizeTime, domain.TravelModeDriving)
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	})
}
