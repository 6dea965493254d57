package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/split-the-distance/internal/domain"
)

// MockRouting is a mock of RoutingRepository
type MockRouting struct {
	mock.Mock
}

func (m *MockRouting) Route(ctx context.Context, a, b domain.GeoPoint, mode domain.TravelMode) (*domain.RouteSet, error) {
	args := m.Called(ctx, a, b, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RouteSet), args.Error(1)
}

func (m *MockRouting) DistanceMatrix(ctx context.Context, origins []domain.GeoPoint, destination domain.GeoPoint, mode domain.TravelMode) ([]domain.PerOriginCost, error) {
	args := m.Called(ctx, origins, destination, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PerOriginCost), args.Error(1)
}

// MockGeocoding is a mock of GeocodingRepository
type MockGeocoding struct {
	mock.Mock
}

func (m *MockGeocoding) SearchLocations(ctx context.Context, query string) ([]domain.GeoPoint, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeoPoint), args.Error(1)
}

func (m *MockGeocoding) ReverseGeocode(ctx context.Context, point domain.GeoPoint) (domain.GeoPoint, error) {
	args := m.Called(ctx, point)
	return args.Get(0).(domain.GeoPoint), args.Error(1)
}

// MockPlaces is a mock of PlacesRepository
type MockPlaces struct {
	mock.Mock
}

func (m *MockPlaces) SearchNearby(ctx context.Context, center domain.GeoPoint, categories []string, radiusMeters float64) ([]domain.Place, error) {
	args := m.Called(ctx, center, categories, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Place), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetRouteSet(ctx context.Context, key string) (*domain.RouteSet, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RouteSet), args.Error(1)
}

func (m *MockCacheRepository) SetRouteSet(ctx context.Context, key string, routes *domain.RouteSet, ttl time.Duration) error {
	args := m.Called(ctx, key, routes, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetMatrix(ctx context.Context, key string) ([]domain.PerOriginCost, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PerOriginCost), args.Error(1)
}

func (m *MockCacheRepository) SetMatrix(ctx context.Context, key string, costs []domain.PerOriginCost, ttl time.Duration) error {
	args := m.Called(ctx, key, costs, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetPlaces(ctx context.Context, key string) ([]domain.Place, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Place), args.Error(1)
}

func (m *MockCacheRepository) SetPlaces(ctx context.Context, key string, places []domain.Place, ttl time.Duration) error {
	args := m.Called(ctx, key, places, ttl)
	return args.Error(0)
}
