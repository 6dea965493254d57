package repository

import (
	"context"
	"time"

	"github.com/split-the-distance/internal/domain"
)

// RoutingRepository is the routing provider.
type RoutingRepository interface {
	// Route returns the primary route from a to b followed by alternatives.
	Route(ctx context.Context, a, b domain.GeoPoint, mode domain.TravelMode) (*domain.RouteSet, error)

	// DistanceMatrix returns one cost per origin to destination, in origin
	// order. Unreachable origins have Reachable=false.
	DistanceMatrix(ctx context.Context, origins []domain.GeoPoint, destination domain.GeoPoint, mode domain.TravelMode) ([]domain.PerOriginCost, error)
}

// GeocodingRepository resolves free text to points and back.
type GeocodingRepository interface {
	SearchLocations(ctx context.Context, query string) ([]domain.GeoPoint, error)
	ReverseGeocode(ctx context.Context, point domain.GeoPoint) (domain.GeoPoint, error)
}

// PlacesRepository looks up points of interest.
type PlacesRepository interface {
	SearchNearby(ctx context.Context, center domain.GeoPoint, categories []string, radiusMeters float64) ([]domain.Place, error)
}

// CacheRepository defines the cache operations.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	GetRouteSet(ctx context.Context, key string) (*domain.RouteSet, error)
	SetRouteSet(ctx context.Context, key string, routes *domain.RouteSet, ttl time.Duration) error
	GetMatrix(ctx context.Context, key string) ([]domain.PerOriginCost, error)
	SetMatrix(ctx context.Context, key string, costs []domain.PerOriginCost, ttl time.Duration) error
	GetPlaces(ctx context.Context, key string) ([]domain.Place, error)
	SetPlaces(ctx context.Context, key string, places []domain.Place, ttl time.Duration) error
}
