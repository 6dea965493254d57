package routing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
)

// CacheMetrics is satisfied by *metrics.Collector.
type CacheMetrics interface {
	CacheHit(kind string, hit bool)
}

// cachedRouting memoises routes and matrices. Coordinates are rounded to
// five decimals (about a metre) so jittery inputs share entries.
type cachedRouting struct {
	next    repository.RoutingRepository
	cache   repository.CacheRepository
	ttl     time.Duration
	metrics CacheMetrics
	logger  *zap.Logger
}

func NewCachedRouting(
	next repository.RoutingRepository,
	cache repository.CacheRepository,
	ttl time.Duration,
	metrics CacheMetrics,
	logger *zap.Logger,
) repository.RoutingRepository {
	return &cachedRouting{next: next, cache: cache, ttl: ttl, metrics: metrics, logger: logger}
}

func pointKey(p domain.GeoPoint) string {
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lon)
}

func RouteKey(a, b domain.GeoPoint, mode domain.TravelMode) string {
	return fmt.Sprintf("route:%s:%s:%s", mode, pointKey(a), pointKey(b))
}

func MatrixKey(origins []domain.GeoPoint, destination domain.GeoPoint, mode domain.TravelMode) string {
	parts := make([]string, len(origins))
	for i, o := range origins {
		parts[i] = pointKey(o)
	}
	return fmt.Sprintf("matrix:%s:%s:%s", mode, pointKey(destination), strings.Join(parts, ";"))
}

func (r *cachedRouting) hit(kind string, ok bool) {
	if r.metrics != nil {
		r.metrics.CacheHit(kind, ok)
	}
}

func (r *cachedRouting) Route(ctx context.Context, a, b domain.GeoPoint, mode domain.TravelMode) (*domain.RouteSet, error) {
	key := RouteKey(a, b, mode)
	if cached, err := r.cache.GetRouteSet(ctx, key); err == nil && cached != nil {
		r.hit("route", true)
		return cached, nil
	}
	r.hit("route", false)

	set, err := r.next.Route(ctx, a, b, mode)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetRouteSet(ctx, key, set, r.ttl); err != nil {
		r.logger.Warn("Failed to cache route", zap.String("key", key), zap.Error(err))
	}
	return set, nil
}

func (r *cachedRouting) DistanceMatrix(ctx context.Context, origins []domain.GeoPoint, destination domain.GeoPoint, mode domain.TravelMode) ([]domain.PerOriginCost, error) {
	key := MatrixKey(origins, destination, mode)
	if cached, err := r.cache.GetMatrix(ctx, key); err == nil && len(cached) == len(origins) {
		r.hit("matrix", true)
		return cached, nil
	}
	r.hit("matrix", false)

	costs, err := r.next.DistanceMatrix(ctx, origins, destination, mode)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetMatrix(ctx, key, costs, r.ttl); err != nil {
		r.logger.Warn("Failed to cache matrix", zap.String("key", key), zap.Error(err))
	}
	return costs, nil
}
