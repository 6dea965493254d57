package routing

import (
	"context"
	"time"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
)

// CallMetrics is satisfied by *metrics.Collector.
type CallMetrics interface {
	ObserveRouting(operation string, started time.Time, err error)
}

type instrumentedRouting struct {
	next    repository.RoutingRepository
	metrics CallMetrics
}

// NewInstrumentedRouting counts and times every call that reaches next.
// Place it below the cache so hits are not counted as provider calls.
func NewInstrumentedRouting(next repository.RoutingRepository, m CallMetrics) repository.RoutingRepository {
	return &instrumentedRouting{next: next, metrics: m}
}

func (r *instrumentedRouting) Route(ctx context.Context, a, b domain.GeoPoint, mode domain.TravelMode) (*domain.RouteSet, error) {
	started := time.Now()
	set, err := r.next.Route(ctx, a, b, mode)
	r.metrics.ObserveRouting("directions", started, err)
	return set, err
}

func (r *instrumentedRouting) DistanceMatrix(ctx context.Context, origins []domain.GeoPoint, destination domain.GeoPoint, mode domain.TravelMode) ([]domain.PerOriginCost, error) {
	started := time.Now()
	costs, err := r.next.DistanceMatrix(ctx, origins, destination, mode)
	r.metrics.ObserveRouting("matrix", started, err)
	return costs, err
}
