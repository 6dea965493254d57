package usecase

import (
	"context"
	"math"

	"github.com/split-the-distance/internal/config"
	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/pkg/utils"
)

// degenerateMeters is the distance under which two points are treated as the
// same place.
const degenerateMeters = 1.0

// tieTolerance is the relative max-cost difference under which two candidates
// count as equally good.
const tieTolerance = 0.001

// costEvaluator returns the travel cost from every origin to candidate, in
// origin order. One call is one routing request.
type costEvaluator func(ctx context.Context, candidate domain.GeoPoint) ([]domain.PerOriginCost, error)

type candidate struct {
	point domain.GeoPoint
	costs []float64
	max   float64
	min   float64
}

func newCandidate(p domain.GeoPoint, rows []domain.PerOriginCost, n int, mode domain.OptimizeMode) candidate {
	c := candidate{point: p, costs: make([]float64, n), max: math.Inf(-1), min: math.Inf(1)}
	for i := range c.costs {
		c.costs[i] = math.Inf(1)
	}
	for _, row := range rows {
		if row.OriginIndex < 0 || row.OriginIndex >= n || !row.Reachable {
			continue
		}
		c.costs[row.OriginIndex] = row.Cost(mode)
	}
	for _, v := range c.costs {
		c.max = math.Max(c.max, v)
		c.min = math.Min(c.min, v)
	}
	return c
}

func unreachableCandidate(p domain.GeoPoint, n int) candidate {
	return newCandidate(p, nil, n, domain.OptimizeTime)
}

// worst returns the index of the origin with the highest cost; the first one
// wins on ties.
func (c candidate) worst() int {
	idx := 0
	for i, v := range c.costs {
		if v > c.costs[idx] {
			idx = i
		}
	}
	return idx
}

func (c candidate) reachable() bool {
	return !math.IsInf(c.max, 1)
}

func (c candidate) converged(tolerance float64) bool {
	if !c.reachable() {
		return false
	}
	if c.max <= 0 {
		return true
	}
	return (c.max-c.min)/c.max <= tolerance
}

// solveGroup searches for the point minimising the worst per-origin cost.
// It starts at the centroid, which is always evaluated, and spends at most
// cfg.MaxIterations evaluations in total.
func solveGroup(
	ctx context.Context,
	origins []domain.GeoPoint,
	mode domain.OptimizeMode,
	cfg config.MidpointConfig,
	eval costEvaluator,
) (domain.MidpointResult, error) {
	cfg = cfg.WithDefaults()
	n := len(origins)
	budget := cfg.MaxIterations
	if budget < 1 {
		budget = 1
	}

	centroid := utils.Centroid(origins)
	calls := 0

	rows, err := eval(ctx, centroid)
	calls++
	var best candidate
	switch {
	case err == nil:
		best = newCandidate(centroid, rows, n, mode)
	case errors.Is(err, errors.ErrNoRouteFound):
		best = unreachableCandidate(centroid, n)
	default:
		return domain.MidpointResult{}, err
	}
	baseline := best.max

	step := cfg.InitialStep
	for calls < budget && !best.converged(cfg.Tolerance) {
		if err := ctx.Err(); err != nil {
			break
		}

		target := origins[best.worst()]
		next := utils.MoveToward(best.point, target, step)
		step *= cfg.StepDecay

		rows, err := eval(ctx, next)
		calls++
		if err != nil {
			if errors.Is(err, errors.ErrNoRouteFound) {
				continue
			}
			// Later failures keep what was found so far.
			break
		}

		cand := newCandidate(next, rows, n, mode)
		if better(cand, best, centroid, baseline) {
			best = cand
		}
	}

	if !best.reachable() {
		return domain.MidpointResult{}, errors.ErrNoRouteFound.WithMessage("no route between the parties and any candidate point")
	}

	return domain.MidpointResult{
		Point:        best.point,
		PerPartyCost: best.costs,
		MaxCost:      best.max,
		Mode:         mode,
		Converged:    best.converged(cfg.Tolerance),
		Iterations:   calls,
		RoutingCalls: calls,
	}, nil
}

// better reports whether cand should replace best. Near ties prefer the point
// closer to the centroid, but never one worse than the centroid itself.
func better(cand, best candidate, centroid domain.GeoPoint, baseline float64) bool {
	if !cand.reachable() {
		return false
	}
	if !best.reachable() {
		return true
	}
	eps := tieTolerance * best.max
	if cand.max < best.max-eps {
		return true
	}
	if cand.max <= best.max+eps && cand.max <= baseline {
		return utils.DistanceMeters(cand.point, centroid) < utils.DistanceMeters(best.point, centroid)
	}
	return false
}

// routeMidpoint walks route to the point where half of the optimised cost has
// been spent, so both parties travel the same along that route.
func routeMidpoint(route domain.Route, a, b domain.GeoPoint, mode domain.OptimizeMode, travel domain.TravelMode) domain.MidpointResult {
	line := route.Geometry
	if len(line) < 2 {
		line = []domain.GeoPoint{a, b}
	}

	var weights []float64
	total := route.DistanceMeters
	if mode == domain.OptimizeTime {
		// Durations spread proportionally over segment length when the
		// provider gave no per-segment annotation.
		weights = route.SegmentDurations
		total = route.DurationSeconds
	}

	point, _ := utils.InterpolateAlong(line, weights, 0.5)
	half := total / 2

	return domain.MidpointResult{
		Point:        point,
		PerPartyCost: []float64{half, half},
		MaxCost:      half,
		Mode:         mode,
		TravelMode:   travel,
		Converged:    true,
		Iterations:   1,
		RoutingCalls: 1,
	}
}

func degenerateMidpoint(a domain.GeoPoint, mode domain.OptimizeMode, travel domain.TravelMode) domain.MidpointResult {
	return domain.MidpointResult{
		Point:        domain.GeoPoint{Lat: a.Lat, Lon: a.Lon, Name: a.Name},
		PerPartyCost: []float64{0, 0},
		MaxCost:      0,
		Mode:         mode,
		TravelMode:   travel,
		Converged:    true,
	}
}
