package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/split-the-distance/internal/config"
	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/pkg/utils"
	"github.com/split-the-distance/internal/usecase/dto"
)

// SolveMetrics records group solver outcomes.
type SolveMetrics interface {
	ObserveSolve(iterations int, converged bool, err error)
}

// MidpointUseCase computes fair meeting points between parties.
type MidpointUseCase struct {
	routing   repository.RoutingRepository
	geocoding repository.GeocodingRepository
	cfg       config.MidpointConfig
	retry     RetryPolicy
	metrics   SolveMetrics
	logger    *zap.Logger
}

func NewMidpointUseCase(
	routing repository.RoutingRepository,
	geocoding repository.GeocodingRepository,
	cfg config.MidpointConfig,
	retry RetryPolicy,
	metrics SolveMetrics,
	logger *zap.Logger,
) *MidpointUseCase {
	return &MidpointUseCase{
		routing:   routing,
		geocoding: geocoding,
		cfg:       cfg.WithDefaults(),
		retry:     retry,
		metrics:   metrics,
		logger:    logger,
	}
}

// ComputePairMidpoint finds the route-interpolation midpoint between a and b
// for every alternative the provider returns. The result is all or nothing.
func (uc *MidpointUseCase) ComputePairMidpoint(
	ctx context.Context,
	a, b domain.GeoPoint,
	optimize domain.OptimizeMode,
	travel domain.TravelMode,
	selectedRouteIndex int,
) (*dto.PairMidpointResponse, error) {
	if !utils.ValidateCoordinates(a.Lat, a.Lon) || !utils.ValidateCoordinates(b.Lat, b.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}
	if selectedRouteIndex < 0 {
		return nil, errors.ErrInvalidRequest.WithMessage("selected route index must not be negative")
	}

	if utils.DistanceMeters(a, b) < degenerateMeters {
		result := degenerateMidpoint(a, optimize, travel)
		return &dto.PairMidpointResponse{
			A:        a,
			B:        b,
			Selected: 0,
			Result:   result,
			Alternatives: []dto.RouteAlternative{{
				Index:    0,
				Geometry: []domain.GeoPoint{a},
				Midpoint: result,
			}},
		}, nil
	}

	var routes *domain.RouteSet
	err := withUpstreamRetry(ctx, uc.retry, uc.logger, "route", func() error {
		var err error
		routes, err = uc.routing.Route(ctx, a, b, travel)
		return err
	})
	if err != nil {
		uc.logger.Error("Failed to route pair", zap.Error(err))
		return nil, err
	}
	if routes == nil || len(routes.Routes) == 0 {
		return nil, errors.ErrNoRouteFound.WithMessage("no route between %s and %s", label(a), label(b))
	}
	if selectedRouteIndex >= len(routes.Routes) {
		return nil, errors.ErrInvalidRequest.WithMessage("route index %d out of range", selectedRouteIndex)
	}

	alternatives := make([]dto.RouteAlternative, len(routes.Routes))
	for i, route := range routes.Routes {
		alternatives[i] = dto.RouteAlternative{
			Index:           i,
			DurationSeconds: route.DurationSeconds,
			DistanceMeters:  route.DistanceMeters,
			Geometry:        route.Geometry,
			Midpoint:        routeMidpoint(route, a, b, optimize, travel),
		}
	}

	return &dto.PairMidpointResponse{
		A:            a,
		B:            b,
		Selected:     selectedRouteIndex,
		Result:       alternatives[selectedRouteIndex].Midpoint,
		Alternatives: alternatives,
	}, nil
}

// SelectRoute recomputes the pair midpoint for another alternative and
// returns where the places lookup must be refreshed.
func (uc *MidpointUseCase) SelectRoute(
	ctx context.Context,
	a, b domain.GeoPoint,
	optimize domain.OptimizeMode,
	travel domain.TravelMode,
	index int,
	categories []string,
) (*dto.PairMidpointResponse, error) {
	resp, err := uc.ComputePairMidpoint(ctx, a, b, optimize, travel, index)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		categories = DefaultPlaceCategories
	}
	resp.PlacesRefresh = &dto.PlacesRefresh{
		Center:       resp.Result.Point,
		Categories:   categories,
		RadiusMeters: DefaultPlacesRadius,
	}
	return resp, nil
}

// ComputePairMidpointByQuery geocodes both inputs before computing the pair
// midpoint.
func (uc *MidpointUseCase) ComputePairMidpointByQuery(
	ctx context.Context,
	req dto.PairMidpointRequest,
) (*dto.PairMidpointResponse, error) {
	optimize, err := domain.ParseOptimizeMode(req.Optimize)
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithMessage("%s", err.Error())
	}
	travel, err := domain.ParseTravelMode(req.TravelMode)
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithMessage("%s", err.Error())
	}

	a, err := uc.Resolve(ctx, req.A)
	if err != nil {
		return nil, err
	}
	b, err := uc.Resolve(ctx, req.B)
	if err != nil {
		return nil, err
	}

	return uc.ComputePairMidpoint(ctx, a, b, optimize, travel, req.SelectedRouteIndex)
}

// Resolve turns a point input into coordinates, geocoding free text and
// taking the best ranked candidate.
func (uc *MidpointUseCase) Resolve(ctx context.Context, in dto.PointInput) (domain.GeoPoint, error) {
	if in.HasCoordinates() {
		p := in.Point()
		if !utils.ValidateCoordinates(p.Lat, p.Lon) {
			return domain.GeoPoint{}, errors.ErrInvalidCoordinates
		}
		return p, nil
	}
	if in.Query == "" {
		return domain.GeoPoint{}, errors.ErrInvalidRequest.WithMessage("either coordinates or a query is required")
	}

	var candidates []domain.GeoPoint
	err := withUpstreamRetry(ctx, uc.retry, uc.logger, "geocode", func() error {
		var err error
		candidates, err = uc.geocoding.SearchLocations(ctx, in.Query)
		return err
	})
	if err != nil {
		return domain.GeoPoint{}, err
	}
	if len(candidates) == 0 {
		return domain.GeoPoint{}, errors.ErrLocationNotFound.WithMessage("could not find location %s", in.Query)
	}
	return candidates[0], nil
}

// ComputeGroupMidpoint runs the bounded minimax search over every party with
// a known origin. Parties without one are reported in Excluded.
func (uc *MidpointUseCase) ComputeGroupMidpoint(
	ctx context.Context,
	parties []domain.Party,
	optimize domain.OptimizeMode,
	travel domain.TravelMode,
) (*dto.GroupMidpointResponse, error) {
	var (
		origins      []domain.GeoPoint
		participants []domain.Party
		excluded     = []string{}
	)
	for _, p := range parties {
		if p.Origin == nil {
			excluded = append(excluded, p.ID)
			continue
		}
		if !utils.ValidateCoordinates(p.Origin.Lat, p.Origin.Lon) {
			return nil, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{"party": p.ID})
		}
		origins = append(origins, *p.Origin)
		participants = append(participants, p)
	}
	if len(origins) < 2 {
		return nil, errors.ErrInvalidRequest.WithMessage("at least two parties with a known origin are required")
	}

	eval := func(ctx context.Context, c domain.GeoPoint) ([]domain.PerOriginCost, error) {
		return uc.routing.DistanceMatrix(ctx, origins, c, travel)
	}

	started := time.Now()
	var result domain.MidpointResult
	// Only the centroid evaluation can fail the search, so retrying the whole
	// solve retries exactly that call.
	err := withUpstreamRetry(ctx, uc.retry, uc.logger, "group_midpoint", func() error {
		var err error
		result, err = solveGroup(ctx, origins, optimize, uc.cfg, eval)
		return err
	})
	if uc.metrics != nil {
		uc.metrics.ObserveSolve(result.Iterations, result.Converged, err)
	}
	if err != nil {
		uc.logger.Error("Group midpoint failed", zap.Int("parties", len(origins)), zap.Error(err))
		return nil, err
	}
	result.TravelMode = travel

	uc.logger.Debug("Group midpoint solved",
		zap.Int("parties", len(origins)),
		zap.Int("routing_calls", result.RoutingCalls),
		zap.Bool("converged", result.Converged),
		zap.Duration("took", time.Since(started)),
	)

	costs := make([]dto.PartyCost, len(participants))
	for i, p := range participants {
		costs[i] = dto.PartyCost{PartyID: p.ID, Name: p.Name, Cost: result.PerPartyCost[i]}
	}

	return &dto.GroupMidpointResponse{
		Result:      result,
		MaxDrive:    result.MaxCost,
		Approximate: result.Approximate(),
		Costs:       costs,
		Excluded:    excluded,
	}, nil
}

func label(p domain.GeoPoint) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lon)
}
