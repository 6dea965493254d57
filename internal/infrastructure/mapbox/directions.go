package mapbox

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
)

// Route fetches the primary route from a to b plus any alternatives, with
// full GeoJSON geometry and per-segment durations.
func (c *Client) Route(ctx context.Context, a, b domain.GeoPoint, mode domain.TravelMode) (*domain.RouteSet, error) {
	url := fmt.Sprintf("%s/directions/v5/%s/%s?alternatives=true&geometries=geojson&overview=full&annotations=duration,distance&access_token=%s",
		c.baseURL,
		Profile(mode),
		joinCoords([]domain.GeoPoint{a, b}),
		c.accessToken,
	)

	var resp directionsResponse
	status, err := c.get(ctx, "directions", url, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Code != codeOk {
		c.logger.Debug("Mapbox directions returned non-OK code",
			zap.String("code", resp.Code),
			zap.String("message", resp.Message))
		return nil, providerError("directions", resp.Code, resp.Message, status)
	}
	if len(resp.Routes) == 0 {
		return nil, errors.ErrNoRouteFound.WithMessage("no route between A and B")
	}

	set := &domain.RouteSet{Routes: make([]domain.Route, 0, len(resp.Routes))}
	for _, r := range resp.Routes {
		set.Routes = append(set.Routes, toRoute(r))
	}

	c.logger.Debug("Mapbox directions call successful", zap.Int("routes", len(set.Routes)))
	return set, nil
}

func toRoute(r directionsRoute) domain.Route {
	route := domain.Route{
		DurationSeconds: r.Duration,
		DistanceMeters:  r.Distance,
		Legs:            make([]domain.TravelLeg, 0, len(r.Legs)),
		Geometry:        make([]domain.GeoPoint, 0, len(r.Geometry.Coordinates)),
	}
	for _, c := range r.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		route.Geometry = append(route.Geometry, domain.GeoPoint{Lat: c[1], Lon: c[0]})
	}

	var durations []float64
	for _, leg := range r.Legs {
		route.Legs = append(route.Legs, domain.TravelLeg{
			DurationSeconds: leg.Duration,
			DistanceMeters:  leg.Distance,
		})
		if leg.Annotation != nil {
			durations = append(durations, leg.Annotation.Duration...)
		}
	}
	// Annotations only line up with the geometry when there is one value per
	// segment; otherwise interpolation falls back to distance weights.
	if len(route.Geometry) > 1 && len(durations) == len(route.Geometry)-1 {
		route.SegmentDurations = durations
	}
	return route
}
