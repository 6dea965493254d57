package mapbox

import (
	"context"
	"fmt"
	neturl "net/url"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
)

const geocodingLimit = 5

// SearchLocations resolves free text to ranked candidates.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]domain.GeoPoint, error) {
	url := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?limit=%d&access_token=%s",
		c.baseURL,
		neturl.PathEscape(query),
		geocodingLimit,
		c.accessToken,
	)

	var resp geocodingResponse
	status, err := c.get(ctx, "geocoding", url, &resp)
	if err != nil {
		return nil, err
	}
	if status != 200 {
		return nil, providerError("geocoding", "", resp.Message, status)
	}

	points := featuresToPoints(resp.Features)
	if len(points) == 0 {
		return nil, errors.ErrLocationNotFound.WithMessage("could not find location %s", query)
	}
	return points, nil
}

// ReverseGeocode names the point. The returned point keeps the input
// coordinates.
func (c *Client) ReverseGeocode(ctx context.Context, point domain.GeoPoint) (domain.GeoPoint, error) {
	url := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?limit=1&access_token=%s",
		c.baseURL,
		formatCoord(point),
		c.accessToken,
	)

	var resp geocodingResponse
	status, err := c.get(ctx, "reverse_geocoding", url, &resp)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	if status != 200 {
		return domain.GeoPoint{}, providerError("reverse_geocoding", "", resp.Message, status)
	}

	out := domain.GeoPoint{Lat: point.Lat, Lon: point.Lon}
	if len(resp.Features) == 0 {
		return out, errors.ErrLocationNotFound.WithMessage("could not find location %s", formatCoord(point))
	}
	out.Name = resp.Features[0].PlaceName
	return out, nil
}

func featuresToPoints(features []geocodingFeature) []domain.GeoPoint {
	points := make([]domain.GeoPoint, 0, len(features))
	for _, f := range features {
		if len(f.Center) < 2 {
			continue
		}
		name := f.PlaceName
		if name == "" {
			name = f.Text
		}
		points = append(points, domain.GeoPoint{Lat: f.Center[1], Lon: f.Center[0], Name: name})
	}
	return points
}
