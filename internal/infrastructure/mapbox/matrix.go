package mapbox

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
)

// DistanceMatrix asks the Matrix API for the cost from every origin to one
// destination in a single request.
func (c *Client) DistanceMatrix(
	ctx context.Context,
	origins []domain.GeoPoint,
	destination domain.GeoPoint,
	mode domain.TravelMode,
) ([]domain.PerOriginCost, error) {
	if len(origins) == 0 {
		return nil, errors.ErrInvalidRequest.WithMessage("origins cannot be empty")
	}
	if len(origins)+1 > c.maxMatrixPoints {
		return nil, errors.ErrInvalidRequest.WithMessage("total coordinates exceed Mapbox limit of %d points", c.maxMatrixPoints)
	}

	coords := append(append([]domain.GeoPoint{}, origins...), destination)
	sources := make([]string, len(origins))
	for i := range origins {
		sources[i] = strconv.Itoa(i)
	}

	url := fmt.Sprintf("%s/directions-matrix/v1/%s/%s?sources=%s&destinations=%d&annotations=duration,distance&access_token=%s",
		c.baseURL,
		Profile(mode),
		joinCoords(coords),
		strings.Join(sources, ";"),
		len(origins),
		c.accessToken,
	)

	var resp matrixResponse
	status, err := c.get(ctx, "matrix", url, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Code != codeOk {
		return nil, providerError("matrix", resp.Code, resp.Message, status)
	}
	if len(resp.Durations) != len(origins) {
		return nil, errors.ErrUpstreamUnavailable.WithMessage("mapbox matrix: expected %d rows, got %d", len(origins), len(resp.Durations))
	}

	costs := make([]domain.PerOriginCost, len(origins))
	for i := range origins {
		cost := domain.PerOriginCost{OriginIndex: i}
		dur := cell(resp.Durations, i)
		dist := cell(resp.Distances, i)
		if dur != nil {
			cost.Reachable = true
			cost.DurationSeconds = *dur
			if dist != nil {
				cost.DistanceMeters = *dist
			}
		}
		costs[i] = cost
	}

	c.logger.Debug("Mapbox matrix call successful", zap.Int("origins", len(origins)))
	return costs, nil
}

func cell(rows [][]*float64, i int) *float64 {
	if i >= len(rows) || len(rows[i]) == 0 {
		return nil
	}
	return rows[i][0]
}
