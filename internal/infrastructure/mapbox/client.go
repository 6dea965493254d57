package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/split-the-distance/internal/config"
	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
)

// Mapbox answers with these codes when the request was fine but no path
// exists.
const (
	codeOk        = "Ok"
	codeNoRoute   = "NoRoute"
	codeNoSegment = "NoSegment"
)

// Client talks to the Mapbox Directions, Matrix and Geocoding APIs. It
// implements repository.RoutingRepository and repository.GeocodingRepository.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	accessToken     string
	maxMatrixPoints int
	logger          *zap.Logger
}

func NewClient(cfg *config.MapboxConfig, logger *zap.Logger) *Client {
	maxPoints := cfg.MaxMatrixPoints
	if maxPoints <= 0 {
		maxPoints = 25
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		accessToken:     cfg.AccessToken,
		maxMatrixPoints: maxPoints,
		logger:          logger,
	}
}

// Profile maps a travel mode to a Mapbox routing profile. Mapbox has no
// transit profile, so transit falls back to plain driving.
func Profile(mode domain.TravelMode) string {
	switch mode {
	case domain.TravelModeBicycling:
		return "mapbox/cycling"
	case domain.TravelModeWalking:
		return "mapbox/walking"
	case domain.TravelModeTransit:
		return "mapbox/driving"
	default:
		return "mapbox/driving-traffic"
	}
}

func formatCoord(p domain.GeoPoint) string {
	return fmt.Sprintf("%f,%f", p.Lon, p.Lat)
}

func joinCoords(points []domain.GeoPoint) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = formatCoord(p)
	}
	return strings.Join(parts, ";")
}

// get performs the request and decodes the JSON body into out. It returns
// the HTTP status so callers can inspect provider codes carried on 4xx
// answers.
func (c *Client) get(ctx context.Context, op, url string, out interface{}) (int, error) {
	c.logger.Debug("Calling Mapbox API",
		zap.String("operation", op),
		zap.String("url", strings.Replace(url, c.accessToken, "***", 1)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return 0, errors.ErrInternalServer.WithMessage("mapbox %s: failed to create request: %v", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.String("operation", op), zap.Error(err))
		return 0, errors.ErrUpstreamUnavailable.WithMessage("mapbox %s: %v", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, errors.ErrUpstreamUnavailable.WithMessage("mapbox %s: failed to read response: %v", op, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Error("Mapbox API returned error",
			zap.String("operation", op),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return resp.StatusCode, errors.ErrUpstreamUnavailable.WithMessage("mapbox %s: status %d", op, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, errors.ErrUpstreamUnavailable.WithMessage("mapbox %s: status %d, body: %s", op, resp.StatusCode, string(body))
		}
		c.logger.Error("Failed to decode response", zap.Error(err))
		return resp.StatusCode, errors.ErrUpstreamUnavailable.WithMessage("mapbox %s: failed to decode response: %v", op, err)
	}
	return resp.StatusCode, nil
}

// providerError converts a non-Ok Mapbox code into an application error.
func providerError(op, code, message string, status int) error {
	switch code {
	case codeNoRoute, codeNoSegment:
		return errors.ErrNoRouteFound.WithMessage("no route between A and B")
	}
	if message == "" {
		message = code
	}
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		return errors.ErrInvalidRequest.WithMessage("mapbox %s: %s", op, message)
	}
	return errors.ErrUpstreamUnavailable.WithMessage("mapbox %s: %s", op, message)
}
