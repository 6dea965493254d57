package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/pkg/utils"
	"github.com/split-the-distance/internal/usecase/dto"
)

const DefaultPlacesRadius = 2000.0

var DefaultPlaceCategories = []string{"food", "cafe", "bar", "park"}

// PlacesUseCase - nearby points of interest around a midpoint
type PlacesUseCase struct {
	places    repository.PlacesRepository
	geocoding repository.GeocodingRepository
	cache     repository.CacheRepository
	cacheTTL  time.Duration
	retry     RetryPolicy
	logger    *zap.Logger
}

func NewPlacesUseCase(
	places repository.PlacesRepository,
	geocoding repository.GeocodingRepository,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	retry RetryPolicy,
	logger *zap.Logger,
) *PlacesUseCase {
	return &PlacesUseCase{
		places:    places,
		geocoding: geocoding,
		cache:     cache,
		cacheTTL:  cacheTTL,
		retry:     retry,
		logger:    logger,
	}
}

// SearchNearby - places within the radius, closest first
func (uc *PlacesUseCase) SearchNearby(ctx context.Context, req dto.NearbyPlacesRequest) (*dto.NearbyPlacesResponse, error) {
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}
	if req.RadiusMeters == 0 {
		req.RadiusMeters = DefaultPlacesRadius
	}
	if !utils.ValidateRadiusMeters(req.RadiusMeters) {
		return nil, errors.ErrInvalidRadius
	}
	if req.ChainOnly && req.ExcludeChains {
		return nil, errors.ErrInvalidRequest.WithMessage("chain_only and exclude_chains are mutually exclusive")
	}

	categories := normalizeCategories(req.Categories)
	center := domain.GeoPoint{Lat: req.Lat, Lon: req.Lon}

	places, err := uc.lookup(ctx, center, categories, req.RadiusMeters)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if req.ChainOnly && !p.IsChain {
			continue
		}
		if req.ExcludeChains && p.IsChain {
			continue
		}
		filtered = append(filtered, p)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].DistanceMeters < filtered[j].DistanceMeters
	})

	return &dto.NearbyPlacesResponse{
		Center:       center,
		RadiusMeters: req.RadiusMeters,
		Places:       filtered,
		Total:        len(filtered),
	}, nil
}

func (uc *PlacesUseCase) lookup(ctx context.Context, center domain.GeoPoint, categories []string, radius float64) ([]domain.Place, error) {
	key := placesKey(center, categories, radius)
	if uc.cache != nil {
		cached, err := uc.cache.GetPlaces(ctx, key)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var places []domain.Place
	err := withUpstreamRetry(ctx, uc.retry, uc.logger, "places", func() error {
		var err error
		places, err = uc.places.SearchNearby(ctx, center, categories, radius)
		return err
	})
	if err != nil {
		uc.logger.Error("Failed to search places", zap.Error(err))
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetPlaces(ctx, key, places, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache places", zap.String("key", key), zap.Error(err))
		}
	}
	return places, nil
}

// Geocode - ranked candidates for a free-text query
func (uc *PlacesUseCase) Geocode(ctx context.Context, query string) (*dto.GeocodeResponse, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, errors.ErrInvalidRequest.WithMessage("query must have at least 2 characters")
	}

	var results []domain.GeoPoint
	err := withUpstreamRetry(ctx, uc.retry, uc.logger, "geocode", func() error {
		var err error
		results, err = uc.geocoding.SearchLocations(ctx, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.GeocodeResponse{Query: query, Results: results}, nil
}

func normalizeCategories(in []string) []string {
	if len(in) == 0 {
		return DefaultPlaceCategories
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func placesKey(center domain.GeoPoint, categories []string, radius float64) string {
	return fmt.Sprintf("places:%.4f,%.4f:%.0f:%s", center.Lat, center.Lon, radius, strings.Join(categories, ","))
}
