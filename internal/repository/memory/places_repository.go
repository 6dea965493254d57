package memory

import (
	"context"
	"sort"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
	"github.com/split-the-distance/internal/pkg/utils"
)

type placesRepository struct {
	places []domain.Place
}

// NewPlacesRepository serves nearby searches from a fixed catalogue.
func NewPlacesRepository(places []domain.Place) repository.PlacesRepository {
	return &placesRepository{places: append([]domain.Place(nil), places...)}
}

func (r *placesRepository) SearchNearby(_ context.Context, center domain.GeoPoint, categories []string, radiusMeters float64) ([]domain.Place, error) {
	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	out := make([]domain.Place, 0)
	for _, p := range r.places {
		if len(wanted) > 0 && !wanted[p.Category] {
			continue
		}
		d := utils.DistanceMeters(center, domain.GeoPoint{Lat: p.Lat, Lon: p.Lon})
		if d > radiusMeters {
			continue
		}
		p.DistanceMeters = d
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	return out, nil
}
