package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
	"github.com/split-the-distance/internal/pkg/errors"
)

const LimitPlaces = 60

type placeRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPlaceRepository serves nearby searches from the PostGIS pois table.
func NewPlaceRepository(db *DB) repository.PlacesRepository {
	return &placeRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *placeRepository) SearchNearby(
	ctx context.Context,
	center domain.GeoPoint,
	categories []string,
	radiusMeters float64,
) ([]domain.Place, error) {
	query := `
		WITH point AS (
			SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS geom
		)
		SELECT
			id, name, category, subcategory, lat, lon, address, opening_hours, brand, rating,
			ST_Distance(geometry::geography, point.geom) AS distance
		FROM pois, point
		WHERE ST_DWithin(geometry::geography, point.geom, $3)
	`

	args := []interface{}{center.Lon, center.Lat, radiusMeters}
	argIdx := 4

	if len(categories) > 0 {
		query += fmt.Sprintf(" AND category = ANY($%d)", argIdx)
		args = append(args, pq.Array(categories))
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY distance LIMIT $%d", argIdx)
	args = append(args, LimitPlaces)

	places := []domain.Place{}
	if err := r.db.SelectContext(ctx, &places, query, args...); err != nil {
		r.logger.Error("Failed to get nearby places", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	for i := range places {
		places[i].IsChain = places[i].Brand != nil && *places[i].Brand != ""
		places[i].OpenNow = alwaysOpen(places[i].OpeningHours)
	}
	return places, nil
}

// alwaysOpen only recognises the OSM "24/7" value; other schedules stay
// unknown rather than being guessed.
func alwaysOpen(hours *string) *bool {
	if hours == nil || strings.TrimSpace(*hours) != "24/7" {
		return nil
	}
	open := true
	return &open
}
