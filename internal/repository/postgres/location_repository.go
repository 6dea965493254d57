package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
)

const locationColumns = `
	id, trip_id, proposed_by, name, address, lat, lng, provenance, is_confirmed, notes, created_at`

type locationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewLocationRepository(db *DB) repository.LocationRepository {
	return &locationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *locationRepository) Create(ctx context.Context, l *domain.Location) error {
	query := `
		INSERT INTO trip_locations (` + locationColumns + `)
		VALUES (:id, :trip_id, :proposed_by, :name, :address, :lat, :lng, :provenance, :is_confirmed, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, l); err != nil {
		return dbError(r.logger, "create location", err)
	}
	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	var l domain.Location
	query := `SELECT ` + locationColumns + ` FROM trip_locations WHERE id = $1`
	if err := r.db.GetContext(ctx, &l, query, id); err != nil {
		return nil, dbError(r.logger, "get location", err)
	}
	return &l, nil
}

func (r *locationRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*domain.Location, error) {
	locations := []*domain.Location{}
	query := `SELECT ` + locationColumns + ` FROM trip_locations WHERE trip_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &locations, query, tripID); err != nil {
		return nil, dbError(r.logger, "list locations", err, zap.String("trip_id", tripID.String()))
	}
	return locations, nil
}

func (r *locationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trip_locations WHERE id = $1`, id)
	if err == nil {
		err = requireRow(res)
	}
	if err != nil {
		return dbError(r.logger, "delete location", err)
	}
	return nil
}

// SetConfirmed flips the flags of the whole trip in one statement.
func (r *locationRepository) SetConfirmed(ctx context.Context, tripID uuid.UUID, locationID *uuid.UUID) error {
	query := `
		UPDATE trip_locations
		SET is_confirmed = COALESCE(id = $2::uuid, FALSE)
		WHERE trip_id = $1`
	if _, err := r.db.ExecContext(ctx, query, tripID, locationID); err != nil {
		return dbError(r.logger, "set confirmed location", err, zap.String("trip_id", tripID.String()))
	}
	return nil
}

func (r *locationRepository) GetVote(ctx context.Context, locationID, memberID uuid.UUID) (*domain.LocationVote, error) {
	var v domain.LocationVote
	query := `
		SELECT location_id, member_id, vote, updated_at
		FROM trip_location_votes WHERE location_id = $1 AND member_id = $2`
	if err := r.db.GetContext(ctx, &v, query, locationID, memberID); err != nil {
		return nil, dbError(r.logger, "get location vote", err)
	}
	return &v, nil
}

func (r *locationRepository) UpsertVote(ctx context.Context, v *domain.LocationVote) error {
	query := `
		INSERT INTO trip_location_votes (location_id, member_id, vote, updated_at)
		VALUES (:location_id, :member_id, :vote, :updated_at)
		ON CONFLICT (location_id, member_id)
		DO UPDATE SET vote = EXCLUDED.vote, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, v); err != nil {
		return dbError(r.logger, "upsert location vote", err)
	}
	return nil
}

func (r *locationRepository) DeleteVote(ctx context.Context, locationID, memberID uuid.UUID) error {
	query := `DELETE FROM trip_location_votes WHERE location_id = $1 AND member_id = $2`
	if _, err := r.db.ExecContext(ctx, query, locationID, memberID); err != nil {
		return dbError(r.logger, "delete location vote", err)
	}
	return nil
}

func (r *locationRepository) ListVotes(ctx context.Context, locationID uuid.UUID) ([]domain.LocationVote, error) {
	votes := []domain.LocationVote{}
	query := `
		SELECT location_id, member_id, vote, updated_at
		FROM trip_location_votes WHERE location_id = $1
		ORDER BY updated_at`
	if err := r.db.SelectContext(ctx, &votes, query, locationID); err != nil {
		return nil, dbError(r.logger, "list location votes", err)
	}
	return votes, nil
}

func (r *locationRepository) UpsertDistance(ctx context.Context, d *domain.LocationDistance) error {
	query := `
		INSERT INTO trip_location_distances (location_id, member_id, duration_seconds, distance_meters, updated_at)
		VALUES (:location_id, :member_id, :duration_seconds, :distance_meters, :updated_at)
		ON CONFLICT (location_id, member_id)
		DO UPDATE SET
			duration_seconds = EXCLUDED.duration_seconds,
			distance_meters = EXCLUDED.distance_meters,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return dbError(r.logger, "upsert location distance", err)
	}
	return nil
}

func (r *locationRepository) ListDistances(ctx context.Context, locationID uuid.UUID) ([]domain.LocationDistance, error) {
	distances := []domain.LocationDistance{}
	query := `
		SELECT location_id, member_id, duration_seconds, distance_meters, updated_at
		FROM trip_location_distances WHERE location_id = $1`
	if err := r.db.SelectContext(ctx, &distances, query, locationID); err != nil {
		return nil, dbError(r.logger, "list location distances", err)
	}
	return distances, nil
}
