package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
	"github.com/split-the-distance/internal/pkg/errors"
)

const tripColumns = `
	id, creator_id, title, description, status, voting_open, members_can_propose,
	invite_code, invites_sent_at, confirmed_date, confirmed_location_id,
	location_mode, location_criteria, created_at, updated_at`

type tripRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTripRepository(db *DB) repository.TripRepository {
	return &tripRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *tripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES (
			:id, :creator_id, :title, :description, :status, :voting_open, :members_can_propose,
			:invite_code, :invites_sent_at, :confirmed_date, :confirmed_location_id,
			:location_mode, :location_criteria, :created_at, :updated_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, trip); err != nil {
		return dbError(r.logger, "create trip", err)
	}
	return nil
}

func (r *tripRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	var trip domain.Trip
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	if err := r.db.GetContext(ctx, &trip, query, id); err != nil {
		return nil, dbError(r.logger, "get trip", err, zap.String("trip_id", id.String()))
	}
	return &trip, nil
}

func (r *tripRepository) GetByInviteCode(ctx context.Context, code string) (*domain.Trip, error) {
	var trip domain.Trip
	query := `SELECT ` + tripColumns + ` FROM trips WHERE invite_code = $1`
	if err := r.db.GetContext(ctx, &trip, query, code); err != nil {
		return nil, dbError(r.logger, "get trip by invite code", err)
	}
	return &trip, nil
}

func (r *tripRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Trip, error) {
	query := `
		SELECT t.id, t.creator_id, t.title, t.description, t.status, t.voting_open,
			t.members_can_propose, t.invite_code, t.invites_sent_at, t.confirmed_date,
			t.confirmed_location_id, t.location_mode, t.location_criteria,
			t.created_at, t.updated_at
		FROM trips t
		JOIN trip_members m ON m.trip_id = t.id
		WHERE m.user_id = $1 AND m.status <> 'declined'
		ORDER BY t.created_at DESC`

	trips := []*domain.Trip{}
	if err := r.db.SelectContext(ctx, &trips, query, userID); err != nil {
		return nil, dbError(r.logger, "list trips", err, zap.String("user_id", userID.String()))
	}
	return trips, nil
}

func (r *tripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	trip.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE trips SET
			title = :title,
			description = :description,
			members_can_propose = :members_can_propose,
			location_mode = :location_mode,
			location_criteria = :location_criteria,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, trip)
	if err == nil {
		err = requireRow(res)
	}
	if err != nil {
		return dbError(r.logger, "update trip", err, zap.String("trip_id", trip.ID.String()))
	}
	return nil
}

func (r *tripRepository) SetVotingOpen(ctx context.Context, tripID uuid.UUID, open bool, at time.Time) error {
	return r.setColumn(ctx, "set voting open", `voting_open`, tripID, open, at)
}

func (r *tripRepository) SetConfirmedDate(ctx context.Context, tripID uuid.UUID, date *time.Time, at time.Time) error {
	return r.setColumn(ctx, "set confirmed date", `confirmed_date`, tripID, date, at)
}

func (r *tripRepository) SetConfirmedLocation(ctx context.Context, tripID uuid.UUID, locationID *uuid.UUID, at time.Time) error {
	return r.setColumn(ctx, "set confirmed location", `confirmed_location_id`, tripID, locationID, at)
}

// setColumn updates one column; column is always a constant from this file.
func (r *tripRepository) setColumn(ctx context.Context, op, column string, tripID uuid.UUID, value interface{}, at time.Time) error {
	query := `UPDATE trips SET ` + column + ` = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, tripID, value, at)
	if err == nil {
		err = requireRow(res)
	}
	if err != nil {
		return dbError(r.logger, op, err, zap.String("trip_id", tripID.String()))
	}
	return nil
}

func (r *tripRepository) SetStatus(ctx context.Context, tripID uuid.UUID, from, to domain.TripStatus, at time.Time) error {
	query := `UPDATE trips SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, tripID, from, to, at)
	if err == nil {
		err = requireRow(res)
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, tripID); getErr != nil {
			return getErr
		}
		return errors.ErrInvalidState.WithMessage("trip is no longer %s", from)
	}
	if err != nil {
		return dbError(r.logger, "set trip status", err, zap.String("trip_id", tripID.String()))
	}
	return nil
}

func (r *tripRepository) MarkInvitesSent(ctx context.Context, tripID uuid.UUID, at time.Time) (time.Time, error) {
	query := `
		UPDATE trips
		SET invites_sent_at = COALESCE(invites_sent_at, $2), updated_at = $2
		WHERE id = $1
		RETURNING invites_sent_at`

	var stored time.Time
	if err := r.db.QueryRowxContext(ctx, query, tripID, at).Scan(&stored); err != nil {
		return time.Time{}, dbError(r.logger, "mark invites sent", err, zap.String("trip_id", tripID.String()))
	}
	return stored, nil
}
