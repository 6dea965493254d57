package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
)

const liveStatusColumns = `
	trip_id, member_id, sharing_location, arrived, lat, lng, heading, speed,
	eta_text, eta_seconds, distance_remaining_meters, position_at, updated_at`

type liveStatusRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewLiveStatusRepository(db *DB) repository.LiveStatusRepository {
	return &liveStatusRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *liveStatusRepository) Upsert(ctx context.Context, s *domain.LiveStatus) error {
	query := `
		INSERT INTO trip_live_status (` + liveStatusColumns + `)
		VALUES (
			:trip_id, :member_id, :sharing_location, :arrived, :lat, :lng, :heading, :speed,
			:eta_text, :eta_seconds, :distance_remaining_meters, :position_at, :updated_at
		)
		ON CONFLICT (trip_id, member_id) DO UPDATE SET
			sharing_location = EXCLUDED.sharing_location,
			arrived = EXCLUDED.arrived,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			heading = EXCLUDED.heading,
			speed = EXCLUDED.speed,
			eta_text = EXCLUDED.eta_text,
			eta_seconds = EXCLUDED.eta_seconds,
			distance_remaining_meters = EXCLUDED.distance_remaining_meters,
			position_at = EXCLUDED.position_at,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return dbError(r.logger, "upsert live status", err, zap.String("member_id", s.MemberID.String()))
	}
	return nil
}

func (r *liveStatusRepository) Get(ctx context.Context, tripID, memberID uuid.UUID) (*domain.LiveStatus, error) {
	var s domain.LiveStatus
	query := `SELECT ` + liveStatusColumns + ` FROM trip_live_status WHERE trip_id = $1 AND member_id = $2`
	if err := r.db.GetContext(ctx, &s, query, tripID, memberID); err != nil {
		return nil, dbError(r.logger, "get live status", err)
	}
	return &s, nil
}

func (r *liveStatusRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*domain.LiveStatus, error) {
	statuses := []*domain.LiveStatus{}
	query := `SELECT ` + liveStatusColumns + ` FROM trip_live_status WHERE trip_id = $1`
	if err := r.db.SelectContext(ctx, &statuses, query, tripID); err != nil {
		return nil, dbError(r.logger, "list live status", err, zap.String("trip_id", tripID.String()))
	}
	return statuses, nil
}

func (r *liveStatusRepository) UpdateETA(ctx context.Context, s *domain.LiveStatus) (bool, error) {
	query := `
		UPDATE trip_live_status SET
			eta_text = :eta_text,
			eta_seconds = :eta_seconds,
			distance_remaining_meters = :distance_remaining_meters,
			updated_at = :updated_at
		WHERE trip_id = :trip_id AND member_id = :member_id
			AND sharing_location AND NOT arrived
			AND lat = :lat AND lng = :lng AND position_at = :position_at`

	res, err := r.db.NamedExecContext(ctx, query, s)
	if err != nil {
		return false, dbError(r.logger, "update live eta", err, zap.String("member_id", s.MemberID.String()))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbError(r.logger, "update live eta", err, zap.String("member_id", s.MemberID.String()))
	}
	return n > 0, nil
}

func (r *liveStatusRepository) StopAllSharing(ctx context.Context, tripID uuid.UUID) error {
	query := `
		UPDATE trip_live_status
		SET sharing_location = FALSE, updated_at = $2
		WHERE trip_id = $1 AND sharing_location`
	if _, err := r.db.ExecContext(ctx, query, tripID, time.Now().UTC()); err != nil {
		return dbError(r.logger, "stop all sharing", err, zap.String("trip_id", tripID.String()))
	}
	return nil
}
