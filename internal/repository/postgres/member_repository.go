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

const memberColumns = `
	id, trip_id, user_id, role, status, email, display_name,
	origin_lat, origin_lng, origin_name, invited_at, joined_at, created_at, updated_at`

type memberRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewMemberRepository(db *DB) repository.MemberRepository {
	return &memberRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	query := `
		INSERT INTO trip_members (` + memberColumns + `)
		VALUES (
			:id, :trip_id, :user_id, :role, :status, :email, :display_name,
			:origin_lat, :origin_lng, :origin_name, :invited_at, :joined_at, :created_at, :updated_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return dbError(r.logger, "create member", err, zap.String("trip_id", m.TripID.String()))
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	var m domain.Member
	query := `SELECT ` + memberColumns + ` FROM trip_members WHERE id = $1`
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, dbError(r.logger, "get member", err, zap.String("member_id", id.String()))
	}
	return &m, nil
}

func (r *memberRepository) GetByTripAndUser(ctx context.Context, tripID, userID uuid.UUID) (*domain.Member, error) {
	var m domain.Member
	query := `SELECT ` + memberColumns + `
		FROM trip_members
		WHERE trip_id = $1 AND user_id = $2 AND status <> 'declined'`
	if err := r.db.GetContext(ctx, &m, query, tripID, userID); err != nil {
		return nil, dbError(r.logger, "get member by user", err)
	}
	return &m, nil
}

func (r *memberRepository) GetByTripAndEmail(ctx context.Context, tripID uuid.UUID, email string) (*domain.Member, error) {
	var m domain.Member
	query := `SELECT ` + memberColumns + `
		FROM trip_members
		WHERE trip_id = $1 AND lower(email) = lower($2)
		ORDER BY created_at
		LIMIT 1`
	if err := r.db.GetContext(ctx, &m, query, tripID, email); err != nil {
		return nil, dbError(r.logger, "get member by email", err)
	}
	return &m, nil
}

func (r *memberRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*domain.Member, error) {
	members := []*domain.Member{}
	query := `SELECT ` + memberColumns + ` FROM trip_members WHERE trip_id = $1 ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &members, query, tripID); err != nil {
		return nil, dbError(r.logger, "list members", err, zap.String("trip_id", tripID.String()))
	}
	return members, nil
}

func (r *memberRepository) Update(ctx context.Context, m *domain.Member) error {
	m.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE trip_members SET
			user_id = :user_id,
			status = :status,
			display_name = :display_name,
			origin_lat = :origin_lat,
			origin_lng = :origin_lng,
			origin_name = :origin_name,
			invited_at = :invited_at,
			joined_at = :joined_at,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, m)
	if err == nil {
		err = requireRow(res)
	}
	if err != nil {
		return dbError(r.logger, "update member", err, zap.String("member_id", m.ID.String()))
	}
	return nil
}

func (r *memberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trip_members WHERE id = $1`, id)
	if err == nil {
		err = requireRow(res)
	}
	if err != nil {
		return dbError(r.logger, "delete member", err, zap.String("member_id", id.String()))
	}
	return nil
}

// InvitePending relies on the status predicate so a retried call changes no
// rows a second time.
func (r *memberRepository) InvitePending(ctx context.Context, tripID uuid.UUID, at time.Time) ([]*domain.Member, error) {
	query := `
		UPDATE trip_members
		SET status = 'invited', invited_at = $2, updated_at = $2
		WHERE trip_id = $1 AND status = 'pending'
		RETURNING ` + memberColumns

	members := []*domain.Member{}
	if err := r.db.SelectContext(ctx, &members, query, tripID, at); err != nil {
		return nil, dbError(r.logger, "invite pending members", err, zap.String("trip_id", tripID.String()))
	}
	return members, nil
}
