package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
)

type dateRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewDateRepository(db *DB) repository.DateRepository {
	return &dateRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *dateRepository) CreateOption(ctx context.Context, o *domain.DateOption) error {
	query := `
		INSERT INTO trip_date_options (id, trip_id, proposed_by, date_start, date_end, label, created_at)
		VALUES (:id, :trip_id, :proposed_by, :date_start, :date_end, :label, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, o); err != nil {
		return dbError(r.logger, "create date option", err)
	}
	return nil
}

func (r *dateRepository) GetOption(ctx context.Context, id uuid.UUID) (*domain.DateOption, error) {
	var o domain.DateOption
	query := `
		SELECT id, trip_id, proposed_by, date_start, date_end, label, created_at
		FROM trip_date_options WHERE id = $1`
	if err := r.db.GetContext(ctx, &o, query, id); err != nil {
		return nil, dbError(r.logger, "get date option", err)
	}
	return &o, nil
}

func (r *dateRepository) ListOptions(ctx context.Context, tripID uuid.UUID) ([]*domain.DateOption, error) {
	options := []*domain.DateOption{}
	query := `
		SELECT id, trip_id, proposed_by, date_start, date_end, label, created_at
		FROM trip_date_options WHERE trip_id = $1
		ORDER BY date_start, created_at`
	if err := r.db.SelectContext(ctx, &options, query, tripID); err != nil {
		return nil, dbError(r.logger, "list date options", err, zap.String("trip_id", tripID.String()))
	}
	return options, nil
}

func (r *dateRepository) DeleteOption(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trip_date_options WHERE id = $1`, id)
	if err == nil {
		err = requireRow(res)
	}
	if err != nil {
		return dbError(r.logger, "delete date option", err)
	}
	return nil
}

func (r *dateRepository) UpsertVote(ctx context.Context, v *domain.DateVote) error {
	query := `
		INSERT INTO trip_date_votes (option_id, member_id, vote, updated_at)
		VALUES (:option_id, :member_id, :vote, :updated_at)
		ON CONFLICT (option_id, member_id)
		DO UPDATE SET vote = EXCLUDED.vote, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, v); err != nil {
		return dbError(r.logger, "upsert date vote", err)
	}
	return nil
}

func (r *dateRepository) ListVotes(ctx context.Context, optionID uuid.UUID) ([]domain.DateVote, error) {
	votes := []domain.DateVote{}
	query := `
		SELECT option_id, member_id, vote, updated_at
		FROM trip_date_votes WHERE option_id = $1
		ORDER BY updated_at`
	if err := r.db.SelectContext(ctx, &votes, query, optionID); err != nil {
		return nil, dbError(r.logger, "list date votes", err)
	}
	return votes, nil
}
