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

const (
	optionColumns = `id, trip_id, category, name, address, lat, lng, url, notes, added_by, created_at`
	stopColumns   = `
		id, trip_id, day_number, sort_order, name, address, lat, lng, category, status,
		notes, start_time, end_time, added_by, created_at, updated_at`
)

type itineraryRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewItineraryRepository(db *DB) repository.ItineraryRepository {
	return &itineraryRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *itineraryRepository) CreateOption(ctx context.Context, o *domain.TripOption) error {
	query := `
		INSERT INTO trip_options (` + optionColumns + `)
		VALUES (:id, :trip_id, :category, :name, :address, :lat, :lng, :url, :notes, :added_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, o); err != nil {
		return dbError(r.logger, "create trip option", err)
	}
	return nil
}

func (r *itineraryRepository) GetOption(ctx context.Context, id uuid.UUID) (*domain.TripOption, error) {
	var o domain.TripOption
	query := `SELECT ` + optionColumns + ` FROM trip_options WHERE id = $1`
	if err := r.db.GetContext(ctx, &o, query, id); err != nil {
		return nil, dbError(r.logger, "get trip option", err)
	}
	return &o, nil
}

// ListOptions returns every category when category is empty.
func (r *itineraryRepository) ListOptions(ctx context.Context, tripID uuid.UUID, category domain.OptionCategory) ([]*domain.TripOption, error) {
	options := []*domain.TripOption{}
	query := `SELECT ` + optionColumns + `
		FROM trip_options
		WHERE trip_id = $1 AND ($2 = '' OR category = $2)
		ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &options, query, tripID, string(category)); err != nil {
		return nil, dbError(r.logger, "list trip options", err, zap.String("trip_id", tripID.String()))
	}
	return options, nil
}

func (r *itineraryRepository) DeleteOption(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trip_options WHERE id = $1`, id)
	if err == nil {
		err = requireRow(res)
	}
	if err != nil {
		return dbError(r.logger, "delete trip option", err)
	}
	return nil
}

func (r *itineraryRepository) GetOptionVote(ctx context.Context, optionID, memberID uuid.UUID) (*domain.OptionVote, error) {
	var v domain.OptionVote
	query := `
		SELECT option_id, member_id, vote, updated_at
		FROM trip_option_votes WHERE option_id = $1 AND member_id = $2`
	if err := r.db.GetContext(ctx, &v, query, optionID, memberID); err != nil {
		return nil, dbError(r.logger, "get option vote", err)
	}
	return &v, nil
}

func (r *itineraryRepository) UpsertOptionVote(ctx context.Context, v *domain.OptionVote) error {
	query := `
		INSERT INTO trip_option_votes (option_id, member_id, vote, updated_at)
		VALUES (:option_id, :member_id, :vote, :updated_at)
		ON CONFLICT (option_id, member_id)
		DO UPDATE SET vote = EXCLUDED.vote, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, v); err != nil {
		return dbError(r.logger, "upsert option vote", err)
	}
	return nil
}

func (r *itineraryRepository) DeleteOptionVote(ctx context.Context, optionID, memberID uuid.UUID) error {
	query := `DELETE FROM trip_option_votes WHERE option_id = $1 AND member_id = $2`
	if _, err := r.db.ExecContext(ctx, query, optionID, memberID); err != nil {
		return dbError(r.logger, "delete option vote", err)
	}
	return nil
}

func (r *itineraryRepository) ListOptionVotes(ctx context.Context, optionID uuid.UUID) ([]domain.OptionVote, error) {
	votes := []domain.OptionVote{}
	query := `
		SELECT option_id, member_id, vote, updated_at
		FROM trip_option_votes WHERE option_id = $1`
	if err := r.db.SelectContext(ctx, &votes, query, optionID); err != nil {
		return nil, dbError(r.logger, "list option votes", err)
	}
	return votes, nil
}

func (r *itineraryRepository) CreateStop(ctx context.Context, s *domain.TripStop) error {
	query := `
		INSERT INTO trip_stops (` + stopColumns + `)
		VALUES (
			:id, :trip_id, :day_number, :sort_order, :name, :address, :lat, :lng, :category, :status,
			:notes, :start_time, :end_time, :added_by, :created_at, :updated_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return dbError(r.logger, "create trip stop", err)
	}
	return nil
}

func (r *itineraryRepository) GetStop(ctx context.Context, id uuid.UUID) (*domain.TripStop, error) {
	var s domain.TripStop
	query := `SELECT ` + stopColumns + ` FROM trip_stops WHERE id = $1`
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		return nil, dbError(r.logger, "get trip stop", err)
	}
	return &s, nil
}

func (r *itineraryRepository) UpdateStop(ctx context.Context, s *domain.TripStop) error {
	s.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE trip_stops SET
			day_number = :day_number,
			sort_order = :sort_order,
			name = :name,
			address = :address,
			lat = :lat,
			lng = :lng,
			category = :category,
			status = :status,
			notes = :notes,
			start_time = :start_time,
			end_time = :end_time,
			updated_at = :updated_at
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, s)
	if err == nil {
		err = requireRow(res)
	}
	if err != nil {
		return dbError(r.logger, "update trip stop", err)
	}
	return nil
}

func (r *itineraryRepository) ReorderStops(ctx context.Context, tripID uuid.UUID, stopIDs []uuid.UUID) error {
	now := time.Now().UTC()
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for i, id := range stopIDs {
			res, err := tx.ExecContext(ctx,
				`UPDATE trip_stops SET sort_order = $1, updated_at = $2 WHERE id = $3 AND trip_id = $4`,
				i, now, id, tripID)
			if err == nil {
				err = requireRow(res)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dbError(r.logger, "reorder trip stops", err, zap.String("trip_id", tripID.String()))
	}
	return nil
}

func (r *itineraryRepository) DeleteStop(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trip_stops WHERE id = $1`, id)
	if err == nil {
		err = requireRow(res)
	}
	if err != nil {
		return dbError(r.logger, "delete trip stop", err)
	}
	return nil
}

func (r *itineraryRepository) ListStops(ctx context.Context, tripID uuid.UUID) ([]*domain.TripStop, error) {
	stops := []*domain.TripStop{}
	query := `SELECT ` + stopColumns + `
		FROM trip_stops WHERE trip_id = $1
		ORDER BY day_number, sort_order, created_at`
	if err := r.db.SelectContext(ctx, &stops, query, tripID); err != nil {
		return nil, dbError(r.logger, "list trip stops", err, zap.String("trip_id", tripID.String()))
	}
	return stops, nil
}

func (r *itineraryRepository) MaxSortOrder(ctx context.Context, tripID uuid.UUID, day int) (int, error) {
	var maxOrder int
	query := `SELECT COALESCE(MAX(sort_order), -1) FROM trip_stops WHERE trip_id = $1 AND day_number = $2`
	if err := r.db.GetContext(ctx, &maxOrder, query, tripID, day); err != nil {
		return 0, dbError(r.logger, "max sort order", err)
	}
	return maxOrder, nil
}
