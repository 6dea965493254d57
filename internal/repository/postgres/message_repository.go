package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
)

const defaultMessageLimit = 500

type messageRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewMessageRepository(db *DB) repository.MessageRepository {
	return &messageRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO trip_messages (id, seq, trip_id, type, member_id, body, created_at)
		VALUES (:id, :seq, :trip_id, :type, :member_id, :body, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return dbError(r.logger, "create message", err, zap.String("trip_id", m.TripID.String()))
	}
	return nil
}

// ListByTrip returns the newest limit messages in ascending order.
func (r *messageRepository) ListByTrip(ctx context.Context, tripID uuid.UUID, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	query := `
		SELECT id, seq, trip_id, type, member_id, body, created_at FROM (
			SELECT id, seq, trip_id, type, member_id, body, created_at
			FROM trip_messages
			WHERE trip_id = $1
			ORDER BY created_at DESC, seq DESC
			LIMIT $2
		) latest
		ORDER BY created_at, seq`

	messages := []*domain.Message{}
	if err := r.db.SelectContext(ctx, &messages, query, tripID, limit); err != nil {
		return nil, dbError(r.logger, "list messages", err, zap.String("trip_id", tripID.String()))
	}
	return messages, nil
}
