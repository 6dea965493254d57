package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/split-the-distance/internal/domain"
)

// ChangePublisher fans out trip change notifications to connected clients.
type ChangePublisher interface {
	PublishChange(ctx context.Context, event domain.ChangeEvent) error

	// SubscribeChanges delivers every event of one trip until cancel is
	// called or ctx is done. A subscriber that cannot keep up is
	// disconnected rather than skipped, so its channel closes and the
	// client resyncs on reconnect.
	SubscribeChanges(ctx context.Context, tripID uuid.UUID) (<-chan domain.ChangeEvent, func(), error)
}

// ChangeDropMetrics counts subscribers disconnected for falling behind.
type ChangeDropMetrics interface {
	ChangeDropped()
}

// PositionBroadcaster is the best-effort live position channel.
type PositionBroadcaster interface {
	BroadcastPosition(ctx context.Context, msg domain.PositionBroadcast) error
	SubscribePositions(ctx context.Context, tripID uuid.UUID) (<-chan domain.PositionBroadcast, func(), error)
}

// StreamRepository works with Redis Streams.
type StreamRepository interface {
	// ConsumeBatch reads up to count new messages for the consumer, blocking
	// at most the configured read timeout.
	ConsumeBatch(ctx context.Context, stream, group, consumer string, count int64) ([]domain.StreamMessage, error)

	AckMessages(ctx context.Context, stream, group string, ids ...string) error
	CreateConsumerGroup(ctx context.Context, stream, group string) error
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
