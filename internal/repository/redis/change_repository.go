package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
)

const (
	subscriberBuffer  = 32
	changeSendTimeout = 500 * time.Millisecond
)

type changeRepository struct {
	client  *redis.Client
	metrics repository.ChangeDropMetrics
	logger  *zap.Logger
}

// NewChangeRepository fans trip change events out over Redis Pub/Sub, one
// channel per trip. metrics may be nil.
func NewChangeRepository(client *redis.Client, metrics repository.ChangeDropMetrics, logger *zap.Logger) repository.ChangePublisher {
	return &changeRepository{client: client, metrics: metrics, logger: logger}
}

func (r *changeRepository) PublishChange(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	if err := r.client.Publish(ctx, domain.TripChannel(event.TripID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

// SubscribeChanges closes the returned channel when the consumer falls
// behind, so the client reconnects and re-fetches instead of missing events.
func (r *changeRepository) SubscribeChanges(ctx context.Context, tripID uuid.UUID) (<-chan domain.ChangeEvent, func(), error) {
	sub := r.client.Subscribe(ctx, domain.TripChannel(tripID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan domain.ChangeEvent, subscriberBuffer)
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					r.logger.Warn("Skipping malformed change event", zap.Error(err))
					continue
				}
				if !deliver(ctx, out, event) {
					if ctx.Err() != nil {
						return
					}
					r.logger.Warn("Change subscriber fell behind, disconnecting",
						zap.String("trip_id", tripID.String()))
					if r.metrics != nil {
						r.metrics.ChangeDropped()
					}
					return
				}
			}
		}
	}()

	return out, cancel, nil
}

func deliver(ctx context.Context, out chan<- domain.ChangeEvent, event domain.ChangeEvent) bool {
	select {
	case out <- event:
		return true
	default:
	}

	timer := time.NewTimer(changeSendTimeout)
	defer timer.Stop()
	select {
	case out <- event:
		return true
	case <-ctx.Done():
		return false
	case <-timer.C:
		return false
	}
}
