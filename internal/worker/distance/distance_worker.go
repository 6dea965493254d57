// Package distance keeps the cached member-to-location travel costs current
// by consuming trip change events.
package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
	"github.com/split-the-distance/internal/worker"
)

const (
	maxBatchSize = 50
	errorBackoff = time.Second
)

// Refresher recomputes distances for one location, or every location of the
// trip when locationID is nil.
type Refresher interface {
	RefreshLocationDistances(ctx context.Context, tripID uuid.UUID, locationID *uuid.UUID) error
}

// Metrics counts processed events by result.
type Metrics interface {
	WorkerResult(result string)
}

const (
	resultRefreshed = "refreshed"
	resultFailed    = "failed"
	resultSkipped   = "skipped"
	resultInvalid   = "invalid"
)

// refreshKey is one unit of work; a nil location covers the whole trip.
type refreshKey struct {
	trip     uuid.UUID
	location uuid.UUID
}

// Worker reacts to new locations and changed member origins.
type Worker struct {
	*worker.BaseWorker
	stream       repository.StreamRepository
	refresher    Refresher
	metrics      Metrics
	consumerName string
	maxRetries   int
	retryDelay   time.Duration
}

func NewWorker(
	stream repository.StreamRepository,
	refresher Refresher,
	metrics Metrics,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *Worker {
	hostname, _ := os.Hostname()
	return &Worker{
		BaseWorker:   worker.NewBaseWorker("location-distances", consumerGroup, logger),
		stream:       stream,
		refresher:    refresher,
		metrics:      metrics,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		maxRetries:   max(maxRetries, 1),
		retryDelay:   200 * time.Millisecond,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting distance worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
	)

	if err := w.stream.CreateConsumerGroup(ctx, domain.StreamTripEvents, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Distance worker stopped")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// ConsumeBatch blocks for the stream read timeout when idle.
		if _, err := w.ProcessBatch(ctx); err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			select {
			case <-time.After(errorBackoff):
			case <-w.StopChan():
			case <-ctx.Done():
			}
		}
	}
}

// ProcessBatch handles one read from the stream and returns how many entries
// it consumed. Every entry is acked, including the ones it cannot parse or
// refresh: the refresh is idempotent and the next origin or location change
// recomputes the same rows.
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := w.stream.ConsumeBatch(ctx, domain.StreamTripEvents, w.ConsumerGroup(), w.consumerName, maxBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(messages))
	var order []refreshKey
	pending := make(map[refreshKey]bool)
	wholeTrip := make(map[uuid.UUID]bool)

	for _, msg := range messages {
		ids = append(ids, msg.ID)

		key, ok, err := parse(msg)
		if err != nil {
			w.Logger().Warn("Dropping unreadable event", zap.String("message_id", msg.ID), zap.Error(err))
			w.result(resultInvalid)
			continue
		}
		if !ok {
			w.result(resultSkipped)
			continue
		}
		if key.location == uuid.Nil {
			wholeTrip[key.trip] = true
		}
		if !pending[key] {
			pending[key] = true
			order = append(order, key)
		}
	}

	for _, key := range order {
		// a whole-trip refresh in the same batch covers single locations
		if key.location != uuid.Nil && wholeTrip[key.trip] {
			w.result(resultSkipped)
			continue
		}
		w.refresh(ctx, key)
	}

	if err := w.stream.AckMessages(ctx, domain.StreamTripEvents, w.ConsumerGroup(), ids...); err != nil {
		w.Logger().Error("Failed to ack messages", zap.Int("count", len(ids)), zap.Error(err))
	}

	w.Logger().Debug("Batch processed", zap.Int("messages", len(messages)), zap.Int("refreshes", len(order)))
	return len(messages), nil
}

func (w *Worker) refresh(ctx context.Context, key refreshKey) {
	var locationID *uuid.UUID
	if key.location != uuid.Nil {
		id := key.location
		locationID = &id
	}

	var err error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		err = w.refresher.RefreshLocationDistances(ctx, key.trip, locationID)
		if err == nil {
			w.result(resultRefreshed)
			return
		}
		if attempt < w.maxRetries {
			select {
			case <-time.After(w.retryDelay * time.Duration(attempt)):
			case <-ctx.Done():
				attempt = w.maxRetries
			}
		}
	}

	w.Logger().Warn("Distance refresh failed",
		zap.String("trip_id", key.trip.String()),
		zap.Stringer("location_id", key.location),
		zap.Error(err),
	)
	w.result(resultFailed)
}

func (w *Worker) result(r string) {
	if w.metrics != nil {
		w.metrics.WorkerResult(r)
	}
}

// parse maps a change event to a refresh. ok is false for events that do not
// move any distance.
func parse(msg domain.StreamMessage) (refreshKey, bool, error) {
	var event domain.ChangeEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return refreshKey{}, false, err
	}
	if event.TripID == uuid.Nil {
		return refreshKey{}, false, fmt.Errorf("event without trip_id")
	}

	switch {
	case event.Kind == domain.EntityLocation && event.Action == domain.ActionCreated:
		return refreshKey{trip: event.TripID, location: event.EntityID}, true, nil
	case event.Kind == domain.EntityMember && event.Action == domain.ActionOriginUpdated:
		return refreshKey{trip: event.TripID}, true, nil
	}
	return refreshKey{}, false, nil
}
