package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
)

// Realtime event types sent to subscribers.
const (
	RealtimeChange   = "change"
	RealtimePosition = "position"
)

// RealtimeEvent is either a change notification or a position broadcast.
type RealtimeEvent struct {
	Type     string                    `json:"type"`
	Change   *domain.ChangeEvent       `json:"change,omitempty"`
	Position *domain.PositionBroadcast `json:"position,omitempty"`
}

// RealtimeUseCase merges a trip's change notifications and live positions
// into one feed for joined members.
type RealtimeUseCase struct {
	coordinator
	changes   repository.ChangePublisher
	positions repository.PositionBroadcaster
}

func NewRealtimeUseCase(
	store TripStore,
	changes repository.ChangePublisher,
	positions repository.PositionBroadcaster,
	logger *zap.Logger,
) *RealtimeUseCase {
	return &RealtimeUseCase{
		coordinator: newCoordinator(store, nil, logger),
		changes:     changes,
		positions:   positions,
	}
}

// Subscribe returns the merged feed of tripID. The channel is closed after
// cancel is called or ctx is done.
func (uc *RealtimeUseCase) Subscribe(ctx context.Context, actor domain.Actor, tripID uuid.UUID) (<-chan RealtimeEvent, func(), error) {
	if _, _, err := uc.memberAccess(ctx, tripID, actor); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	changes, stopChanges, err := uc.changes.SubscribeChanges(ctx, tripID)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	var (
		positions     <-chan domain.PositionBroadcast
		stopPositions = func() {}
	)
	if uc.positions != nil {
		positions, stopPositions, err = uc.positions.SubscribePositions(ctx, tripID)
		if err != nil {
			// Positions are best effort; the change feed still works.
			uc.logger.Warn("Position subscription failed",
				zap.String("trip_id", tripID.String()),
				zap.Error(err),
			)
			positions, stopPositions = nil, func() {}
		}
	}

	out := make(chan RealtimeEvent, 32)
	go func() {
		defer close(out)
		defer stopPositions()
		defer stopChanges()

		for {
			var ev RealtimeEvent
			select {
			case <-ctx.Done():
				return
			case e, ok := <-changes:
				if !ok {
					return
				}
				ev = RealtimeEvent{Type: RealtimeChange, Change: &e}
			case p, ok := <-positions:
				if !ok {
					positions = nil
					continue
				}
				ev = RealtimeEvent{Type: RealtimePosition, Position: &p}
			}

			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cancel, nil
}
