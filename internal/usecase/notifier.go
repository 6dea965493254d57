package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
)

// ChangeMetrics counts published change events.
type ChangeMetrics interface {
	ChangePublished(kind string, err error)
}

// Notifier emits change events for every mutation. Delivery failures are
// logged and never fail the mutation that caused them.
type Notifier struct {
	publisher repository.ChangePublisher
	stream    repository.StreamRepository
	metrics   ChangeMetrics
	logger    *zap.Logger
}

// NewNotifier builds a Notifier. stream may be nil, in which case events are
// only fanned out to live subscribers.
func NewNotifier(
	publisher repository.ChangePublisher,
	stream repository.StreamRepository,
	metrics ChangeMetrics,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		publisher: publisher,
		stream:    stream,
		metrics:   metrics,
		logger:    logger,
	}
}

// Notify publishes one change event for a mutated entity kind.
func (n *Notifier) Notify(ctx context.Context, tripID uuid.UUID, kind domain.EntityKind, entityID uuid.UUID, action domain.ChangeAction) {
	event := domain.ChangeEvent{
		TripID:   tripID,
		Kind:     kind,
		EntityID: entityID,
		Action:   action,
		At:       time.Now().UTC(),
	}

	var err error
	if n.publisher != nil {
		err = n.publisher.PublishChange(ctx, event)
		if err != nil {
			n.logger.Warn("Failed to publish change",
				zap.String("trip_id", tripID.String()),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		}
	}

	if n.stream != nil {
		if serr := n.stream.PublishToStream(ctx, domain.StreamTripEvents, event); serr != nil {
			n.logger.Warn("Failed to append change to stream",
				zap.String("trip_id", tripID.String()),
				zap.String("kind", string(kind)),
				zap.Error(serr),
			)
			if err == nil {
				err = serr
			}
		}
	}

	if n.metrics != nil {
		n.metrics.ChangePublished(string(kind), err)
	}
}

// InviteSender hands invitations to the external mailer.
type InviteSender interface {
	SendInvite(ctx context.Context, invite domain.InviteEvent) error
}

type streamInviteSender struct {
	stream repository.StreamRepository
}

// NewStreamInviteSender queues invitations on stream:trip:invites.
func NewStreamInviteSender(stream repository.StreamRepository) InviteSender {
	return &streamInviteSender{stream: stream}
}

func (s *streamInviteSender) SendInvite(ctx context.Context, invite domain.InviteEvent) error {
	return s.stream.PublishToStream(ctx, domain.StreamTripInvites, invite)
}

type logInviteSender struct {
	logger *zap.Logger
}

// NewLogInviteSender only records invitations; used when no stream is
// configured.
func NewLogInviteSender(logger *zap.Logger) InviteSender {
	return &logInviteSender{logger: logger}
}

func (s *logInviteSender) SendInvite(_ context.Context, invite domain.InviteEvent) error {
	s.logger.Info("Invitation ready",
		zap.String("trip_id", invite.TripID.String()),
		zap.String("member_id", invite.MemberID.String()),
		zap.String("email", invite.Email),
	)
	return nil
}
