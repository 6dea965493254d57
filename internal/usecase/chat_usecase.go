package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
)

const maxMessageLength = 2000

// Sequencer hands out increasing message sequence numbers.
type Sequencer interface {
	Next() int64
}

// ChatUseCase - the append-only trip chat
type ChatUseCase struct {
	coordinator
	seq Sequencer
}

func NewChatUseCase(store TripStore, notifier *Notifier, seq Sequencer, logger *zap.Logger) *ChatUseCase {
	return &ChatUseCase{
		coordinator: newCoordinator(store, notifier, logger),
		seq:         seq,
	}
}

// SendTripMessage - posts a user message from a joined member
func (uc *ChatUseCase) SendTripMessage(ctx context.Context, actor domain.Actor, tripID uuid.UUID, body string) (*domain.Message, error) {
	trip, member, err := uc.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if err := requireOpen(trip); err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	if n := utf8.RuneCountInString(body); n == 0 || n > maxMessageLength {
		return nil, errors.ErrInvalidRequest.WithMessage("message must be 1 to %d characters", maxMessageLength)
	}

	memberID := member.ID
	msg := &domain.Message{
		ID:        uuid.New(),
		Seq:       uc.seq.Next(),
		TripID:    tripID,
		Type:      domain.MessageTypeUser,
		MemberID:  &memberID,
		Body:      body,
		CreatedAt: uc.now(),
	}
	if err := uc.store.Messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	uc.notify(ctx, tripID, domain.EntityMessage, msg.ID, domain.ActionCreated)
	return msg, nil
}

// PostSystemMessage records a lifecycle transition in the chat. It never
// fails the caller; errors are logged.
func (uc *ChatUseCase) PostSystemMessage(ctx context.Context, tripID uuid.UUID, body string) *domain.Message {
	msg := &domain.Message{
		ID:        uuid.New(),
		Seq:       uc.seq.Next(),
		TripID:    tripID,
		Type:      domain.MessageTypeSystem,
		Body:      body,
		CreatedAt: uc.now(),
	}
	if err := uc.store.Messages.Create(ctx, msg); err != nil {
		uc.logger.Warn("Failed to post system message", zap.String("trip_id", tripID.String()), zap.Error(err))
		return nil
	}

	uc.notify(ctx, tripID, domain.EntityMessage, msg.ID, domain.ActionCreated)
	return msg
}

// ListTripMessages - the latest messages in (created_at, seq) order
func (uc *ChatUseCase) ListTripMessages(ctx context.Context, actor domain.Actor, tripID uuid.UUID, limit int) ([]*domain.Message, error) {
	if _, _, err := uc.memberAccess(ctx, tripID, actor); err != nil {
		return nil, err
	}
	return uc.store.Messages.ListByTrip(ctx, tripID, limit)
}

// GroupMessagesByDate splits an ordered message list into calendar days in
// loc. Input order is preserved inside each day.
func GroupMessagesByDate(messages []*domain.Message, loc *time.Location) []domain.MessageDay {
	if loc == nil {
		loc = time.UTC
	}
	days := []domain.MessageDay{}
	for _, m := range messages {
		date := m.CreatedAt.In(loc).Format("2006-01-02")
		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, domain.MessageDay{Date: date})
		}
		last := &days[len(days)-1]
		last.Messages = append(last.Messages, m)
	}
	return days
}
