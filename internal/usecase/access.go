package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
	"github.com/split-the-distance/internal/pkg/errors"
)

// TripStore groups the repositories of the trip aggregate.
type TripStore struct {
	Trips     repository.TripRepository
	Members   repository.MemberRepository
	Dates     repository.DateRepository
	Locations repository.LocationRepository
	Itinerary repository.ItineraryRepository
	Messages  repository.MessageRepository
	Live      repository.LiveStatusRepository
}

// SessionRegistry controls server-side live sharing loops.
type SessionRegistry interface {
	StartSession(tripID, memberID uuid.UUID)
	StopSession(tripID, memberID uuid.UUID)
	StopTrip(tripID uuid.UUID)
}

// coordinator holds what every trip use case needs.
type coordinator struct {
	store    TripStore
	notifier *Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func newCoordinator(store TripStore, notifier *Notifier, logger *zap.Logger) coordinator {
	return coordinator{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (c *coordinator) notify(ctx context.Context, tripID uuid.UUID, kind domain.EntityKind, entityID uuid.UUID, action domain.ChangeAction) {
	if c.notifier != nil {
		c.notifier.Notify(ctx, tripID, kind, entityID, action)
	}
}

func (c *coordinator) loadTrip(ctx context.Context, tripID uuid.UUID) (*domain.Trip, error) {
	trip, err := c.store.Trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrNotFound.WithMessage("trip not found")
		}
		return nil, err
	}
	return trip, nil
}

// joinedMember returns the actor's joined membership or ErrForbidden.
func (c *coordinator) joinedMember(ctx context.Context, tripID uuid.UUID, actor domain.Actor) (*domain.Member, error) {
	m, err := c.store.Members.GetByTripAndUser(ctx, tripID, actor.UserID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrForbidden.WithMessage("not a member of this trip")
		}
		return nil, err
	}
	if !m.IsJoined() {
		return nil, errors.ErrForbidden.WithMessage("not a member of this trip")
	}
	return m, nil
}

// memberAccess loads the trip and the actor's joined membership.
func (c *coordinator) memberAccess(ctx context.Context, tripID uuid.UUID, actor domain.Actor) (*domain.Trip, *domain.Member, error) {
	trip, err := c.loadTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	m, err := c.joinedMember(ctx, tripID, actor)
	if err != nil {
		return nil, nil, err
	}
	return trip, m, nil
}

// hostAccess is memberAccess restricted to the trip creator.
func (c *coordinator) hostAccess(ctx context.Context, tripID uuid.UUID, actor domain.Actor) (*domain.Trip, *domain.Member, error) {
	trip, m, err := c.memberAccess(ctx, tripID, actor)
	if err != nil {
		return nil, nil, err
	}
	if !m.IsHost() {
		return nil, nil, errors.ErrForbidden.WithMessage("only the host can do this")
	}
	return trip, m, nil
}

// canVote applies the voting window: when closed only the host votes.
func canVote(trip *domain.Trip, m *domain.Member) error {
	if trip.VotingOpen || m.IsHost() {
		return nil
	}
	return errors.ErrForbidden.WithMessage("voting is closed")
}

func canPropose(trip *domain.Trip, m *domain.Member) error {
	if m.IsHost() || trip.MembersCanPropose {
		return nil
	}
	return errors.ErrForbidden.WithMessage("only the host can propose")
}

func requirePlanning(trip *domain.Trip) error {
	if trip.Status != domain.TripStatusPlanning {
		return errors.ErrInvalidState.WithMessage("trip is %s", trip.Status)
	}
	return nil
}

func requireOpen(trip *domain.Trip) error {
	if trip.Status == domain.TripStatusCompleted || trip.Status == domain.TripStatusCanceled {
		return errors.ErrInvalidState.WithMessage("trip is %s", trip.Status)
	}
	return nil
}

// ownerOrHost allows the author of an entity or the host.
func ownerOrHost(m *domain.Member, authorID uuid.UUID) error {
	if m.ID == authorID || m.IsHost() {
		return nil
	}
	return errors.ErrForbidden.WithMessage("only the author or the host can do this")
}

func belongsToTrip(entityTripID, tripID uuid.UUID, what string) error {
	if entityTripID != tripID {
		return errors.ErrNotFound.WithMessage("%s not found", what)
	}
	return nil
}
