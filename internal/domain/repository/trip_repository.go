package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/split-the-distance/internal/domain"
)

// TripRepository persists the trip aggregate root.
type TripRepository interface {
	Create(ctx context.Context, trip *domain.Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error)
	GetByInviteCode(ctx context.Context, code string) (*domain.Trip, error)

	// ListByUser returns trips where the user holds a non-declined membership.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Trip, error)

	// Update writes the host-editable details (title, description,
	// members_can_propose, location mode and criteria) and refreshes
	// UpdatedAt. Status, voting and confirmations have their own setters so
	// concurrent host actions do not overwrite each other.
	Update(ctx context.Context, trip *domain.Trip) error

	SetVotingOpen(ctx context.Context, tripID uuid.UUID, open bool, at time.Time) error
	SetConfirmedDate(ctx context.Context, tripID uuid.UUID, date *time.Time, at time.Time) error
	SetConfirmedLocation(ctx context.Context, tripID uuid.UUID, locationID *uuid.UUID, at time.Time) error

	// SetStatus moves the trip from one status to another and fails with
	// ErrInvalidState if the stored status is no longer from.
	SetStatus(ctx context.Context, tripID uuid.UUID, from, to domain.TripStatus, at time.Time) error

	// MarkInvitesSent stamps invites_sent_at only if it is still null and
	// returns the stored value.
	MarkInvitesSent(ctx context.Context, tripID uuid.UUID, at time.Time) (time.Time, error)
}

// MemberRepository persists trip members.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)

	// GetByTripAndUser returns the non-declined member bound to userID.
	GetByTripAndUser(ctx context.Context, tripID, userID uuid.UUID) (*domain.Member, error)

	// GetByTripAndEmail matches case-insensitively.
	GetByTripAndEmail(ctx context.Context, tripID uuid.UUID, email string) (*domain.Member, error)

	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, id uuid.UUID) error

	// InvitePending moves every pending member of the trip to invited and
	// returns only the rows changed by this call.
	InvitePending(ctx context.Context, tripID uuid.UUID, at time.Time) ([]*domain.Member, error)
}
