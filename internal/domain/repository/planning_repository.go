package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/split-the-distance/internal/domain"
)

// DateRepository persists date options and their votes.
type DateRepository interface {
	CreateOption(ctx context.Context, option *domain.DateOption) error
	GetOption(ctx context.Context, id uuid.UUID) (*domain.DateOption, error)
	ListOptions(ctx context.Context, tripID uuid.UUID) ([]*domain.DateOption, error)
	DeleteOption(ctx context.Context, id uuid.UUID) error

	// UpsertVote replaces any existing vote of the member on the option.
	UpsertVote(ctx context.Context, vote *domain.DateVote) error
	ListVotes(ctx context.Context, optionID uuid.UUID) ([]domain.DateVote, error)
}

// LocationRepository persists candidate locations, votes and cached
// per-member travel costs.
type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*domain.Location, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// SetConfirmed marks locationID confirmed and clears the flag on every
	// other location of the trip. A nil locationID clears all.
	SetConfirmed(ctx context.Context, tripID uuid.UUID, locationID *uuid.UUID) error

	GetVote(ctx context.Context, locationID, memberID uuid.UUID) (*domain.LocationVote, error)
	UpsertVote(ctx context.Context, vote *domain.LocationVote) error
	DeleteVote(ctx context.Context, locationID, memberID uuid.UUID) error
	ListVotes(ctx context.Context, locationID uuid.UUID) ([]domain.LocationVote, error)

	UpsertDistance(ctx context.Context, distance *domain.LocationDistance) error
	ListDistances(ctx context.Context, locationID uuid.UUID) ([]domain.LocationDistance, error)
}

// ItineraryRepository persists trip options and itinerary stops.
type ItineraryRepository interface {
	CreateOption(ctx context.Context, option *domain.TripOption) error
	GetOption(ctx context.Context, id uuid.UUID) (*domain.TripOption, error)
	ListOptions(ctx context.Context, tripID uuid.UUID, category domain.OptionCategory) ([]*domain.TripOption, error)
	DeleteOption(ctx context.Context, id uuid.UUID) error

	GetOptionVote(ctx context.Context, optionID, memberID uuid.UUID) (*domain.OptionVote, error)
	UpsertOptionVote(ctx context.Context, vote *domain.OptionVote) error
	DeleteOptionVote(ctx context.Context, optionID, memberID uuid.UUID) error
	ListOptionVotes(ctx context.Context, optionID uuid.UUID) ([]domain.OptionVote, error)

	CreateStop(ctx context.Context, stop *domain.TripStop) error
	GetStop(ctx context.Context, id uuid.UUID) (*domain.TripStop, error)
	UpdateStop(ctx context.Context, stop *domain.TripStop) error
	DeleteStop(ctx context.Context, id uuid.UUID) error

	// ListStops orders by day_number, sort_order.
	ListStops(ctx context.Context, tripID uuid.UUID) ([]*domain.TripStop, error)

	// MaxSortOrder returns -1 when the day has no stops.
	MaxSortOrder(ctx context.Context, tripID uuid.UUID, day int) (int, error)

	// ReorderStops sets sort_order to the position in stopIDs, all or nothing.
	ReorderStops(ctx context.Context, tripID uuid.UUID, stopIDs []uuid.UUID) error
}

// MessageRepository persists the append-only trip chat.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error

	// ListByTrip orders by created_at, seq.
	ListByTrip(ctx context.Context, tripID uuid.UUID, limit int) ([]*domain.Message, error)
}

// LiveStatusRepository persists live-tracking snapshots.
type LiveStatusRepository interface {
	Upsert(ctx context.Context, status *domain.LiveStatus) error
	Get(ctx context.Context, tripID, memberID uuid.UUID) (*domain.LiveStatus, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*domain.LiveStatus, error)

	// UpdateETA writes only the ETA columns of status, and only while the
	// stored row still holds the position status was read with and is
	// sharing. It reports false when nothing was written.
	UpdateETA(ctx context.Context, status *domain.LiveStatus) (bool, error)

	// StopAllSharing clears sharing_location for every member of the trip.
	StopAllSharing(ctx context.Context, tripID uuid.UUID) error
}
