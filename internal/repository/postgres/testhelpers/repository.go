package testhelpers

import (
	"time"

	"github.com/google/uuid"

	"github.com/split-the-distance/internal/domain"
)

// NewTrip returns a planning trip owned by creatorID.
func NewTrip(creatorID uuid.UUID) *domain.Trip {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Trip{
		ID:                uuid.New(),
		CreatorID:         creatorID,
		Title:             "Weekend away",
		Status:            domain.TripStatusPlanning,
		VotingOpen:        true,
		MembersCanPropose: true,
		InviteCode:        uuid.NewString()[:8],
		LocationMode:      domain.LocationModeFairestAll,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// NewMember returns a member row for trip.
func NewMember(tripID uuid.UUID, userID *uuid.UUID, role domain.MemberRole, status domain.MemberStatus, email string) *domain.Member {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Member{
		ID:          uuid.New(),
		TripID:      tripID,
		UserID:      userID,
		Role:        role,
		Status:      status,
		Email:       email,
		DisplayName: email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
