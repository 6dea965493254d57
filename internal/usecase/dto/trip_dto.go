package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/split-the-distance/internal/domain"
)

// CriteriaInput - mode-specific location criteria
type CriteriaInput struct {
	MemberIDs   []uuid.UUID  `json:"member_ids,omitempty"`
	Points      []PointInput `json:"points,omitempty" validate:"omitempty,max=24,dive"`
	Destination *PointInput  `json:"destination,omitempty"`
	TravelMode  string       `json:"travel_mode,omitempty" validate:"omitempty,travelmode"`
}

// CreateTripRequest - new trip
type CreateTripRequest struct {
	Title             string         `json:"title" validate:"required,min=1,max=200"`
	Description       string         `json:"description" validate:"max=2000"`
	LocationMode      string         `json:"location_mode" validate:"omitempty,oneof=fairest_all fairest_selected fairest_custom specific"`
	LocationCriteria  *CriteriaInput `json:"location_criteria,omitempty"`
	MembersCanPropose *bool          `json:"members_can_propose,omitempty"`
}

// UpdateTripRequest - partial trip update, nil fields are left unchanged
type UpdateTripRequest struct {
	Title             *string        `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description       *string        `json:"description,omitempty" validate:"omitempty,max=2000"`
	LocationMode      *string        `json:"location_mode,omitempty" validate:"omitempty,oneof=fairest_all fairest_selected fairest_custom specific"`
	LocationCriteria  *CriteriaInput `json:"location_criteria,omitempty"`
	MembersCanPropose *bool          `json:"members_can_propose,omitempty"`
}

// SetVotingRequest - open or close the voting window
type SetVotingRequest struct {
	Open bool `json:"open"`
}

// TripResponse - trip with its members
type TripResponse struct {
	Trip    *domain.Trip     `json:"trip"`
	Members []*domain.Member `json:"members,omitempty"`
}

// GuestInput - one guest to add
type GuestInput struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

// AddGuestsRequest - batch of guests
type AddGuestsRequest struct {
	Guests []GuestInput `json:"guests" validate:"required,min=1,max=50,dive"`
}

// GuestFailure - a guest that could not be added
type GuestFailure struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// AddGuestsResponse - partial result of a batch add
type AddGuestsResponse struct {
	Added  []*domain.Member `json:"added"`
	Failed []GuestFailure   `json:"failed"`
}

// SendInvitesResponse - members invited by this call
type SendInvitesResponse struct {
	Invited       []*domain.Member `json:"invited"`
	InvitesSentAt time.Time        `json:"invites_sent_at"`
}

// InviteCodeRequest - join or decline by code
type InviteCodeRequest struct {
	InviteCode string `json:"invite_code" validate:"required,min=4,max=32"`
}

// OriginRequest - a member's starting point
type OriginRequest struct {
	Lat  float64 `json:"lat" validate:"min=-90,max=90"`
	Lng  float64 `json:"lng" validate:"min=-180,max=180"`
	Name string  `json:"name" validate:"max=200"`
}
