package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StreamTripEvents  = "stream:trip:events"
	StreamTripInvites = "stream:trip:invites"
)

// EntityKind names the slice of trip state a change touched.
type EntityKind string

const (
	EntityTrip         EntityKind = "trip"
	EntityMember       EntityKind = "member"
	EntityDateOption   EntityKind = "date_option"
	EntityDateVote     EntityKind = "date_vote"
	EntityLocation     EntityKind = "location"
	EntityLocationVote EntityKind = "location_vote"
	EntityDistance     EntityKind = "location_distance"
	EntityTripOption   EntityKind = "trip_option"
	EntityOptionVote   EntityKind = "option_vote"
	EntityTripStop     EntityKind = "trip_stop"
	EntityMessage      EntityKind = "message"
	EntityLiveStatus   EntityKind = "live_status"
)

type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
)

// Actions consumed by the distance worker.
const (
	ActionOriginUpdated ChangeAction = "origin_updated"
)

// ChangeEvent tells subscribers which slice of a trip to re-fetch.
type ChangeEvent struct {
	TripID   uuid.UUID    `json:"trip_id"`
	Kind     EntityKind   `json:"kind"`
	EntityID uuid.UUID    `json:"entity_id"`
	Action   ChangeAction `json:"action"`
	At       time.Time    `json:"at"`
}

// InviteEvent is handed to the external mailer.
type InviteEvent struct {
	TripID      uuid.UUID `json:"trip_id"`
	MemberID    uuid.UUID `json:"member_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	TripTitle   string    `json:"trip_title"`
	InviteCode  string    `json:"invite_code"`
}

// StreamMessage is a raw entry read from a Redis stream.
type StreamMessage struct {
	ID   string
	Data string
}

// TripChannel is the pub/sub channel carrying change events of one trip.
func TripChannel(tripID uuid.UUID) string {
	return fmt.Sprintf("trip:%s:changes", tripID)
}

// PositionSubject is the broadcast subject of one trip's live positions.
func PositionSubject(tripID uuid.UUID) string {
	return fmt.Sprintf("trips.%s.positions", tripID)
}
