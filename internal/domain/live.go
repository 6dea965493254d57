package domain

import (
	"time"

	"github.com/google/uuid"
)

// LiveStatus is the durable snapshot of a member's live-tracking session.
type LiveStatus struct {
	TripID                  uuid.UUID  `json:"trip_id" db:"trip_id"`
	MemberID                uuid.UUID  `json:"member_id" db:"member_id"`
	SharingLocation         bool       `json:"sharing_location" db:"sharing_location"`
	Arrived                 bool       `json:"arrived" db:"arrived"`
	Lat                     *float64   `json:"lat,omitempty" db:"lat"`
	Lng                     *float64   `json:"lng,omitempty" db:"lng"`
	Heading                 *float64   `json:"heading,omitempty" db:"heading"`
	Speed                   *float64   `json:"speed,omitempty" db:"speed"`
	ETAText                 *string    `json:"eta_text,omitempty" db:"eta_text"`
	ETASeconds              *float64   `json:"eta_seconds,omitempty" db:"eta_seconds"`
	DistanceRemainingMeters *float64   `json:"distance_remaining_meters,omitempty" db:"distance_remaining_meters"`
	PositionAt              *time.Time `json:"position_at,omitempty" db:"position_at"`
	UpdatedAt               time.Time  `json:"updated_at" db:"updated_at"`
	Stale                   bool       `json:"stale" db:"-"`
}

// IsStale reports whether the last device position is older than maxAge.
// Server-side ETA refreshes do not move PositionAt.
func (s *LiveStatus) IsStale(now time.Time, maxAge time.Duration) bool {
	if s.Lat == nil || s.Lng == nil || s.PositionAt == nil {
		return false
	}
	return now.Sub(*s.PositionAt) > maxAge
}

// SamePosition reports whether other still holds the position s was read with.
func (s *LiveStatus) SamePosition(other *LiveStatus) bool {
	if s.Lat == nil || s.Lng == nil || other.Lat == nil || other.Lng == nil {
		return false
	}
	if s.PositionAt == nil || other.PositionAt == nil {
		return false
	}
	return *s.Lat == *other.Lat && *s.Lng == *other.Lng && s.PositionAt.Equal(*other.PositionAt)
}

// Position is a device sample reported by a sharing member.
type Position struct {
	Lat     float64  `json:"lat"`
	Lng     float64  `json:"lng"`
	Heading *float64 `json:"heading,omitempty"`
	Speed   *float64 `json:"speed,omitempty"`
}

// PositionBroadcast is the ephemeral, unpersisted fan-out message.
type PositionBroadcast struct {
	TripID     uuid.UUID  `json:"tripId"`
	MemberID   uuid.UUID  `json:"memberId"`
	Lat        float64    `json:"lat"`
	Lng        float64    `json:"lng"`
	Heading    *float64   `json:"heading,omitempty"`
	Speed      *float64   `json:"speed,omitempty"`
	Arrived    bool       `json:"arrived"`
	ETASeconds *float64   `json:"etaSeconds,omitempty"`
	ETAText    *string    `json:"etaText,omitempty"`
	PositionAt *time.Time `json:"positionAt,omitempty"`
	SentAt     time.Time  `json:"sentAt"`
}
