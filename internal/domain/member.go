package domain

import (
	"time"

	"github.com/google/uuid"
)

type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusInvited  MemberStatus = "invited"
	MemberStatusJoined   MemberStatus = "joined"
	MemberStatusDeclined MemberStatus = "declined"
)

type MemberRole string

const (
	MemberRoleCreator MemberRole = "creator"
	MemberRoleMember  MemberRole = "member"
)

var memberTransitions = map[MemberStatus][]MemberStatus{
	MemberStatusPending: {MemberStatusInvited},
	MemberStatusInvited: {MemberStatusJoined, MemberStatusDeclined},
}

// Member is a trip participant. UserID stays nil until the invite is redeemed.
type Member struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	TripID      uuid.UUID    `json:"trip_id" db:"trip_id"`
	UserID      *uuid.UUID   `json:"user_id,omitempty" db:"user_id"`
	Role        MemberRole   `json:"role" db:"role"`
	Status      MemberStatus `json:"status" db:"status"`
	Email       string       `json:"email" db:"email"`
	DisplayName string       `json:"display_name" db:"display_name"`
	OriginLat   *float64     `json:"origin_lat,omitempty" db:"origin_lat"`
	OriginLng   *float64     `json:"origin_lng,omitempty" db:"origin_lng"`
	OriginName  *string      `json:"origin_name,omitempty" db:"origin_name"`
	InvitedAt   *time.Time   `json:"invited_at,omitempty" db:"invited_at"`
	JoinedAt    *time.Time   `json:"joined_at,omitempty" db:"joined_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

func (m *Member) IsHost() bool {
	return m.Role == MemberRoleCreator
}

func (m *Member) IsJoined() bool {
	return m.Status == MemberStatusJoined
}

// CanTransition reports whether the membership lifecycle allows next.
func (m *Member) CanTransition(next MemberStatus) bool {
	for _, s := range memberTransitions[m.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// BelongsTo reports whether the member row is bound to userID.
func (m *Member) BelongsTo(userID uuid.UUID) bool {
	return m.UserID != nil && *m.UserID == userID
}

// Origin returns the member's starting point, or nil when not shared.
func (m *Member) Origin() *GeoPoint {
	if m.OriginLat == nil || m.OriginLng == nil {
		return nil
	}
	p := GeoPoint{Lat: *m.OriginLat, Lon: *m.OriginLng}
	if m.OriginName != nil {
		p.Name = *m.OriginName
	}
	return &p
}

// SetOrigin replaces the member's starting point.
func (m *Member) SetOrigin(p GeoPoint) {
	lat, lng := p.Lat, p.Lon
	m.OriginLat = &lat
	m.OriginLng = &lng
	if p.Name != "" {
		name := p.Name
		m.OriginName = &name
	} else {
		m.OriginName = nil
	}
}
