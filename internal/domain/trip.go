package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripStatusPlanning  TripStatus = "planning"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCanceled  TripStatus = "canceled"
)

type LocationMode string

const (
	LocationModeFairestAll      LocationMode = "fairest_all"
	LocationModeFairestSelected LocationMode = "fairest_selected"
	LocationModeFairestCustom   LocationMode = "fairest_custom"
	LocationModeSpecific        LocationMode = "specific"
)

func (m LocationMode) Valid() bool {
	switch m {
	case LocationModeFairestAll, LocationModeFairestSelected, LocationModeFairestCustom, LocationModeSpecific:
		return true
	}
	return false
}

// LocationCriteria is the mode-specific payload of Trip.LocationMode.
type LocationCriteria struct {
	MemberIDs   []uuid.UUID `json:"member_ids,omitempty"`
	Points      []GeoPoint  `json:"points,omitempty"`
	Destination *GeoPoint   `json:"destination,omitempty"`
	TravelMode  TravelMode  `json:"travel_mode,omitempty"`
}

func (c LocationCriteria) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *LocationCriteria) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = LocationCriteria{}
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	}
	return fmt.Errorf("unsupported location criteria type %T", src)
}

// Trip is the root aggregate of group planning.
type Trip struct {
	ID                  uuid.UUID        `json:"id" db:"id"`
	CreatorID           uuid.UUID        `json:"creator_id" db:"creator_id"`
	Title               string           `json:"title" db:"title"`
	Description         string           `json:"description" db:"description"`
	Status              TripStatus       `json:"status" db:"status"`
	VotingOpen          bool             `json:"voting_open" db:"voting_open"`
	MembersCanPropose   bool             `json:"members_can_propose" db:"members_can_propose"`
	InviteCode          string           `json:"invite_code" db:"invite_code"`
	InvitesSentAt       *time.Time       `json:"invites_sent_at,omitempty" db:"invites_sent_at"`
	ConfirmedDate       *time.Time       `json:"confirmed_date,omitempty" db:"confirmed_date"`
	ConfirmedLocationID *uuid.UUID       `json:"confirmed_location_id,omitempty" db:"confirmed_location_id"`
	LocationMode        LocationMode     `json:"location_mode" db:"location_mode"`
	LocationCriteria    LocationCriteria `json:"location_criteria" db:"location_criteria"`
	CreatedAt           time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at" db:"updated_at"`
}

var tripTransitions = map[TripStatus][]TripStatus{
	TripStatusPlanning: {TripStatusActive, TripStatusCanceled},
	TripStatusActive:   {TripStatusCompleted, TripStatusCanceled},
}

// CanTransition reports whether the trip lifecycle allows moving to next.
func (t *Trip) CanTransition(next TripStatus) bool {
	for _, s := range tripTransitions[t.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// DateLocked is true once a date has been confirmed.
func (t *Trip) DateLocked() bool {
	return t.ConfirmedDate != nil
}

// LocationLocked is true once a location has been confirmed.
func (t *Trip) LocationLocked() bool {
	return t.ConfirmedLocationID != nil
}

// SpecificDestination returns the fixed destination of a trip planned in
// specific mode.
func (t *Trip) SpecificDestination() (*GeoPoint, bool) {
	if t.LocationMode != LocationModeSpecific || t.LocationCriteria.Destination == nil {
		return nil, false
	}
	return t.LocationCriteria.Destination, true
}
