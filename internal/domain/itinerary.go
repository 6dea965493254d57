package domain

import (
	"time"

	"github.com/google/uuid"
)

type OptionCategory string

const (
	OptionCategoryLodging OptionCategory = "lodging"
	OptionCategoryPOI     OptionCategory = "poi"
	OptionCategoryFood    OptionCategory = "food"
)

func (c OptionCategory) Valid() bool {
	return c == OptionCategoryLodging || c == OptionCategoryPOI || c == OptionCategoryFood
}

// TripOption is a lodging, sight or restaurant suggestion for the trip.
type TripOption struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	TripID    uuid.UUID      `json:"trip_id" db:"trip_id"`
	Category  OptionCategory `json:"category" db:"category"`
	Name      string         `json:"name" db:"name"`
	Address   *string        `json:"address,omitempty" db:"address"`
	Lat       *float64       `json:"lat,omitempty" db:"lat"`
	Lng       *float64       `json:"lng,omitempty" db:"lng"`
	URL       *string        `json:"url,omitempty" db:"url"`
	Notes     *string        `json:"notes,omitempty" db:"notes"`
	AddedBy   uuid.UUID      `json:"added_by" db:"added_by"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

type OptionVote struct {
	OptionID  uuid.UUID  `json:"option_id" db:"option_id"`
	MemberID  uuid.UUID  `json:"member_id" db:"member_id"`
	Vote      UpDownVote `json:"vote" db:"vote"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

type TripOptionWithVotes struct {
	TripOption
	Votes []OptionVote `json:"votes"`
	Score int          `json:"score"`
}

type StopStatus string

const (
	StopStatusPlanned   StopStatus = "planned"
	StopStatusConfirmed StopStatus = "confirmed"
	StopStatusSkipped   StopStatus = "skipped"
	StopStatusCompleted StopStatus = "completed"
)

func (s StopStatus) Valid() bool {
	switch s {
	case StopStatusPlanned, StopStatusConfirmed, StopStatusSkipped, StopStatusCompleted:
		return true
	}
	return false
}

var stopTransitions = map[StopStatus][]StopStatus{
	StopStatusPlanned:   {StopStatusConfirmed, StopStatusSkipped, StopStatusCompleted},
	StopStatusConfirmed: {StopStatusCompleted, StopStatusSkipped},
}

// CanTransition reports whether a stop may move from s to next. Staying in
// the same status is always allowed.
func (s StopStatus) CanTransition(next StopStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range stopTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TripStop is one itinerary entry, ordered by (DayNumber, SortOrder).
type TripStop struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TripID    uuid.UUID  `json:"trip_id" db:"trip_id"`
	DayNumber int        `json:"day_number" db:"day_number"`
	SortOrder int        `json:"sort_order" db:"sort_order"`
	Name      string     `json:"name" db:"name"`
	Address   *string    `json:"address,omitempty" db:"address"`
	Lat       *float64   `json:"lat,omitempty" db:"lat"`
	Lng       *float64   `json:"lng,omitempty" db:"lng"`
	Category  string     `json:"category" db:"category"`
	Status    StopStatus `json:"status" db:"status"`
	Notes     *string    `json:"notes,omitempty" db:"notes"`
	StartTime *string    `json:"start_time,omitempty" db:"start_time"`
	EndTime   *string    `json:"end_time,omitempty" db:"end_time"`
	AddedBy   uuid.UUID  `json:"added_by" db:"added_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
