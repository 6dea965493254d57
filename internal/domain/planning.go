package domain

import (
	"time"

	"github.com/google/uuid"
)

type DateVoteValue string

const (
	DateVoteYes   DateVoteValue = "yes"
	DateVoteMaybe DateVoteValue = "maybe"
	DateVoteNo    DateVoteValue = "no"
)

func (v DateVoteValue) Valid() bool {
	return v == DateVoteYes || v == DateVoteMaybe || v == DateVoteNo
}

// DateOption is a proposed trip date or date range.
type DateOption struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	TripID     uuid.UUID  `json:"trip_id" db:"trip_id"`
	ProposedBy uuid.UUID  `json:"proposed_by" db:"proposed_by"`
	DateStart  time.Time  `json:"date_start" db:"date_start"`
	DateEnd    *time.Time `json:"date_end,omitempty" db:"date_end"`
	Label      *string    `json:"label,omitempty" db:"label"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// DateVote is unique per (option, member); recasting replaces it.
type DateVote struct {
	OptionID  uuid.UUID     `json:"option_id" db:"option_id"`
	MemberID  uuid.UUID     `json:"member_id" db:"member_id"`
	Vote      DateVoteValue `json:"vote" db:"vote"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

type DateTally struct {
	Yes   int `json:"yes"`
	Maybe int `json:"maybe"`
	No    int `json:"no"`
}

type DateOptionWithVotes struct {
	DateOption
	Votes []DateVote `json:"votes"`
	Tally DateTally  `json:"tally"`
}

// TallyDateVotes counts votes by value.
func TallyDateVotes(votes []DateVote) DateTally {
	var t DateTally
	for _, v := range votes {
		switch v.Vote {
		case DateVoteYes:
			t.Yes++
		case DateVoteMaybe:
			t.Maybe++
		case DateVoteNo:
			t.No++
		}
	}
	return t
}

// LocationProvenance tells manually searched candidates apart from
// engine-suggested ones. Both share voting and confirmation.
type LocationProvenance string

const (
	ProvenanceManual            LocationProvenance = "manual"
	ProvenanceAlgorithmMidpoint LocationProvenance = "algorithm_midpoint"
)

type Location struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	TripID      uuid.UUID          `json:"trip_id" db:"trip_id"`
	ProposedBy  uuid.UUID          `json:"proposed_by" db:"proposed_by"`
	Name        string             `json:"name" db:"name"`
	Address     string             `json:"address" db:"address"`
	Lat         float64            `json:"lat" db:"lat"`
	Lng         float64            `json:"lng" db:"lng"`
	Provenance  LocationProvenance `json:"provenance" db:"provenance"`
	IsConfirmed bool               `json:"is_confirmed" db:"is_confirmed"`
	Notes       *string            `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
}

func (l *Location) IsMidpoint() bool {
	return l.Provenance == ProvenanceAlgorithmMidpoint
}

func (l *Location) Point() GeoPoint {
	return GeoPoint{Lat: l.Lat, Lon: l.Lng, Name: l.Name}
}

type UpDownVote string

const (
	VoteUp   UpDownVote = "up"
	VoteDown UpDownVote = "down"
)

func (v UpDownVote) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// LocationVote is unique per (location, member); repeating the same value
// retracts it.
type LocationVote struct {
	LocationID uuid.UUID  `json:"location_id" db:"location_id"`
	MemberID   uuid.UUID  `json:"member_id" db:"member_id"`
	Vote       UpDownVote `json:"vote" db:"vote"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// LocationDistance caches one member's travel cost to a location.
type LocationDistance struct {
	LocationID      uuid.UUID `json:"location_id" db:"location_id"`
	MemberID        uuid.UUID `json:"member_id" db:"member_id"`
	DurationSeconds float64   `json:"duration_seconds" db:"duration_seconds"`
	DistanceMeters  float64   `json:"distance_meters" db:"distance_meters"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type LocationWithVotes struct {
	Location
	Votes     []LocationVote     `json:"votes"`
	Distances []LocationDistance `json:"distances"`
	Score     int                `json:"score"`
}

// ScoreUpDown returns up minus down.
func ScoreUpDown(votes []UpDownVote) int {
	score := 0
	for _, v := range votes {
		switch v {
		case VoteUp:
			score++
		case VoteDown:
			score--
		}
	}
	return score
}
