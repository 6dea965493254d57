package dto

import (
	"github.com/split-the-distance/internal/domain"
)

// ProposeDateRequest - dates are YYYY-MM-DD
type ProposeDateRequest struct {
	DateStart string  `json:"date_start" validate:"required,datetime=2006-01-02"`
	DateEnd   *string `json:"date_end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Label     *string `json:"label,omitempty" validate:"omitempty,max=100"`
}

// DateVoteRequest - yes, maybe or no
type DateVoteRequest struct {
	Vote string `json:"vote" validate:"required,oneof=yes maybe no"`
}

// ProposeLocationRequest - manually searched candidate
type ProposeLocationRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=200"`
	Address string  `json:"address" validate:"max=500"`
	Lat     float64 `json:"lat" validate:"min=-90,max=90"`
	Lng     float64 `json:"lng" validate:"min=-180,max=180"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// UpDownVoteRequest - up or down
type UpDownVoteRequest struct {
	Vote string `json:"vote" validate:"required,oneof=up down"`
}

// GroupMidpointLocationRequest - options for the trip midpoint
type GroupMidpointLocationRequest struct {
	Optimize   string `json:"optimize" validate:"omitempty,optimize"`
	TravelMode string `json:"travel_mode" validate:"omitempty,travelmode"`
}

// GroupMidpointLocationResponse - the midpoint stored as a votable location
type GroupMidpointLocationResponse struct {
	Location *domain.Location      `json:"location"`
	Result   GroupMidpointResponse `json:"result"`
}

// AddTripOptionRequest - lodging, poi or food suggestion
type AddTripOptionRequest struct {
	Category string   `json:"category" validate:"required,oneof=lodging poi food"`
	Name     string   `json:"name" validate:"required,min=1,max=200"`
	Address  *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Lat      *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lng      *float64 `json:"lng,omitempty" validate:"omitempty,min=-180,max=180"`
	URL      *string  `json:"url,omitempty" validate:"omitempty,url,max=1000"`
	Notes    *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// AddTripStopRequest - itinerary entry; times are HH:MM
type AddTripStopRequest struct {
	DayNumber int      `json:"day_number" validate:"required,min=1,max=366"`
	Name      string   `json:"name" validate:"required,min=1,max=200"`
	Address   *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Lat       *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lng       *float64 `json:"lng,omitempty" validate:"omitempty,min=-180,max=180"`
	Category  string   `json:"category" validate:"max=50"`
	Notes     *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
	StartTime *string  `json:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime   *string  `json:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
}

// UpdateTripStopRequest - partial stop update
type UpdateTripStopRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=planned confirmed skipped completed"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	StartTime *string `json:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
}

// ReorderStopsRequest - the complete new order of one day
type ReorderStopsRequest struct {
	DayNumber int      `json:"day_number" validate:"required,min=1,max=366"`
	StopIDs   []string `json:"stop_ids" validate:"required,min=1,dive,uuid"`
}

// SendMessageRequest - chat message
type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

// PositionRequest - live position sample
type PositionRequest struct {
	Lat     float64  `json:"lat" validate:"min=-90,max=90"`
	Lng     float64  `json:"lng" validate:"min=-180,max=180"`
	Heading *float64 `json:"heading,omitempty" validate:"omitempty,min=0,max=360"`
	Speed   *float64 `json:"speed,omitempty" validate:"omitempty,min=0"`
}
