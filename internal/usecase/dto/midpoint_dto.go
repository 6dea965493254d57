package dto

import "github.com/split-the-distance/internal/domain"

// PointInput - a coordinate pair or a free-text query to geocode
type PointInput struct {
	Lat   *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lon   *float64 `json:"lon,omitempty" validate:"omitempty,min=-180,max=180"`
	Name  string   `json:"name,omitempty" validate:"omitempty,max=200"`
	Query string   `json:"query,omitempty" validate:"omitempty,min=2,max=200"`
}

// HasCoordinates reports whether both coordinates were supplied.
func (p PointInput) HasCoordinates() bool {
	return p.Lat != nil && p.Lon != nil
}

// Point converts coordinates to a domain point.
func (p PointInput) Point() domain.GeoPoint {
	var gp domain.GeoPoint
	if p.Lat != nil {
		gp.Lat = *p.Lat
	}
	if p.Lon != nil {
		gp.Lon = *p.Lon
	}
	gp.Name = p.Name
	return gp
}

// PairMidpointRequest - request for a two-party midpoint
type PairMidpointRequest struct {
	A                  PointInput `json:"a" validate:"required"`
	B                  PointInput `json:"b" validate:"required"`
	Optimize           string     `json:"optimize" validate:"omitempty,optimize"`
	TravelMode         string     `json:"travel_mode" validate:"omitempty,travelmode"`
	SelectedRouteIndex int        `json:"selected_route_index" validate:"omitempty,min=0,max=10"`
	Categories         []string   `json:"categories,omitempty" validate:"omitempty,max=10,dive,min=1,max=50"`
}

// RouteAlternative - one provider route with its own midpoint
type RouteAlternative struct {
	Index           int                   `json:"index"`
	DurationSeconds float64               `json:"duration_seconds"`
	DistanceMeters  float64               `json:"distance_meters"`
	Geometry        []domain.GeoPoint     `json:"geometry"`
	Midpoint        domain.MidpointResult `json:"midpoint"`
}

// PlacesRefresh tells the caller where to look for places after the
// selected route changed.
type PlacesRefresh struct {
	Center       domain.GeoPoint `json:"center"`
	Categories   []string        `json:"categories"`
	RadiusMeters float64         `json:"radius_meters"`
}

// PairMidpointResponse - midpoint for the selected route plus every alternative
type PairMidpointResponse struct {
	A             domain.GeoPoint       `json:"a"`
	B             domain.GeoPoint       `json:"b"`
	Selected      int                   `json:"selected_route_index"`
	Result        domain.MidpointResult `json:"result"`
	Alternatives  []RouteAlternative    `json:"alternatives"`
	PlacesRefresh *PlacesRefresh        `json:"places_refresh,omitempty"`
	Places        []domain.Place        `json:"places,omitempty"`
}

// PartyInput - a group participant, origin optional
type PartyInput struct {
	ID     string      `json:"id" validate:"required,max=100"`
	Name   string      `json:"name,omitempty" validate:"omitempty,max=200"`
	Origin *PointInput `json:"origin,omitempty"`
}

// GroupMidpointRequest - request for an N-party midpoint
type GroupMidpointRequest struct {
	Parties    []PartyInput `json:"parties" validate:"required,min=2,max=24,dive"`
	Optimize   string       `json:"optimize" validate:"omitempty,optimize"`
	TravelMode string       `json:"travel_mode" validate:"omitempty,travelmode"`
}

// PartyCost pairs a participating party with its travel cost.
type PartyCost struct {
	PartyID string  `json:"party_id"`
	Name    string  `json:"name,omitempty"`
	Cost    float64 `json:"cost"`
}

// GroupMidpointResponse - N-party result; Excluded lists parties without an origin
type GroupMidpointResponse struct {
	Result      domain.MidpointResult `json:"result"`
	MaxDrive    float64               `json:"max_drive"`
	Approximate bool                  `json:"approximate"`
	Costs       []PartyCost           `json:"costs"`
	Excluded    []string              `json:"excluded"`
}
