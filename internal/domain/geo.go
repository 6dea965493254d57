package domain

import (
	"fmt"
	"strings"
)

type TravelMode string

const (
	TravelModeDriving   TravelMode = "DRIVING"
	TravelModeBicycling TravelMode = "BICYCLING"
	TravelModeWalking   TravelMode = "WALKING"
	TravelModeTransit   TravelMode = "TRANSIT"
)

// ParseTravelMode accepts any casing and defaults to driving when empty.
func ParseTravelMode(s string) (TravelMode, error) {
	if s == "" {
		return TravelModeDriving, nil
	}
	switch m := TravelMode(strings.ToUpper(s)); m {
	case TravelModeDriving, TravelModeBicycling, TravelModeWalking, TravelModeTransit:
		return m, nil
	}
	return "", fmt.Errorf("unknown travel mode %q", s)
}

// OptimizeMode selects the cost the midpoint engine balances.
type OptimizeMode string

const (
	OptimizeTime     OptimizeMode = "time"
	OptimizeDistance OptimizeMode = "distance"
)

func ParseOptimizeMode(s string) (OptimizeMode, error) {
	switch OptimizeMode(strings.ToLower(s)) {
	case "", OptimizeTime:
		return OptimizeTime, nil
	case OptimizeDistance:
		return OptimizeDistance, nil
	}
	return "", fmt.Errorf("unknown optimize mode %q", s)
}

// TravelLeg is one leg of a route between two waypoints.
type TravelLeg struct {
	DurationSeconds float64 `json:"duration_seconds"`
	DistanceMeters  float64 `json:"distance_meters"`
}

// Route is a single routing alternative. SegmentDurations, when present, holds
// one value per consecutive pair of Geometry points.
type Route struct {
	Legs             []TravelLeg `json:"legs"`
	DurationSeconds  float64     `json:"duration_seconds"`
	DistanceMeters   float64     `json:"distance_meters"`
	Geometry         []GeoPoint  `json:"geometry"`
	SegmentDurations []float64   `json:"segment_durations,omitempty"`
}

// RouteSet is the provider answer for A to B: the primary route first, then
// alternatives.
type RouteSet struct {
	Routes []Route `json:"routes"`
}

// PerOriginCost is one row of a many-to-one distance matrix.
type PerOriginCost struct {
	OriginIndex     int     `json:"origin_index"`
	DurationSeconds float64 `json:"duration_seconds"`
	DistanceMeters  float64 `json:"distance_meters"`
	Reachable       bool    `json:"reachable"`
}

// Cost picks the figure the given mode optimizes.
func (c PerOriginCost) Cost(mode OptimizeMode) float64 {
	if mode == OptimizeDistance {
		return c.DistanceMeters
	}
	return c.DurationSeconds
}

// MidpointResult is the outcome of a pair or group midpoint search.
// PerPartyCost has one entry per participating party and MaxCost is its
// maximum.
type MidpointResult struct {
	Point        GeoPoint     `json:"point"`
	PerPartyCost []float64    `json:"per_party_cost"`
	MaxCost      float64      `json:"max_cost"`
	Mode         OptimizeMode `json:"mode"`
	TravelMode   TravelMode   `json:"travel_mode"`
	Converged    bool         `json:"converged"`
	Iterations   int          `json:"iterations"`
	RoutingCalls int          `json:"routing_calls"`
}

// Approximate is true when the solver ran out of budget before converging.
func (r MidpointResult) Approximate() bool {
	return !r.Converged
}

// Party is a participant of a group midpoint search. Origin is nil when the
// party has not shared a starting point yet.
type Party struct {
	ID     string    `json:"id"`
	Name   string    `json:"name,omitempty"`
	Origin *GeoPoint `json:"origin,omitempty"`
}
