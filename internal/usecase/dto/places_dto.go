package dto

import "github.com/split-the-distance/internal/domain"

// NearbyPlacesRequest - places search around a point
type NearbyPlacesRequest struct {
	Lat           float64  `json:"lat" validate:"min=-90,max=90"`
	Lon           float64  `json:"lon" validate:"min=-180,max=180"`
	Categories    []string `json:"categories,omitempty" validate:"omitempty,max=10,dive,min=1,max=50"`
	RadiusMeters  float64  `json:"radius_meters" validate:"omitempty,min=100,max=50000"`
	ChainOnly     bool     `json:"chain_only"`
	ExcludeChains bool     `json:"exclude_chains"`
}

// NearbyPlacesResponse - places sorted by distance from Center
type NearbyPlacesResponse struct {
	Center       domain.GeoPoint `json:"center"`
	RadiusMeters float64         `json:"radius_meters"`
	Places       []domain.Place  `json:"places"`
	Total        int             `json:"total"`
}

// GeocodeResponse - ranked geocoding candidates
type GeocodeResponse struct {
	Query   string            `json:"query"`
	Results []domain.GeoPoint `json:"results"`
}
