package domain

import "github.com/google/uuid"

// GeoPoint is an immutable WGS-84 coordinate with an optional label.
type GeoPoint struct {
	Lat  float64 `json:"lat" db:"lat"`
	Lon  float64 `json:"lon" db:"lon"`
	Name string  `json:"name,omitempty" db:"name"`
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat" db:"min_lat"`
	MinLon float64 `json:"min_lon" db:"min_lon"`
	MaxLat float64 `json:"max_lat" db:"max_lat"`
	MaxLon float64 `json:"max_lon" db:"max_lon"`
}

// Contains reports whether p lies inside the box.
func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Expand grows the box by margin degrees on every side.
func (b BoundingBox) Expand(margin float64) BoundingBox {
	return BoundingBox{
		MinLat: b.MinLat - margin,
		MinLon: b.MinLon - margin,
		MaxLat: b.MaxLat + margin,
		MaxLon: b.MaxLon + margin,
	}
}

// Actor is the authenticated caller as reported by the identity provider.
type Actor struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}
