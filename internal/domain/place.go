package domain

// Place is a point of interest returned by a nearby search.
type Place struct {
	ID             int64    `json:"id" db:"id"`
	Name           string   `json:"name" db:"name"`
	Category       string   `json:"category" db:"category"`
	Subcategory    string   `json:"subcategory,omitempty" db:"subcategory"`
	Lat            float64  `json:"lat" db:"lat"`
	Lon            float64  `json:"lon" db:"lon"`
	Address        *string  `json:"address,omitempty" db:"address"`
	Rating         *float64 `json:"rating,omitempty" db:"rating"`
	OpeningHours   *string  `json:"opening_hours,omitempty" db:"opening_hours"`
	OpenNow        *bool    `json:"open_now,omitempty" db:"-"`
	Brand          *string  `json:"brand,omitempty" db:"brand"`
	IsChain        bool     `json:"is_chain" db:"-"`
	DistanceMeters float64  `json:"distance_meters" db:"distance"`
}
