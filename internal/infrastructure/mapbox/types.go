package mapbox

// Wire formats of the Mapbox APIs used here. Only the fields read by the
// client are declared.

type lineString struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

type annotation struct {
	Duration []float64 `json:"duration"`
	Distance []float64 `json:"distance"`
}

type directionsLeg struct {
	Duration   float64     `json:"duration"`
	Distance   float64     `json:"distance"`
	Annotation *annotation `json:"annotation,omitempty"`
}

type directionsRoute struct {
	Duration float64         `json:"duration"`
	Distance float64         `json:"distance"`
	Geometry lineString      `json:"geometry"`
	Legs     []directionsLeg `json:"legs"`
}

type directionsResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message,omitempty"`
	Routes  []directionsRoute `json:"routes"`
}

// matrixResponse cells are null when no route exists between the pair.
type matrixResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message,omitempty"`
	Durations [][]*float64 `json:"durations"`
	Distances [][]*float64 `json:"distances"`
}

type geocodingFeature struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	PlaceName string    `json:"place_name"`
	Center    []float64 `json:"center"`
	Relevance float64   `json:"relevance"`
}

type geocodingResponse struct {
	Features []geocodingFeature `json:"features"`
	Message  string             `json:"message,omitempty"`
}
