package utils

import (
	"math"

	"github.com/split-the-distance/internal/domain"
)

const (
	earthRadiusKm = 6371.0
	earthRadiusM  = earthRadiusKm * 1000
)

func toRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func toDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// HaversineDistance returns the great-circle distance in kilometres.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	lat1Rad := toRad(lat1)
	lat2Rad := toRad(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceMeters is HaversineDistance between two points, in metres.
func DistanceMeters(a, b domain.GeoPoint) float64 {
	return HaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon) * 1000
}

func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateRadiusMeters accepts 100 m to 50 km.
func ValidateRadiusMeters(radius float64) bool {
	return radius >= 100 && radius <= 50000
}

// Centroid is the unweighted mean of the points computed on the unit sphere,
// so it behaves across the antimeridian.
func Centroid(points []domain.GeoPoint) domain.GeoPoint {
	if len(points) == 0 {
		return domain.GeoPoint{}
	}
	var x, y, z float64
	for _, p := range points {
		lat, lon := toRad(p.Lat), toRad(p.Lon)
		x += math.Cos(lat) * math.Cos(lon)
		y += math.Cos(lat) * math.Sin(lon)
		z += math.Sin(lat)
	}
	n := float64(len(points))
	x, y, z = x/n, y/n, z/n

	lon := math.Atan2(y, x)
	lat := math.Atan2(z, math.Sqrt(x*x+y*y))
	return domain.GeoPoint{Lat: toDeg(lat), Lon: toDeg(lon)}
}

// Bearing returns the initial bearing from a to b in degrees [0, 360).
func Bearing(a, b domain.GeoPoint) float64 {
	lat1, lat2 := toRad(a.Lat), toRad(b.Lat)
	dLon := toRad(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Mod(toDeg(math.Atan2(y, x))+360, 360)
}

// Destination moves distance metres from p along bearing degrees.
func Destination(p domain.GeoPoint, bearing, distance float64) domain.GeoPoint {
	delta := distance / earthRadiusM
	theta := toRad(bearing)
	lat1, lon1 := toRad(p.Lat), toRad(p.Lon)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(theta))
	lon2 := lon1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)

	lon := math.Mod(toDeg(lon2)+540, 360) - 180
	return domain.GeoPoint{Lat: toDeg(lat2), Lon: lon}
}

// MoveToward returns the point fraction of the way from a to b along the
// great circle. fraction is clamped to [0, 1].
func MoveToward(a, b domain.GeoPoint, fraction float64) domain.GeoPoint {
	if fraction <= 0 {
		return domain.GeoPoint{Lat: a.Lat, Lon: a.Lon}
	}
	if fraction >= 1 {
		return domain.GeoPoint{Lat: b.Lat, Lon: b.Lon}
	}
	d := DistanceMeters(a, b)
	if d == 0 {
		return domain.GeoPoint{Lat: a.Lat, Lon: a.Lon}
	}
	return Destination(a, Bearing(a, b), d*fraction)
}

// lerp interpolates linearly between two close points; used inside a single
// polyline segment where the great-circle correction is negligible.
func lerp(a, b domain.GeoPoint, t float64) domain.GeoPoint {
	return domain.GeoPoint{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lon: a.Lon + (b.Lon-a.Lon)*t,
	}
}

// InterpolateAlong walks a polyline and returns the point where the
// cumulative weight reaches fraction of the total. weights holds one value per
// segment (len(line)-1); when nil, segment lengths in metres are used.
func InterpolateAlong(line []domain.GeoPoint, weights []float64, fraction float64) (domain.GeoPoint, bool) {
	if len(line) == 0 {
		return domain.GeoPoint{}, false
	}
	if len(line) == 1 {
		return domain.GeoPoint{Lat: line[0].Lat, Lon: line[0].Lon}, true
	}
	if len(weights) != len(line)-1 {
		weights = SegmentLengths(line)
	}

	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return domain.GeoPoint{Lat: line[0].Lat, Lon: line[0].Lon}, true
	}

	target := total * math.Max(0, math.Min(1, fraction))
	var acc float64
	for i, w := range weights {
		if acc+w >= target {
			if w == 0 {
				return domain.GeoPoint{Lat: line[i].Lat, Lon: line[i].Lon}, true
			}
			return lerp(line[i], line[i+1], (target-acc)/w), true
		}
		acc += w
	}
	last := line[len(line)-1]
	return domain.GeoPoint{Lat: last.Lat, Lon: last.Lon}, true
}

// SegmentLengths returns the haversine length of each polyline segment.
func SegmentLengths(line []domain.GeoPoint) []float64 {
	if len(line) < 2 {
		return nil
	}
	out := make([]float64, len(line)-1)
	for i := 1; i < len(line); i++ {
		out[i-1] = DistanceMeters(line[i-1], line[i])
	}
	return out
}

// Bounds returns the smallest box containing all points.
func Bounds(points ...domain.GeoPoint) domain.BoundingBox {
	if len(points) == 0 {
		return domain.BoundingBox{}
	}
	b := domain.BoundingBox{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}
	for _, p := range points[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
	}
	return b
}
