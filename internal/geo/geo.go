// Package geo provides the minimal geodesy the distance filter needs.
package geo

import "math"

const earthRadiusMeters = 6371000

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// IsZero reports whether the point is the origin, which the location feed
// treats as "no fix yet".
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lon == 0
}

// Distance returns the great-circle distance between a and b in meters,
// using the haversine formula.
func Distance(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Region is a square viewing area around a center point, expressed in
// meters per side. Used to fix the initial map radius on the first fix.
type Region struct {
	Center Point
	// LatMeters and LonMeters are the side lengths of the viewing area.
	LatMeters float64
	LonMeters float64
}
