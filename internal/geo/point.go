package geo

import (
	"fmt"
	"strconv"
)

// Point is a WGS84 position in signed decimal degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// String renders the point as "lat,lng" with the shortest exact representation,
// which is the same form the combined location field is read from.
func (p Point) String() string {
	return strconv.FormatFloat(p.Lat, 'g', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'g', -1, 64)
}

// Bounds is a lat/lng bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

func (b *Bounds) extend(p Point) {
	b.MinLat = min(b.MinLat, p.Lat)
	b.MaxLat = max(b.MaxLat, p.Lat)
	b.MinLng = min(b.MinLng, p.Lng)
	b.MaxLng = max(b.MaxLng, p.Lng)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{Lat: (b.MinLat + b.MaxLat) / 2, Lng: (b.MinLng + b.MaxLng) / 2}
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%g,%g %g,%g]", b.MinLat, b.MinLng, b.MaxLat, b.MaxLng)
}
