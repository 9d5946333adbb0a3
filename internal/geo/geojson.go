// Package geo handles geographic data structures and coordinate conversions.
package geo

const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
	TypePoint             = "Point"
)

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	ID         string                 `json:"id,omitempty" yaml:"id,omitempty"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry" yaml:"geometry"`
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
}

// GeoJSONGeometry represents the geometry of a feature.
// Only points are produced, so Coordinates is always [Lon, Lat].
type GeoJSONGeometry struct {
	Type        string    `json:"type" yaml:"type"`
	Coordinates []float64 `json:"coordinates" yaml:"coordinates,flow"`
}

// NewFeatureCollection returns an empty collection with a non-nil feature list,
// so it never serializes as null.
func NewFeatureCollection(capacity int) GeoJSONFeatureCollection {
	return GeoJSONFeatureCollection{
		Type:     TypeFeatureCollection,
		Features: make([]GeoJSONFeature, 0, capacity),
	}
}

// NewPointFeature builds a Point feature for p.
func NewPointFeature(p Point, properties map[string]interface{}) GeoJSONFeature {
	if properties == nil {
		properties = map[string]interface{}{}
	}

	return GeoJSONFeature{
		Type: TypeFeature,
		Geometry: GeoJSONGeometry{
			Type:        TypePoint,
			Coordinates: []float64{p.Lng, p.Lat},
		},
		Properties: properties,
	}
}

// Point returns the position of a Point geometry.
// ok is false for anything that is not a two dimensional point.
func (g GeoJSONGeometry) Point() (p Point, ok bool) {
	if g.Type != TypePoint || len(g.Coordinates) < 2 {
		return Point{}, false
	}

	return Point{Lat: g.Coordinates[1], Lng: g.Coordinates[0]}, true
}

// Bounds returns the bounding box of all point features.
// ok is false when the collection holds no points.
func (fc GeoJSONFeatureCollection) Bounds() (b Bounds, ok bool) {
	for _, f := range fc.Features {
		p, isPoint := f.Geometry.Point()
		if !isPoint {
			continue
		}

		if !ok {
			b = Bounds{MinLat: p.Lat, MaxLat: p.Lat, MinLng: p.Lng, MaxLng: p.Lng}
			ok = true
			continue
		}

		b.extend(p)
	}

	return b, ok
}
