package processor

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/woozymasta/csv2geojson/internal/geo"
)

// AssembleOption tunes Assemble.
type AssembleOption func(*assembler)

type assembler struct {
	idSource string
	ids      bool
}

// WithFeatureIDs stamps every feature with a name based UUID built from
// source and the record's row, so the same file always yields the same ids.
func WithFeatureIDs(source string) AssembleOption {
	return func(a *assembler) {
		a.ids = true
		a.idSource = source
	}
}

// FeatureID returns the id WithFeatureIDs assigns to a row of source.
func FeatureID(source string, row int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(source+"#"+strconv.Itoa(row))).String()
}

// Assemble folds records into a FeatureCollection, keeping their order.
func Assemble(records []Record, opts ...AssembleOption) geo.GeoJSONFeatureCollection {
	var a assembler
	for _, opt := range opts {
		opt(&a)
	}

	fc := geo.NewFeatureCollection(len(records))
	for _, rec := range records {
		props := make(map[string]interface{}, len(rec.Properties))
		for k, v := range rec.Properties {
			props[k] = v
		}

		feature := geo.NewPointFeature(rec.Point, props)
		if a.ids {
			feature.ID = FeatureID(a.idSource, rec.Row)
		}

		fc.Features = append(fc.Features, feature)
	}

	return fc
}
