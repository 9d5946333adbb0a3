package processor

import (
	"strings"

	"github.com/woozymasta/csv2geojson/internal/geo"
)

// Record is one converted row: its point and the attributes left over.
type Record struct {
	Point      geo.Point
	Properties map[string]string
	// Row is the 1-based row number in the source, header included.
	Row int
}

// Extract applies plan to one data row. Coordinate columns and empty values
// are left out of the properties.
func Extract(row []string, plan *Plan) (Record, error) {
	if len(row) != plan.Width() {
		return Record{}, &RowShapeError{Want: plan.Width(), Got: len(row)}
	}

	point, err := plan.Point(row)
	if err != nil {
		return Record{}, err
	}

	props := make(map[string]string, len(row))
	for i, value := range row {
		if plan.consumes(i) || isEmptyValue(value) {
			continue
		}
		props[plan.Names[i]] = value
	}

	return Record{Point: point, Properties: props}, nil
}

// isEmptyValue reports blank cells and a bare "0".
func isEmptyValue(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "0"
}
