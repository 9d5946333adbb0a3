package processor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/woozymasta/csv2geojson/internal/config"
	"github.com/woozymasta/csv2geojson/internal/geo"
)

// Strategy is how a file carries its coordinates.
type Strategy int

const (
	// NamedPair uses lat/latitude and lng/long/longitude columns.
	NamedPair Strategy = iota + 1
	// ExplicitXY uses the configured field_x and field_y columns.
	ExplicitXY
	// CombinedField splits one "lat,lng" column.
	CombinedField
)

func (s Strategy) String() string {
	switch s {
	case NamedPair:
		return "named-pair"
	case ExplicitXY:
		return "explicit-xy"
	case CombinedField:
		return "combined-field"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

var (
	latNames = []string{"lat", "latitude"}
	lngNames = []string{"lng", "long", "longitude"}
)

// Plan is the resolved, read-only description of how to pull a point and
// properties out of every data row of one file.
type Plan struct {
	Strategy Strategy
	// Columns are the consumed coordinate column indices: lat/lng or x/y pairs,
	// or a single combined column.
	Columns []int
	// Names are the property names of every column in header order.
	Names []string

	router Router
}

// Width is the number of fields each data row must have.
func (p *Plan) Width() int {
	return len(p.Names)
}

// Classify inspects the header row and picks exactly one strategy, in fixed
// precedence: named pair, explicit x/y, combined field.
func Classify(header []string, cfg config.Config, router Router) (*Plan, error) {
	if len(header) == 0 {
		return nil, &FieldResolutionError{Reason: ReasonMissingHeader}
	}

	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = strings.ToLower(strings.TrimSpace(h))
	}

	plan := &Plan{Names: propertyNames(header), router: router}

	latIdx := indexOfAny(keys, latNames)
	lngIdx := indexOfAny(keys, lngNames)

	switch {
	case latIdx >= 0 && lngIdx >= 0:
		plan.Strategy = NamedPair
		plan.Columns = []int{latIdx, lngIdx}

	case latIdx >= 0 || lngIdx >= 0:
		return nil, &FieldResolutionError{Reason: ReasonPartialPair, Header: header}

	case cfg.HasXY():
		xIdx := slices.Index(keys, cfg.FieldX)
		yIdx := slices.Index(keys, cfg.FieldY)
		if xIdx < 0 || yIdx < 0 {
			return nil, &FieldResolutionError{Reason: ReasonMissingXY, Header: header}
		}
		plan.Strategy = ExplicitXY
		plan.Columns = []int{xIdx, yIdx}

	default:
		field := cfg.Field
		if field == "" {
			field = config.DefaultField
		}
		idx := slices.Index(keys, field)
		if idx < 0 {
			return nil, &FieldResolutionError{Reason: ReasonNotFound, Header: header}
		}
		plan.Strategy = CombinedField
		plan.Columns = []int{idx}
	}

	return plan, nil
}

// Point resolves the coordinates of a row that already matches the header width.
func (p *Plan) Point(row []string) (geo.Point, error) {
	if p.Strategy != CombinedField {
		return p.router.ToPoint(row[p.Columns[0]], row[p.Columns[1]])
	}

	cell := row[p.Columns[0]]
	parts := strings.Split(cell, ",")

	switch {
	case len(parts) == 2:
		return p.router.ToPoint(parts[0], parts[1])
	case len(parts) == 1 && p.router.CRS() == config.OSGrid:
		// a single grid reference token such as "NT 25 73"
		return p.router.ToPoint(parts[0], "")
	default:
		return geo.Point{}, &CoordinateConversionError{
			Values: []string{cell},
			Err:    fmt.Errorf("expected two comma separated values, got %d", len(parts)),
		}
	}
}

// consumes reports whether column i holds coordinates.
func (p *Plan) consumes(i int) bool {
	return slices.Contains(p.Columns, i)
}

func indexOfAny(keys, names []string) int {
	return slices.IndexFunc(keys, func(k string) bool {
		return slices.Contains(names, k)
	})
}

// propertyNames trims header names, names blank columns by position and
// suffixes repeated names so no value is overwritten.
func propertyNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))

	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}

		candidate := name
		for k := 2; seen[candidate]; k++ {
			candidate = fmt.Sprintf("%s_%d", name, k)
		}

		seen[candidate] = true
		names[i] = candidate
	}

	return names
}
