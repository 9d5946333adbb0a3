package processor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/woozymasta/csv2geojson/internal/config"
	"github.com/woozymasta/csv2geojson/internal/geo"
)

var errEmptyValue = errors.New("empty value")

// Router turns a raw coordinate pair into a WGS84 point for one reference system.
type Router struct {
	crs     config.ReferenceSystem
	geodesy geo.Geodesy
}

// NewRouter binds a reference system to a geodetic implementation.
// A nil geodesy uses the Ordnance Survey National Grid.
func NewRouter(crs config.ReferenceSystem, geodesy geo.Geodesy) Router {
	if geodesy == nil {
		geodesy = geo.OSGrid{}
	}

	return Router{crs: crs, geodesy: geodesy}
}

// CRS returns the reference system the router reads.
func (r Router) CRS() config.ReferenceSystem {
	return r.crs
}

// ToPoint converts rawA/rawB.
//
// For WGS84 they are latitude and longitude. For the National Grid they are
// easting and northing when both are numeric, otherwise a lettered grid
// reference split across the two values (rawB may be empty).
func (r Router) ToPoint(rawA, rawB string) (geo.Point, error) {
	p, err := r.toPoint(strings.TrimSpace(rawA), strings.TrimSpace(rawB))
	if err != nil {
		return geo.Point{}, &CoordinateConversionError{Values: []string{rawA, rawB}, Err: err}
	}

	return p, nil
}

func (r Router) toPoint(a, b string) (geo.Point, error) {
	switch r.crs {
	case config.WGS84:
		lat, err := parseDecimal(a)
		if err != nil {
			return geo.Point{}, fmt.Errorf("latitude: %w", err)
		}
		lng, err := parseDecimal(b)
		if err != nil {
			return geo.Point{}, fmt.Errorf("longitude: %w", err)
		}
		return geo.Point{Lat: lat, Lng: lng}, nil

	case config.OSGrid:
		easting, errE := parseDecimal(a)
		northing, errN := parseDecimal(b)
		if errE != nil || errN != nil {
			var err error
			easting, northing, err = r.geodesy.ParseGridReference(strings.TrimSpace(a + " " + b))
			if err != nil {
				return geo.Point{}, err
			}
		}
		return r.geodesy.GridToWGS84(easting, northing)

	default:
		return geo.Point{}, fmt.Errorf("unsupported coordinate system %q", r.crs)
	}
}

// parseDecimal accepts finite decimal numbers only.
func parseDecimal(s string) (float64, error) {
	if s == "" {
		return 0, errEmptyValue
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}

	return v, nil
}
