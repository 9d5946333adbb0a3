package geo

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Grid extent of the National Grid in meters.
const (
	gridMaxEasting  = 700000.0
	gridMaxNorthing = 1300000.0
)

var (
	// ErrGridReference is returned for text that is not a National Grid reference.
	ErrGridReference = errors.New("invalid grid reference")
	// ErrOutsideGrid is returned for easting/northing outside the National Grid.
	ErrOutsideGrid = errors.New("coordinates outside national grid")
)

// Geodesy converts National Grid coordinates to WGS84.
type Geodesy interface {
	// ParseGridReference decodes a lettered grid reference such as "NT 25 73"
	// into the easting and northing of its south-west corner.
	ParseGridReference(ref string) (easting, northing float64, err error)

	// GridToWGS84 projects an easting/northing pair to OSGB36 and shifts it to WGS84.
	GridToWGS84(easting, northing float64) (Point, error)
}

// OSGrid is the Ordnance Survey National Grid implementation of Geodesy.
type OSGrid struct{}

var _ Geodesy = OSGrid{}

// ParseGridReference implements Geodesy.
// Digits are split in half between easting and northing; "TG 51409 13177",
// "TG5140913177" and "NT2573" are all accepted.
func (OSGrid) ParseGridReference(ref string) (float64, float64, error) {
	s := strings.ToUpper(strings.Join(strings.Fields(ref), ""))
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrGridReference, ref)
	}

	l1, l2 := int(s[0])-'A', int(s[1])-'A'
	if l1 < 0 || l1 > 25 || l2 < 0 || l2 > 25 || s[0] == 'I' || s[1] == 'I' {
		return 0, 0, fmt.Errorf("%w: %q", ErrGridReference, ref)
	}

	// the letter I is not used
	if l1 > 7 {
		l1--
	}
	if l2 > 7 {
		l2--
	}

	e100k := ((l1-2)%5)*5 + l2%5
	n100k := (19 - (l1/5)*5) - l2/5
	if l1 < 2 || e100k < 0 || e100k > 6 || n100k < 0 || n100k > 12 {
		return 0, 0, fmt.Errorf("%w: %q", ErrGridReference, ref)
	}

	digits := s[2:]
	if len(digits)%2 != 0 || len(digits) > 10 {
		return 0, 0, fmt.Errorf("%w: %q", ErrGridReference, ref)
	}

	half := len(digits) / 2
	e, err := padDigits(digits[:half])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrGridReference, ref)
	}
	n, err := padDigits(digits[half:])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrGridReference, ref)
	}

	return float64(e100k*100000 + e), float64(n100k*100000 + n), nil
}

// padDigits reads up to five digits as meters within a 100 km square.
func padDigits(s string) (int, error) {
	v := 0
	for i := 0; i < 5; i++ {
		v *= 10
		if i >= len(s) {
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("not a digit: %q", s[i])
		}
		v += int(s[i] - '0')
	}

	return v, nil
}

// GridToWGS84 implements Geodesy.
func (OSGrid) GridToWGS84(easting, northing float64) (Point, error) {
	if math.IsNaN(easting) || math.IsNaN(northing) ||
		easting < 0 || easting >= gridMaxEasting ||
		northing < 0 || northing >= gridMaxNorthing {
		return Point{}, fmt.Errorf("%w: %g,%g", ErrOutsideGrid, easting, northing)
	}

	lat, lng := gridToOSGB36(easting, northing)
	x, y, z := osgb36ToWGS84.apply(airy1830.toCartesian(lat, lng))
	lat, lng = wgs84.fromCartesian(x, y, z)

	return Point{Lat: degrees(lat), Lng: degrees(lng)}, nil
}

// GridToOSGB36 returns the position on the OSGB36 datum without the datum shift.
func GridToOSGB36(easting, northing float64) Point {
	lat, lng := gridToOSGB36(easting, northing)
	return Point{Lat: degrees(lat), Lng: degrees(lng)}
}
