package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGridReference(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		easting  float64
		northing float64
		wantErr  bool
	}{
		{name: "ten digits with spaces", ref: "TG 51409 13177", easting: 651409, northing: 313177},
		{name: "ten digits compact", ref: "TG5140913177", easting: 651409, northing: 313177},
		{name: "four digits", ref: "NT2573", easting: 325000, northing: 673000},
		{name: "lower case", ref: "nt 25 73", easting: 325000, northing: 673000},
		{name: "letters only", ref: "SV", easting: 0, northing: 0},
		{name: "shetland", ref: "HP 61 16", easting: 461000, northing: 1216000},
		{name: "odd digits", ref: "NT257", wantErr: true},
		{name: "letter I", ref: "IT2573", wantErr: true},
		{name: "not letters", ref: "12 34", wantErr: true},
		{name: "off grid square", ref: "AA1234", wantErr: true},
		{name: "non digit", ref: "NT25X3", wantErr: true},
		{name: "too short", ref: "N", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, n, err := OSGrid{}.ParseGridReference(tt.ref)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrGridReference)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.easting, e)
			assert.Equal(t, tt.northing, n)
		})
	}
}

func TestGridToOSGB36(t *testing.T) {
	// Ordnance Survey worked example: 52°39'27.2531"N 1°43'4.5177"E
	p := GridToOSGB36(651409.903, 313177.270)

	assert.InDelta(t, 52+39.0/60+27.2531/3600, p.Lat, 1e-6)
	assert.InDelta(t, 1+43.0/60+4.5177/3600, p.Lng, 1e-6)
}

func TestGridToWGS84(t *testing.T) {
	p, err := OSGrid{}.GridToWGS84(651409.903, 313177.270)
	require.NoError(t, err)

	osgb := GridToOSGB36(651409.903, 313177.270)

	// the datum shift in East Anglia is well under 0.01 degrees but never zero
	assert.InDelta(t, osgb.Lat, p.Lat, 0.01)
	assert.InDelta(t, osgb.Lng, p.Lng, 0.01)
	assert.NotEqual(t, osgb, p)
	assert.False(t, math.IsNaN(p.Lat) || math.IsNaN(p.Lng))
}

func TestGridToWGS84_Edinburgh(t *testing.T) {
	p, err := OSGrid{}.GridToWGS84(325000, 673000)
	require.NoError(t, err)

	assert.InDelta(t, 55.94, p.Lat, 0.05)
	assert.InDelta(t, -3.2, p.Lng, 0.05)
}

func TestGridToWGS84_OutsideGrid(t *testing.T) {
	for _, c := range [][2]float64{{-1, 0}, {700000, 0}, {0, 1300000}, {math.NaN(), 1}} {
		_, err := OSGrid{}.GridToWGS84(c[0], c[1])
		assert.ErrorIs(t, err, ErrOutsideGrid)
	}
}

func TestHelmertRoundTrip(t *testing.T) {
	lat, lng := 52.0*math.Pi/180, -1.0*math.Pi/180

	x, y, z := airy1830.toCartesian(lat, lng)
	gotLat, gotLng := airy1830.fromCartesian(x, y, z)

	assert.InDelta(t, lat, gotLat, 1e-10)
	assert.InDelta(t, lng, gotLng, 1e-10)
}
