package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    Config
		wantErr bool
	}{
		{name: "defaults", pairs: nil, want: Config{CRS: WGS84, Field: "location"}},
		{name: "osgrid", pairs: []string{"crs=osgrid"}, want: Config{CRS: OSGrid, Field: "location"}},
		{name: "case normalized", pairs: []string{"CRS=OSGrid", "field= Position "}, want: Config{CRS: OSGrid, Field: "position"}},
		{
			name:  "explicit pair",
			pairs: []string{"field_x=Easting", "field_y=Northing"},
			want:  Config{CRS: WGS84, Field: "location", FieldX: "easting", FieldY: "northing"},
		},
		{name: "empty pair is unset", pairs: []string{"field_x=", "field_y="}, want: Config{CRS: WGS84, Field: "location"}},
		{name: "empty field keeps default", pairs: []string{"field="}, want: Config{CRS: WGS84, Field: "location"}},
		{name: "unknown crs", pairs: []string{"crs=utm"}, wantErr: true},
		{name: "unknown key", pairs: []string{"colour=red"}, wantErr: true},
		{name: "missing equals", pairs: []string{"crs"}, wantErr: true},
		{name: "lone field_x is kept", pairs: []string{"field_x=Easting"}, want: Config{CRS: WGS84, Field: "location", FieldX: "easting"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.pairs)
			if tt.wantErr {
				var cfgErr *ConfigurationError
				require.True(t, errors.As(err, &cfgErr), "want ConfigurationError, got %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseReferenceSystem(t *testing.T) {
	rs, err := ParseReferenceSystem(" WGS84 ")
	require.NoError(t, err)
	assert.Equal(t, WGS84, rs)

	_, err = ParseReferenceSystem("epsg:27700")
	assert.EqualError(t, err, `configuration: crs="epsg:27700": unknown coordinate system`)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crs: OSGRID\nfield_x: E\nfield_y: N\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{CRS: OSGrid, Field: "location", FieldX: "e", FieldY: "n"}, cfg)

	// command line pairs override the file
	cfg, err = cfg.MergePairs([]string{"crs=wgs84"})
	require.NoError(t, err)
	assert.Equal(t, WGS84, cfg.CRS)
	assert.True(t, cfg.HasXY())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crs: [wgs84\n"), 0o644))

	_, err = Load(path)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
