package processor

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/csv2geojson/internal/source"
)

func run(t *testing.T, input string, pairs ...string) (*Result, error) {
	t.Helper()
	p := NewPipeline(mustConfig(t, pairs...), WithLogger(zerolog.Nop()))
	return p.Run(context.Background(), "test.csv", source.NewCSVReader(strings.NewReader(input)))
}

func TestPipeline_EndToEnd(t *testing.T) {
	res, err := run(t, "name,lat,lng\nA,1.5,2.5\nB,,3.0\n", "crs=wgs84")
	require.NoError(t, err)

	require.Len(t, res.Collection.Features, 1)
	f := res.Collection.Features[0]
	assert.Equal(t, "Feature", f.Type)
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, []float64{2.5, 1.5}, f.Geometry.Coordinates)
	assert.Equal(t, map[string]interface{}{"name": "A"}, f.Properties)

	assert.Equal(t, 2, res.Rows)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 3, res.Skipped[0].Row)
	var convErr *CoordinateConversionError
	assert.ErrorAs(t, res.Skipped[0], &convErr)
}

func TestPipeline_NoStrategy(t *testing.T) {
	res, err := run(t, "name,x,y\nA,1,2\n", "field_x=", "field_y=")

	var fieldErr *FieldResolutionError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, ReasonNotFound, fieldErr.Reason)
	assert.Nil(t, res)
}

func TestPipeline_PartialPairAbortsBeforeRows(t *testing.T) {
	res, err := run(t, "lat,location\n1,\"1,2\"\n")

	var fieldErr *FieldResolutionError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, ReasonPartialPair, fieldErr.Reason)
	assert.Nil(t, res)
}

func TestPipeline_EmptyInput(t *testing.T) {
	_, err := run(t, "")

	var fieldErr *FieldResolutionError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, ReasonMissingHeader, fieldErr.Reason)
}

// stubReader replays rows and then fails with err.
type stubReader struct {
	rows [][]string
	err  error
}

func (s *stubReader) Read() ([]string, error) {
	if len(s.rows) == 0 {
		return nil, s.err
	}
	row := s.rows[0]
	s.rows = s.rows[1:]
	return row, nil
}

func (s *stubReader) Close() error { return nil }

func TestPipeline_HeaderReadErrors(t *testing.T) {
	p := NewPipeline(mustConfig(t), WithLogger(zerolog.Nop()))
	parseErr := &csv.ParseError{StartLine: 1, Line: 1, Column: 3, Err: csv.ErrQuote}

	_, err := p.Run(context.Background(), "bad.csv", &stubReader{err: parseErr})
	var fieldErr *FieldResolutionError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, ReasonBadHeader, fieldErr.Reason)
	assert.ErrorIs(t, err, csv.ErrQuote)

	diskErr := errors.New("disk gone")
	_, err = p.Run(context.Background(), "bad.csv", &stubReader{err: diskErr})
	var srcErr *SourceUnavailableError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "bad.csv", srcErr.Location)
	assert.ErrorIs(t, err, diskErr)
}

func TestPipeline_RowReadErrorIsFatal(t *testing.T) {
	p := NewPipeline(mustConfig(t), WithLogger(zerolog.Nop()))
	r := &stubReader{rows: [][]string{{"lat", "lng"}, {"1", "2"}}, err: io.ErrUnexpectedEOF}

	res, err := p.Run(context.Background(), "cut.csv", r)
	var srcErr *SourceUnavailableError
	require.ErrorAs(t, err, &srcErr)
	assert.Nil(t, res)
}

func TestPipeline_ZeroValuesOmitted(t *testing.T) {
	res, err := run(t, "name,count,lat,lng\nA,0,1.5,2.5\n")
	require.NoError(t, err)

	require.Len(t, res.Collection.Features, 1)
	assert.Equal(t, map[string]interface{}{"name": "A"}, res.Collection.Features[0].Properties)
}

func TestPipeline_LoneFieldXUsesCombinedField(t *testing.T) {
	res, err := run(t, "name,foo,location\nA,9,\"1.5,2.5\"\n", "field_x=foo")
	require.NoError(t, err)

	assert.Equal(t, CombinedField, res.Plan.Strategy)
	require.Len(t, res.Collection.Features, 1)
	assert.Equal(t, []float64{2.5, 1.5}, res.Collection.Features[0].Geometry.Coordinates)
	assert.Equal(t, map[string]interface{}{"name": "A", "foo": "9"}, res.Collection.Features[0].Properties)
}

func TestPipeline_RowShapeSkipped(t *testing.T) {
	input := "name,location\n" +
		"A,\"55.953, -3.188\"\n" +
		"B,\"1,2\",extra\n" +
		"C\n" +
		"D,\"-1, 1\"\n"

	res, err := run(t, input)
	require.NoError(t, err)

	require.Len(t, res.Collection.Features, 2)
	assert.Equal(t, "A", res.Collection.Features[0].Properties["name"])
	assert.Equal(t, []float64{-3.188, 55.953}, res.Collection.Features[0].Geometry.Coordinates)
	assert.Equal(t, "D", res.Collection.Features[1].Properties["name"])

	require.Len(t, res.Skipped, 2)
	for i, row := range []int{3, 4} {
		assert.Equal(t, row, res.Skipped[i].Row)
		var shapeErr *RowShapeError
		assert.ErrorAs(t, res.Skipped[i], &shapeErr)
	}
}

func TestPipeline_HeaderOnly(t *testing.T) {
	res, err := run(t, "lat,lng\n")
	require.NoError(t, err)

	assert.NotNil(t, res.Collection.Features)
	assert.Empty(t, res.Collection.Features)
	assert.Equal(t, 0, res.Rows)
}

func TestPipeline_LogsSkippedRows(t *testing.T) {
	var buf bytes.Buffer
	p := NewPipeline(mustConfig(t), WithLogger(zerolog.New(&buf)))

	_, err := p.Run(context.Background(), "points.csv", source.NewCSVReader(strings.NewReader("lat,lng\nx,1\n")))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"row":2`)
	assert.Contains(t, buf.String(), "Skipping row")
	assert.Contains(t, buf.String(), `"source":"points.csv"`)
}

func TestPipeline_OSGrid(t *testing.T) {
	p := NewPipeline(mustConfig(t, "crs=osgrid", "field_x=e", "field_y=n"),
		WithGeodesy(fakeGeodesy{}), WithLogger(zerolog.Nop()))

	res, err := p.Run(context.Background(), "grid.csv", source.NewCSVReader(strings.NewReader("site,e,n\nX,325000,673000\n")))
	require.NoError(t, err)

	require.Len(t, res.Collection.Features, 1)
	assert.Equal(t, []float64{325, 673}, res.Collection.Features[0].Geometry.Coordinates)
	assert.Equal(t, ExplicitXY, res.Plan.Strategy)
}

func TestPipeline_FeatureIDs(t *testing.T) {
	p := NewPipeline(mustConfig(t), WithIDs(), WithLogger(zerolog.Nop()))

	res, err := p.Run(context.Background(), "ids.csv", source.NewCSVReader(strings.NewReader("lat,lng\n1,2\nbad,3\n4,5\n")))
	require.NoError(t, err)

	require.Len(t, res.Collection.Features, 2)
	assert.Equal(t, FeatureID("ids.csv", 2), res.Collection.Features[0].ID)
	assert.Equal(t, FeatureID("ids.csv", 4), res.Collection.Features[1].ID)
}

func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(mustConfig(t), WithLogger(zerolog.Nop()))
	_, err := p.Run(ctx, "c.csv", source.NewCSVReader(strings.NewReader("lat,lng\n1,2\n")))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConvertFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Latitude,Longitude,Empty\nCastle,55.948,-3.199,\n"), 0o644))

	p := NewPipeline(mustConfig(t), WithLogger(zerolog.Nop()))
	res, err := p.ConvertFile(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, res.Collection.Features, 1)
	assert.Equal(t, map[string]interface{}{"Name": "Castle"}, res.Collection.Features[0].Properties)
	assert.Equal(t, []float64{-3.199, 55.948}, res.Collection.Features[0].Geometry.Coordinates)
}

func TestConvertFile_Unavailable(t *testing.T) {
	p := NewPipeline(mustConfig(t), WithLogger(zerolog.Nop()))
	res, err := p.ConvertFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))

	var srcErr *SourceUnavailableError
	require.ErrorAs(t, err, &srcErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, res)
}
