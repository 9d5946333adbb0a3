// Package processor converts tabular point records into a GeoJSON FeatureCollection.
//
// A run reads the header once, resolves a Plan from it, extracts a Record from
// every following row and assembles the records in order. Header problems stop
// the run; problems with a single row only drop that row.
package processor

import (
	"context"
	"encoding/csv"
	"errors"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/csv2geojson/internal/config"
	"github.com/woozymasta/csv2geojson/internal/geo"
	"github.com/woozymasta/csv2geojson/internal/source"
)

type stage int

const (
	stageStart stage = iota
	stageReadingHeader
	stageReadingRows
	stageDone
)

func (s stage) String() string {
	switch s {
	case stageStart:
		return "start"
	case stageReadingHeader:
		return "reading-header"
	case stageReadingRows:
		return "reading-rows"
	default:
		return "done"
	}
}

// Result is the outcome of a successful run.
type Result struct {
	Collection geo.GeoJSONFeatureCollection
	Plan       *Plan
	// Rows is the number of data rows read, skipped ones included.
	Rows int
	// Skipped lists the rows left out of the collection and why.
	Skipped []*RowError
}

// Pipeline converts one source at a time. It holds no per-run state and can be
// shared between goroutines.
type Pipeline struct {
	cfg        config.Config
	router     Router
	logger     *zerolog.Logger
	featureIDs bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithGeodesy replaces the National Grid implementation used for crs=osgrid.
func WithGeodesy(g geo.Geodesy) Option {
	return func(p *Pipeline) { p.router = NewRouter(p.cfg.CRS, g) }
}

// WithLogger sends row warnings to l instead of the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = &l }
}

// WithIDs gives every feature a stable UUID, see WithFeatureIDs.
func WithIDs() Option {
	return func(p *Pipeline) { p.featureIDs = true }
}

// NewPipeline creates a pipeline for cfg.
func NewPipeline(cfg config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		router: NewRouter(cfg.CRS, nil),
		logger: &log.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() config.Config {
	return p.cfg
}

// ConvertFile opens location, runs the conversion and closes the source on every path.
func (p *Pipeline) ConvertFile(ctx context.Context, location string) (*Result, error) {
	p.logger.Debug().Str("source", location).Stringer("stage", stageStart).Msg("Opening source")

	r, err := source.Open(ctx, location)
	if err != nil {
		return nil, &SourceUnavailableError{Location: location, Err: err}
	}

	defer func() {
		if closeErr := r.Close(); closeErr != nil {
			p.logger.Error().Err(closeErr).Str("source", location).Msg("Failed to close source")
		}
	}()

	return p.Run(ctx, location, r)
}

// Run converts all rows of r. name identifies the source in logs and feature ids.
// It does not close r.
func (p *Pipeline) Run(ctx context.Context, name string, r source.Reader) (*Result, error) {
	logger := p.logger.With().Str("source", name).Logger()

	// header
	logger.Debug().Stringer("stage", stageReadingHeader).Msg("Reading header")

	header, err := r.Read()
	if err == io.EOF {
		return nil, &FieldResolutionError{Reason: ReasonMissingHeader}
	}

	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return nil, &FieldResolutionError{Reason: ReasonBadHeader, Err: err}
	}
	if err != nil {
		return nil, &SourceUnavailableError{Location: name, Err: err}
	}

	plan, err := Classify(header, p.cfg, p.router)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Stringer("strategy", plan.Strategy).
		Ints("columns", plan.Columns).
		Str("crs", string(p.cfg.CRS)).
		Msg("Coordinate columns resolved")

	// rows
	logger.Debug().Stringer("stage", stageReadingRows).Msg("Reading rows")

	res := &Result{Plan: plan}
	var records []Record

	for rowNum := 2; ; rowNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := r.Read()
		if err == io.EOF {
			break
		}

		if err != nil && !errors.As(err, &parseErr) {
			return nil, &SourceUnavailableError{Location: name, Err: err}
		}

		res.Rows++

		var rec Record
		if err != nil {
			err = &RowShapeError{Err: err}
		} else {
			rec, err = Extract(row, plan)
		}

		if err != nil {
			rowErr := &RowError{Row: rowNum, Err: err}
			res.Skipped = append(res.Skipped, rowErr)
			logger.Warn().Int("row", rowNum).Err(err).Msg("Skipping row")
			continue
		}

		rec.Row = rowNum
		records = append(records, rec)
	}

	var opts []AssembleOption
	if p.featureIDs {
		opts = append(opts, WithFeatureIDs(name))
	}
	res.Collection = Assemble(records, opts...)

	logger.Debug().
		Stringer("stage", stageDone).
		Int("rows", res.Rows).
		Int("features", len(res.Collection.Features)).
		Int("skipped", len(res.Skipped)).
		Msg("Conversion finished")

	return res, nil
}
