package server

import (
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/csv2geojson/internal/config"
	"github.com/woozymasta/csv2geojson/internal/geo"
)

// DefaultMaxBody limits uploaded documents to 32 MiB.
const DefaultMaxBody = 32 << 20

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	// Config is the base configuration; query parameters override it per request.
	Config  config.Config
	Geodesy geo.Geodesy
	MaxBody int64
}

// NewServerContext initializes the context with the base configuration.
func NewServerContext(cfg config.Config, maxBody int64) *ServerContext {
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}

	log.Info().
		Str("crs", string(cfg.CRS)).
		Str("field", cfg.Field).
		Str("field_x", cfg.FieldX).
		Str("field_y", cfg.FieldY).
		Int64("max_body", maxBody).
		Msg("Server context initialized")

	return &ServerContext{
		Config:  cfg,
		Geodesy: geo.OSGrid{},
		MaxBody: maxBody,
	}
}
