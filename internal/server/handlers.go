// Package server exposes the conversion pipeline over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/csv2geojson/internal/config"
	"github.com/woozymasta/csv2geojson/internal/processor"
	"github.com/woozymasta/csv2geojson/internal/render"
	"github.com/woozymasta/csv2geojson/internal/source"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// configKeys are the query parameters that override the base configuration.
var configKeys = []string{config.KeyCRS, config.KeyField, config.KeyFieldX, config.KeyFieldY}

// HandleHealth answers liveness probes.
func (s *ServerContext) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// HandleConvert converts the request body (CSV, or XLSX by content type) and
// writes the result. Query parameters: crs, field, field_x, field_y,
// output=json|yaml|webp|html, ids=1.
func (s *ServerContext) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, errors.New("use POST"))
		return
	}

	query := r.URL.Query()
	overrides := make(map[string]string)
	for _, key := range configKeys {
		if query.Has(key) {
			overrides[key] = query.Get(key)
		}
	}

	cfg, err := s.Config.Merge(overrides)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := []processor.Option{processor.WithGeodesy(s.Geodesy)}
	if ids, _ := strconv.ParseBool(query.Get("ids")); ids {
		opts = append(opts, processor.WithIDs())
	}

	body := http.MaxBytesReader(w, r.Body, s.MaxBody)
	defer func() { _ = body.Close() }()

	var rows source.Reader
	if strings.HasPrefix(r.Header.Get("Content-Type"), contentTypeXLSX) {
		rows, err = source.NewXLSXReader(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		defer func() { _ = rows.Close() }()
	} else {
		rows = source.NewCSVReader(body)
	}

	res, err := processor.NewPipeline(cfg, opts...).Run(r.Context(), "request", rows)
	if err != nil {
		var fieldErr *processor.FieldResolutionError
		if errors.As(err, &fieldErr) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("X-Skipped-Rows", strconv.Itoa(len(res.Skipped)))

	switch query.Get("output") {
	case "", "json":
		w.Header().Set("Content-Type", "application/geo+json")
		err = render.Encode(w, res.Collection, render.FormatJSON, false)
	case "yaml":
		w.Header().Set("Content-Type", "application/yaml")
		err = render.Encode(w, res.Collection, render.FormatYAML, false)
	case "webp":
		w.Header().Set("Content-Type", "image/webp")
		err = render.Preview(w, res.Collection, render.DefaultPreviewOptions())
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = render.Viewer(w, "csv2geojson", res.Collection)
	default:
		writeError(w, http.StatusBadRequest, errors.New("unknown output "+strconv.Quote(query.Get("output"))))
		return
	}

	// headers are already sent, nothing left but to log
	if err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
