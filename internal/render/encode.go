// Package render writes converted feature collections: GeoJSON/YAML documents,
// a WebP preview plot and a standalone HTML viewer.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/csv2geojson/internal/geo"
)

// Format is the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Encode writes fc in the given format followed by a newline.
func Encode(w io.Writer, fc geo.GeoJSONFeatureCollection, format Format, indent bool) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(fc)
	case FormatJSON, "":
		if indent {
			data, err = json.MarshalIndent(fc, "", "  ")
		} else {
			data, err = json.Marshal(fc)
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("marshal %s: %w", format, err)
	}

	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}

	_, err = w.Write(data)
	return err
}

var fs = afs.New()

// Save writes data to a local path or an afs URL, creating parent directories.
func Save(ctx context.Context, location string, data []byte) error {
	url := location
	if !strings.Contains(location, "://") {
		abs, err := filepath.Abs(location)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			return err
		}
		url = abs
	}

	if err := fs.Upload(ctx, url, 0644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", location, err)
	}

	return nil
}
