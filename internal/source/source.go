// Package source reads tabular point records row by row from CSV or XLSX files.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
)

// Reader yields rows one at a time. Read returns io.EOF after the last row.
type Reader interface {
	Read() ([]string, error)
	Close() error
}

// Format is the tabular container of a source.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the format from the file extension; anything that is not a workbook is CSV.
func DetectFormat(location string) Format {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

var fs = afs.New()

// Open opens a local path or any afs URL (file://, mem://, s3://...) and
// returns a row reader for its detected format. The caller must Close it.
func Open(ctx context.Context, location string) (Reader, error) {
	url, err := resolve(location)
	if err != nil {
		return nil, err
	}

	ok, err := fs.Exists(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", location, err)
	}
	if !ok {
		return nil, fmt.Errorf("open %s: %w", location, os.ErrNotExist)
	}

	rc, err := fs.OpenURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", location, err)
	}

	if DetectFormat(location) == FormatXLSX {
		// the workbook is read fully into memory by excelize
		defer func() { _ = rc.Close() }()
		return NewXLSXReader(rc)
	}

	return newCSVReader(rc, rc), nil
}

// resolve turns plain paths into absolute file locations afs understands.
func resolve(location string) (string, error) {
	if location == "" {
		return "", fmt.Errorf("open: empty location: %w", os.ErrNotExist)
	}
	if strings.Contains(location, "://") {
		return location, nil
	}

	abs, err := filepath.Abs(location)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", location, err)
	}

	return abs, nil
}

// ReadAll drains r. It is meant for small inputs and tests.
func ReadAll(r Reader) ([][]string, error) {
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}
