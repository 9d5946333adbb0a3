package source

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct {
	file  *excelize.File
	rows  *excelize.Rows
	width int
}

// NewXLSXReader reads rows from the first sheet of a workbook.
//
// Workbooks drop trailing empty cells, so data rows shorter than the header
// are padded to the header width. Rows wider than the header are returned as is.
func NewXLSXReader(r io.Reader) (Reader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheet := f.GetSheetName(0)
	if sheet == "" {
		_ = f.Close()
		return nil, fmt.Errorf("open workbook: no sheets")
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	return &xlsxReader{file: f, rows: rows, width: -1}, nil
}

func (x *xlsxReader) Read() ([]string, error) {
	for x.rows.Next() {
		row, err := x.rows.Columns()
		if err != nil {
			return nil, err
		}

		// blank spreadsheet lines are skipped like blank CSV lines
		if len(row) == 0 {
			continue
		}

		if x.width < 0 {
			x.width = len(row)
			return row, nil
		}

		for len(row) < x.width {
			row = append(row, "")
		}

		return row, nil
	}

	if err := x.rows.Error(); err != nil {
		return nil, err
	}

	return nil, io.EOF
}

func (x *xlsxReader) Close() error {
	rowsErr := x.rows.Close()
	if err := x.file.Close(); err != nil {
		return err
	}

	return rowsErr
}
