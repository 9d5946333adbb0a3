package source

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

type csvReader struct {
	r      *csv.Reader
	closer io.Closer
	first  bool
}

// NewCSVReader reads comma separated rows from r. Rows may differ in length;
// shape checks are left to the caller. Close does not close r.
func NewCSVReader(r io.Reader) Reader {
	return newCSVReader(r, nil)
}

func newCSVReader(r io.Reader, closer io.Closer) *csvReader {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	return &csvReader{r: cr, closer: closer, first: true}
}

// Read returns the next row. A *csv.ParseError affects only the current record
// and the following Read continues with the next one.
func (c *csvReader) Read() ([]string, error) {
	row, err := c.r.Read()
	if err != nil {
		return nil, err
	}

	if c.first {
		c.first = false
		if len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], utf8BOM)
		}
	}

	return row, nil
}

func (c *csvReader) Close() error {
	if c.closer == nil {
		return nil
	}

	return c.closer.Close()
}
