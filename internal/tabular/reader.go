// Package tabular reads bounded slices of comma-separated dataset files.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultLimit is the number of data rows read from each file when no limit is configured.
const DefaultLimit = 1000

// Row maps a header name to the raw field value.
type Row map[string]string

// Table is the parsed header and the admitted rows of one file.
type Table struct {
	Header []string
	Rows   []Row
}

// Len returns the number of admitted rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ReadLimited reads the header and at most limit data records from path.
// Records whose field count differs from the header are dropped but still
// count toward the limit. A missing file yields an empty table.
func ReadLimited(path string, limit int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Read(f, limit)
}

// Read parses delimited text from r. See ReadLimited.
func Read(r io.Reader, limit int) (*Table, error) {
	cr := newReader(r)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = trimFields(header)
	// A UTF-8 BOM sticks to the first column name.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{Header: header}
	for seen := 0; seen < limit; seen++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("read record: %w", err)
		}
		if len(record) != len(header) {
			continue
		}

		row := make(Row, len(header))
		for i, name := range header {
			row[name] = strings.TrimSpace(record[i])
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

func trimFields(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}
