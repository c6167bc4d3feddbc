package service

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/smallbiznis/demandcast/internal/upload/domain"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// dataset is a parsed CSV body: a header and the data rows beneath it.
// Columns beyond the required set are kept but ignored by validation.
type dataset struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

func parseCSV(r io.Reader) (*dataset, error) {
	br := bufio.NewReader(r)
	if peek, err := br.Peek(len(byteOrderMark)); err == nil && bytes.Equal(peek, byteOrderMark) {
		_, _ = br.Discard(len(byteOrderMark))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &dataset{index: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCSV, err)
	}

	ds := &dataset{
		columns: make([]string, 0, len(header)),
		index:   make(map[string]int, len(header)),
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		ds.columns = append(ds.columns, name)
		if _, exists := ds.index[name]; !exists {
			ds.index[name] = i
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCSV, err)
		}
		ds.rows = append(ds.rows, record)
	}

	return ds, nil
}

// value returns the trimmed cell under the named column, or empty when the
// column is absent or the row is short.
func (d *dataset) value(row []string, column string) string {
	idx, ok := d.index[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// missingColumns reports required columns absent from the header,
// in the canonical column order.
func (d *dataset) missingColumns() []string {
	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := d.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}
