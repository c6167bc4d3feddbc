package domain

import (
	"context"
	"errors"
	"io"
	"strings"
)

// RequiredColumns are the CSV columns every forecast upload must carry.
// Extra columns are ignored.
var RequiredColumns = []string{"sku", "date", "forecast_qty", "unit_price", "region"}

// Service ingests forecast CSV uploads.
type Service interface {
	Upload(ctx context.Context, req Request) (*Result, error)
}

// Request is one CSV upload.
type Request struct {
	Filename string
	Data     io.Reader
}

// Result reports a successfully ingested batch.
type Result struct {
	UploadID         string `json:"upload_id"`
	RecordsProcessed int    `json:"records_processed"`
}

// RowError describes one field-level validation failure. Row numbers are
// 1-indexed and exclude the header row.
type RowError struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Error  string `json:"error"`
}

// ValidationFailedError carries the accumulated row errors for a rejected upload.
type ValidationFailedError struct {
	Errors []RowError
}

func (e *ValidationFailedError) Error() string { return "validation failed" }

// MissingColumnsError is returned when required CSV columns are absent.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

var (
	ErrInvalidFileType = errors.New("invalid_file_type")
	ErrMalformedCSV    = errors.New("malformed_csv")
	ErrFileTooLarge    = errors.New("file_too_large")
	ErrTooManyRows     = errors.New("too_many_rows")
)
