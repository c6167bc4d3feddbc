package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	forecastdomain "github.com/smallbiznis/demandcast/internal/forecast/domain"
	"github.com/smallbiznis/demandcast/internal/upload/domain"
)

const dateLayout = "2006-01-02"

var skuPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const (
	errMissingValue = "Missing value"
	errInvalidSKU   = "SKU must be alphanumeric with - or _ allowed"
	errInvalidDate  = "Date must be in YYYY-MM-DD format"
	errInvalidQty   = "Forecast quantity must be a positive integer"
	errInvalidPrice = "Unit price must be a positive number"
)

func regionErrorMessage() string {
	names := make([]string, 0, len(forecastdomain.Regions()))
	for _, region := range forecastdomain.Regions() {
		names = append(names, region.String())
	}
	return "Region must be one of: " + strings.Join(names, ", ")
}

// validateDataset checks the parsed CSV against the upload contract.
// A missing required column fails the whole dataset immediately; otherwise
// every row is inspected independently and field errors accumulate.
// The dataset is never mutated.
func validateDataset(ds *dataset) ([]domain.RowError, error) {
	if missing := ds.missingColumns(); len(missing) > 0 {
		return nil, &domain.MissingColumnsError{Columns: missing}
	}

	var errs []domain.RowError
	for i, row := range ds.rows {
		errs = append(errs, validateRow(ds, row, i+1)...)
	}
	return errs, nil
}

// validateRow runs every field check on one row. An empty cell yields only
// the missing-value error for that cell; format checks run on non-empty
// cells, so a bad value produces exactly one error per cell.
func validateRow(ds *dataset, row []string, rowNumber int) []domain.RowError {
	var errs []domain.RowError
	add := func(column, value, message string) {
		errs = append(errs, domain.RowError{
			Row:    rowNumber,
			Column: column,
			Value:  value,
			Error:  message,
		})
	}

	for _, col := range domain.RequiredColumns {
		if ds.value(row, col) == "" {
			add(col, "", errMissingValue)
		}
	}

	if v := ds.value(row, "sku"); v != "" && !skuPattern.MatchString(v) {
		add("sku", v, errInvalidSKU)
	}

	if v := ds.value(row, "date"); v != "" {
		if _, err := time.Parse(dateLayout, v); err != nil {
			add("date", v, errInvalidDate)
		}
	}

	if v := ds.value(row, "forecast_qty"); v != "" {
		qty, err := strconv.ParseFloat(v, 64)
		if err != nil || int64(qty) <= 0 {
			add("forecast_qty", v, errInvalidQty)
		}
	}

	if v := ds.value(row, "unit_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price <= 0 {
			add("unit_price", v, errInvalidPrice)
		}
	}

	if v := ds.value(row, "region"); v != "" && !forecastdomain.Region(v).Valid() {
		add("region", v, regionErrorMessage())
	}

	return errs
}
