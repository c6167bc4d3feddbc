package service

import (
	"strings"
	"testing"

	"github.com/smallbiznis/demandcast/internal/upload/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFixture(t *testing.T, body string) *dataset {
	t.Helper()
	ds, err := parseCSV(strings.NewReader(body))
	require.NoError(t, err)
	return ds
}

func TestValidateDataset_ValidRows(t *testing.T) {
	ds := parseFixture(t, "sku,date,forecast_qty,unit_price,region\n"+
		"SKU-001,2026-01-15,100,9.99,North\n"+
		"sku_2,2026-02-29,1,0.01,West\n")

	errs, err := validateDataset(ds)
	assert.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateDataset_MissingColumns(t *testing.T) {
	ds := parseFixture(t, "sku,forecast_qty\nSKU-001,10\n")

	_, err := validateDataset(ds)
	var missing *domain.MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"date", "unit_price", "region"}, missing.Columns)
}

func TestValidateDataset_OneErrorPerBadCell(t *testing.T) {
	// Every cell in the row is invalid in a different way. Each cell must
	// contribute exactly one error.
	ds := parseFixture(t, "sku,date,forecast_qty,unit_price,region\n"+
		"bad sku!,15-01-2026,-5,0,Norte\n")

	errs, err := validateDataset(ds)
	require.NoError(t, err)
	require.Len(t, errs, 5)

	byColumn := make(map[string]domain.RowError, len(errs))
	for _, e := range errs {
		assert.Equal(t, 1, e.Row)
		byColumn[e.Column] = e
	}
	assert.Equal(t, "SKU must be alphanumeric with - or _ allowed", byColumn["sku"].Error)
	assert.Equal(t, "Date must be in YYYY-MM-DD format", byColumn["date"].Error)
	assert.Equal(t, "Forecast quantity must be a positive integer", byColumn["forecast_qty"].Error)
	assert.Equal(t, "Unit price must be a positive number", byColumn["unit_price"].Error)
	assert.Equal(t, "Region must be one of: North, South, East, West", byColumn["region"].Error)
}

func TestValidateDataset_EmptyCellOnlyReportsMissing(t *testing.T) {
	ds := parseFixture(t, "sku,date,forecast_qty,unit_price,region\n"+
		",2026-01-15,100,9.99,North\n")

	errs, err := validateDataset(ds)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "sku", errs[0].Column)
	assert.Equal(t, "", errs[0].Value)
	assert.Equal(t, "Missing value", errs[0].Error)
}

func TestValidateDataset_DateEdges(t *testing.T) {
	cases := []struct {
		date  string
		valid bool
	}{
		{"2024-02-29", true},  // leap day
		{"2026-02-29", false}, // not a leap year
		{"2026-13-01", false},
		{"2026-04-31", false},
		{"2026-1-5", false}, // zero padding required
		{"2026-01-15", true},
	}
	for _, tc := range cases {
		ds := parseFixture(t, "sku,date,forecast_qty,unit_price,region\n"+
			"SKU-1,"+tc.date+",10,1.50,East\n")
		errs, err := validateDataset(ds)
		require.NoError(t, err)
		if tc.valid {
			assert.Empty(t, errs, "date %s should be valid", tc.date)
		} else {
			require.Len(t, errs, 1, "date %s should be invalid", tc.date)
			assert.Equal(t, "date", errs[0].Column)
		}
	}
}

func TestValidateDataset_QuantityEdges(t *testing.T) {
	cases := []struct {
		qty   string
		valid bool
	}{
		{"1", true},
		{"500", true},
		{"0", false},
		{"-1", false},
		{"abc", false},
		{"0.4", false}, // truncates to zero
	}
	for _, tc := range cases {
		ds := parseFixture(t, "sku,date,forecast_qty,unit_price,region\n"+
			"SKU-1,2026-01-15,"+tc.qty+",1.50,East\n")
		errs, err := validateDataset(ds)
		require.NoError(t, err)
		if tc.valid {
			assert.Empty(t, errs, "qty %s should be valid", tc.qty)
		} else {
			require.Len(t, errs, 1, "qty %s should be invalid", tc.qty)
			assert.Equal(t, "forecast_qty", errs[0].Column)
		}
	}
}

func TestValidateDataset_RegionIsCaseSensitive(t *testing.T) {
	ds := parseFixture(t, "sku,date,forecast_qty,unit_price,region\n"+
		"SKU-1,2026-01-15,10,1.50,north\n")

	errs, err := validateDataset(ds)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "region", errs[0].Column)
	assert.Equal(t, "north", errs[0].Value)
}

func TestValidateDataset_RowNumbersExcludeHeader(t *testing.T) {
	ds := parseFixture(t, "sku,date,forecast_qty,unit_price,region\n"+
		"SKU-1,2026-01-15,10,1.50,East\n"+
		"SKU-2,not-a-date,10,1.50,East\n")

	errs, err := validateDataset(ds)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].Row)
}

func TestParseCSV_StripsByteOrderMark(t *testing.T) {
	ds, err := parseCSV(strings.NewReader("\xEF\xBB\xBFsku,date,forecast_qty,unit_price,region\n"))
	require.NoError(t, err)
	assert.Empty(t, ds.missingColumns())
}

func TestParseCSV_ExtraColumnsIgnored(t *testing.T) {
	ds := parseFixture(t, "sku,date,forecast_qty,unit_price,region,notes\n"+
		"SKU-1,2026-01-15,10,1.50,East,hello world\n")

	errs, err := validateDataset(ds)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestParseCSV_Malformed(t *testing.T) {
	_, err := parseCSV(strings.NewReader("sku,date\n\"unterminated,1\n"))
	assert.ErrorIs(t, err, domain.ErrMalformedCSV)
}
