package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/demandcast/internal/forecast/domain"
	"github.com/smallbiznis/demandcast/internal/forecast/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixtureRow struct {
	sku    string
	date   string
	qty    int64
	price  float64
	region domain.Region
}

func newAnalyticsService(t *testing.T, dsn string, rows []fixtureRow) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Forecast{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	for _, r := range rows {
		date, err := time.Parse("2006-01-02", r.date)
		require.NoError(t, err)
		require.NoError(t, db.Create(&domain.Forecast{
			ID:          node.Generate(),
			SKU:         r.sku,
			Date:        date,
			ForecastQty: r.qty,
			UnitPrice:   r.price,
			Region:      r.region,
			UploadID:    node.Generate(),
			CreatedAt:   time.Now().UTC(),
		}).Error)
	}

	return New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
}

func TestSummary_SurchargeBoundary(t *testing.T) {
	svc := newAnalyticsService(t, "file:summaryboundary?mode=memory&cache=shared", []fixtureRow{
		{"SKU-AT", "2026-01-15", 500, 10.0, domain.RegionNorth},  // at threshold, no surcharge
		{"SKU-OVER", "2026-01-15", 600, 10.0, domain.RegionNorth}, // over threshold
	})

	rows, err := svc.Summary(context.Background(), domain.SummaryRequest{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byKey := make(map[string]domain.SummaryRow, len(rows))
	for _, r := range rows {
		byKey[r.SKU] = r
	}
	assert.InDelta(t, 5000.0, byKey["SKU-AT"].TotalForecastValue, 1e-9)
	assert.InDelta(t, 6600.0, byKey["SKU-OVER"].TotalForecastValue, 1e-9)
	assert.EqualValues(t, 500, byKey["SKU-AT"].TotalForecastQty)
	assert.EqualValues(t, 600, byKey["SKU-OVER"].TotalForecastQty)
}

func TestSummary_GroupsBySKUAndRegion(t *testing.T) {
	svc := newAnalyticsService(t, "file:summarygroup?mode=memory&cache=shared", []fixtureRow{
		{"SKU-1", "2026-01-15", 10, 2.0, domain.RegionNorth},
		{"SKU-1", "2026-01-16", 20, 2.0, domain.RegionNorth},
		{"SKU-1", "2026-01-15", 30, 2.0, domain.RegionSouth},
	})

	rows, err := svc.Summary(context.Background(), domain.SummaryRequest{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byKey := make(map[string]domain.SummaryRow, len(rows))
	for _, r := range rows {
		byKey[r.SKU+"/"+r.Region] = r
	}
	assert.EqualValues(t, 30, byKey["SKU-1/North"].TotalForecastQty)
	assert.InDelta(t, 60.0, byKey["SKU-1/North"].TotalForecastValue, 1e-9)
	assert.EqualValues(t, 30, byKey["SKU-1/South"].TotalForecastQty)
}

func TestSummary_Filters(t *testing.T) {
	svc := newAnalyticsService(t, "file:summaryfilter?mode=memory&cache=shared", []fixtureRow{
		{"SKU-1", "2026-01-10", 10, 1.0, domain.RegionNorth},
		{"SKU-2", "2026-01-20", 20, 1.0, domain.RegionSouth},
		{"SKU-3", "2026-02-05", 30, 1.0, domain.RegionNorth},
	})

	start, _ := time.Parse("2006-01-02", "2026-01-15")
	end, _ := time.Parse("2006-01-02", "2026-01-31")

	rows, err := svc.Summary(context.Background(), domain.SummaryRequest{
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SKU-2", rows[0].SKU)

	rows, err = svc.Summary(context.Background(), domain.SummaryRequest{Region: "North"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.Summary(context.Background(), domain.SummaryRequest{SKU: "SKU-3"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "North", rows[0].Region)
}

func TestSummary_SortWhitelist(t *testing.T) {
	svc := newAnalyticsService(t, "file:summarysort?mode=memory&cache=shared", []fixtureRow{
		{"SKU-B", "2026-01-15", 10, 1.0, domain.RegionNorth},
		{"SKU-A", "2026-01-15", 20, 1.0, domain.RegionNorth},
	})

	rows, err := svc.Summary(context.Background(), domain.SummaryRequest{
		SortBy:  "total_forecast_qty",
		OrderBy: "desc",
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SKU-A", rows[0].SKU)

	// An unknown sort column is ignored rather than interpolated.
	rows, err = svc.Summary(context.Background(), domain.SummaryRequest{
		SortBy: "drop table",
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSummary_EmptyTableReturnsEmptySlice(t *testing.T) {
	svc := newAnalyticsService(t, "file:summaryempty?mode=memory&cache=shared", nil)

	rows, err := svc.Summary(context.Background(), domain.SummaryRequest{})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestAnalytics_AllRegionsPresent(t *testing.T) {
	svc := newAnalyticsService(t, "file:analyticsregions?mode=memory&cache=shared", []fixtureRow{
		{"SKU-1", "2026-01-15", 100, 5.0, domain.RegionNorth},
	})

	result, err := svc.Analytics(context.Background(), domain.AnalyticsRequest{})
	require.NoError(t, err)
	require.Len(t, result, 4)

	for _, region := range domain.Regions() {
		_, ok := result[region]
		assert.True(t, ok, "region %s missing from analytics", region)
	}

	// Empty regions report nil top SKU and zero aggregates.
	south := result[domain.RegionSouth]
	assert.Nil(t, south.TopSKUByValue)
	assert.Zero(t, south.AvgForecastQty)
	assert.Zero(t, south.TotalSKUs)

	north := result[domain.RegionNorth]
	require.NotNil(t, north.TopSKUByValue)
	assert.Equal(t, "SKU-1", *north.TopSKUByValue)
	assert.InDelta(t, 100.0, north.AvgForecastQty, 1e-9)
	assert.EqualValues(t, 1, north.TotalSKUs)
}

func TestAnalytics_TopSKUUsesSurchargedValue(t *testing.T) {
	// SKU-RAW has the larger raw value, SKU-SURCHARGED wins once the
	// surcharge applies to its 600-unit quantity.
	svc := newAnalyticsService(t, "file:analyticstop?mode=memory&cache=shared", []fixtureRow{
		{"SKU-RAW", "2026-01-15", 500, 12.5, domain.RegionEast},        // 6250
		{"SKU-SURCHARGED", "2026-01-15", 600, 10.0, domain.RegionEast}, // 6600
	})

	result, err := svc.Analytics(context.Background(), domain.AnalyticsRequest{})
	require.NoError(t, err)

	east := result[domain.RegionEast]
	require.NotNil(t, east.TopSKUByValue)
	assert.Equal(t, "SKU-SURCHARGED", *east.TopSKUByValue)
	assert.EqualValues(t, 2, east.TotalSKUs)
	assert.InDelta(t, 550.0, east.AvgForecastQty, 1e-9)
}

func TestAnalytics_TopSKUTieBreaksLexicographically(t *testing.T) {
	svc := newAnalyticsService(t, "file:analyticstie?mode=memory&cache=shared", []fixtureRow{
		{"SKU-B", "2026-01-15", 100, 5.0, domain.RegionWest},
		{"SKU-A", "2026-01-15", 100, 5.0, domain.RegionWest},
	})

	result, err := svc.Analytics(context.Background(), domain.AnalyticsRequest{})
	require.NoError(t, err)

	west := result[domain.RegionWest]
	require.NotNil(t, west.TopSKUByValue)
	assert.Equal(t, "SKU-A", *west.TopSKUByValue)
}

func TestAnalytics_AvgQtyRoundedToTwoDecimals(t *testing.T) {
	svc := newAnalyticsService(t, "file:analyticsround?mode=memory&cache=shared", []fixtureRow{
		{"SKU-1", "2026-01-15", 10, 1.0, domain.RegionNorth},
		{"SKU-2", "2026-01-15", 10, 1.0, domain.RegionNorth},
		{"SKU-3", "2026-01-15", 11, 1.0, domain.RegionNorth},
	})

	result, err := svc.Analytics(context.Background(), domain.AnalyticsRequest{})
	require.NoError(t, err)

	// 31/3 = 10.333... rounds to 10.33
	assert.InDelta(t, 10.33, result[domain.RegionNorth].AvgForecastQty, 1e-9)
}

func TestAnalytics_DateFilterApplies(t *testing.T) {
	svc := newAnalyticsService(t, "file:analyticsdates?mode=memory&cache=shared", []fixtureRow{
		{"SKU-OLD", "2025-12-01", 100, 5.0, domain.RegionNorth},
		{"SKU-NEW", "2026-01-15", 50, 5.0, domain.RegionNorth},
	})

	start, _ := time.Parse("2006-01-02", "2026-01-01")

	result, err := svc.Analytics(context.Background(), domain.AnalyticsRequest{StartDate: &start})
	require.NoError(t, err)

	north := result[domain.RegionNorth]
	require.NotNil(t, north.TopSKUByValue)
	assert.Equal(t, "SKU-NEW", *north.TopSKUByValue)
	assert.EqualValues(t, 1, north.TotalSKUs)
	assert.InDelta(t, 50.0, north.AvgForecastQty, 1e-9)
}
