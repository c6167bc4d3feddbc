package domain

import (
	"context"
	"time"
)

// Service aggregates persisted forecast rows.
type Service interface {
	Summary(ctx context.Context, req SummaryRequest) ([]SummaryRow, error)
	Analytics(ctx context.Context, req AnalyticsRequest) (map[Region]RegionAnalytics, error)
}

// SummaryRequest filters the by-SKU-and-region summary. All fields optional.
type SummaryRequest struct {
	StartDate *time.Time
	EndDate   *time.Time
	SKU       string
	Region    string
	SortBy    string
	OrderBy   string
}

// SummaryRow is one (sku, region) aggregate.
type SummaryRow struct {
	SKU                string  `json:"sku"`
	Region             string  `json:"region"`
	TotalForecastQty   int64   `json:"total_forecast_qty"`
	TotalForecastValue float64 `json:"total_forecast_value"`
}

// AnalyticsRequest filters the per-region analytics. All fields optional.
type AnalyticsRequest struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// RegionAnalytics holds the per-region aggregates. TopSKUByValue is nil
// when the region has no matching rows.
type RegionAnalytics struct {
	TopSKUByValue  *string `json:"top_sku_by_value"`
	AvgForecastQty float64 `json:"avg_forecast_qty"`
	TotalSKUs      int64   `json:"total_skus"`
}

// DateFilter carries the optional date bounds shared by the aggregate queries.
type DateFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}
