package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Summary(ctx context.Context, db *gorm.DB, req SummaryRequest) ([]SummaryRow, error)
	TopSKUByValue(ctx context.Context, db *gorm.DB, region Region, filter DateFilter) (*string, error)
	AvgForecastQty(ctx context.Context, db *gorm.DB, region Region, filter DateFilter) (float64, error)
	DistinctSKUCount(ctx context.Context, db *gorm.DB, region Region, filter DateFilter) (int64, error)
}
