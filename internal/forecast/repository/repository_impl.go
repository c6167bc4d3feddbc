package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/demandcast/internal/forecast/domain"
	"github.com/smallbiznis/demandcast/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// surchargeValueExpr is the surcharge-adjusted row value used by every
// aggregate. Built from the shared constants so SQL and Go agree.
var surchargeValueExpr = fmt.Sprintf(
	"CASE WHEN forecast_qty > %d THEN forecast_qty * unit_price * %g ELSE forecast_qty * unit_price END",
	domain.SurchargeThresholdQty,
	domain.SurchargeRate,
)

func (r *repo) Summary(ctx context.Context, db *gorm.DB, req domain.SummaryRequest) ([]domain.SummaryRow, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Forecast{}).
		Select("sku, region, SUM(forecast_qty) AS total_forecast_qty, SUM(" + surchargeValueExpr + ") AS total_forecast_value")

	if req.StartDate != nil {
		stmt = stmt.Where("date >= ?", *req.StartDate)
	}
	if req.EndDate != nil {
		stmt = stmt.Where("date <= ?", *req.EndDate)
	}
	if sku := strings.TrimSpace(req.SKU); sku != "" {
		stmt = stmt.Where("sku = ?", sku)
	}
	if region := strings.TrimSpace(req.Region); region != "" {
		stmt = stmt.Where("region = ?", region)
	}

	stmt = stmt.Group("sku, region")

	stmt = option.WithSortBy(option.WithQuerySortBy(req.SortBy, req.OrderBy, map[string]bool{
		"sku":                  true,
		"region":               true,
		"total_forecast_qty":   true,
		"total_forecast_value": true,
	})).Apply(stmt)

	var rows []domain.SummaryRow
	if err := stmt.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) TopSKUByValue(ctx context.Context, db *gorm.DB, region domain.Region, filter domain.DateFilter) (*string, error) {
	type topRow struct {
		SKU        string
		TotalValue float64
	}

	var rows []topRow
	stmt := regionStmt(ctx, db, region, filter).
		Select("sku, SUM(" + surchargeValueExpr + ") AS total_value").
		Group("sku").
		Order("total_value DESC, sku ASC").
		Limit(1)
	if err := stmt.Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	sku := rows[0].SKU
	return &sku, nil
}

func (r *repo) AvgForecastQty(ctx context.Context, db *gorm.DB, region domain.Region, filter domain.DateFilter) (float64, error) {
	var avg *float64
	stmt := regionStmt(ctx, db, region, filter).Select("AVG(forecast_qty)")
	if err := stmt.Scan(&avg).Error; err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *repo) DistinctSKUCount(ctx context.Context, db *gorm.DB, region domain.Region, filter domain.DateFilter) (int64, error) {
	var count int64
	stmt := regionStmt(ctx, db, region, filter).Select("COUNT(DISTINCT sku)")
	if err := stmt.Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func regionStmt(ctx context.Context, db *gorm.DB, region domain.Region, filter domain.DateFilter) *gorm.DB {
	stmt := db.WithContext(ctx).
		Model(&domain.Forecast{}).
		Where("region = ?", region)
	if filter.StartDate != nil {
		stmt = stmt.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		stmt = stmt.Where("date <= ?", *filter.EndDate)
	}
	return stmt
}
