package service

import (
	"context"
	"math"
	"strings"

	"github.com/smallbiznis/demandcast/internal/forecast/domain"
	obsmetrics "github.com/smallbiznis/demandcast/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("forecast.service"),
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Summary(ctx context.Context, req domain.SummaryRequest) ([]domain.SummaryRow, error) {
	filter := domain.SummaryRequest{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		SKU:       strings.TrimSpace(req.SKU),
		Region:    strings.TrimSpace(req.Region),
		SortBy:    strings.TrimSpace(req.SortBy),
		OrderBy:   strings.TrimSpace(req.OrderBy),
	}

	rows, err := s.repo.Summary(ctx, s.db, filter)
	if err != nil {
		s.log.Error("summary query failed", zap.Error(err))
		return nil, err
	}
	if rows == nil {
		rows = []domain.SummaryRow{}
	}

	s.metrics.RecordAggregateQuery(ctx, "summary")
	return rows, nil
}

func (s *Service) Analytics(ctx context.Context, req domain.AnalyticsRequest) (map[domain.Region]domain.RegionAnalytics, error) {
	filter := domain.DateFilter{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	result := make(map[domain.Region]domain.RegionAnalytics, len(domain.Regions()))
	for _, region := range domain.Regions() {
		stats, err := s.regionAnalytics(ctx, region, filter)
		if err != nil {
			s.log.Error("analytics query failed",
				zap.String("region", region.String()),
				zap.Error(err),
			)
			return nil, err
		}
		result[region] = stats
	}

	s.metrics.RecordAggregateQuery(ctx, "analytics")
	return result, nil
}

func (s *Service) regionAnalytics(ctx context.Context, region domain.Region, filter domain.DateFilter) (domain.RegionAnalytics, error) {
	topSKU, err := s.repo.TopSKUByValue(ctx, s.db, region, filter)
	if err != nil {
		return domain.RegionAnalytics{}, err
	}

	avgQty, err := s.repo.AvgForecastQty(ctx, s.db, region, filter)
	if err != nil {
		return domain.RegionAnalytics{}, err
	}

	totalSKUs, err := s.repo.DistinctSKUCount(ctx, s.db, region, filter)
	if err != nil {
		return domain.RegionAnalytics{}, err
	}

	return domain.RegionAnalytics{
		TopSKUByValue:  topSKU,
		AvgForecastQty: round2(avgQty),
		TotalSKUs:      totalSKUs,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
