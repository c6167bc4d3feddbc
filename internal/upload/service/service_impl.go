package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/demandcast/internal/config"
	forecastdomain "github.com/smallbiznis/demandcast/internal/forecast/domain"
	obsmetrics "github.com/smallbiznis/demandcast/internal/observability/metrics"
	"github.com/smallbiznis/demandcast/internal/upload/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Limits  *config.ForecastConfigHolder `optional:"true"`
	Metrics *obsmetrics.Metrics          `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	limits  *config.ForecastConfigHolder
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("upload.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		limits:  p.Limits,
		metrics: p.Metrics,
	}
}

// Upload validates and persists one forecast CSV. No database write happens
// before validation completes: a rejected upload commits only the failed
// batch record (with its error list), a valid one commits the batch and all
// of its rows in a single transaction.
func (s *Service) Upload(ctx context.Context, req domain.Request) (*domain.Result, error) {
	filename := strings.TrimSpace(req.Filename)
	if !strings.HasSuffix(filename, ".csv") {
		s.metrics.RecordUploadRejected(ctx, "file_type")
		return nil, domain.ErrInvalidFileType
	}

	limits := s.limits.Current()

	body, err := readLimited(req.Data, limits.MaxUploadBytes)
	if err != nil {
		s.metrics.RecordUploadRejected(ctx, "file_size")
		return nil, err
	}

	ds, err := parseCSV(bytes.NewReader(body))
	if err != nil {
		s.metrics.RecordUploadRejected(ctx, "malformed_csv")
		return nil, err
	}
	if len(ds.rows) > limits.MaxRows {
		s.metrics.RecordUploadRejected(ctx, "row_limit")
		return nil, domain.ErrTooManyRows
	}

	rowErrs, err := validateDataset(ds)
	if err != nil {
		s.metrics.RecordUploadRejected(ctx, "missing_columns")
		return nil, err
	}

	now := time.Now().UTC()

	if len(rowErrs) > 0 {
		if err := s.recordFailedUpload(ctx, filename, now, rowErrs); err != nil {
			return nil, err
		}
		s.metrics.RecordUploadRejected(ctx, "validation")
		s.log.Info("upload rejected",
			zap.String("filename", filename),
			zap.Int("error_count", len(rowErrs)),
		)
		return nil, &domain.ValidationFailedError{Errors: rowErrs}
	}

	batch := &domain.Upload{
		ID:         s.genID.Generate(),
		Filename:   filename,
		UploadTime: now,
		Status:     domain.UploadStatusProcessing,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	rows := s.convertRows(ds, batch.ID, now)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, batch); err != nil {
			return err
		}
		if err := s.repo.InsertForecasts(ctx, tx, rows); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, tx, batch.ID, domain.UploadStatusCompleted)
	})
	if err != nil {
		s.log.Error("upload persist failed",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordUploadCompleted(ctx, len(rows))
	s.log.Info("upload completed",
		zap.String("filename", filename),
		zap.String("upload_id", batch.ID.String()),
		zap.Int("records_processed", len(rows)),
	)

	return &domain.Result{
		UploadID:         batch.ID.String(),
		RecordsProcessed: len(rows),
	}, nil
}

func (s *Service) recordFailedUpload(ctx context.Context, filename string, now time.Time, rowErrs []domain.RowError) error {
	detail, err := json.Marshal(rowErrs)
	if err != nil {
		return err
	}
	batch := &domain.Upload{
		ID:          s.genID.Generate(),
		Filename:    filename,
		UploadTime:  now,
		Status:      domain.UploadStatusFailed,
		ErrorDetail: detail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, batch)
	})
}

// convertRows turns validated cells into forecast rows. Values parse the
// same way validation did: quantity truncated through float, price as float.
func (s *Service) convertRows(ds *dataset, uploadID snowflake.ID, now time.Time) []forecastdomain.Forecast {
	rows := make([]forecastdomain.Forecast, 0, len(ds.rows))
	for _, row := range ds.rows {
		date, _ := time.Parse(dateLayout, ds.value(row, "date"))
		qty, _ := strconv.ParseFloat(ds.value(row, "forecast_qty"), 64)
		price, _ := strconv.ParseFloat(ds.value(row, "unit_price"), 64)

		rows = append(rows, forecastdomain.Forecast{
			ID:          s.genID.Generate(),
			SKU:         ds.value(row, "sku"),
			Date:        date,
			ForecastQty: int64(qty),
			UnitPrice:   price,
			Region:      forecastdomain.Region(ds.value(row, "region")),
			UploadID:    uploadID,
			CreatedAt:   now,
		})
	}
	return rows
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if r == nil {
		return nil, domain.ErrMalformedCSV
	}
	body, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	return body, nil
}
