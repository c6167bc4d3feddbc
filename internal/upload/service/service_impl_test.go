package service

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	forecastdomain "github.com/smallbiznis/demandcast/internal/forecast/domain"
	"github.com/smallbiznis/demandcast/internal/upload/domain"
	"github.com/smallbiznis/demandcast/internal/upload/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, dsn string) (domain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&domain.Upload{}, &forecastdomain.Forecast{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestUpload_ValidFile(t *testing.T) {
	svc, db := newTestService(t, "file:uploadvalid?mode=memory&cache=shared")

	body := "sku,date,forecast_qty,unit_price,region\n" +
		"SKU-001,2026-01-15,100,9.99,North\n" +
		"SKU-002,2026-01-16,600,10.00,South\n"

	result, err := svc.Upload(context.Background(), domain.Request{
		Filename: "forecast.csv",
		Data:     strings.NewReader(body),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.RecordsProcessed)
	assert.NotEmpty(t, result.UploadID)

	var batch domain.Upload
	require.NoError(t, db.First(&batch, "id = ?", result.UploadID).Error)
	assert.Equal(t, domain.UploadStatusCompleted, batch.Status)
	assert.Equal(t, "forecast.csv", batch.Filename)

	var count int64
	require.NoError(t, db.Model(&forecastdomain.Forecast{}).
		Where("upload_id = ?", result.UploadID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestUpload_RejectsNonCSVFilename(t *testing.T) {
	svc, db := newTestService(t, "file:uploadext?mode=memory&cache=shared")

	_, err := svc.Upload(context.Background(), domain.Request{
		Filename: "forecast.xlsx",
		Data:     strings.NewReader("sku,date,forecast_qty,unit_price,region\n"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFileType)

	// Nothing touched the database.
	var count int64
	require.NoError(t, db.Model(&domain.Upload{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpload_ValidationFailurePersistsNoRows(t *testing.T) {
	svc, db := newTestService(t, "file:uploadinvalid?mode=memory&cache=shared")

	body := "sku,date,forecast_qty,unit_price,region\n" +
		"SKU-001,2026-01-15,100,9.99,North\n" +
		"SKU-002,bad-date,100,9.99,North\n"

	_, err := svc.Upload(context.Background(), domain.Request{
		Filename: "forecast.csv",
		Data:     strings.NewReader(body),
	})

	var validationErr *domain.ValidationFailedError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, 2, validationErr.Errors[0].Row)

	// A single bad row rejects the whole file: no forecast rows land, the
	// batch is recorded as failed with the error list attached.
	var rowCount int64
	require.NoError(t, db.Model(&forecastdomain.Forecast{}).Count(&rowCount).Error)
	assert.EqualValues(t, 0, rowCount)

	var batch domain.Upload
	require.NoError(t, db.First(&batch).Error)
	assert.Equal(t, domain.UploadStatusFailed, batch.Status)
	assert.Contains(t, string(batch.ErrorDetail), "bad-date")
}

func TestUpload_MissingColumnsCreatesNoBatch(t *testing.T) {
	svc, db := newTestService(t, "file:uploadmissing?mode=memory&cache=shared")

	_, err := svc.Upload(context.Background(), domain.Request{
		Filename: "forecast.csv",
		Data:     strings.NewReader("sku,qty\nSKU-001,10\n"),
	})

	var missing *domain.MissingColumnsError
	require.ErrorAs(t, err, &missing)

	var count int64
	require.NoError(t, db.Model(&domain.Upload{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpload_EmptyFileCompletesWithZeroRecords(t *testing.T) {
	svc, _ := newTestService(t, "file:uploadempty?mode=memory&cache=shared")

	result, err := svc.Upload(context.Background(), domain.Request{
		Filename: "empty.csv",
		Data:     strings.NewReader("sku,date,forecast_qty,unit_price,region\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.RecordsProcessed)
}

func TestUpload_QuantityTruncatesThroughFloat(t *testing.T) {
	svc, db := newTestService(t, "file:uploadtrunc?mode=memory&cache=shared")

	body := "sku,date,forecast_qty,unit_price,region\n" +
		"SKU-001,2026-01-15,100.9,9.99,North\n"

	result, err := svc.Upload(context.Background(), domain.Request{
		Filename: "forecast.csv",
		Data:     strings.NewReader(body),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsProcessed)

	var row forecastdomain.Forecast
	require.NoError(t, db.First(&row).Error)
	assert.EqualValues(t, 100, row.ForecastQty)
}
