package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	forecastdomain "github.com/smallbiznis/demandcast/internal/forecast/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, upload *Upload) error
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status UploadStatus) error
	InsertForecasts(ctx context.Context, db *gorm.DB, rows []forecastdomain.Forecast) error
}
